package cache

// ResizeKeyOpts are the inputs besides the scene that change a resize result.
type ResizeKeyOpts struct {
	Width float64 `json:"width"`
	Gap   float64 `json:"gap"`
}

// RenderKeyOpts are the inputs besides the layout that change a rendering.
type RenderKeyOpts struct {
	Format string  `json:"format"`
	Rows   bool    `json:"rows"`
	Labels bool    `json:"labels"`
	Scale  float64 `json:"scale"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ResizeKey identifies the resized scene for a scene hash and options.
	ResizeKey(sceneHash string, opts ResizeKeyOpts) string

	// RenderKey identifies a rendered artifact of an already resized scene.
	RenderKey(sceneHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes the scene hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ResizeKey(sceneHash string, opts ResizeKeyOpts) string {
	return hashKey("resize", sceneHash, opts)
}

func (DefaultKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return hashKey("render", sceneHash, opts)
}
