package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// frontends (the CLI and the HTTP server, say) can share one backend without
// reading each other's entries.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "http:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; nil means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ResizeKey(sceneHash string, opts ResizeKeyOpts) string {
	return k.prefix + k.inner.ResizeKey(sceneHash, opts)
}

func (k *ScopedKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(sceneHash, opts)
}
