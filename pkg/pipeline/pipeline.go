// Package pipeline runs resize and render with caching.
//
// The CLI and the HTTP server both go through a [Runner] so that caching,
// logging and hooks behave the same everywhere.
//
// # Stages
//
//  1. Resize: solve the scene for the target width ([layout.Solve]) and
//     apply the result
//  2. Render: draw the resized scene in each requested format
//
// Each stage is cached independently. The resize key covers the input
// scene, width and gap; the render key covers the resized scene and the
// render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, s, pipeline.Options{
//	    Width:   1220,
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/paneflow/pkg/cache"
	perrors "github.com/matzehuels/paneflow/pkg/errors"
	"github.com/matzehuels/paneflow/pkg/render"
	"github.com/matzehuels/paneflow/pkg/scene"
)

// Cache lifetimes per stage.
const (
	TTLResize = cache.DefaultTTL
	TTLRender = 7 * cache.DefaultTTL
)

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It is also the JSON body accepted by
// the HTTP API next to the scene.
type Options struct {
	// Width is the target container width. Zero keeps the scene's width.
	Width float64 `json:"width,omitempty"`

	// Formats lists render formats. Empty skips rendering.
	Formats []string `json:"formats,omitempty"`
	Rows    bool     `json:"rows,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Refresh ignores cached results (they are still written).
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Validate checks the options and fills in the logger.
func (o *Options) Validate() error {
	if o.Width != 0 {
		if err := perrors.ValidateWidth(o.Width); err != nil {
			return err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "scale must not be negative, got %g", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// TargetWidth returns the width to solve for.
func (o *Options) TargetWidth(s *scene.Scene) float64 {
	if o.Width == 0 {
		return s.Width
	}
	return o.Width
}

// RenderOptions returns the renderer options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{Rows: o.Rows, Labels: o.Labels, Scale: o.Scale}
}

// ResizeKeyOpts returns cache key options for the resize stage.
func (o *Options) ResizeKeyOpts(s *scene.Scene) cache.ResizeKeyOpts {
	return cache.ResizeKeyOpts{Width: o.TargetWidth(s), Gap: s.EffectiveGap()}
}

// RenderKeyOpts returns cache key options for one rendered format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: format, Rows: o.Rows, Labels: o.Labels, Scale: o.Scale}
}

// ValidateFormats checks every format name.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result is the output of Execute.
type Result struct {
	// Scene is the resized scene.
	Scene *scene.Scene

	// SceneHash is the content hash of the resized scene.
	SceneHash string

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and timings of a run.
type Stats struct {
	PaneCount   int
	RowCount    int
	Constraints int // zero when the resize came from the cache
	ResizeTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	ResizeHit bool
	RenderHit bool
}
