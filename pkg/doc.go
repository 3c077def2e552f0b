// Package pkg provides the core libraries for paneflow pane reflow.
//
// # Overview
//
// Paneflow recomputes the horizontal geometry of a tiled pane layout when
// its container changes width. Panes are grouped into rows by their vertical
// extents, each row becomes a set of linear constraints, and a Cassowary
// solver finds the new positions and widths.
//
// # Architecture
//
//	Scene file (JSON or TOML)
//	         ↓
//	    [scene] package (load, validate)
//	         ↓
//	    [layout] package (rows → constraints → solve → apply)
//	         ↓
//	    [render] package (SVG, PNG, DOT, JSON)
//
// [pipeline] runs the two stages behind a [cache], and is shared by the CLI
// and the HTTP server.
//
// # Quick Start
//
//	import "github.com/matzehuels/paneflow/pkg/layout"
//
//	panes := []layout.Pane{
//	    {ID: 1, Width: 300, Height: 610, Flex: true},
//	    {ID: 2, X: 310, Width: 610, Height: 300},
//	}
//	resized, err := layout.Resize(panes, 1220, layout.Options{})
//
// # Main Packages
//
// [solver] - Incremental simplex solver for linear equalities and
// inequalities with Required, Strong, Medium and Weak strengths.
//
// [layout] - Row detection, constraint building and the Resize entry point.
//
// [scene] - A container width, gap and panes, with JSON and TOML codecs and
// the built-in demo scene.
//
// [render] - Previews of a scene. Flexible panes are green, fixed panes red.
//
// [cache] - File and Redis result caches with content-addressed keys.
//
// [pipeline] - Cached resize and render stages.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by every layer.
//
// [buildinfo] - Version information injected at build time.
package pkg
