package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/paneflow/pkg/cache"
	"github.com/matzehuels/paneflow/pkg/layout"
	"github.com/matzehuels/paneflow/pkg/observability"
	"github.com/matzehuels/paneflow/pkg/render"
	"github.com/matzehuels/paneflow/pkg/scene"
)

// Runner executes the pipeline against a cache.
//
// A Runner holds no per-run state; one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when non-zero.
	TTL time.Duration
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute resizes s and renders the result in every requested format.
func (r *Runner) Execute(ctx context.Context, s *scene.Scene, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	start := time.Now()
	resized, info, hit, err := r.ResizeWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}
	result.Scene = resized
	result.SceneHash = info.SceneHash
	result.Stats.PaneCount = len(resized.Panes)
	result.Stats.RowCount = info.Rows
	result.Stats.Constraints = info.Constraints
	result.Stats.ResizeTime = time.Since(start)
	result.CacheInfo.ResizeHit = hit

	r.Logger.Info("resized scene",
		"width", resized.Width,
		"panes", result.Stats.PaneCount,
		"rows", result.Stats.RowCount,
		"cached", hit,
		"duration", result.Stats.ResizeTime)

	if len(opts.Formats) == 0 {
		return result, nil
	}

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, resized, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ResizeInfo describes a finished resize.
type ResizeInfo struct {
	Rows        int    `json:"rows"`
	Constraints int    `json:"constraints"`
	SceneHash   string `json:"-"`
}

// resizeEntry is the cached form of a resize.
type resizeEntry struct {
	Scene *scene.Scene `json:"scene"`
	Info  ResizeInfo   `json:"info"`
}

// ResizeWithCacheInfo resizes s to opts' target width, consulting the cache
// first. The bool reports a cache hit.
func (r *Runner) ResizeWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (*scene.Scene, ResizeInfo, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, ResizeInfo{}, false, err
	}
	width := opts.TargetWidth(s)

	input, err := scene.Marshal(s, scene.FormatJSON)
	if err != nil {
		return nil, ResizeInfo{}, false, err
	}
	key := r.Keyer.ResizeKey(cache.Hash(input), opts.ResizeKeyOpts(s))

	if !opts.Refresh {
		if entry, ok := r.cachedResize(ctx, key); ok {
			return entry.Scene, entry.Info, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnResizeStart(ctx, len(s.Panes), width)
	start := time.Now()

	sol, err := layout.Solve(s.Panes, width, layout.Options{Gap: s.Gap, Logger: opts.Logger})
	if err != nil {
		hooks.OnResizeComplete(ctx, 0, 0, time.Since(start), err)
		return nil, ResizeInfo{}, false, err
	}
	hooks.OnResizeComplete(ctx, len(sol.Rows), sol.Constraints, time.Since(start), nil)

	out := s.Clone()
	out.Width = width
	out.Panes = layout.Apply(s.Panes, sol.Panes, opts.Logger)

	entry := resizeEntry{Scene: out, Info: ResizeInfo{Rows: len(sol.Rows), Constraints: sol.Constraints}}
	if data, err := json.Marshal(entry); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(TTLResize)); err != nil {
			r.Logger.Warn("cache write failed", "stage", "resize", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "resize", len(data))
		}
	}
	entry.Info.SceneHash = sceneHash(out)
	return out, entry.Info, false, nil
}

// Resize is ResizeWithCacheInfo without the cache details.
func (r *Runner) Resize(ctx context.Context, s *scene.Scene, opts Options) (*scene.Scene, error) {
	out, _, _, err := r.ResizeWithCacheInfo(ctx, s, opts)
	return out, err
}

func (r *Runner) cachedResize(ctx context.Context, key string) (resizeEntry, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "stage", "resize", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "resize")
		return resizeEntry{}, false
	}

	var entry resizeEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Scene == nil {
		observability.Cache().OnCacheMiss(ctx, "resize")
		return resizeEntry{}, false
	}
	entry.Info.SceneHash = sceneHash(entry.Scene)
	observability.Cache().OnCacheHit(ctx, "resize")
	return entry, true
}

// RenderWithCacheInfo renders s in every format of opts. The bool reports
// whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	hash := sceneHash(s)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, f := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.RenderKey(hash, opts.RenderKeyOpts(f)))
			if err != nil || !hit {
				break
			}
			artifacts[f] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "render")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, name := range opts.Formats {
		f, err := render.ParseFormat(name)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		data, err := render.Render(s, f, opts.RenderOptions())
		if err != nil {
			err = fmt.Errorf("%s: %w", name, err)
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		artifacts[name] = data
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)

	for name, data := range artifacts {
		if err := r.Cache.Set(ctx, r.Keyer.RenderKey(hash, opts.RenderKeyOpts(name)), data, r.ttl(TTLRender)); err != nil {
			r.Logger.Warn("cache write failed", "stage", "render", "format", name, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the cache details.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(stage time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return stage
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func sceneHash(s *scene.Scene) string {
	data, err := scene.Marshal(s, scene.FormatJSON)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
