package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/paneflow/internal/config"
	"github.com/matzehuels/paneflow/pkg/buildinfo"
	"github.com/matzehuels/paneflow/pkg/cache"
	"github.com/matzehuels/paneflow/pkg/observability"
	"github.com/matzehuels/paneflow/pkg/pipeline"
	"github.com/matzehuels/paneflow/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "paneflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	// Verbose forces debug logging regardless of the configured level.
	Verbose bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Paneflow reflows tiled pane layouts to a new width",
		Long:         `Paneflow recomputes the horizontal geometry of tiled panes when their container changes width. Flexible panes share the new space in proportion to their old widths; fixed panes keep theirs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.rowsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment, then applies the log
// level. --verbose wins over log.level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.Verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	observability.NewLogHooks(c.Logger).Install()
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	runner.TTL = c.Config.Cache.TTL
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc, err := cache.Open(ctx, c.Config.CacheOptions())
	if err != nil {
		// A broken cache should not block a resize.
		c.Logger.Warn("cache unavailable, continuing without it", "backend", c.Config.Cache.Backend, "err", err)
		return cache.NewNullCache(), nil
	}
	return cc, nil
}

// =============================================================================
// Scene Helpers
// =============================================================================

// loadScene reads a scene file and fills in the configured gap when the
// file does not set one.
func (c *CLI) loadScene(path string) (*scene.Scene, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	if s.Gap == 0 {
		s.Gap = c.Config.Layout.Gap
	}
	return s, nil
}

// targetWidth returns the --width flag, else the configured width, else
// zero (keep the scene width).
func (c *CLI) targetWidth(flag float64) float64 {
	if flag != 0 {
		return flag
	}
	return c.Config.Layout.Width
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// basePath strips the extension from a scene path.
func basePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
