package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/paneflow/pkg/pipeline"
	"github.com/matzehuels/paneflow/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path (several)
	formats []string // svg, png, dot, graph, json
	width   float64  // resize first when non-zero
	rows    bool     // draw row boundaries
	labels  bool     // write pane IDs
	scale   float64  // PNG scale factor
	noCache bool
	refresh bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{labels: true, scale: 1}

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Draw a scene as SVG, PNG, DOT or JSON",
		Long: `Draw a scene, optionally after resizing it.

Flexible panes are drawn green and fixed panes red. The dot format writes
the row adjacency graph in Graphviz syntax; graph renders it to SVG.`,
		Example: `  paneflow render layout.json
  paneflow render layout.json --width 1220 -f svg,png --rows`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, graph, json (comma-separated)")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 0, "resize to this width before drawing")
	cmd.Flags().BoolVar(&opts.rows, "rows", false, "draw row boundaries")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "write pane IDs")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	_ = cmd.RegisterFlagCompletionFunc("format", completeRenderFormats)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	s, err := c.loadScene(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, os.Stderr, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, s, pipeline.Options{
		Width:   c.targetWidth(opts.width),
		Formats: opts.formats,
		Rows:    opts.rows,
		Labels:  opts.labels,
		Scale:   opts.scale,
		Refresh: opts.refresh,
	})
	spinner.Stop()
	if err != nil {
		if spinner.Cancelled() {
			return ctx.Err()
		}
		return err
	}

	paths := outputPaths(path, opts.output, opts.formats)
	for _, name := range opts.formats {
		if err := os.WriteFile(paths[name], result.Artifacts[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[name], err)
		}
	}

	printSuccess("Rendered at width %s", StyleNumber.Render(fmt.Sprintf("%g", result.Scene.Width)))
	printStats(result.Stats.PaneCount, result.Stats.RowCount, result.CacheInfo.RenderHit)
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		printFile(paths[name])
	}
	return nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output uses it verbatim; otherwise files are named
// <base>.<extension>, with base taken from output or the scene path.
func outputPaths(scenePath, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}

	base := basePath(scenePath)
	if output != "" {
		base = basePath(output)
	}
	for _, name := range formats {
		f, _ := render.ParseFormat(name)
		paths[name] = base + "." + f.Extension()
	}
	return paths
}
