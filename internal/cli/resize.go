package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/paneflow/pkg/pipeline"
	"github.com/matzehuels/paneflow/pkg/scene"
)

// resizeOpts holds the command-line flags for the resize command.
type resizeOpts struct {
	output  string  // output file; empty writes to stdout
	format  string  // scene format: json or toml; empty follows the file extension
	width   float64 // target width; zero uses layout.width from config
	noCache bool
	refresh bool
}

func (c *CLI) resizeCommand() *cobra.Command {
	var opts resizeOpts

	cmd := &cobra.Command{
		Use:   "resize [scene]",
		Short: "Reflow a scene to a new width",
		Long: `Reflow a scene to a new width.

Flexible panes share the new width in proportion to their current widths.
Fixed panes keep their width. Vertical geometry never changes.`,
		Example: `  paneflow resize layout.json --width 1220
  paneflow resize layout.toml --width 700 -o narrow.toml`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResize(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "", "scene format: json, toml (default: from file extension)")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 0, "target width")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	_ = cmd.RegisterFlagCompletionFunc("format", completeSceneFormat)

	return cmd
}

func (c *CLI) runResize(ctx context.Context, stdout io.Writer, path string, opts resizeOpts) error {
	s, err := c.loadScene(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	resized, info, hit, err := runner.ResizeWithCacheInfo(ctx, s, pipeline.Options{
		Width:   c.targetWidth(opts.width),
		Refresh: opts.refresh,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resized %d panes", len(resized.Panes)))

	fallback := path
	if opts.output != "" {
		fallback = opts.output
	}
	if err := writeScene(stdout, opts.output, resized, opts.format, fallback); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Resized to width %s", StyleNumber.Render(fmt.Sprintf("%g", resized.Width)))
		printStats(len(resized.Panes), info.Rows, hit)
		printFile(opts.output)
	}
	return nil
}

// writeScene encodes s to output, or to stdout when output is empty. The
// format flag wins; otherwise the format follows formatPath's extension.
func writeScene(stdout io.Writer, output string, s *scene.Scene, formatFlag, formatPath string) error {
	format := scene.FormatJSON
	switch {
	case formatFlag != "":
		f, err := scene.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		format = f
	case formatPath != "":
		if f, err := scene.FormatFromPath(formatPath); err == nil {
			format = f
		}
	}

	var buf bytes.Buffer
	if err := scene.Write(s, &buf, format); err != nil {
		return err
	}
	if output == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}
