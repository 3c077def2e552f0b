package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/paneflow/pkg/scene"
)

func (c *CLI) demoCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write the built-in five-pane scene",
		Long: `Write the built-in five-pane scene.

Panes 1, 3 and 4 are flexible; panes 2 and 5 are fixed. The scene is a
fixed point at width 920 and cannot shrink below 620.`,
		Example: `  paneflow demo -o demo.toml
  paneflow demo --format toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := scene.Demo()
			if err := writeScene(cmd.OutOrStdout(), output, s, format, output); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Wrote demo scene")
				printFile(output)
				printNextStep("Reflow it", "paneflow resize "+output+" --width 1220")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "scene format: json, toml (default: from file extension)")

	return cmd
}
