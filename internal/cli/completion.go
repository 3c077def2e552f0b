package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/paneflow/pkg/render"
	"github.com/matzehuels/paneflow/pkg/scene"
)

// sceneExtensions are the file extensions offered for scene arguments.
var sceneExtensions = []string{string(scene.FormatJSON), string(scene.FormatTOML)}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for paneflow.

The scripts complete subcommands and flags. Scene arguments of resize,
rows, render and preview only offer .json and .toml files, and --format
offers the scene formats for resize and the output formats for render.

Load completions into the current shell:

  $ source <(paneflow completion bash)
  $ source <(paneflow completion zsh)
  $ paneflow completion fish | source
  PS> paneflow completion powershell | Out-String | Invoke-Expression

Or install them once:

  $ paneflow completion bash > /etc/bash_completion.d/paneflow
  $ paneflow completion zsh > "${fpath[1]}/_paneflow"
  $ paneflow completion fish > ~/.config/fish/completions/paneflow.fish`,
		Example: `  paneflow resize <TAB>              # lists *.json and *.toml
  paneflow render demo.json -f svg,<TAB>`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeScene offers scene files for the single positional argument.
func completeScene(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sceneExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeSceneFormat completes the --format flag of commands that write scenes.
func completeSceneFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return sceneExtensions, cobra.ShellCompDirectiveNoFileComp
}

// completeRenderFormats completes one entry of the comma-separated --format
// list of render, leaving out formats already listed.
func completeRenderFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := toComplete[:strings.LastIndex(toComplete, ",")+1]
	chosen := strings.Split(prefix, ",")

	var out []string
	for _, f := range render.Formats {
		if !slices.Contains(chosen, string(f)) {
			out = append(out, prefix+string(f))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
