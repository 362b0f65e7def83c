package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints a shell completion script for novelgraph.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or powershell.

  source <(novelgraph completion bash)
  novelgraph completion zsh > "${fpath[1]}/_novelgraph"
  novelgraph completion fish > ~/.config/fish/completions/novelgraph.fish
  novelgraph completion powershell | Out-String | Invoke-Expression

Completions cover commands and flags; node ids are not completed.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, root := cmd.OutOrStdout(), cmd.Root()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return root.GenBashCompletionV2(out, true)
			}
		},
	}
}
