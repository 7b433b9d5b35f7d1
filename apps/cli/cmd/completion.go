package cmd

import (
	"github.com/abdul-hamid-achik/shotlog/packages/core/config"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a completion script for shotlog. Besides command and flag names it
completes capture modes (--mode), output formats (--output) and
.docx paths for resume and scan.

Bash:
  $ source <(shotlog completion bash)

Zsh:
  $ shotlog completion zsh > "${fpath[1]}/_shotlog"

Fish:
  $ shotlog completion fish > ~/.config/fish/completions/shotlog.fish

PowerShell:
  PS> shotlog completion powershell | Out-String | Invoke-Expression

Start a new shell for the completions to load.`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
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

func completeModes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		config.ModeSingle + "\tprimary or first --display",
		config.ModeAll + "\tall displays stitched into one image",
		config.ModeMulti + "\tone image per --display",
	}, cobra.ShellCompDirectiveNoFileComp
}

func completeOutputs(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"console", "json"}, cobra.ShellCompDirectiveNoFileComp
}

func completeDocuments(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"docx"}, cobra.ShellCompDirectiveFilterFileExt
}

// registerSessionCompletions adds value completion to the session flags.
func registerSessionCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("mode", completeModes)
	_ = cmd.RegisterFlagCompletionFunc("output", completeOutputs)
	_ = cmd.MarkFlagDirname("dir")
	_ = cmd.MarkFlagDirname("trigger-dir")
}

func init() {
	rootCmd.AddCommand(completionCmd)
	resumeCmd.ValidArgsFunction = completeDocuments
	scanCmd.ValidArgsFunction = completeDocuments
}
