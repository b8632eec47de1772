package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/cache"
	"github.com/matzehuels/adcanvas/pkg/treatment"
)

// completionCommand prints shell completion scripts. Flag values such as
// formats, objectives and treatment ids complete from the built-in sets.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for adcanvas.

  $ source <(adcanvas completion bash)
  $ adcanvas completion zsh > "${fpath[1]}/_adcanvas"
  $ adcanvas completion fish > ~/.config/fish/completions/adcanvas.fish
  PS> adcanvas completion powershell | Out-String | Invoke-Expression

Besides commands and flags, completion offers ad formats, objectives,
alignments, headline bands, treatment ids and image files.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// flagValues maps flag names to their fixed completions. A flag that does
// not exist on a command is skipped.
func flagValues() map[string][]string {
	formats := make([]string, 0, len(ad.Formats()))
	for _, f := range ad.Formats() {
		formats = append(formats, string(f))
	}
	treatments := make([]string, 0, len(treatment.DefaultCatalog()))
	for _, t := range treatment.DefaultCatalog() {
		treatments = append(treatments, t.ID+"\t"+t.Name)
	}
	return map[string][]string{
		"format":    formats,
		"objective": {string(ad.ObjectiveOffer), string(ad.ObjectiveLaunch), string(ad.ObjectiveAwareness)},
		"align":     {"left", "center", "right", "auto"},
		"band":      {"top", "upper"},
		"treatment": treatments,
		"kind":      {cache.KindPlan, cache.KindImage},
	}
}

// registerCompletions wires value completion into every subcommand of root.
// Positional arguments of analyze and inspect complete to image files, and
// compose to generation JSON files.
func registerCompletions(root *cobra.Command) {
	values := flagValues()
	var walk func(*cobra.Command)
	walk = func(cmd *cobra.Command) {
		for name, vals := range values {
			if cmd.Flags().Lookup(name) == nil {
				continue
			}
			_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(vals, cobra.ShellCompDirectiveNoFileComp))
		}
		switch cmd.Name() {
		case "analyze", "inspect":
			cmd.ValidArgsFunction = fileCompletion("png", "jpg", "jpeg", "webp")
		case "compose":
			cmd.ValidArgsFunction = fileCompletion("json")
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}

func fileCompletion(exts ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}
