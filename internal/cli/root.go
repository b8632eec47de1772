package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/adcanvas/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The config file is loaded and the logger attached to the command context
// before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "adcanvas places and fits ad copy over generated images",
		Long:         `adcanvas analyzes generated ad images for quiet, readable regions, plans where the headline, subhead and call to action go, and composes the result into layered, editable previews.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/adcanvas/config.toml)")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.treatmentsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}
