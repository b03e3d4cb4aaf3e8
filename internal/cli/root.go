package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jiapu/pkg/buildinfo"
	"github.com/matzehuels/jiapu/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands
// registered. Global flags: -v/--verbose and --config.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "Jiapu lays out and manages family trees",
		Long:          `Jiapu is a command-line client for the family tree service. It edits families, generations and members, and lays a family out generation by generation as text, JSON, DOT, SVG, PDF or PNG.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			observability.NewLogHooks(c.Logger).Install()
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/jiapu/config.toml)")

	root.AddCommand(c.authCommand())
	root.AddCommand(c.familiesCommand())
	root.AddCommand(c.familyCommand())
	root.AddCommand(c.generationCommand())
	root.AddCommand(c.memberCommand())
	root.AddCommand(c.feedbackCommand())
	root.AddCommand(c.uploadCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
