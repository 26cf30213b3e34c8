// Package cli wires the ghkeep commands: credential discovery,
// configuration loading, and the workflow maintenance operations.
package cli

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ghkeep",
	Short: "Keep GitHub workflows active and prune old runs",
	Long: `ghkeep walks every repository of a GitHub owner, re-enables workflows
that GitHub suspended for inactivity, and deletes outdated workflow runs.

All log output passes through a credential sanitization engine before it is
written, so tokens and other secrets never reach the log sink.

Credentials are read from SECRET_GITHUB_OWNER and SECRET_GITHUB_TOKEN, from
the environment or from a .env file.

Examples:
  ghkeep activate
  ghkeep prune --keep 50
  ghkeep run`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.ghkeep/config.yaml)")
}
