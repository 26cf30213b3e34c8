package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var pruneKeep int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old workflow runs, keeping the newest ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		keep := a.cfg.GitHub.KeepRuns
		if cmd.Flags().Changed("keep") {
			keep = pruneKeep
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return a.keeper.PruneRuns(ctx, keep)
	},
}

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", 50, "number of workflow runs to keep per repository")
	rootCmd.AddCommand(pruneCmd)
}
