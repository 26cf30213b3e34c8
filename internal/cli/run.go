package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Activate all workflows, then prune old runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := a.keeper.ActivateAll(ctx); err != nil {
			return err
		}
		return a.keeper.PruneRuns(ctx, a.cfg.GitHub.KeepRuns)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
