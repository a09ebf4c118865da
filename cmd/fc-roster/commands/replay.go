package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fc-roster-parser/internal/browser"
)

var (
	replayDir     string
	replayPersist bool
)

func init() {
	replayCmd.Flags().StringVar(&replayDir, "dir", "", "Directory with saved roster pages (page-001.html, ...).")
	replayCmd.Flags().BoolVar(&replayPersist, "persist", false, "Also save the roster to storage.")
	_ = replayCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay --dir <snapshots>",
	Short: "Runs the collection loop over saved page snapshots without a browser.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, selectors, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Close()

		drv, err := browser.LoadSnapshotDir(replayDir)
		if err != nil {
			return fmt.Errorf("failed to load snapshots: %w", err)
		}
		logger.Info("Replaying snapshots", "dir", replayDir, "first_page", drv.Page())

		noWait := func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
		result, runErr := collect(cmd.Context(), cfg, selectors, drv, "", noWait, logger)
		if runErr != nil {
			logger.Error("Replay aborted", "error", runErr.Error())
		}

		if err := finish(cmd.Context(), cfg, result, replayPersist && cfg.Storage.Enabled, logger); err != nil {
			return err
		}
		return runErr
	},
}
