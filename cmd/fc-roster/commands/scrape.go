package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fc-roster-parser/internal/app"
	"fc-roster-parser/internal/browser"
	"fc-roster-parser/internal/config"
	"fc-roster-parser/internal/scraper"
	"fc-roster-parser/internal/session"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--config <path/to/config.yaml>]",
	Short: "Opens the web app in Chrome, walks the club roster and exports it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, selectors, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Close()

		ctx, cancel := app.GracefulShutdown(cmd.Context(), logger)
		defer cancel()

		drv, err := browser.LaunchRod(browser.RodOptions{
			Headless:        cfg.Rod.Headless,
			ChromePath:      cfg.Rod.ChromePath,
			UserDataDir:     cfg.Rod.UserDataDir,
			PageTimeout:     cfg.GetRodPageTimeout(),
			WaitLoadTimeout: cfg.GetRodWaitLoadTimeout(),
			SlowMotion:      cfg.GetRodSlowMotion(),
			Backoff: browser.Backoff{
				Min:        cfg.GetBackoffMin(),
				Max:        cfg.GetBackoffMax(),
				JitterPct:  cfg.Backoff.JitterPct,
				MaxRetries: cfg.Backoff.MaxRetries,
			},
		}, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := drv.Close(); err != nil {
				logger.Error("Failed to close browser", "error", err.Error())
			}
		}()

		creds, err := session.LoadCredentials(cfg.Auth.EnvFile, cfg.Auth.EmailEnv, cfg.Auth.PasswordEnv)
		if err != nil {
			return err
		}

		sess := session.New(drv, selectors, session.Options{
			URL:         cfg.WebApp.URL,
			AutoLogin:   cfg.Auth.Mode == config.AuthAuto,
			Credentials: creds,
			LoginWait:   cfg.GetLoginWait(),
			Settle:      cfg.GetPageSettle(),
			Out:         os.Stdout,
			In:          os.Stdin,
		}, logger)
		if err := sess.Prepare(ctx); err != nil {
			return fmt.Errorf("failed to open roster: %w", err)
		}

		start := time.Now()
		result, runErr := collect(ctx, cfg, selectors, drv, cfg.Rod.SnapshotDir, scraper.Sleep, logger)
		if runErr != nil {
			logger.Error("Collection aborted, exporting partial roster", "error", runErr.Error())
		}
		logger.Info("Collection finished", "duration", time.Since(start).String())

		// Экспорт не должен зависеть от отменённого контекста сбора
		finishCtx, finishCancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), finishTimeout)
		defer finishCancel()

		if err := finish(finishCtx, cfg, result, cfg.Storage.Enabled, logger); err != nil {
			return errors.Join(runErr, err)
		}
		return runErr
	},
}
