package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"fc-roster-parser/internal/app"
	"fc-roster-parser/internal/browser"
	"fc-roster-parser/internal/config"
	"fc-roster-parser/internal/export"
	"fc-roster-parser/internal/normalize"
	"fc-roster-parser/internal/observability"
	"fc-roster-parser/internal/scraper"
	"fc-roster-parser/internal/storage/mssql"
)

// collect прогоняет цикл сбора по уже открытому списку игроков
func collect(ctx context.Context, cfg *config.Config, selectors *scraper.Selectors, d browser.Driver, snapshotDir string, sleep scraper.Sleeper, logger *observability.Logger) (*app.CollectionResult, error) {
	orch := app.NewOrchestrator(
		d,
		scraper.NewCardLocator(d, selectors, logger),
		scraper.NewRecordBuilder(d, selectors),
		scraper.NewPager(d, selectors.NextPage, cfg.GetSettleBefore(), cfg.GetSettleAfter(), sleep, logger),
		logger,
		app.Options{
			MaxPages:    cfg.Pagination.MaxPages,
			CardSettle:  cfg.GetCardSettle(),
			PageSettle:  cfg.GetPageSettle(),
			SnapshotDir: snapshotDir,
			Sleep:       sleep,
		},
	)
	return orch.Run(ctx)
}

// finish: нормализация → превью → CSV → отчёт → (опционально) БД.
// Вызывается и для частичного результата после сбоя.
func finish(ctx context.Context, cfg *config.Config, result *app.CollectionResult, persist bool, logger *observability.Logger) error {
	if result == nil || len(result.Records) == 0 {
		logger.Warn("No players collected, nothing to export")
		return nil
	}

	records := normalize.Normalize(result.Records)
	summary := normalize.Summarize(records)
	logger.Info("Roster normalized",
		"collected", len(result.Records),
		"kept", len(records),
		"pages", result.Stats.TotalPages,
		"stopped_reason", string(result.Stats.StoppedReason),
	)

	if cfg.Export.PreviewRows > 0 {
		export.Preview(os.Stdout, records, summary, cfg.Export.PreviewRows)
	}

	if err := export.WriteCSVFile(cfg.Export.CSVPath, records); err != nil {
		return fmt.Errorf("failed to export csv: %w", err)
	}
	logger.Info("CSV written", "path", cfg.Export.CSVPath, "rows", len(records))

	if cfg.Export.ReportPath != "" {
		if err := export.WriteReportFile(cfg.Export.ReportPath, summary, cfg.Export.CSVPath); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("Report written", "path", cfg.Export.ReportPath)
	}

	if !persist {
		return nil
	}

	repo, err := mssql.NewRepository(cfg.Storage.DSN, cfg.Storage.CommandTimeoutMS, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err.Error())
		}
	}()

	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if _, err := app.Persist(ctx, repo, records, logger); err != nil {
		return err
	}

	total, err := repo.CountPlayers(ctx)
	if err != nil {
		return err
	}
	logger.Info("Players in storage", "total", total)
	return nil
}

// finishTimeout ограничивает экспорт после прерванного сбора
const finishTimeout = 2 * time.Minute
