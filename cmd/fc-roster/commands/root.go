package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fc-roster-parser/internal/config"
	"fc-roster-parser/internal/observability"
	"fc-roster-parser/internal/scraper"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "fc-roster",
	Short:         "fc-roster collects the club player roster from the FC Ultimate Team web app.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the YAML config.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup читает конфиг и селекторы и поднимает логгер
func setup() (*config.Config, *scraper.Selectors, *observability.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	selectors, err := cfg.Selectors()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load selectors: %w", err)
	}

	logger, err := observability.NewLogger(observability.Options{
		LogPath:    cfg.Observability.LogPath,
		LogLevel:   cfg.Observability.LogLevel,
		MaxSizeMB:  cfg.Observability.MaxSizeMB,
		MaxBackups: cfg.Observability.MaxBackups,
		MaxAgeDays: cfg.Observability.MaxAgeDays,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}

	return cfg, selectors, logger, nil
}
