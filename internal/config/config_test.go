package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
rod:
  headless: false
  page_timeout_s: 60
  wait_load_timeout_s: 30
  slow_motion_ms: 0
backoff:
  min_ms: 500
  max_ms: 8000
  jitter_pct: 20
  max_retries: 3
web_app:
  url: "https://www.ea.com/ea-sports-fc/ultimate-team/web-app/"
auth:
  mode: manual
pagination:
  settle_before_ms: 1000
  settle_after_ms: 3000
export:
  csv_path: "output/players.csv"
observability:
  log_path: "logs/fc-roster.log"
  log_level: "info"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", validConfig)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Pagination.MaxPages)
	assert.Equal(t, AuthManual, cfg.Auth.Mode)
	assert.Equal(t, "EA_EMAIL", cfg.Auth.EmailEnv)
	assert.Equal(t, 10, cfg.Export.PreviewRows)
	assert.Equal(t, time.Second, cfg.GetSettleBefore())
	assert.Equal(t, 3*time.Second, cfg.GetSettleAfter())
	assert.Equal(t, 500*time.Millisecond, cfg.GetBackoffMin())
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte(validConfig + "scheduler:\n  mode: cron\n"))
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "web_app.url is required")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c := Config{
			Rod:           RodConfig{PageTimeoutS: 60, WaitLoadTimeoutS: 30},
			Backoff:       BackoffConfig{MinMS: 100, MaxMS: 1000, JitterPct: 10},
			WebApp:        WebAppConfig{URL: "https://example.test/app"},
			Export:        ExportConfig{CSVPath: "players.csv"},
			Observability: ObservabilityConfig{LogPath: "app.log", LogLevel: "info"},
		}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing url", func(c *Config) { c.WebApp.URL = "" }, true},
		{"bad auth mode", func(c *Config) { c.Auth.Mode = "oauth" }, true},
		{"zero page cap", func(c *Config) { c.Pagination.MaxPages = -1 }, true},
		{"negative settle", func(c *Config) { c.Pagination.SettleAfterMS = -5 }, true},
		{"backoff min > max", func(c *Config) { c.Backoff.MinMS = 5000 }, true},
		{"jitter out of range", func(c *Config) { c.Backoff.JitterPct = 150 }, true},
		{"storage without dsn", func(c *Config) { c.Storage.Enabled = true; c.Storage.CommandTimeoutMS = 1000 }, true},
		{"storage ok", func(c *Config) {
			c.Storage.Enabled = true
			c.Storage.DSN = "sqlserver://localhost"
			c.Storage.CommandTimeoutMS = 1000
		}, false},
		{"storage wrong driver", func(c *Config) {
			c.Storage.Enabled = true
			c.Storage.Driver = "postgres"
			c.Storage.DSN = "postgres://localhost"
			c.Storage.CommandTimeoutMS = 1000
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadSelectorsMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "selectors.yaml", "name:\n  - \".card-name\"\nnext_page:\n  - \"button.next-page\"\n")

	cfg := &Config{SelectorsFile: "selectors.yaml", path: filepath.Join(dir, "config.yaml")}
	sel, err := cfg.Selectors()
	require.NoError(t, err)

	assert.Equal(t, []string{".card-name"}, sel.Name)
	assert.Equal(t, []string{"button.next-page"}, sel.NextPage)
	assert.NotEmpty(t, sel.Rating, "rating keeps the built-in chain")
	assert.Equal(t, "Traits", sel.TraitsHeader)
}

func TestSelectorsWithoutFile(t *testing.T) {
	sel, err := (&Config{}).Selectors()
	require.NoError(t, err)
	assert.NotEmpty(t, sel.Cards)
}

func TestLoadSelectorsMissingFile(t *testing.T) {
	_, err := LoadSelectors(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
