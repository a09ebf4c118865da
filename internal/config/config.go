package config

import (
	"fmt"
	"time"
)

type Config struct {
	Rod           RodConfig           `yaml:"rod"`
	Backoff       BackoffConfig       `yaml:"backoff"`
	WebApp        WebAppConfig        `yaml:"web_app"`
	Auth          AuthConfig          `yaml:"auth"`
	Pagination    PaginationConfig    `yaml:"pagination"`
	SelectorsFile string              `yaml:"selectors_file"`
	Export        ExportConfig        `yaml:"export"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`

	// path — файл, из которого загружен конфиг; относительные пути считаются от него
	path string
}

type RodConfig struct {
	Headless         bool   `yaml:"headless"`
	ChromePath       string `yaml:"chrome_path"`
	UserDataDir      string `yaml:"user_data_dir"`
	PageTimeoutS     int    `yaml:"page_timeout_s"`
	WaitLoadTimeoutS int    `yaml:"wait_load_timeout_s"`
	SlowMotionMS     int    `yaml:"slow_motion_ms"`
	SnapshotDir      string `yaml:"snapshot_dir"`
}

type BackoffConfig struct {
	MinMS      int `yaml:"min_ms"`
	MaxMS      int `yaml:"max_ms"`
	JitterPct  int `yaml:"jitter_pct"`
	MaxRetries int `yaml:"max_retries"`
}

type WebAppConfig struct {
	URL string `yaml:"url"`
}

const (
	AuthManual = "manual"
	AuthAuto   = "auto"
)

type AuthConfig struct {
	Mode        string `yaml:"mode"`
	EnvFile     string `yaml:"env_file"`
	EmailEnv    string `yaml:"email_env"`
	PasswordEnv string `yaml:"password_env"`
	LoginWaitS  int    `yaml:"login_wait_s"`
}

type PaginationConfig struct {
	MaxPages       int `yaml:"max_pages"`
	SettleBeforeMS int `yaml:"settle_before_ms"`
	SettleAfterMS  int `yaml:"settle_after_ms"`
	CardSettleMS   int `yaml:"card_settle_ms"`
	PageSettleMS   int `yaml:"page_settle_ms"`
}

type ExportConfig struct {
	CSVPath     string `yaml:"csv_path"`
	ReportPath  string `yaml:"report_path"`
	PreviewRows int    `yaml:"preview_rows"`
}

type StorageConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Driver           string `yaml:"driver"`
	DSN              string `yaml:"dsn"`
	CommandTimeoutMS int    `yaml:"command_timeout_ms"`
}

type ObservabilityConfig struct {
	LogPath    string `yaml:"log_path"`
	LogLevel   string `yaml:"log_level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// applyDefaults заполняет значения, которые можно не указывать в YAML
func (c *Config) applyDefaults() {
	if c.Pagination.MaxPages == 0 {
		c.Pagination.MaxPages = 50
	}
	if c.Auth.Mode == "" {
		c.Auth.Mode = AuthManual
	}
	if c.Auth.EmailEnv == "" {
		c.Auth.EmailEnv = "EA_EMAIL"
	}
	if c.Auth.PasswordEnv == "" {
		c.Auth.PasswordEnv = "EA_PASSWORD"
	}
	if c.Export.PreviewRows == 0 {
		c.Export.PreviewRows = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "mssql"
	}
}

// Validation
func (c *Config) Validate() error {
	if c.WebApp.URL == "" {
		return fmt.Errorf("web_app.url is required")
	}
	if c.Auth.Mode != AuthManual && c.Auth.Mode != AuthAuto {
		return fmt.Errorf("auth.mode must be 'manual' or 'auto'")
	}
	if c.Auth.LoginWaitS < 0 {
		return fmt.Errorf("auth.login_wait_s must be >= 0")
	}
	if c.Pagination.MaxPages <= 0 {
		return fmt.Errorf("pagination.max_pages must be > 0")
	}
	if c.Pagination.SettleBeforeMS < 0 || c.Pagination.SettleAfterMS < 0 ||
		c.Pagination.CardSettleMS < 0 || c.Pagination.PageSettleMS < 0 {
		return fmt.Errorf("pagination settle delays must be >= 0")
	}
	if c.Export.CSVPath == "" {
		return fmt.Errorf("export.csv_path is required")
	}
	if c.Export.PreviewRows < 0 {
		return fmt.Errorf("export.preview_rows must be >= 0")
	}
	if c.Storage.Enabled {
		if c.Storage.Driver != "mssql" {
			return fmt.Errorf("storage.driver must be 'mssql'")
		}
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required when storage.enabled is true")
		}
		if c.Storage.CommandTimeoutMS <= 0 {
			return fmt.Errorf("storage.command_timeout_ms must be > 0")
		}
	}
	if c.Observability.LogPath == "" {
		return fmt.Errorf("observability.log_path is required")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	if c.Backoff.MinMS <= 0 {
		return fmt.Errorf("backoff.min_ms must be > 0")
	}
	if c.Backoff.MaxMS <= 0 {
		return fmt.Errorf("backoff.max_ms must be > 0")
	}
	if c.Backoff.MinMS > c.Backoff.MaxMS {
		return fmt.Errorf("backoff.min_ms must be <= backoff.max_ms")
	}
	if c.Backoff.JitterPct < 0 || c.Backoff.JitterPct > 100 {
		return fmt.Errorf("backoff.jitter_pct must be between 0 and 100")
	}
	if c.Backoff.MaxRetries < 0 {
		return fmt.Errorf("backoff.max_retries must be >= 0")
	}
	if c.Rod.PageTimeoutS <= 0 {
		return fmt.Errorf("rod.page_timeout_s must be > 0")
	}
	if c.Rod.WaitLoadTimeoutS <= 0 {
		return fmt.Errorf("rod.wait_load_timeout_s must be > 0")
	}
	if c.Rod.SlowMotionMS < 0 {
		return fmt.Errorf("rod.slow_motion_ms must be >= 0")
	}
	return nil
}

// Getters
func (c *Config) GetBackoffMin() time.Duration {
	return time.Duration(c.Backoff.MinMS) * time.Millisecond
}

func (c *Config) GetBackoffMax() time.Duration {
	return time.Duration(c.Backoff.MaxMS) * time.Millisecond
}

func (c *Config) GetCommandTimeout() time.Duration {
	return time.Duration(c.Storage.CommandTimeoutMS) * time.Millisecond
}

func (c *Config) GetRodPageTimeout() time.Duration {
	return time.Duration(c.Rod.PageTimeoutS) * time.Second
}

func (c *Config) GetRodWaitLoadTimeout() time.Duration {
	return time.Duration(c.Rod.WaitLoadTimeoutS) * time.Second
}

func (c *Config) GetRodSlowMotion() time.Duration {
	return time.Duration(c.Rod.SlowMotionMS) * time.Millisecond
}

func (c *Config) GetSettleBefore() time.Duration {
	return time.Duration(c.Pagination.SettleBeforeMS) * time.Millisecond
}

func (c *Config) GetSettleAfter() time.Duration {
	return time.Duration(c.Pagination.SettleAfterMS) * time.Millisecond
}

func (c *Config) GetCardSettle() time.Duration {
	return time.Duration(c.Pagination.CardSettleMS) * time.Millisecond
}

func (c *Config) GetPageSettle() time.Duration {
	return time.Duration(c.Pagination.PageSettleMS) * time.Millisecond
}

func (c *Config) GetLoginWait() time.Duration {
	return time.Duration(c.Auth.LoginWaitS) * time.Second
}
