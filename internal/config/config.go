package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/keepers/internal/backup"
	"github.com/dmitrijs2005/keepers/internal/telemetry"
)

type Config struct {
	DBPath                string
	LogLevel              string
	ExportDir             string
	RetryFailedMigrations bool
	Telemetry             TelemetryConfig
	Backup                backup.S3Config
}

type TelemetryConfig struct {
	Enabled       bool
	APIKey        string
	Host          string
	FlushInterval time.Duration
}

// PostHog returns the sink settings.
func (t TelemetryConfig) PostHog() telemetry.Config {
	return telemetry.Config{APIKey: t.APIKey, Host: t.Host, FlushInterval: t.FlushInterval}
}

var userConfigDir = os.UserConfigDir

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir, err := userConfigDir()
	if err != nil {
		dir = "."
	}
	c.DBPath = filepath.Join(dir, "keepers", "keepers.db")
	c.LogLevel = "warn"
	c.ExportDir = "."
	c.RetryFailedMigrations = false
	c.Telemetry = TelemetryConfig{
		Host:          telemetry.DefaultHost,
		FlushInterval: 30 * time.Second,
	}
	c.Backup = backup.S3Config{Region: "us-east-1"}
}

// LoadConfig applies defaults, then the JSON file named in args (if any),
// then flags from args. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
