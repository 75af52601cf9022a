package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/keepers/internal/flagx"
	"github.com/dmitrijs2005/keepers/internal/timex"
	"github.com/tailscale/hujson"
)

// jsonConfig is the file shape. Pointer fields tell "absent" from "zero" so
// a file only overrides what it mentions.
type jsonConfig struct {
	DBPath     *string `json:"db_path"`
	LogLevel   *string `json:"log_level"`
	ExportDir  *string `json:"export_dir"`
	Migrations struct {
		RetryFailed *bool `json:"retry_failed"`
	} `json:"migrations"`
	Telemetry struct {
		Enabled       *bool           `json:"enabled"`
		APIKey        *string         `json:"api_key"`
		Host          *string         `json:"host"`
		FlushInterval *timex.Duration `json:"flush_interval"`
	} `json:"telemetry"`
	Backup struct {
		Bucket    *string `json:"bucket"`
		Region    *string `json:"region"`
		Endpoint  *string `json:"endpoint"`
		Prefix    *string `json:"prefix"`
		AccessKey *string `json:"access_key"`
		SecretKey *string `json:"secret_key"`
	} `json:"backup"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return applyJSON(cfg, data)
}

func applyJSON(cfg *Config, data []byte) error {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC config: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(standardized, &jc); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	set(&cfg.DBPath, jc.DBPath)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.ExportDir, jc.ExportDir)
	set(&cfg.RetryFailedMigrations, jc.Migrations.RetryFailed)

	set(&cfg.Telemetry.Enabled, jc.Telemetry.Enabled)
	set(&cfg.Telemetry.APIKey, jc.Telemetry.APIKey)
	set(&cfg.Telemetry.Host, jc.Telemetry.Host)
	if jc.Telemetry.FlushInterval != nil {
		cfg.Telemetry.FlushInterval = jc.Telemetry.FlushInterval.Duration
	}

	set(&cfg.Backup.Bucket, jc.Backup.Bucket)
	set(&cfg.Backup.Region, jc.Backup.Region)
	set(&cfg.Backup.Endpoint, jc.Backup.Endpoint)
	set(&cfg.Backup.Prefix, jc.Backup.Prefix)
	set(&cfg.Backup.AccessKey, jc.Backup.AccessKey)
	set(&cfg.Backup.SecretKey, jc.Backup.SecretKey)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
