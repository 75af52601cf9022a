package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/keepers/internal/flagx"
)

// parseFlags overlays cfg with the flags it knows about and ignores the rest
// of args.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("keepers", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path to the SQLite database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.ExportDir, "e", cfg.ExportDir, "directory for export files")
	fs.BoolVar(&cfg.RetryFailedMigrations, "r", cfg.RetryFailedMigrations, "retry failed migrations on next start")
	fs.BoolVar(&cfg.Telemetry.Enabled, "t", cfg.Telemetry.Enabled, "enable telemetry")

	if err := fs.Parse(flagx.FilterFlagSet(args, fs)); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}
