// Package config loads runtime configuration for the keepers CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config. Comments and trailing
//     commas are accepted (JSONC).
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   path to the SQLite database
//	-l string   log level: debug, info, warn, error
//	-e string   directory for export files
//	-r          retry failed migrations on next start instead of skipping them
//	-t          enable telemetry
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "db_path": "/home/me/.config/keepers/keepers.db",
//	  "log_level": "info",
//	  "export_dir": "/home/me/exports",
//	  "migrations": { "retry_failed": false },
//	  "telemetry": { "enabled": true, "api_key": "phc_...", "host": "https://eu.i.posthog.com", "flush_interval": "30s" },
//	  "backup": { "bucket": "keepers", "region": "us-east-1", "endpoint": "http://127.0.0.1:9000",
//	              "prefix": "me", "access_key": "...", "secret_key": "..." }
//	}
package config
