package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dmitrijs2005/keepers/internal/backup"
	"github.com/dmitrijs2005/keepers/internal/buildinfo"
	"github.com/dmitrijs2005/keepers/internal/catalog"
	"github.com/dmitrijs2005/keepers/internal/cli"
	"github.com/dmitrijs2005/keepers/internal/config"
	"github.com/dmitrijs2005/keepers/internal/logging"
	"github.com/dmitrijs2005/keepers/internal/storage"
	"github.com/dmitrijs2005/keepers/internal/store"
	"github.com/dmitrijs2005/keepers/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, level)

	if level <= slog.LevelDebug {
		buildinfo.PrintBuildData(os.Stderr)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	lock, err := storage.AcquireLock(lockCtx, cfg.DBPath, 100*time.Millisecond)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, storage.ErrLocked) {
			return fmt.Errorf("%s is in use by another keepers process", cfg.DBPath)
		}
		return err
	}
	defer lock.Unlock()

	repos, err := storage.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer repos.Close()

	sink := newTelemetry(ctx, cfg, repos, logger)
	if c, ok := sink.(interface{ Close() error }); ok {
		defer c.Close()
	}

	s := store.New(repos.Records, catalog.Default(),
		store.WithLogger(logger.With("component", "store")),
		store.WithTelemetry(sink),
		store.WithRetryFailedMigrations(cfg.RetryFailedMigrations),
	)
	if err := s.Initialize(ctx); err != nil {
		return err
	}
	sink.Capture(ctx, telemetry.EventAppOpened, nil)

	opts := []cli.Option{cli.WithExportDir(cfg.ExportDir), cli.WithLogger(logger)}
	if cfg.Backup.Bucket != "" {
		uploader, err := backup.NewS3Uploader(ctx, cfg.Backup)
		if err != nil {
			logger.Warn(ctx, "backup disabled", "error", err)
		} else {
			opts = append(opts, cli.WithUploader(uploader))
		}
	}

	cli.NewApp(s, opts...).Run(ctx)
	return nil
}

// newTelemetry returns the PostHog sink when telemetry is enabled and
// configured, and a no-op sink otherwise.
func newTelemetry(ctx context.Context, cfg *config.Config, repos *storage.Repositories, logger logging.Logger) telemetry.Sink {
	if !cfg.Telemetry.Enabled || cfg.Telemetry.APIKey == "" {
		return telemetry.Nop{}
	}

	id, err := storage.InstallationID(ctx, repos.Records)
	if err != nil {
		logger.Warn(ctx, "telemetry disabled", "error", err)
		return telemetry.Nop{}
	}

	sink, err := telemetry.NewPostHog(cfg.Telemetry.PostHog(), id, logger.With("component", "telemetry"))
	if err != nil {
		logger.Warn(ctx, "telemetry disabled", "error", err)
		return telemetry.Nop{}
	}
	return sink
}
