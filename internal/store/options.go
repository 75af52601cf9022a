package store

import (
	"github.com/dmitrijs2005/keepers/internal/logging"
	"github.com/dmitrijs2005/keepers/internal/telemetry"
)

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithTelemetry(t telemetry.Sink) Option {
	return func(s *Store) { s.telemetry = t }
}

// WithMigrator replaces the default migration engine.
func WithMigrator(m Migrator) Option {
	return func(s *Store) { s.migrator = m }
}

// WithRetryFailedMigrations sets the failure policy of the default engine.
func WithRetryFailedMigrations(retry bool) Option {
	return func(s *Store) { s.retryFailed = retry }
}
