// Package store holds the live keepers state. It runs migrations and the
// catalog merge at Initialize, serves reads from memory and writes the whole
// document back to storage after every mutation.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/keepers/internal/catalog"
	"github.com/dmitrijs2005/keepers/internal/logging"
	"github.com/dmitrijs2005/keepers/internal/merge"
	"github.com/dmitrijs2005/keepers/internal/migration"
	"github.com/dmitrijs2005/keepers/internal/models"
	"github.com/dmitrijs2005/keepers/internal/repositories/records"
	"github.com/dmitrijs2005/keepers/internal/storage"
	"github.com/dmitrijs2005/keepers/internal/telemetry"
)

// Migrator upgrades stored data before it is loaded.
type Migrator interface {
	Run(ctx context.Context) (migration.Result, error)
}

type Store struct {
	mu sync.Mutex

	records     records.Repository
	catalog     *catalog.Catalog
	migrator    Migrator
	retryFailed bool
	log         logging.Logger
	telemetry   telemetry.Sink

	state models.Document
	ready bool
}

func New(repo records.Repository, cat *catalog.Catalog, opts ...Option) *Store {
	s := &Store{
		records:   repo,
		catalog:   cat,
		log:       logging.Nop(),
		telemetry: telemetry.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.migrator == nil {
		s.migrator = migration.NewEngine(repo, cat,
			migration.WithLogger(s.log.With("component", "migration")),
			migration.WithRetryFailed(s.retryFailed))
	}
	return s
}

// Initialize migrates stored data, loads it, merges it with the catalog and
// persists the result. It must be called before any other operation.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialize(ctx)
}

func (s *Store) initialize(ctx context.Context) error {
	if _, err := s.migrator.Run(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.state = merge.Reconcile(doc, s.catalog)
	s.ready = true
	s.persist(ctx)
	return nil
}

// load reads the stored document. Missing or unreadable data yields the
// catalog defaults.
func (s *Store) load(ctx context.Context) (models.Document, error) {
	raw, err := s.records.Get(ctx, storage.DocumentKey)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to load stored data: %w", err)
	}
	if raw == nil {
		return s.catalog.DefaultDocument(), nil
	}

	doc, err := models.DecodeStored(raw)
	if err != nil {
		s.log.Warn(ctx, "stored data is unreadable, starting from defaults", "error", err)
		return s.catalog.DefaultDocument(), nil
	}
	return doc, nil
}

// persist writes the current state. Failures are logged only.
func (s *Store) persist(ctx context.Context) {
	data, err := models.EncodeStored(s.state)
	if err != nil {
		s.log.Error(ctx, "failed to encode state", "error", err)
		return
	}
	if err := s.records.Set(ctx, storage.DocumentKey, data); err != nil {
		s.log.Error(ctx, "failed to persist state", "error", err)
	}
}

// update applies fn to a copy of the state and installs the copy when fn
// succeeds.
func (s *Store) update(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotInitialized
	}

	next := s.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}

	s.state = next
	s.persist(ctx)
	return nil
}

func (s *Store) capture(ctx context.Context, event string, props map[string]any) {
	s.telemetry.Capture(ctx, event, props)
}

// Wipe deletes all stored data and initializes again from scratch, as on a
// fresh install.
func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.records.InTx(ctx, func(ctx context.Context, tx records.Repository) error {
		if err := tx.Delete(ctx, storage.DocumentKey); err != nil {
			return err
		}
		return tx.Delete(ctx, storage.VersionKey)
	})
	if err != nil {
		return fmt.Errorf("failed to wipe stored data: %w", err)
	}

	s.ready = false
	s.state = models.Document{}
	return s.initialize(ctx)
}
