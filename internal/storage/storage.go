// Package storage opens the local SQLite database that holds keepers' state
// and exposes the repositories built on top of it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/keepers/internal/dbx"
	"github.com/dmitrijs2005/keepers/internal/repositories/records"
	"github.com/dmitrijs2005/keepers/internal/storage/migrations"
	"github.com/pressly/goose/v3"
)

// Record keys.
const (
	DocumentKey       = "keepers-storage"
	VersionKey        = "keepers-data-version"
	InstallationIDKey = "keepers-install-id"
)

type Repositories struct {
	DB      *sql.DB
	Records records.Repository
}

// Close releases the underlying database handle.
func (r *Repositories) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// RunMigrations brings the SQLite schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply schema migrations: %w", err)
	}
	return nil
}

// InitDatabase opens the database at path, applies the schema and wires the
// repositories.
func InitDatabase(ctx context.Context, path string) (*Repositories, error) {
	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:      db,
		Records: records.NewSQLiteRepository(db),
	}, nil
}
