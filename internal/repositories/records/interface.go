// Package records stores keepers' durable state as named byte records in a
// local SQLite table. The persisted document, the schema version marker and
// the installation id each live under their own key.
package records

import "context"

// Repository is a key/value store of byte records.
//
// Get returns (nil, nil) for a missing key so callers can tell "absent" from
// a storage failure without matching errors.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	// InTx runs fn against a repository bound to a single transaction. All
	// writes made through that repository commit together or not at all.
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
