package storage

import (
	"context"

	"github.com/dmitrijs2005/keepers/internal/repositories/records"
)

// repoAdapter lifts a minimal get/set fake into records.Repository.
type repoAdapter struct {
	f *failingRepo
}

func (a *repoAdapter) Get(ctx context.Context, key string) ([]byte, error) { return a.f.Get(ctx, key) }
func (a *repoAdapter) Set(ctx context.Context, key string, v []byte) error {
	return a.f.Set(ctx, key, v)
}
func (a *repoAdapter) Delete(context.Context, string) error                 { return nil }
func (a *repoAdapter) List(context.Context) (map[string][]byte, error)      { return a.f.data, nil }
func (a *repoAdapter) Clear(context.Context) error                          { return nil }
func (a *repoAdapter) InTx(ctx context.Context, fn func(context.Context, records.Repository) error) error {
	return fn(ctx, a)
}
