package store

import (
	"context"

	"github.com/dmitrijs2005/keepers/internal/models"
)

// ToggleActive flips whether a collection is active. Deactivating the only
// active collection is rejected with ErrLastActive.
func (s *Store) ToggleActive(ctx context.Context, id string) error {
	return s.update(ctx, func(doc *models.Document) error {
		return setActive(doc, id, !doc.Settings.Active.Contains(id))
	})
}

// SetActive activates or deactivates a collection. Deactivating the only
// active collection is rejected with ErrLastActive.
func (s *Store) SetActive(ctx context.Context, id string, active bool) error {
	return s.update(ctx, func(doc *models.Document) error {
		return setActive(doc, id, active)
	})
}

func setActive(doc *models.Document, id string, active bool) error {
	if doc.Find(id) < 0 {
		return ErrCollectionNotFound
	}

	known := doc.CollectionIDs()
	cur := doc.Settings.Active
	if active {
		doc.Settings.Active = cur.With(id, known)
		return nil
	}

	if !cur.Contains(id) {
		return nil
	}
	next := cur.Without(id, known)
	if next.IsAll() {
		return ErrLastActive
	}
	doc.Settings.Active = next
	return nil
}

func (s *Store) SetShowCompleted(ctx context.Context, show bool) error {
	return s.update(ctx, func(doc *models.Document) error {
		doc.Settings.ShowCompleted = show
		return nil
	})
}

func (s *Store) SetAnimationsEnabled(ctx context.Context, enabled bool) error {
	return s.update(ctx, func(doc *models.Document) error {
		doc.Settings.AnimationsEnabled = enabled
		return nil
	})
}
