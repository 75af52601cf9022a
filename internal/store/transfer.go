package store

import (
	"context"

	"github.com/dmitrijs2005/keepers/internal/models"
	"github.com/dmitrijs2005/keepers/internal/telemetry"
)

// Export returns the current state as indented JSON.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotInitialized
	}
	return models.MarshalPretty(s.state)
}

// Import replaces collections and settings with the given export. Nothing
// is merged: the document is taken as is, apart from dropping active ids it
// does not define. On error the current state is left untouched.
func (s *Store) Import(ctx context.Context, data []byte) error {
	doc, err := models.ParseDocument(data)
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	doc.Settings.Active = doc.Settings.Active.Normalize(doc.CollectionIDs())

	err = s.update(ctx, func(cur *models.Document) error {
		*cur = doc
		return nil
	})
	if err == nil {
		s.capture(ctx, telemetry.EventDataImported, map[string]any{"collections": len(doc.Collections)})
	}
	return err
}

// Reset restores system collections to the catalog and settings to their
// defaults. User collections are kept as they are, except those whose id a
// catalog collection now takes.
func (s *Store) Reset(ctx context.Context) error {
	err := s.update(ctx, func(doc *models.Document) error {
		cols := s.catalog.Collections()
		for _, c := range doc.Collections {
			if !c.IsSystem && !s.catalog.Has(c.ID) {
				cols = append(cols, c)
			}
		}
		doc.Collections = cols
		doc.Settings = models.DefaultSettings()
		return nil
	})
	if err == nil {
		s.capture(ctx, telemetry.EventDataReset, nil)
	}
	return err
}
