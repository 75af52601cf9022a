package store

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/keepers/internal/models"
	"github.com/dmitrijs2005/keepers/internal/telemetry"
)

// CreateCollection adds an empty user collection and activates it. The id is
// derived from name; a name whose id is already taken is rejected.
func (s *Store) CreateCollection(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	id := models.Slugify(name)
	if id == "" {
		return "", ErrInvalidName
	}

	err := s.update(ctx, func(doc *models.Document) error {
		if doc.Find(id) >= 0 {
			return ErrCollectionExists
		}
		doc.Collections = append(doc.Collections, models.Collection{
			ID:    id,
			Name:  name,
			Items: []models.Item{},
		})
		doc.Settings.Active = doc.Settings.Active.With(id, doc.CollectionIDs())
		return nil
	})
	if err != nil {
		return "", err
	}

	s.capture(ctx, telemetry.EventCollectionCreated, map[string]any{"collectionId": id})
	return id, nil
}

// RenameCollection changes the display name of a user collection. The id
// does not change.
func (s *Store) RenameCollection(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if models.Slugify(name) == "" {
		return ErrInvalidName
	}
	return s.update(ctx, func(doc *models.Document) error {
		c, err := findUserCollection(doc, id)
		if err != nil {
			return err
		}
		c.Name = name
		return nil
	})
}

// DeleteCollection removes a user collection and drops it from the active
// selection.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	err := s.update(ctx, func(doc *models.Document) error {
		if _, err := findUserCollection(doc, id); err != nil {
			return err
		}
		doc.Collections = slices.DeleteFunc(doc.Collections, func(c models.Collection) bool {
			return c.ID == id
		})

		active := doc.Settings.Active
		if !active.IsAll() {
			rest := slices.DeleteFunc(active.IDs(), func(x string) bool { return x == id })
			active = models.Subset(rest...)
		}
		doc.Settings.Active = active.Normalize(doc.CollectionIDs())
		return nil
	})
	if err == nil {
		s.capture(ctx, telemetry.EventCollectionDeleted, map[string]any{"collectionId": id})
	}
	return err
}
