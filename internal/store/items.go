package store

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/keepers/internal/models"
	"github.com/dmitrijs2005/keepers/internal/telemetry"
)

func findCollection(doc *models.Document, id string) (*models.Collection, error) {
	i := doc.Find(id)
	if i < 0 {
		return nil, ErrCollectionNotFound
	}
	return &doc.Collections[i], nil
}

func findItem(doc *models.Document, collectionID, itemID string) (*models.Item, error) {
	c, err := findCollection(doc, collectionID)
	if err != nil {
		return nil, err
	}
	i := c.ItemIndex(itemID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	return &c.Items[i], nil
}

func findUserCollection(doc *models.Document, id string) (*models.Collection, error) {
	c, err := findCollection(doc, id)
	if err != nil {
		return nil, err
	}
	if c.IsSystem {
		return nil, ErrSystemCollection
	}
	return c, nil
}

// setOwned changes one item's owned quantity and reports completion.
func (s *Store) setOwned(ctx context.Context, collectionID, itemID string, qty func(models.Item) int) error {
	var completed bool
	err := s.update(ctx, func(doc *models.Document) error {
		it, err := findItem(doc, collectionID, itemID)
		if err != nil {
			return err
		}
		was := it.Completed
		it.SetOwned(qty(*it))
		completed = !was && it.Completed
		return nil
	})
	if err == nil && completed {
		s.capture(ctx, telemetry.EventItemCompleted, itemProps(collectionID, itemID))
	}
	return err
}

// AdjustQuantity adds delta to the owned quantity, clamping at zero.
func (s *Store) AdjustQuantity(ctx context.Context, collectionID, itemID string, delta int) error {
	return s.setOwned(ctx, collectionID, itemID, func(it models.Item) int { return it.Owned + delta })
}

// SetQuantity sets the owned quantity, clamping at zero.
func (s *Store) SetQuantity(ctx context.Context, collectionID, itemID string, qty int) error {
	return s.setOwned(ctx, collectionID, itemID, func(models.Item) int { return qty })
}

// CompleteItem sets owned to required and marks the item complete, including
// items with unbounded demand.
func (s *Store) CompleteItem(ctx context.Context, collectionID, itemID string) error {
	var completed bool
	err := s.update(ctx, func(doc *models.Document) error {
		it, err := findItem(doc, collectionID, itemID)
		if err != nil {
			return err
		}
		completed = !it.Completed
		it.ForceComplete()
		return nil
	})
	if err == nil && completed {
		s.capture(ctx, telemetry.EventItemCompleted, itemProps(collectionID, itemID))
	}
	return err
}

// AddItem adds an item with no progress to a user collection.
func (s *Store) AddItem(ctx context.Context, collectionID, itemID string, required int) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return ErrInvalidItem
	}
	return s.update(ctx, func(doc *models.Document) error {
		c, err := findUserCollection(doc, collectionID)
		if err != nil {
			return err
		}
		if c.ItemIndex(itemID) >= 0 {
			return ErrItemExists
		}
		c.Items = append(c.Items, models.NewItem(itemID, required))
		return nil
	})
}

// RemoveItem removes an item from a user collection.
func (s *Store) RemoveItem(ctx context.Context, collectionID, itemID string) error {
	return s.update(ctx, func(doc *models.Document) error {
		c, err := findUserCollection(doc, collectionID)
		if err != nil {
			return err
		}
		i := c.ItemIndex(itemID)
		if i < 0 {
			return ErrItemNotFound
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	})
}

// SetRequired changes the target quantity of an item in a user collection.
func (s *Store) SetRequired(ctx context.Context, collectionID, itemID string, required int) error {
	return s.update(ctx, func(doc *models.Document) error {
		c, err := findUserCollection(doc, collectionID)
		if err != nil {
			return err
		}
		i := c.ItemIndex(itemID)
		if i < 0 {
			return ErrItemNotFound
		}
		c.Items[i].SetRequired(required)
		return nil
	})
}

func itemProps(collectionID, itemID string) map[string]any {
	return map[string]any{"collectionId": collectionID, "itemId": itemID}
}
