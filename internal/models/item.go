// Package models defines the in-memory entity model of keepers: collections
// (keeplists) with their item requirements, user settings and the persisted
// document that wraps both.
package models

// Item is a single requirement record inside a collection.
type Item struct {
	// ItemID is the key into the item catalog.
	ItemID string `json:"itemId"`

	// Owned is the quantity the user has collected so far. Never negative.
	Owned int `json:"qtyOwned"`

	// Required is the target quantity. Zero means unbounded demand: the item
	// never completes on its own.
	Required int `json:"qtyRequired"`

	// Completed mirrors IsComplete(Owned, Required), except after ForceComplete.
	Completed bool `json:"isCompleted"`
}

// IsComplete reports whether owned satisfies a bounded requirement.
func IsComplete(owned, required int) bool {
	return required > 0 && owned >= required
}

// NewItem returns an item with the given requirement and no progress.
func NewItem(itemID string, required int) Item {
	if required < 0 {
		required = 0
	}
	return Item{ItemID: itemID, Required: required}
}

// SetOwned stores qty clamped at zero and re-derives Completed.
func (i *Item) SetOwned(qty int) {
	if qty < 0 {
		qty = 0
	}
	i.Owned = qty
	i.Completed = IsComplete(i.Owned, i.Required)
}

// SetRequired changes the target (clamped at zero) and re-derives Completed.
func (i *Item) SetRequired(required int) {
	if required < 0 {
		required = 0
	}
	i.Required = required
	i.Completed = IsComplete(i.Owned, i.Required)
}

// ForceComplete marks the item complete at its current target. It is the only
// way to flag an unbounded (Required == 0) item as complete.
func (i *Item) ForceComplete() {
	i.Owned = i.Required
	i.Completed = true
}
