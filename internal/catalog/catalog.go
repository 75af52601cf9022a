// Package catalog holds the data that ships with the application: the system
// collections with their canonical requirements, and the item metadata used
// for display.
//
// A Catalog is read-only after construction. It only changes between
// application releases, and the merge engine reconciles stored progress
// against it on every load.
package catalog

import (
	"slices"

	"github.com/dmitrijs2005/keepers/internal/models"
)

// Catalog is an immutable set of system collections.
type Catalog struct {
	collections []models.Collection
}

// New builds a catalog from the given collections. Every collection is
// forced to IsSystem and reset to zero progress.
func New(cols []models.Collection) *Catalog {
	out := make([]models.Collection, 0, len(cols))
	for _, c := range cols {
		c = c.Clone()
		c.IsSystem = true
		for i := range c.Items {
			c.Items[i].SetOwned(0)
		}
		out = append(out, c)
	}
	return &Catalog{collections: out}
}

// Collections returns a deep copy of the system collections.
func (c *Catalog) Collections() []models.Collection {
	return models.CloneCollections(c.collections)
}

// IDs returns the system collection ids in catalog order.
func (c *Catalog) IDs() []string {
	return models.CollectionIDs(c.collections)
}

// Has reports whether id names a system collection.
func (c *Catalog) Has(id string) bool {
	return slices.Contains(c.IDs(), id)
}

// Get returns a copy of the system collection with the given id.
func (c *Catalog) Get(id string) (models.Collection, bool) {
	for _, col := range c.collections {
		if col.ID == id {
			return col.Clone(), true
		}
	}
	return models.Collection{}, false
}

// DefaultDocument is the state of a fresh install with no migrations applied:
// every system collection at zero progress and default settings.
func (c *Catalog) DefaultDocument() models.Document {
	return models.Document{
		Collections: c.Collections(),
		Settings:    models.DefaultSettings(),
	}
}

// Default returns the catalog shipped with this release.
func Default() *Catalog {
	return New(systemCollections)
}

func req(itemID string, qty int) models.Item {
	return models.NewItem(itemID, qty)
}

var systemCollections = []models.Collection{
	{
		ID:   "workbenches",
		Name: "Workbenches",
		Items: []models.Item{
			req("scrap-metal", 25),
			req("plastic-waste", 15),
			req("resin-canister", 10),
			req("copper-wire", 8),
			req("circuit-board", 3),
			req("hydraulic-piston", 2),
			req("titanium-alloy", 5),
		},
	},
	{
		ID:   "expedition-1",
		Name: "Expedition 1",
		Items: []models.Item{
			req("rubber-scraps", 30),
			req("copper-wire", 12),
			req("optical-sensor", 2),
			req("arc-powercell", 1),
		},
	},
	{
		ID:   "expedition-2",
		Name: "Expedition 2",
		Items: []models.Item{
			req("optical-sensor", 4),
			req("synthetic-weave", 12),
			req("carbon-fiber", 6),
			req("arc-powercell", 2),
			req("quantum-chip", 1),
			req("nano-mesh", 3),
		},
	},
	{
		ID:   "quests",
		Name: "Quests",
		Items: []models.Item{
			req("scrap-metal", 50),
			req("rubber-scraps", 20),
			req("cloth-rags", 15),
			req("glass-shards", 10),
			req("ceramic-plate", 8),
			req("aluminum-tube", 6),
			req("arc-core", 1),
			req("alien-artifact", 1),
		},
	},
}
