// Package demand builds the cross-collection view of what still has to be
// collected: one entry per item with every active collection that asks
// for it.
package demand

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/keepers/internal/catalog"
	"github.com/dmitrijs2005/keepers/internal/models"
)

// Demand is one collection's requirement for an item.
type Demand struct {
	CollectionID   string
	CollectionName string
	Item           models.Item
}

type Entry struct {
	Info    catalog.ItemInfo
	Demands []Demand
}

// Outstanding reports whether any demand is still incomplete.
func (e Entry) Outstanding() bool {
	return slices.ContainsFunc(e.Demands, func(d Demand) bool { return !d.Item.Completed })
}

// Owned and Required sum the quantities over all demands.
func (e Entry) Owned() int {
	n := 0
	for _, d := range e.Demands {
		n += d.Item.Owned
	}
	return n
}

func (e Entry) Required() int {
	n := 0
	for _, d := range e.Demands {
		n += d.Item.Required
	}
	return n
}

type View struct {
	Entries []Entry
	// Total counts entries before the query and completion filters.
	Total int
}

// Build aggregates the active collections of doc. query filters by
// case-insensitive substring of the item name. Entries without an
// outstanding demand are hidden unless doc.Settings.ShowCompleted is set.
func Build(doc models.Document, query string) View {
	byID := make(map[string]int)
	var all []Entry

	for _, c := range doc.Collections {
		if !doc.Settings.Active.Contains(c.ID) {
			continue
		}
		for _, it := range c.Items {
			d := Demand{CollectionID: c.ID, CollectionName: c.Name, Item: it}
			if i, ok := byID[it.ItemID]; ok {
				all[i].Demands = append(all[i].Demands, d)
				continue
			}
			byID[it.ItemID] = len(all)
			all = append(all, Entry{Info: catalog.LookupItem(it.ItemID), Demands: []Demand{d}})
		}
	}

	slices.SortStableFunc(all, func(a, b Entry) int {
		return strings.Compare(strings.ToLower(a.Info.Name), strings.ToLower(b.Info.Name))
	})

	q := strings.ToLower(strings.TrimSpace(query))
	shown := make([]Entry, 0, len(all))
	for _, e := range all {
		if q != "" && !strings.Contains(strings.ToLower(e.Info.Name), q) {
			continue
		}
		if !doc.Settings.ShowCompleted && !e.Outstanding() {
			continue
		}
		shown = append(shown, e)
	}

	return View{Entries: shown, Total: len(all)}
}
