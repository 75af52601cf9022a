// Package merge reconciles stored progress against the shipped catalog. It
// runs on every load, independently of schema migrations.
package merge

import (
	"slices"

	"github.com/dmitrijs2005/keepers/internal/catalog"
	"github.com/dmitrijs2005/keepers/internal/models"
)

// Reconcile returns the authoritative document built from persisted and cat.
//
// System collections take their structure from the catalog and their
// progress from persisted. User collections pass through untouched except
// that invalid ids (empty, duplicate, or shadowing a system id) are dropped.
// persisted is not modified.
func Reconcile(persisted models.Document, cat *catalog.Catalog) models.Document {
	byID := make(map[string]models.Collection, len(persisted.Collections))
	for _, c := range persisted.Collections {
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = c
		}
	}

	system := cat.Collections()
	out := make([]models.Collection, 0, len(system)+len(persisted.Collections))
	for _, sc := range system {
		prev, ok := byID[sc.ID]
		if !ok || !prev.IsSystem {
			out = append(out, sc)
			continue
		}
		out = append(out, mergeSystem(sc, prev))
	}

	seen := make(map[string]struct{}, len(persisted.Collections))
	for _, id := range cat.IDs() {
		seen[id] = struct{}{}
	}
	for _, c := range persisted.Collections {
		if c.IsSystem || c.ID == "" {
			continue
		}
		if _, taken := seen[c.ID]; taken {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c.Clone())
	}

	return models.Document{
		Collections: out,
		Settings:    mergeSettings(persisted, cat, models.CollectionIDs(out)),
	}
}

// mergeSystem overlays stored progress on the catalog definition of one
// system collection.
func mergeSystem(def, prev models.Collection) models.Collection {
	for i := range def.Items {
		idx := prev.ItemIndex(def.Items[i].ItemID)
		if idx < 0 {
			continue
		}
		old := prev.Items[idx]
		newRequired := def.Items[i].Required

		owned := old.Owned
		if models.IsComplete(old.Owned, old.Required) && old.Required != newRequired {
			owned = newRequired
		}
		def.Items[i].SetOwned(owned)
	}
	return def
}

func mergeSettings(persisted models.Document, cat *catalog.Catalog, known []string) models.Settings {
	s := persisted.Settings
	active := s.Active

	if !active.IsAll() {
		stored := persisted.CollectionIDs()
		ids := active.IDs()
		for _, id := range cat.IDs() {
			if !slices.Contains(stored, id) && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
		active = models.Subset(ids...)
	}

	s.Active = active.Normalize(known)
	return s
}
