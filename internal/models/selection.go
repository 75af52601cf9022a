package models

import (
	"encoding/json"
	"slices"
)

// ActiveSelection says which collections are active: either all of them or an
// explicit subset. The zero value is All.
//
// On disk All is stored as an empty list and Subset as the list of ids, so an
// empty subset cannot exist: constructors and Normalize turn it into All.
type ActiveSelection struct {
	subset bool
	ids    []string
}

// AllActive returns the selection that includes every collection.
func AllActive() ActiveSelection {
	return ActiveSelection{}
}

// Subset returns an explicit selection of ids, deduplicated and in first-seen
// order. An empty list yields All.
func Subset(ids ...string) ActiveSelection {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return AllActive()
	}
	return ActiveSelection{subset: true, ids: out}
}

// IsAll reports whether every collection is active.
func (a ActiveSelection) IsAll() bool {
	return !a.subset
}

// IDs returns a copy of the explicit ids. It is nil for All.
func (a ActiveSelection) IDs() []string {
	if !a.subset {
		return nil
	}
	return slices.Clone(a.ids)
}

// Contains reports whether id is active.
func (a ActiveSelection) Contains(id string) bool {
	if !a.subset {
		return true
	}
	return slices.Contains(a.ids, id)
}

// Count returns how many of the known ids are active.
func (a ActiveSelection) Count(known []string) int {
	n := 0
	for _, id := range known {
		if a.Contains(id) {
			n++
		}
	}
	return n
}

// Normalize drops ids that are not known and collapses a subset that covers
// every known id to All.
func (a ActiveSelection) Normalize(known []string) ActiveSelection {
	if !a.subset {
		return a
	}
	kept := make([]string, 0, len(a.ids))
	for _, id := range a.ids {
		if slices.Contains(known, id) {
			kept = append(kept, id)
		}
	}
	next := Subset(kept...)
	if next.subset && len(next.ids) == countDistinct(known) {
		return AllActive()
	}
	return next
}

// With activates id. known is the full list of collection ids, including id.
func (a ActiveSelection) With(id string, known []string) ActiveSelection {
	if !a.subset {
		return a
	}
	return Subset(append(slices.Clone(a.ids), id)...).Normalize(known)
}

// Without deactivates id. Deactivating from All materializes every other
// known id. The result may be All when nothing else would stay active.
func (a ActiveSelection) Without(id string, known []string) ActiveSelection {
	src := a.ids
	if !a.subset {
		src = known
	}
	rest := make([]string, 0, len(src))
	for _, x := range src {
		if x != id {
			rest = append(rest, x)
		}
	}
	return Subset(rest...).Normalize(known)
}

// Equal reports whether a and b select the same ids in the same order.
func (a ActiveSelection) Equal(b ActiveSelection) bool {
	return a.subset == b.subset && slices.Equal(a.ids, b.ids)
}

// MarshalJSON encodes All as [] and Subset as its id list.
func (a ActiveSelection) MarshalJSON() ([]byte, error) {
	if !a.subset {
		return []byte("[]"), nil
	}
	return json.Marshal(a.ids)
}

// UnmarshalJSON decodes an id list; null and [] both mean All.
func (a *ActiveSelection) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*a = Subset(ids...)
	return nil
}

func countDistinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
