package models

import (
	"regexp"
	"strings"
)

// Collection is a named set of item requirements. System collections ship
// with the application catalog; user collections are owned by the user.
type Collection struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsSystem bool   `json:"isSystem"`
	Items    []Item `json:"items"`
}

// Clone returns a deep copy of c.
func (c Collection) Clone() Collection {
	out := c
	out.Items = make([]Item, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

// ItemIndex returns the position of itemID in c.Items, or -1.
func (c Collection) ItemIndex(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// Progress returns the number of completed items and the number of items.
func (c Collection) Progress() (done, total int) {
	for _, it := range c.Items {
		if it.Completed {
			done++
		}
	}
	return done, len(c.Items)
}

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a collection id from a display name: lowercase, every run
// of non-alphanumeric characters becomes a single '-', no leading or trailing
// separator. It returns "" when name has no alphanumeric characters.
func Slugify(name string) string {
	s := nonAlnumRun.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// CollectionIDs returns the ids of cols in order.
func CollectionIDs(cols []Collection) []string {
	ids := make([]string, 0, len(cols))
	for _, c := range cols {
		ids = append(ids, c.ID)
	}
	return ids
}

// CloneCollections deep-copies a collection slice.
func CloneCollections(cols []Collection) []Collection {
	if cols == nil {
		return nil
	}
	out := make([]Collection, len(cols))
	for i := range cols {
		out[i] = cols[i].Clone()
	}
	return out
}
