package migration

import (
	"bytes"
	"context"
	"errors"
	"slices"

	"github.com/dmitrijs2005/keepers/internal/catalog"
	"github.com/dmitrijs2005/keepers/internal/models"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DemotedCollectionID is hidden from the active set by the version 2 step.
const DemotedCollectionID = "expedition-1"

const defaultSettingsJSON = `{"showCompleted":false,"animationsEnabled":true,"activeCollectionIds":[]}`

// Steps returns the built-in steps in version order.
func Steps() []Step {
	return []Step{
		{Version: 2, Name: "demote " + DemotedCollectionID, Apply: demoteCollection(DemotedCollectionID)},
	}
}

var (
	errNotJSON   = errors.New("stored document is not valid JSON")
	errNotObject = errors.New("stored document is not an object")
)

// demoteCollection removes id from the active set. An "all active" set is
// first materialized into every stored collection id, so the result is
// always an explicit list.
func demoteCollection(id string) ApplyFunc {
	return func(_ context.Context, raw []byte, cat *catalog.Catalog) ([]byte, error) {
		if len(bytes.TrimSpace(raw)) == 0 {
			return freshDocument(cat, id)
		}

		if !gjson.ValidBytes(raw) {
			return nil, errNotJSON
		}
		root := gjson.ParseBytes(raw)
		if root.Type == gjson.Null {
			return raw, nil
		}
		if !root.IsObject() {
			return nil, errNotObject
		}

		prefix := ""
		if root.Get("payload").IsObject() {
			prefix = "payload."
		}

		out := raw
		var err error
		if !gjson.GetBytes(out, prefix+"settings").IsObject() {
			out, err = sjson.SetRawBytes(out, prefix+"settings", []byte(defaultSettingsJSON))
			if err != nil {
				return nil, err
			}
		}

		active := stringArray(gjson.GetBytes(out, prefix+"settings.activeCollectionIds"))
		if len(active) == 0 {
			active = stringArray(gjson.GetBytes(out, prefix+"collections.#.id"))
		}

		next := make([]string, 0, len(active))
		for _, a := range active {
			if a != id {
				next = append(next, a)
			}
		}

		return sjson.SetBytes(out, prefix+"settings.activeCollectionIds", next)
	}
}

// freshDocument is the initial state of a new install: every catalog
// collection, all active except id.
func freshDocument(cat *catalog.Catalog, id string) ([]byte, error) {
	doc := cat.DefaultDocument()
	ids := slices.DeleteFunc(cat.IDs(), func(x string) bool { return x == id })
	doc.Settings.Active = models.Subset(ids...)
	return models.EncodeStored(doc)
}

func stringArray(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	var out []string
	for _, v := range r.Array() {
		if v.Type == gjson.String && v.Str != "" {
			out = append(out, v.Str)
		}
	}
	return out
}
