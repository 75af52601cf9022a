package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// EnvelopeFormatVersion is written into the storage envelope. It versions the
// envelope itself, not the document schema (see package migration).
const EnvelopeFormatVersion = 0

// ErrInvalidDocument reports bytes that are not a keepers document.
var ErrInvalidDocument = errors.New("invalid document")

// Document is the full persisted state: collections plus settings. It is also
// the import/export file format.
type Document struct {
	Collections []Collection `json:"collections"`
	Settings    Settings     `json:"settings"`
}

// envelope is the wrapped storage shape: {"payload": {...}, "formatVersion": n}.
type envelope struct {
	Payload       Document `json:"payload"`
	FormatVersion int      `json:"formatVersion"`
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	return Document{
		Collections: CloneCollections(d.Collections),
		Settings:    d.Settings,
	}
}

// CollectionIDs returns the ids of all collections in d.
func (d Document) CollectionIDs() []string {
	return CollectionIDs(d.Collections)
}

// Find returns the index of the collection with the given id, or -1.
func (d Document) Find(id string) int {
	for i := range d.Collections {
		if d.Collections[i].ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the structural invariants: non-empty unique collection ids
// and unique item ids within each collection.
func (d Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Collections))
	for _, c := range d.Collections {
		if c.ID == "" {
			return fmt.Errorf("%w: collection without id", ErrInvalidDocument)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate collection id %q", ErrInvalidDocument, c.ID)
		}
		seen[c.ID] = struct{}{}

		items := make(map[string]struct{}, len(c.Items))
		for _, it := range c.Items {
			if _, dup := items[it.ItemID]; dup {
				return fmt.Errorf("%w: duplicate item %q in collection %q", ErrInvalidDocument, it.ItemID, c.ID)
			}
			items[it.ItemID] = struct{}{}
		}
	}
	return nil
}

// ParseDocument decodes the bare {collections, settings} shape. It fails unless
// data is valid JSON with an array "collections" field. Missing settings
// fields take their defaults.
func ParseDocument(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return Document{}, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	if !gjson.GetBytes(data, "collections").IsArray() {
		return Document{}, fmt.Errorf("%w: collections must be an array", ErrInvalidDocument)
	}

	doc := Document{Settings: DefaultSettings()}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc.Collections == nil {
		doc.Collections = []Collection{}
	}
	return doc, nil
}

// DecodeStored decodes a stored record in either shape: bare or wrapped in
// the {"payload": ...} envelope.
func DecodeStored(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return Document{}, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	if payload := gjson.GetBytes(data, "payload"); payload.IsObject() {
		return ParseDocument([]byte(payload.Raw))
	}
	return ParseDocument(data)
}

// EncodeStored encodes d in the envelope shape used for storage.
func EncodeStored(d Document) ([]byte, error) {
	b, err := json.Marshal(envelope{Payload: d, FormatVersion: EnvelopeFormatVersion})
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return b, nil
}

// MarshalPretty encodes d in the bare shape with two-space indentation.
func MarshalPretty(d Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}
