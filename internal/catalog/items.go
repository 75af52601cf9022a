package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rarity is the display tier of an item.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// ItemInfo is display metadata for an item id.
type ItemInfo struct {
	ID     string
	Name   string
	Rarity Rarity
	Known  bool
}

var itemInfos = []ItemInfo{
	{ID: "scrap-metal", Name: "Scrap Metal", Rarity: RarityCommon},
	{ID: "plastic-waste", Name: "Plastic Waste", Rarity: RarityCommon},
	{ID: "rubber-scraps", Name: "Rubber Scraps", Rarity: RarityCommon},
	{ID: "cloth-rags", Name: "Cloth Rags", Rarity: RarityCommon},
	{ID: "glass-shards", Name: "Glass Shards", Rarity: RarityCommon},

	{ID: "resin-canister", Name: "Resin Canister", Rarity: RarityUncommon},
	{ID: "copper-wire", Name: "Copper Wire", Rarity: RarityUncommon},
	{ID: "synthetic-weave", Name: "Synthetic Weave", Rarity: RarityUncommon},
	{ID: "ceramic-plate", Name: "Ceramic Plate", Rarity: RarityUncommon},
	{ID: "aluminum-tube", Name: "Aluminum Tube", Rarity: RarityUncommon},

	{ID: "optical-sensor", Name: "Optical Sensor", Rarity: RarityRare},
	{ID: "hydraulic-piston", Name: "Hydraulic Piston", Rarity: RarityRare},
	{ID: "circuit-board", Name: "Circuit Board", Rarity: RarityRare},
	{ID: "titanium-alloy", Name: "Titanium Alloy", Rarity: RarityRare},
	{ID: "carbon-fiber", Name: "Carbon Fiber", Rarity: RarityRare},

	{ID: "arc-powercell", Name: "ARC Powercell", Rarity: RarityEpic},
	{ID: "quantum-chip", Name: "Quantum Chip", Rarity: RarityEpic},
	{ID: "nano-mesh", Name: "Nano Mesh", Rarity: RarityEpic},

	{ID: "arc-core", Name: "ARC Core", Rarity: RarityLegendary},
	{ID: "alien-artifact", Name: "Alien Artifact", Rarity: RarityLegendary},
}

var itemsByID = func() map[string]ItemInfo {
	m := make(map[string]ItemInfo, len(itemInfos))
	for _, it := range itemInfos {
		it.Known = true
		m[it.ID] = it
	}
	return m
}()

// LookupItem returns metadata for id. Unknown ids never fail: they resolve to
// a placeholder named after the id ("rusted-tools" -> "Rusted Tools") with
// Common rarity and Known set to false.
func LookupItem(id string) ItemInfo {
	if it, ok := itemsByID[id]; ok {
		return it
	}
	return ItemInfo{ID: id, Name: nameFromID(id), Rarity: RarityCommon}
}

// Items returns the metadata of every known item in catalog order.
func Items() []ItemInfo {
	out := make([]ItemInfo, 0, len(itemInfos))
	for _, it := range itemInfos {
		out = append(out, itemsByID[it.ID])
	}
	return out
}

func nameFromID(id string) string {
	words := strings.Split(id, "-")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
