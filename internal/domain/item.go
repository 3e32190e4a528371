package domain

import "strings"

// ItemType is the closed set of equippable item categories
type ItemType string

const (
	ItemTypeHelmet     ItemType = "helmet"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeShield     ItemType = "shield"
	ItemTypeSkin       ItemType = "skin"
	ItemTypeMount      ItemType = "mount"
	ItemTypeAccessory  ItemType = "accessory"
	ItemTypePants      ItemType = "pants"
	ItemTypeBackground ItemType = "background"
)

// Rarity is an ordered five-tier quality level
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var rarityRank = map[Rarity]int{
	RarityCommon:    1,
	RarityUncommon:  2,
	RarityRare:      3,
	RarityEpic:      4,
	RarityLegendary: 5,
}

// Rank returns the ordinal of the rarity, 0 when unknown
func (r Rarity) Rank() int {
	return rarityRank[Rarity(strings.ToLower(string(r)))]
}

// Less reports whether r is a lower tier than other
func (r Rarity) Less(other Rarity) bool {
	return r.Rank() < other.Rank()
}

// Currency an item is priced in
type Currency string

const (
	CurrencyGold Currency = "gold"
	CurrencyGems Currency = "gems"
)

// Effect is a single attribute modifier declared by an item
type Effect struct {
	Attribute string `json:"attribute"`
	Value     int    `json:"value"`
}

// Item is an immutable catalog entry. ID is always in normalized UUID form.
type Item struct {
	ID       string   `json:"id"`
	Key      string   `json:"key,omitempty"`
	Name     string   `json:"name"`
	Type     ItemType `json:"type"`
	Rarity   Rarity   `json:"rarity"`
	Price    int      `json:"price"`
	Currency Currency `json:"currency"`
	Effects  []Effect `json:"effects"`
}
