package domain

// Slot is an equipment position on a character
type Slot string

const (
	SlotHead       Slot = "head"
	SlotChest      Slot = "chest"
	SlotWeapon     Slot = "weapon"
	SlotShield     Slot = "shield"
	SlotSkin       Slot = "skin"
	SlotMount      Slot = "mount"
	SlotAccessory  Slot = "accessory"
	SlotLegs       Slot = "legs"
	SlotBackground Slot = "background"
)

// AllSlots lists every slot in a stable order
var AllSlots = []Slot{
	SlotHead, SlotChest, SlotWeapon, SlotShield, SlotSkin,
	SlotMount, SlotAccessory, SlotLegs, SlotBackground,
}

// IsValid reports whether s is a known slot
func (s Slot) IsValid() bool {
	for _, known := range AllSlots {
		if s == known {
			return true
		}
	}
	return false
}

// Loadout maps each occupied slot to an item id. One item per slot.
type Loadout map[Slot]string

// EquippedItemInfo is a resolved loadout entry
type EquippedItemInfo struct {
	Slot Slot `json:"slot"`
	Item Item `json:"item"`
}

// SkipReason explains why an equipped id contributed no effects
type SkipReason string

const (
	SkipReasonUnresolved   SkipReason = "unresolved_item"
	SkipReasonSlotMismatch SkipReason = "slot_mismatch"
)

// SkippedItem is a loadout entry that was ignored during resolution
type SkippedItem struct {
	Slot   Slot       `json:"slot"`
	ItemID string     `json:"item_id"`
	Reason SkipReason `json:"reason"`
}

// Bonuses is the sum of all equipped item effects.
// It is derived on every read and never persisted.
type Bonuses struct {
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Constitution int `json:"constitution"`
	Perception   int `json:"perception"`
	Agility      int `json:"agility"`
	Vitality     int `json:"vitality"`
	Endurance    int `json:"endurance"`
	HP           int `json:"hp"`
	Mana         int `json:"mana"`
	Damage       int `json:"damage"`
	GoldBonus    int `json:"gold_bonus"`
	XPBonus      int `json:"xp_bonus"`
}
