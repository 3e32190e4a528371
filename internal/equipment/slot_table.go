package equipment

import (
	"fmt"
	"sort"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// SlotTable is the immutable item type to slot mapping, plus the layer
// (z-order) each slot is drawn at. Build one with NewSlotTable or
// DefaultSlotTable and pass it to the aggregator.
type SlotTable struct {
	slots  map[domain.ItemType]domain.Slot
	layers map[domain.Slot]int
}

// DefaultSlotTable returns the standard nine-slot mapping
func DefaultSlotTable() SlotTable {
	t, _ := NewSlotTable(
		map[domain.ItemType]domain.Slot{
			domain.ItemTypeHelmet:     domain.SlotHead,
			domain.ItemTypeArmor:      domain.SlotChest,
			domain.ItemTypeWeapon:     domain.SlotWeapon,
			domain.ItemTypeShield:     domain.SlotShield,
			domain.ItemTypeSkin:       domain.SlotSkin,
			domain.ItemTypeMount:      domain.SlotMount,
			domain.ItemTypeAccessory:  domain.SlotAccessory,
			domain.ItemTypePants:      domain.SlotLegs,
			domain.ItemTypeBackground: domain.SlotBackground,
		},
		map[domain.Slot]int{
			domain.SlotBackground: 0,
			domain.SlotMount:      1,
			domain.SlotSkin:       2,
			domain.SlotLegs:       3,
			domain.SlotChest:      4,
			domain.SlotHead:       5,
			domain.SlotShield:     6,
			domain.SlotWeapon:     7,
			domain.SlotAccessory:  8,
		},
	)
	return t
}

// NewSlotTable copies the given mappings into a table after checking that
// every target slot is known.
func NewSlotTable(slots map[domain.ItemType]domain.Slot, layers map[domain.Slot]int) (SlotTable, error) {
	t := SlotTable{
		slots:  make(map[domain.ItemType]domain.Slot, len(slots)),
		layers: make(map[domain.Slot]int, len(layers)),
	}
	for it, slot := range slots {
		if !slot.IsValid() {
			return SlotTable{}, fmt.Errorf("%w: item type %s maps to unknown slot %q", domain.ErrInvalidInput, it, slot)
		}
		t.slots[it] = slot
	}
	for slot, layer := range layers {
		if !slot.IsValid() {
			return SlotTable{}, fmt.Errorf("%w: layer for unknown slot %q", domain.ErrInvalidInput, slot)
		}
		t.layers[slot] = layer
	}
	return t, nil
}

// SlotFor returns the slot an item type occupies
func (t SlotTable) SlotFor(it domain.ItemType) (domain.Slot, bool) {
	slot, ok := t.slots[it]
	return slot, ok
}

// Accepts reports whether an item of type it may occupy slot
func (t SlotTable) Accepts(slot domain.Slot, it domain.ItemType) bool {
	want, ok := t.slots[it]
	return ok && want == slot
}

// Layer returns the draw order of a slot; unknown slots draw last
func (t SlotTable) Layer(slot domain.Slot) int {
	if layer, ok := t.layers[slot]; ok {
		return layer
	}
	return len(domain.AllSlots)
}

// RenderOrder returns the equipped items sorted back to front
func (t SlotTable) RenderOrder(items []domain.EquippedItemInfo) []domain.EquippedItemInfo {
	out := make([]domain.EquippedItemInfo, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return t.Layer(out[i].Slot) < t.Layer(out[j].Slot)
	})
	return out
}
