package equipment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/logger"
)

// Resolution is the outcome of resolving a loadout.
// Items are in slot order; Skipped lists entries that contributed nothing.
type Resolution struct {
	Items   []domain.EquippedItemInfo
	Skipped []domain.SkippedItem
}

type lookupResult struct {
	item *domain.Item
	err  error
}

// ResolveLoadout looks up every occupied slot in the catalog. Unknown ids,
// failed lookups and items whose type does not fit their slot are skipped
// and reported. Only cancellation of ctx is returned as an error.
func ResolveLoadout(ctx context.Context, loadout domain.Loadout, catalog Catalog, table SlotTable) (*Resolution, error) {
	slots := make([]domain.Slot, 0, len(loadout))
	for _, slot := range domain.AllSlots {
		if id := strings.TrimSpace(loadout[slot]); id != "" {
			slots = append(slots, slot)
		}
	}
	res := &Resolution{}
	// Slots outside the known set never resolve
	for slot, id := range loadout {
		if !slot.IsValid() && strings.TrimSpace(id) != "" {
			res.Skipped = append(res.Skipped, domain.SkippedItem{Slot: slot, ItemID: id, Reason: domain.SkipReasonSlotMismatch})
		}
	}

	results := make([]lookupResult, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentLookups)
	for i, slot := range slots {
		id := loadout[slot]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, err := catalog.Get(gctx, id)
			results[i] = lookupResult{item: item, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	for i, slot := range slots {
		id := loadout[slot]
		r := results[i]
		switch {
		case r.err != nil || r.item == nil:
			if r.err != nil && !errors.Is(r.err, domain.ErrItemNotFound) {
				log.Warn(LogMsgCatalogLookupFailed, "slot", slot, "item_id", id, "error", r.err)
			}
			res.Skipped = append(res.Skipped, domain.SkippedItem{Slot: slot, ItemID: id, Reason: domain.SkipReasonUnresolved})
		case !table.Accepts(slot, r.item.Type):
			res.Skipped = append(res.Skipped, domain.SkippedItem{Slot: slot, ItemID: id, Reason: domain.SkipReasonSlotMismatch})
		default:
			res.Items = append(res.Items, domain.EquippedItemInfo{Slot: slot, Item: *r.item})
		}
	}
	for _, s := range res.Skipped {
		log.Debug(LogMsgSkippedEquippedItem, "slot", s.Slot, "item_id", s.ItemID, "reason", s.Reason)
	}
	return res, nil
}

// bonusField maps a normalized effect attribute name to its Bonuses field
var bonusField = map[string]func(*domain.Bonuses) *int{
	"strength":     func(b *domain.Bonuses) *int { return &b.Strength },
	"str":          func(b *domain.Bonuses) *int { return &b.Strength },
	"intelligence": func(b *domain.Bonuses) *int { return &b.Intelligence },
	"int":          func(b *domain.Bonuses) *int { return &b.Intelligence },
	"constitution": func(b *domain.Bonuses) *int { return &b.Constitution },
	"con":          func(b *domain.Bonuses) *int { return &b.Constitution },
	"perception":   func(b *domain.Bonuses) *int { return &b.Perception },
	"per":          func(b *domain.Bonuses) *int { return &b.Perception },
	"agility":      func(b *domain.Bonuses) *int { return &b.Agility },
	"agi":          func(b *domain.Bonuses) *int { return &b.Agility },
	"vitality":     func(b *domain.Bonuses) *int { return &b.Vitality },
	"vit":          func(b *domain.Bonuses) *int { return &b.Vitality },
	"endurance":    func(b *domain.Bonuses) *int { return &b.Endurance },
	"end":          func(b *domain.Bonuses) *int { return &b.Endurance },
	"hp":           func(b *domain.Bonuses) *int { return &b.HP },
	"health":       func(b *domain.Bonuses) *int { return &b.HP },
	"mana":         func(b *domain.Bonuses) *int { return &b.Mana },
	"mp":           func(b *domain.Bonuses) *int { return &b.Mana },
	"damage":       func(b *domain.Bonuses) *int { return &b.Damage },
	"goldbonus":    func(b *domain.Bonuses) *int { return &b.GoldBonus },
	"xpbonus":      func(b *domain.Bonuses) *int { return &b.XPBonus },
}

func normalizeAttribute(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(name)
}

// AggregateBonuses sums every effect of the given items into a Bonuses value.
// Effects naming an unknown attribute are ignored.
func AggregateBonuses(items []domain.EquippedItemInfo) domain.Bonuses {
	var b domain.Bonuses
	for _, info := range items {
		for _, eff := range info.Item.Effects {
			field, ok := bonusField[normalizeAttribute(eff.Attribute)]
			if !ok {
				continue
			}
			*field(&b) += eff.Value
		}
	}
	return b
}

// IsBonusAttribute reports whether an effect attribute name is recognized
func IsBonusAttribute(name string) bool {
	_, ok := bonusField[normalizeAttribute(name)]
	return ok
}

// ValidateEquip checks that item may be placed in slot
func ValidateEquip(item *domain.Item, slot domain.Slot, table SlotTable) error {
	if !slot.IsValid() {
		return fmt.Errorf("%w: unknown slot %q", domain.ErrInvalidInput, slot)
	}
	if !table.Accepts(slot, item.Type) {
		want, _ := table.SlotFor(item.Type)
		return fmt.Errorf("%w: %s goes in %q, not %q", domain.ErrSlotMismatch, item.Type, want, slot)
	}
	return nil
}

// Equip returns a copy of loadout with slot set to the normalized item id
func Equip(loadout domain.Loadout, slot domain.Slot, itemID string) domain.Loadout {
	out := make(domain.Loadout, len(loadout)+1)
	for s, id := range loadout {
		out[s] = id
	}
	out[slot] = NormalizeID(itemID)
	return out
}

// Unequip returns a copy of loadout with slot cleared
func Unequip(loadout domain.Loadout, slot domain.Slot) domain.Loadout {
	out := make(domain.Loadout, len(loadout))
	for s, id := range loadout {
		if s != slot {
			out[s] = id
		}
	}
	return out
}
