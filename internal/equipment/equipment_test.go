package equipment

import (
	"context"
	"errors"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func testItems() []domain.Item {
	return []domain.Item{
		{ID: "iron_sword", Name: "Iron Sword", Type: domain.ItemTypeWeapon, Rarity: domain.RarityCommon, Price: 50, Currency: domain.CurrencyGold,
			Effects: []domain.Effect{{Attribute: "strength", Value: 3}, {Attribute: "damage", Value: 5}}},
		{ID: "leather_cap", Name: "Leather Cap", Type: domain.ItemTypeHelmet, Rarity: domain.RarityCommon, Price: 20, Currency: domain.CurrencyGold,
			Effects: []domain.Effect{{Attribute: "Constitution", Value: 2}, {Attribute: "hp", Value: 10}}},
		{ID: "A1B2C3D4-0000-4000-8000-00000000000F", Name: "Sage Ring", Type: domain.ItemTypeAccessory, Rarity: domain.RarityEpic, Price: 5, Currency: domain.CurrencyGems,
			Effects: []domain.Effect{{Attribute: "xp_bonus", Value: 10}, {Attribute: "charisma", Value: 99}, {Attribute: "Gold-Bonus", Value: 5}}},
	}
}

func TestNormalizeID(t *testing.T) {
	t.Run("canonical uuid is lower-cased", func(t *testing.T) {
		got := NormalizeID("A1B2C3D4-0000-4000-8000-00000000000F")
		assert.Equal(t, "a1b2c3d4-0000-4000-8000-00000000000f", got)
	})

	t.Run("free-form ids hash deterministically", func(t *testing.T) {
		a := NormalizeID("iron_sword")
		b := NormalizeID("  IRON_SWORD ")
		assert.Equal(t, a, b)
		assert.Len(t, a, 36)
		assert.Regexp(t, uuidPattern, a)
		assert.NotEqual(t, a, NormalizeID("iron_shield"))
	})

	t.Run("malformed uuid-like strings are hashed", func(t *testing.T) {
		got := NormalizeID("zzzzzzzz-0000-4000-8000-000000000000")
		assert.Regexp(t, uuidPattern, got)
		assert.NotEqual(t, "zzzzzzzz-0000-4000-8000-000000000000", got)
	})
}

func TestStaticCatalog_Get(t *testing.T) {
	cat := NewStaticCatalog(testItems())
	ctx := context.Background()

	item, err := cat.Get(ctx, "iron_sword")
	require.NoError(t, err)
	assert.Equal(t, "Iron Sword", item.Name)
	assert.Equal(t, NormalizeID("iron_sword"), item.ID)

	// Normalized ids resolve to the same entry
	again, err := cat.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, again)

	_, err = cat.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.Equal(t, 3, cat.Len())
}

func TestStoreCatalog_CachesHits(t *testing.T) {
	repo := &MockItemRepository{}
	id := NormalizeID("iron_sword")
	repo.On("GetItem", mock.Anything, id).Return(&domain.Item{ID: id, Name: "Iron Sword", Type: domain.ItemTypeWeapon}, nil).Once()
	repo.On("GetItem", mock.Anything, NormalizeID("gone")).Return(nil, domain.ErrItemNotFound).Twice()

	cat := NewStoreCatalog(repo, 8, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		item, err := cat.Get(ctx, "iron_sword")
		require.NoError(t, err)
		assert.Equal(t, "Iron Sword", item.Name)
	}

	// Misses are not cached
	for i := 0; i < 2; i++ {
		_, err := cat.Get(ctx, "gone")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	}
	repo.AssertExpectations(t)
}

func TestStoreCatalog_Invalidate(t *testing.T) {
	repo := &MockItemRepository{}
	id := NormalizeID("cap")
	repo.On("GetItem", mock.Anything, id).Return(&domain.Item{ID: id, Name: "Cap"}, nil).Twice()

	cat := NewStoreCatalog(repo, 8, 0)
	_, err := cat.Get(context.Background(), "cap")
	require.NoError(t, err)
	cat.Invalidate("cap")
	_, err = cat.Get(context.Background(), "cap")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestChain_FallsThroughNotFound(t *testing.T) {
	static := NewStaticCatalog(testItems())
	store := CatalogFunc(func(_ context.Context, id string) (*domain.Item, error) {
		if NormalizeID(id) == NormalizeID("store_only") {
			return &domain.Item{ID: NormalizeID(id), Name: "Store Only", Type: domain.ItemTypeMount}, nil
		}
		return nil, domain.ErrItemNotFound
	})
	chain := Chain{static, store}

	item, err := chain.Get(context.Background(), "store_only")
	require.NoError(t, err)
	assert.Equal(t, "Store Only", item.Name)

	_, err = chain.Get(context.Background(), "nowhere")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	boom := errors.New("boom")
	failing := Chain{CatalogFunc(func(context.Context, string) (*domain.Item, error) { return nil, boom }), static}
	_, err = failing.Get(context.Background(), "iron_sword")
	assert.ErrorIs(t, err, boom)
}

func TestResolveLoadout(t *testing.T) {
	cat := NewStaticCatalog(testItems())
	loadout := domain.Loadout{
		domain.SlotWeapon:    "iron_sword",
		domain.SlotHead:      NormalizeID("leather_cap"),
		domain.SlotAccessory: "a1b2c3d4-0000-4000-8000-00000000000f",
		domain.SlotMount:     "deleted_horse",
		domain.SlotShield:    "iron_sword", // weapon in the shield slot
		domain.SlotLegs:      "   ",
	}

	res, err := ResolveLoadout(context.Background(), loadout, cat, DefaultSlotTable())
	require.NoError(t, err)

	require.Len(t, res.Items, 3)
	assert.Equal(t, domain.SlotHead, res.Items[0].Slot)
	assert.Equal(t, domain.SlotWeapon, res.Items[1].Slot)
	assert.Equal(t, domain.SlotAccessory, res.Items[2].Slot)

	assert.ElementsMatch(t, []domain.SkippedItem{
		{Slot: domain.SlotShield, ItemID: "iron_sword", Reason: domain.SkipReasonSlotMismatch},
		{Slot: domain.SlotMount, ItemID: "deleted_horse", Reason: domain.SkipReasonUnresolved},
	}, res.Skipped)
}

func TestResolveLoadout_LookupErrorsAreSkipped(t *testing.T) {
	cat := CatalogFunc(func(context.Context, string) (*domain.Item, error) {
		return nil, errors.New("connection reset")
	})
	res, err := ResolveLoadout(context.Background(), domain.Loadout{domain.SlotHead: "x"}, cat, DefaultSlotTable())
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, domain.SkipReasonUnresolved, res.Skipped[0].Reason)
}

func TestResolveLoadout_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ResolveLoadout(ctx, domain.Loadout{domain.SlotHead: "x"}, NewStaticCatalog(nil), DefaultSlotTable())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveLoadout_BoundedFanOut(t *testing.T) {
	var inFlight, peak int32
	release := make(chan struct{})
	cat := CatalogFunc(func(ctx context.Context, id string) (*domain.Item, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&inFlight, -1)
		return nil, domain.ErrItemNotFound
	})

	loadout := domain.Loadout{}
	for _, slot := range domain.AllSlots {
		loadout[slot] = string(slot)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ResolveLoadout(context.Background(), loadout, cat, DefaultSlotTable())
	}()
	close(release)
	<-done
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(MaxConcurrentLookups))
}

func TestAggregateBonuses(t *testing.T) {
	cat := NewStaticCatalog(testItems())
	loadout := domain.Loadout{
		domain.SlotWeapon:    "iron_sword",
		domain.SlotHead:      "leather_cap",
		domain.SlotAccessory: "a1b2c3d4-0000-4000-8000-00000000000f",
	}
	res, err := ResolveLoadout(context.Background(), loadout, cat, DefaultSlotTable())
	require.NoError(t, err)

	b := AggregateBonuses(res.Items)
	assert.Equal(t, domain.Bonuses{
		Strength:     3,
		Constitution: 2,
		HP:           10,
		Damage:       5,
		XPBonus:      10,
		GoldBonus:    5,
	}, b)

	// Pure: same input, same output
	assert.Equal(t, b, AggregateBonuses(res.Items))
	assert.Equal(t, domain.Bonuses{}, AggregateBonuses(nil))
}

func TestIsBonusAttribute(t *testing.T) {
	assert.True(t, IsBonusAttribute("XP Bonus"))
	assert.True(t, IsBonusAttribute("str"))
	assert.False(t, IsBonusAttribute("charisma"))
}

func TestValidateEquip(t *testing.T) {
	table := DefaultSlotTable()
	sword := &domain.Item{Type: domain.ItemTypeWeapon}

	assert.NoError(t, ValidateEquip(sword, domain.SlotWeapon, table))
	assert.ErrorIs(t, ValidateEquip(sword, domain.SlotHead, table), domain.ErrSlotMismatch)
	assert.ErrorIs(t, ValidateEquip(sword, domain.Slot("tail"), table), domain.ErrInvalidInput)
}

func TestEquipUnequip_DoNotMutateInput(t *testing.T) {
	orig := domain.Loadout{domain.SlotHead: "a"}
	next := Equip(orig, domain.SlotWeapon, "iron_sword")
	assert.Len(t, orig, 1)
	assert.Equal(t, NormalizeID("iron_sword"), next[domain.SlotWeapon])

	cleared := Unequip(next, domain.SlotHead)
	assert.NotContains(t, cleared, domain.SlotHead)
	assert.Contains(t, next, domain.SlotHead)
}

func TestSlotTable(t *testing.T) {
	table := DefaultSlotTable()
	slot, ok := table.SlotFor(domain.ItemTypePants)
	require.True(t, ok)
	assert.Equal(t, domain.SlotLegs, slot)

	ordered := table.RenderOrder([]domain.EquippedItemInfo{
		{Slot: domain.SlotWeapon}, {Slot: domain.SlotBackground}, {Slot: domain.SlotHead},
	})
	assert.Equal(t, domain.SlotBackground, ordered[0].Slot)
	assert.Equal(t, domain.SlotHead, ordered[1].Slot)
	assert.Equal(t, domain.SlotWeapon, ordered[2].Slot)

	_, err := NewSlotTable(map[domain.ItemType]domain.Slot{domain.ItemTypeWeapon: "tail"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
