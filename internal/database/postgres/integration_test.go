package postgres

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

func newTestCharacter(userID string) *domain.Character {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Character{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        "Tester",
		Attributes:  domain.Attributes{Strength: 3, Constitution: 10},
		Level:       1,
		CurrentHP:   60,
		MaxHP:       60,
		CurrentMana: 30,
		MaxMana:     30,
		Class:       domain.ClassApprentice,
		Equipment:   domain.Loadout{domain.SlotWeapon: "11111111-1111-1111-1111-111111111111"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCharacterRepository_Lifecycle(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewCharacterRepository(pool)
	userID := "char-" + uuid.NewString()

	c := newTestCharacter(userID)
	require.NoError(t, repo.CreateCharacter(ctx, c))
	assert.Equal(t, int64(1), c.Version)

	err := repo.CreateCharacter(ctx, newTestCharacter(userID))
	assert.ErrorIs(t, err, domain.ErrCharacterExists)

	got, err := repo.GetCharacter(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, 10, got.Attributes.Constitution)
	assert.Equal(t, c.Equipment, got.Equipment)

	got.CurrentHP = 40
	require.NoError(t, repo.UpdateCharacter(ctx, got))
	assert.Equal(t, int64(2), got.Version)

	// c still carries version 1
	c.CurrentHP = 10
	err = repo.UpdateCharacter(ctx, c)
	assert.ErrorIs(t, err, domain.ErrStaleWrite)

	_, err = repo.GetCharacter(ctx, "missing-"+uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
}

func TestCharacterRepository_ApplyTaskEventIsIdempotent(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewCharacterRepository(pool)
	userID := "event-" + uuid.NewString()

	c := newTestCharacter(userID)
	require.NoError(t, repo.CreateCharacter(ctx, c))

	ev := &domain.TaskEvent{
		UserID:     userID,
		TaskID:     "task-1",
		Kind:       domain.TaskEventCompleted,
		Key:        "task_completed:task-1",
		XPDelta:    50,
		OccurredAt: time.Now().UTC(),
	}
	c.CurrentXP = 50
	require.NoError(t, repo.ApplyTaskEvent(ctx, c, ev))

	c.CurrentXP = 100
	err := repo.ApplyTaskEvent(ctx, c, ev)
	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)

	got, err := repo.GetCharacter(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.CurrentXP)
}

func TestCharacterRepository_ConcurrentUpdatesOneWins(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewCharacterRepository(pool)
	userID := "race-" + uuid.NewString()
	require.NoError(t, repo.CreateCharacter(ctx, newTestCharacter(userID)))

	var wins, stale atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(hp int) {
			defer wg.Done()
			c, err := repo.GetCharacter(ctx, userID)
			if err != nil {
				return
			}
			// Every goroutine writes the version it read
			c.Version = 1
			c.CurrentHP = hp
			switch err := repo.UpdateCharacter(ctx, c); {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, domain.ErrStaleWrite):
				stale.Add(1)
			}
		}(i + 1)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(7), stale.Load())
}

func TestItemRepository_UpsertAndSync(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewItemRepository(pool)

	item := &domain.Item{
		ID:       uuid.NewString(),
		Key:      "test_blade_" + uuid.NewString()[:8],
		Name:     "Test Blade",
		Type:     domain.ItemTypeWeapon,
		Rarity:   domain.RarityRare,
		Price:    120,
		Currency: domain.CurrencyGold,
		Effects:  []domain.Effect{{Attribute: "strength", Value: 3}},
	}
	require.NoError(t, repo.UpsertItem(ctx, item))

	got, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)

	item.Price = 150
	require.NoError(t, repo.UpsertItem(ctx, item))
	got, err = repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, got.Price)

	_, err = repo.GetItem(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	all, err := repo.GetAllItems(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)

	_, err = repo.GetSyncMetadata(ctx, "nothing.json")
	assert.Error(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	meta := &domain.SyncMetadata{ConfigName: "items.json", LastSyncTime: now, FileHash: "abc", FileModTime: now}
	require.NoError(t, repo.UpsertSyncMetadata(ctx, meta))
	gotMeta, err := repo.GetSyncMetadata(ctx, "items.json")
	require.NoError(t, err)
	assert.Equal(t, "abc", gotMeta.FileHash)
}

func newTestDuel(challenger, challenged string) *domain.DuelState {
	now := time.Now().UTC().Truncate(time.Microsecond)
	id := uuid.New()
	st := &domain.DuelState{Duel: domain.PvPDuel{
		ID:           id,
		ChallengerID: challenger,
		ChallengedID: challenged,
		ChallengerHP: domain.DuelStartingHP,
		ChallengedHP: domain.DuelStartingHP,
		Status:       domain.DuelStatusSelecting,
		CreatedAt:    now,
	}}
	for i := 0; i < 2; i++ {
		st.Tasks = append(st.Tasks, domain.PvPSelectedTask{
			ID:            uuid.New(),
			DuelID:        id,
			OwnerID:       challenger,
			TaskID:        fmt.Sprintf("task-%d", i),
			Difficulty:    domain.DifficultyHard,
			ContestStatus: domain.ContestStatusNone,
		})
	}
	return st
}

func TestDuelRepository_SaveAndReload(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewDuelRepository(pool)
	a, b := "duel-a-"+uuid.NewString(), "duel-b-"+uuid.NewString()

	st := newTestDuel(a, b)
	require.NoError(t, repo.CreateDuel(ctx, st))

	open, err := repo.HasOpenDuel(ctx, b, a)
	require.NoError(t, err)
	assert.True(t, open)

	err = repo.CreateDuel(ctx, newTestDuel(b, a))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "one unfinished duel per pair")

	// Deselect the second task and complete the first
	stale := st.Clone()
	st.Tasks = st.Tasks[:1]
	st.Tasks[0].Completed = true
	st.Tasks[0].DamageDealt = 25
	st.Duel.ChallengedHP = 75
	require.NoError(t, repo.SaveDuel(ctx, st))
	assert.Equal(t, int64(2), st.Duel.Version)

	got, err := repo.GetDuel(ctx, st.Duel.ID)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.True(t, got.Tasks[0].Completed)
	assert.Equal(t, 75, got.Duel.ChallengedHP)

	err = repo.SaveDuel(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrStaleWrite)

	ids, err := repo.ListOpenDuels(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, st.Duel.ID)

	_, err = repo.GetDuel(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrDuelNotFound)
}

func TestRaidRepository_SaveAndReload(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewRaidRepository(pool)
	now := time.Now().UTC().Truncate(time.Microsecond)
	leader := "raid-" + uuid.NewString()

	st := &domain.RaidState{
		Raid: domain.Raid{
			ID:              uuid.New(),
			BossName:        "Procrastination Hydra",
			BossMaxHP:       50,
			BossCurrentHP:   50,
			BossDamage:      10,
			Deadline:        now.Add(24 * time.Hour),
			Status:          domain.RaidStatusActive,
			ChargeUpdatedAt: now,
			ChargeDeadline:  now.Add(time.Hour),
			CreatedAt:       now,
		},
		Members: []domain.RaidMember{{UserID: leader, IsLeader: true, JoinedAt: now}},
	}
	st.Members[0].RaidID = st.Raid.ID
	require.NoError(t, repo.CreateRaid(ctx, st))

	st.Raid.BossCurrentHP = 20
	st.Member(leader).DamageDealt = 30
	require.NoError(t, repo.SaveRaid(ctx, st))

	got, err := repo.GetRaid(ctx, st.Raid.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Raid.BossCurrentHP)
	require.Len(t, got.Members, 1)
	assert.Equal(t, 30, got.Members[0].DamageDealt)

	mine, err := repo.ListActiveRaidsForMember(ctx, leader)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{st.Raid.ID}, mine)

	got.Raid.Version = 1
	assert.ErrorIs(t, repo.SaveRaid(ctx, got), domain.ErrStaleWrite)
}
