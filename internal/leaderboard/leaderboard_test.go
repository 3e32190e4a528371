package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/event"
)

var testTime = time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(mr.Addr())
	require.NoError(t, err)
	store := NewRedisStore(client)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestStores_RankByScore(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]Store{
		"redis":  redisStore,
		"memory": NewMemoryStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Increment(ctx, BoardRaidDamage, "ann", 30))
			require.NoError(t, store.Increment(ctx, BoardRaidDamage, "ben", 45))
			require.NoError(t, store.Increment(ctx, BoardRaidDamage, "ann", 20))
			require.NoError(t, store.Increment(ctx, BoardRaidDamage, "cat", 50))
			require.NoError(t, store.Increment(ctx, BoardDuelWins, "ann", 1))

			top, err := store.Top(ctx, BoardRaidDamage, 10)
			require.NoError(t, err)
			require.Len(t, top, 3)
			assert.Equal(t, Entry{Rank: 1, UserID: "cat", Score: 50}, top[0])
			assert.Equal(t, Entry{Rank: 2, UserID: "ann", Score: 50}, top[1])
			assert.Equal(t, Entry{Rank: 3, UserID: "ben", Score: 45}, top[2])

			top, err = store.Top(ctx, BoardRaidDamage, 1)
			require.NoError(t, err)
			assert.Len(t, top, 1)

			top, err = store.Top(ctx, BoardFinalBlows, 10)
			require.NoError(t, err)
			assert.Empty(t, top)
		})
	}
}

func TestRedisStore_WritesSortedSet(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, store.Increment(context.Background(), BoardDuelWins, "ann", 2))

	score, err := mr.ZScore(keyPrefix+BoardDuelWins, "ann")
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestRedisStore_ErrorsWhenServerGone(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	err := store.Increment(context.Background(), BoardDuelWins, "ann", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgIncrementScore)
}

func TestValidateBoardAndLimit(t *testing.T) {
	assert.NoError(t, ValidateBoard(BoardDuelWins))
	assert.ErrorIs(t, ValidateBoard("gold"), domain.ErrInvalidInput)

	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, MaxLimit, ClampLimit(1000))
	assert.Equal(t, 5, ClampLimit(5))
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	bus := event.NewMemoryBus()
	NewRecorder(store).Register(bus)

	winner := "ann"
	duel := &domain.PvPDuel{ID: uuid.New(), ChallengerID: "ann", ChallengedID: "ben", Status: domain.DuelStatusCompleted, WinnerID: &winner}
	require.NoError(t, bus.Publish(ctx, event.NewDuelEvent(event.DuelCompleted, duel, testTime)))
	require.NoError(t, bus.Publish(ctx, event.New(event.RaidDamage, event.RaidDamagePayloadV1{UserID: "ben", Damage: 25})))
	require.NoError(t, bus.Publish(ctx, event.New(event.RaidDamage, event.RaidDamagePayloadV1{UserID: "ben", Damage: 15})))
	raid := &domain.Raid{ID: uuid.New(), Status: domain.RaidStatusVictory}
	require.NoError(t, bus.Publish(ctx, event.NewRaidEvent(event.RaidVictory, raid, "ben", testTime)))

	wins, err := store.Top(ctx, BoardDuelWins, 10)
	require.NoError(t, err)
	require.Len(t, wins, 1)
	assert.Equal(t, "ann", wins[0].UserID)

	dmg, err := store.Top(ctx, BoardRaidDamage, 10)
	require.NoError(t, err)
	require.Len(t, dmg, 1)
	assert.Equal(t, 40.0, dmg[0].Score)

	blows, err := store.Top(ctx, BoardFinalBlows, 10)
	require.NoError(t, err)
	require.Len(t, blows, 1)
	assert.Equal(t, "ben", blows[0].UserID)
}

func TestRecorder_IgnoresCancelledAndGarbage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rec := NewRecorder(store)

	duel := &domain.PvPDuel{ID: uuid.New(), Status: domain.DuelStatusCancelled}
	require.NoError(t, rec.HandleEvent(ctx, event.NewDuelEvent(event.DuelCompleted, duel, testTime)))
	require.NoError(t, rec.HandleEvent(ctx, event.Event{Type: event.RaidDamage, Payload: "not a payload"}))

	top, err := store.Top(ctx, BoardDuelWins, 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
