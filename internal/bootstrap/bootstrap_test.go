package bootstrap

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TaskArena_Go/internal/config"
	"github.com/osse101/TaskArena_Go/internal/database/memory"
	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/leaderboard"
	"github.com/osse101/TaskArena_Go/internal/verifier"
)

const itemsPath = "../../configs/items/items.json"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment:     "test",
		Storage:         config.StorageMemory,
		LogLevel:        "info",
		LogFormat:       "text",
		DeadLetterPath:  filepath.Join(t.TempDir(), "dl", "events.jsonl"),
		EventMaxRetries: 1,
		EventRetryDelay: 10 * time.Millisecond,
		BalancePath:     "../../configs/balance.yaml",
	}
}

func TestSyncItems_MemoryStore(t *testing.T) {
	store := memory.NewStore()

	res, err := SyncItems(t.Context(), store, itemsPath)
	require.NoError(t, err)
	assert.Positive(t, res.ItemsInserted)

	res, err = SyncItems(t.Context(), store, itemsPath)
	require.NoError(t, err)
	assert.Zero(t, res.ItemsInserted, "an unchanged file is skipped")

	_, err = SyncItems(t.Context(), store, "does-not-exist.json")
	assert.Error(t, err)
}

func TestLoadBalance(t *testing.T) {
	engine, err := LoadBalance("../../configs/balance.yaml")
	require.NoError(t, err)
	assert.NotNil(t, engine)

	engine, err = LoadBalance(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "a missing balance file uses the defaults")
	assert.NotNil(t, engine)
}

func TestInitializeServices_MemoryWiring(t *testing.T) {
	cfg := testConfig(t)
	ctx := t.Context()

	store := memory.NewStore()
	repos := InitializeMemoryRepositories(store)
	_, err := SyncItems(ctx, repos.Item, itemsPath)
	require.NoError(t, err)

	bus, publisher, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = publisher.Shutdown(context.Background()) })

	engine, err := LoadBalance(cfg.BalancePath)
	require.NoError(t, err)

	boards := leaderboard.NewMemoryStore()
	svc := InitializeServices(ServiceDependencies{
		Repos:     repos,
		Publisher: publisher,
		Engine:    engine,
		Verifier:  NewVerifier(cfg),
		Boards:    boards,
	})
	require.NoError(t, RegisterEventHandlers(EventHandlerDependencies{
		EventBus:    bus,
		RaidService: svc.Raid,
		Boards:      boards,
	}))

	_, err = svc.Character.Create(ctx, "ann", "Ann", domain.Attributes{Constitution: 10, Strength: 4})
	require.NoError(t, err)

	sheet, err := svc.Character.Equip(ctx, "ann", domain.SlotWeapon, "iron_sword")
	require.NoError(t, err, "catalog keys resolve through the synced store")
	assert.Equal(t, 3, sheet.Bonuses.Damage)

	h := NewHandlers(svc, boards, repos)
	assert.NotNil(t, h.Tasks, "memory storage exposes task seeding")

	h = NewHandlers(svc, boards, &Repositories{})
	assert.Nil(t, h.Tasks)
}

func TestNewVerifier(t *testing.T) {
	cfg := testConfig(t)
	assert.IsType(t, verifier.AutoApprove{}, NewVerifier(cfg))

	cfg.VerifierURL = "http://judge.local"
	cfg.VerifierTimeout = time.Second
	assert.IsType(t, &verifier.HTTPClient{}, NewVerifier(cfg))
}

func TestNewLeaderboardStore(t *testing.T) {
	cfg := testConfig(t)

	store, redisStore, err := NewLeaderboardStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &leaderboard.MemoryStore{}, store)
	assert.Nil(t, redisStore)

	mr := miniredis.RunT(t)
	cfg.RedisAddr = mr.Addr()
	store, redisStore, err = NewLeaderboardStore(cfg)
	require.NoError(t, err)
	require.NotNil(t, redisStore)
	defer redisStore.Close()

	require.NoError(t, redisStore.Ping(t.Context()))
	require.NoError(t, store.Increment(t.Context(), leaderboard.BoardDuelWins, "ann", 1))
	top, err := store.Top(t.Context(), leaderboard.BoardDuelWins, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "ann", top[0].UserID)
}

type recordingCloser struct {
	closed *[]string
	name   string
	err    error
}

func (r recordingCloser) Close() error {
	*r.closed = append(*r.closed, r.name)
	return r.err
}

func TestGracefulShutdown_ClosesInOrder(t *testing.T) {
	cfg := testConfig(t)
	_, publisher, err := InitializeEventSystem(cfg)
	require.NoError(t, err)

	var closed []string
	GracefulShutdown(t.Context(), ShutdownComponents{
		ResilientPublisher: publisher,
		Closers: []io.Closer{
			recordingCloser{closed: &closed, name: "redis", err: errors.New("already closed")},
			recordingCloser{closed: &closed, name: "db"},
			CloseFunc(func() { closed = append(closed, "pool") }),
		},
	})

	assert.Equal(t, []string{"redis", "db", "pool"}, closed, "a failing closer does not stop the sequence")
}
