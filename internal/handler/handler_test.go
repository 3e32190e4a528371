package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TaskArena_Go/internal/character"
	"github.com/osse101/TaskArena_Go/internal/database/memory"
	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/duel"
	"github.com/osse101/TaskArena_Go/internal/equipment"
	"github.com/osse101/TaskArena_Go/internal/event"
	"github.com/osse101/TaskArena_Go/internal/formula"
	"github.com/osse101/TaskArena_Go/internal/leaderboard"
	"github.com/osse101/TaskArena_Go/internal/raid"
	"github.com/osse101/TaskArena_Go/internal/verifier"
)

// testAPI wires the real services over the in-memory store
type testAPI struct {
	router *chi.Mux
	store  *memory.Store
	boards *leaderboard.MemoryStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()
	boards := leaderboard.NewMemoryStore()
	bus := event.NewMemoryBus()
	engine := formula.NewEngine(formula.DefaultRules())
	catalog := equipment.NewStaticCatalog([]domain.Item{
		{ID: "iron_sword", Name: "Iron Sword", Type: domain.ItemTypeWeapon, Rarity: domain.RarityCommon,
			Effects: []domain.Effect{{Attribute: "damage", Value: 5}}},
	})

	chars := character.NewService(store, store, catalog, equipment.DefaultSlotTable(), engine, bus)
	duels := duel.NewService(store, store, store, verifier.AutoApprove{}, engine, bus)
	raids := raid.NewService(store, chars, engine, bus)
	raid.Register(bus, raids)
	leaderboard.NewRecorder(boards).Register(bus)

	h := &Handlers{
		Character:   NewCharacterHandler(chars),
		Duel:        NewDuelHandler(duels),
		Raid:        NewRaidHandler(raids),
		Leaderboard: NewLeaderboardHandler(boards),
		Tasks:       NewTaskHandler(store),
	}
	r := chi.NewRouter()
	r.Route("/api/v1", h.Mount)
	return &testAPI{router: r, store: store, boards: boards}
}

// do sends a JSON request and decodes the response into out when non-nil
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func (a *testAPI) createCharacter(t *testing.T, userID string) {
	t.Helper()
	code := a.do(t, http.MethodPost, "/characters", CreateCharacterRequest{
		UserID: userID, Name: userID, Attributes: domain.Attributes{Constitution: 10, Strength: 5},
	}, nil)
	require.Equal(t, http.StatusCreated, code)
}

func (a *testAPI) addTask(id, owner string, kind domain.TaskKind, d domain.Difficulty) {
	a.store.PutTask(domain.Task{ID: id, OwnerID: owner, Kind: kind, Title: id, Difficulty: d})
}
