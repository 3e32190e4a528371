package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/leaderboard"
)

// startDuel drives a duel between ann and ben into the active state over HTTP
func startDuel(t *testing.T, api *testAPI) *domain.DuelState {
	t.Helper()
	api.createCharacter(t, "ann")
	api.createCharacter(t, "ben")

	var st domain.DuelState
	code := api.do(t, http.MethodPost, "/duels", ChallengeRequest{ChallengerID: "ann", ChallengedID: "ben"}, &st)
	require.Equal(t, http.StatusCreated, code)
	base := "/duels/" + st.Duel.ID.String()

	code = api.do(t, http.MethodPost, base+"/accept", DuelActorRequest{UserID: "ben"}, &st)
	require.Equal(t, http.StatusOK, code)

	for _, owner := range []string{"ann", "ben"} {
		for i := 0; i < domain.DuelRequiredTasks; i++ {
			id := fmt.Sprintf("%s-%d", owner, i)
			api.addTask(id, owner, domain.TaskKindTask, domain.DifficultyHard)
			code = api.do(t, http.MethodPost, base+"/select", SelectTaskRequest{UserID: owner, TaskID: id}, nil)
			require.Equal(t, http.StatusOK, code)
		}
		code = api.do(t, http.MethodPost, base+"/lock", DuelActorRequest{UserID: owner}, &st)
		require.Equal(t, http.StatusOK, code)
	}
	require.Equal(t, domain.DuelStatusActive, st.Duel.Status)
	return &st
}

func TestDuelHandler_FullDuel(t *testing.T) {
	api := newTestAPI(t)
	st := startDuel(t, api)
	base := "/duels/" + st.Duel.ID.String()

	var resp EvidenceResponse
	for _, sel := range st.TasksOf("ben")[:4] {
		resp = EvidenceResponse{}
		code := api.do(t, http.MethodPost, base+"/tasks/"+sel.ID.String()+"/evidence", EvidenceRequest{UserID: "ben", EvidenceRef: "photo"}, &resp)
		require.Equal(t, http.StatusOK, code)
		assert.True(t, resp.Hit.Verdict.Approved)
	}
	assert.Equal(t, domain.DuelStatusCompleted, resp.Duel.Duel.Status)
	require.NotNil(t, resp.Duel.Duel.WinnerID)
	assert.Equal(t, "ben", *resp.Duel.Duel.WinnerID)

	var got domain.DuelState
	code := api.do(t, http.MethodGet, base, nil, &got)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.DuelStatusCompleted, got.Duel.Status)

	var board LeaderboardResponse
	code = api.do(t, http.MethodGet, "/leaderboard/"+leaderboard.BoardDuelWins, nil, &board)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "ben", board.Entries[0].UserID)

	sel := st.TasksOf("ben")[4]
	code = api.do(t, http.MethodPost, base+"/tasks/"+sel.ID.String()+"/evidence", EvidenceRequest{UserID: "ben", EvidenceRef: "late"}, nil)
	assert.Equal(t, http.StatusConflict, code, "a completed duel takes no more damage")
}

func TestDuelHandler_ContestFlow(t *testing.T) {
	api := newTestAPI(t)
	st := startDuel(t, api)
	base := "/duels/" + st.Duel.ID.String()
	sel := st.TasksOf("ann")[0]
	taskPath := base + "/tasks/" + sel.ID.String()

	code := api.do(t, http.MethodPost, taskPath+"/evidence", EvidenceRequest{UserID: "ann", EvidenceRef: "photo"}, nil)
	require.Equal(t, http.StatusOK, code)

	code = api.do(t, http.MethodPost, taskPath+"/contest", ContestRequest{UserID: "ann", Reason: "mine"}, nil)
	assert.Equal(t, http.StatusConflict, code, "only the opponent may contest")

	var resp DataResponse
	code = api.do(t, http.MethodPost, taskPath+"/contest", ContestRequest{UserID: "ben", Reason: "blurry photo"}, &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, MsgContestFiled, resp.Message)

	upheld := false
	code = api.do(t, http.MethodPost, taskPath+"/resolve", ResolveContestRequest{Upheld: &upheld}, &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, MsgContestResolved, resp.Message)

	var got domain.DuelState
	api.do(t, http.MethodGet, base, nil, &got)
	assert.Equal(t, domain.DuelStartingHP, got.Duel.ChallengedHP, "overturned damage is restored")

	code = api.do(t, http.MethodPost, taskPath+"/resolve", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, code, "a ruling is required")
}

func TestDuelHandler_Rejections(t *testing.T) {
	api := newTestAPI(t)
	api.createCharacter(t, "ann")
	api.createCharacter(t, "ben")

	code := api.do(t, http.MethodPost, "/duels", ChallengeRequest{ChallengerID: "ann", ChallengedID: "ann"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = api.do(t, http.MethodGet, "/duels/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = api.do(t, http.MethodGet, "/duels/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	var st domain.DuelState
	code = api.do(t, http.MethodPost, "/duels", ChallengeRequest{ChallengerID: "ann", ChallengedID: "ben"}, &st)
	require.Equal(t, http.StatusCreated, code)
	base := "/duels/" + st.Duel.ID.String()

	code = api.do(t, http.MethodPost, base+"/accept", DuelActorRequest{UserID: "ann"}, nil)
	assert.Equal(t, http.StatusConflict, code, "the challenger cannot accept")

	code = api.do(t, http.MethodPost, base+"/accept", DuelActorRequest{UserID: "ben"}, nil)
	require.Equal(t, http.StatusOK, code)

	api.addTask("ann-0", "ann", domain.TaskKindTask, domain.DifficultyEasy)
	code = api.do(t, http.MethodPost, base+"/select", SelectTaskRequest{UserID: "ann", TaskID: "ann-0"}, &st)
	require.Equal(t, http.StatusOK, code)

	code = api.do(t, http.MethodPost, base+"/lock", DuelActorRequest{UserID: "ann"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code, "five tasks are required")

	selected := st.TasksOf("ann")
	require.Len(t, selected, 1)
	code = api.do(t, http.MethodPost, base+"/deselect", DeselectTaskRequest{UserID: "ann", SelectedID: selected[0].ID.String()}, &st)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, st.TasksOf("ann"))

	code = api.do(t, http.MethodPost, base+"/deselect", DeselectTaskRequest{UserID: "ann", SelectedID: "nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = api.do(t, http.MethodPost, base+"/cancel", DuelActorRequest{UserID: "ben"}, &st)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.DuelStatusCancelled, st.Duel.Status)
}
