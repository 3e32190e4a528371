package handler

import (
	"net/http"

	"github.com/osse101/TaskArena_Go/internal/leaderboard"
)

// LeaderboardHandler serves the global boards
type LeaderboardHandler struct {
	store leaderboard.Store
}

// NewLeaderboardHandler creates a LeaderboardHandler
func NewLeaderboardHandler(store leaderboard.Store) *LeaderboardHandler {
	return &LeaderboardHandler{store: store}
}

// LeaderboardResponse is one page of a board
type LeaderboardResponse struct {
	Board   string              `json:"board"`
	Entries []leaderboard.Entry `json:"entries"`
}

// HandleGetBoard returns the top entries of a board
// @Summary Global leaderboard
// @Tags leaderboard
// @Produce json
// @Param board path string true "Board" Enums(duel_wins, raid_damage, raid_final_blows)
// @Param limit query int false "Max entries (default 10, max 100)"
// @Success 200 {object} LeaderboardResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/leaderboard/{board} [get]
func (h *LeaderboardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, ok := GetPathParam(r, w, ParamBoard)
	if !ok {
		return
	}
	if err := leaderboard.ValidateBoard(board); err != nil {
		respondServiceError(w, r, ErrMsgGetLeaderboardFailed, err)
		return
	}
	limit, ok := GetOptionalIntQueryParam(r, w, ParamLimit, leaderboard.DefaultLimit)
	if !ok {
		return
	}

	entries, err := h.store.Top(r.Context(), board, leaderboard.ClampLimit(limit))
	if err != nil {
		respondServiceError(w, r, ErrMsgGetLeaderboardFailed, err)
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	respondJSON(w, http.StatusOK, LeaderboardResponse{Board: board, Entries: entries})
}
