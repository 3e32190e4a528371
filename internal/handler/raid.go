package handler

import (
	"net/http"
	"time"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/raid"
)

// RaidHandler serves cooperative boss fights
type RaidHandler struct {
	service raid.Service
}

// NewRaidHandler creates a RaidHandler
func NewRaidHandler(service raid.Service) *RaidHandler {
	return &RaidHandler{service: service}
}

// CreateRaidRequest represents a raid creation request. Zero duration and a
// missing charge rate fall back to the defaults.
type CreateRaidRequest struct {
	LeaderID            string `json:"leader_id" validate:"required,max=64"`
	BossName            string `json:"boss_name" validate:"required,max=64"`
	BossMaxHP           int    `json:"boss_max_hp" validate:"gt=0,max=10000000"`
	BossDamage          int    `json:"boss_damage" validate:"min=0,max=100000"`
	DurationMinutes     int    `json:"duration_minutes" validate:"min=0"`
	ChargeRatePerMinute *int   `json:"charge_rate_per_minute,omitempty" validate:"omitempty,min=0,max=100"`
}

func (req CreateRaidRequest) params() raid.Params {
	p := raid.Params{
		BossName:            req.BossName,
		BossMaxHP:           req.BossMaxHP,
		BossDamage:          req.BossDamage,
		Duration:            time.Duration(req.DurationMinutes) * time.Minute,
		ChargeRatePerMinute: raid.DefaultChargeRatePerMinute,
	}
	if p.Duration == 0 {
		p.Duration = raid.DefaultDuration
	}
	if req.ChargeRatePerMinute != nil {
		p.ChargeRatePerMinute = *req.ChargeRatePerMinute
	}
	return p
}

// RaidActorRequest identifies the user acting on a raid
type RaidActorRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// StunRequest freezes the boss's charge meter
type StunRequest struct {
	UserID  string `json:"user_id" validate:"required,max=64"`
	Seconds int    `json:"seconds" validate:"gt=0"`
}

// ReduceChargeRequest drains the boss's charge meter
type ReduceChargeRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	Amount int    `json:"amount" validate:"gt=0,max=100"`
}

// HandleCreate opens a raid led by the caller
// @Summary Create raid
// @Tags raids
// @Accept json
// @Produce json
// @Param request body CreateRaidRequest true "Raid"
// @Success 201 {object} domain.RaidState
// @Failure 400 {object} ErrorResponse
// @Failure 423 {object} ErrorResponse
// @Router /api/v1/raids [post]
func (h *RaidHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRaidRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create raid"); err != nil {
		return
	}

	st, err := h.service.Create(r.Context(), req.LeaderID, req.params())
	if err != nil {
		respondServiceError(w, r, ErrMsgCreateRaidFailed, err)
		return
	}
	respondJSON(w, http.StatusCreated, st)
}

// HandleGet returns a raid with its live charge meter
// @Summary Get raid
// @Tags raids
// @Produce json
// @Param id path string true "Raid ID"
// @Success 200 {object} domain.RaidState
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/raids/{id} [get]
func (h *RaidHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	raidID, ok := GetUUIDParam(r, w, ParamRaidID)
	if !ok {
		return
	}

	st, err := h.service.GetRaid(r.Context(), raidID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetRaidFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// HandleJoin adds the caller to an active raid
// @Summary Join raid
// @Tags raids
// @Accept json
// @Produce json
// @Param id path string true "Raid ID"
// @Param request body RaidActorRequest true "Member"
// @Success 200 {object} domain.RaidState
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/raids/{id}/join [post]
func (h *RaidHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	raidID, ok := GetUUIDParam(r, w, ParamRaidID)
	if !ok {
		return
	}
	var req RaidActorRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Join raid"); err != nil {
		return
	}

	st, err := h.service.Join(r.Context(), raidID, req.UserID)
	if err != nil {
		respondServiceError(w, r, ErrMsgJoinRaidFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// HandleStun stuns the boss
// @Summary Stun boss
// @Tags raids
// @Accept json
// @Produce json
// @Param id path string true "Raid ID"
// @Param request body StunRequest true "Stun"
// @Success 200 {object} domain.RaidState
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/raids/{id}/stun [post]
func (h *RaidHandler) HandleStun(w http.ResponseWriter, r *http.Request) {
	raidID, ok := GetUUIDParam(r, w, ParamRaidID)
	if !ok {
		return
	}
	var req StunRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Stun boss"); err != nil {
		return
	}

	st, err := h.service.Stun(r.Context(), raidID, req.UserID, time.Duration(req.Seconds)*time.Second)
	if err != nil {
		respondServiceError(w, r, ErrMsgStunFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// HandleReduceCharge drains the boss's charge meter
// @Summary Reduce boss charge
// @Tags raids
// @Accept json
// @Produce json
// @Param id path string true "Raid ID"
// @Param request body ReduceChargeRequest true "Amount"
// @Success 200 {object} domain.RaidState
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/raids/{id}/reduce-charge [post]
func (h *RaidHandler) HandleReduceCharge(w http.ResponseWriter, r *http.Request) {
	raidID, ok := GetUUIDParam(r, w, ParamRaidID)
	if !ok {
		return
	}
	var req ReduceChargeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Reduce charge"); err != nil {
		return
	}

	st, err := h.service.ReduceCharge(r.Context(), raidID, req.UserID, req.Amount)
	if err != nil {
		respondServiceError(w, r, ErrMsgReduceChargeFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// HandleLeaderboard ranks raid members by damage dealt
// @Summary Raid damage leaderboard
// @Tags raids
// @Produce json
// @Param id path string true "Raid ID"
// @Success 200 {array} domain.LeaderboardEntry
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/raids/{id}/leaderboard [get]
func (h *RaidHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	raidID, ok := GetUUIDParam(r, w, ParamRaidID)
	if !ok {
		return
	}

	board, err := h.service.Leaderboard(r.Context(), raidID)
	if err != nil {
		respondServiceError(w, r, ErrMsgRaidLeaderboardError, err)
		return
	}
	if board == nil {
		board = []domain.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, board)
}
