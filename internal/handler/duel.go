package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/duel"
)

// DuelHandler serves the duel lifecycle
type DuelHandler struct {
	service duel.Service
}

// NewDuelHandler creates a DuelHandler
func NewDuelHandler(service duel.Service) *DuelHandler {
	return &DuelHandler{service: service}
}

// ChallengeRequest represents a duel challenge request
type ChallengeRequest struct {
	ChallengerID string `json:"challenger_id" validate:"required,max=64"`
	ChallengedID string `json:"challenged_id" validate:"required,max=64,nefield=ChallengerID"`
}

// DuelActorRequest identifies the user acting on a duel
type DuelActorRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// SelectTaskRequest represents a task selection
type SelectTaskRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	TaskID string `json:"task_id" validate:"required,max=128"`
}

// DeselectTaskRequest represents removing a selection before locking
type DeselectTaskRequest struct {
	UserID     string `json:"user_id" validate:"required,max=64"`
	SelectedID string `json:"selected_id" validate:"required,uuid"`
}

// EvidenceRequest represents a proof-of-completion submission
type EvidenceRequest struct {
	UserID      string `json:"user_id" validate:"required,max=64"`
	EvidenceRef string `json:"evidence_ref" validate:"required,max=2048"`
}

// ContestRequest represents an opponent disputing a completion
type ContestRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	Reason string `json:"reason" validate:"required,max=500"`
}

// ResolveContestRequest carries the adjudicator's ruling
type ResolveContestRequest struct {
	Upheld *bool `json:"upheld" validate:"required"`
}

// EvidenceResponse reports the verdict and resulting duel
type EvidenceResponse struct {
	Message string            `json:"message,omitempty"`
	Duel    *domain.DuelState `json:"duel"`
	Hit     *duel.Hit         `json:"hit"`
}

// HandleChallenge creates a pending duel
// @Summary Challenge a user to a duel
// @Tags duels
// @Accept json
// @Produce json
// @Param request body ChallengeRequest true "Challenge"
// @Success 201 {object} domain.DuelState
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/duels [post]
func (h *DuelHandler) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Challenge duel"); err != nil {
		return
	}

	st, err := h.service.Challenge(r.Context(), req.ChallengerID, req.ChallengedID)
	if err != nil {
		respondServiceError(w, r, ErrMsgChallengeFailed, err)
		return
	}
	respondJSON(w, http.StatusCreated, st)
}

// HandleGet returns a duel with both sides' selections
// @Summary Get duel
// @Tags duels
// @Produce json
// @Param id path string true "Duel ID"
// @Success 200 {object} domain.DuelState
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/duels/{id} [get]
func (h *DuelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	duelID, ok := GetUUIDParam(r, w, ParamDuelID)
	if !ok {
		return
	}

	st, err := h.service.GetDuel(r.Context(), duelID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetDuelFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// HandleAccept moves a pending duel into task selection
// @Summary Accept duel
// @Tags duels
// @Accept json
// @Produce json
// @Param id path string true "Duel ID"
// @Param request body DuelActorRequest true "Challenged user"
// @Success 200 {object} domain.DuelState
// @Failure 409 {object} ErrorResponse
// @Failure 423 {object} ErrorResponse
// @Router /api/v1/duels/{id}/accept [post]
func (h *DuelHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.handleActor(w, r, "Accept duel", ErrMsgAcceptDuelFailed, h.service.Accept)
}

// HandleCancel cancels a duel that has not started
// @Summary Cancel duel
// @Tags duels
// @Accept json
// @Produce json
// @Param id path string true "Duel ID"
// @Param request body DuelActorRequest true "Participant"
// @Success 200 {object} domain.DuelState
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/duels/{id}/cancel [post]
func (h *DuelHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.handleActor(w, r, "Cancel duel", ErrMsgCancelDuelFailed, h.service.Cancel)
}

// HandleLock locks the caller's five selections
// @Summary Lock selections
// @Tags duels
// @Accept json
// @Produce json
// @Param id path string true "Duel ID"
// @Param request body DuelActorRequest true "Participant"
// @Success 200 {object} domain.DuelState
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/duels/{id}/lock [post]
func (h *DuelHandler) HandleLock(w http.ResponseWriter, r *http.Request) {
	h.handleActor(w, r, "Lock selections", ErrMsgLockSelectionsFailed, h.service.LockSelections)
}

func (h *DuelHandler) handleActor(w http.ResponseWriter, r *http.Request, action, opName string,
	apply func(ctx context.Context, duelID uuid.UUID, userID string) (*domain.DuelState, error)) {
	duelID, ok := GetUUIDParam(r, w, ParamDuelID)
	if !ok {
		return
	}
	var req DuelActorRequest
	if err := DecodeAndValidateRequest(r, w, &req, action); err != nil {
		return
	}

	st, err := apply(r.Context(), duelID, req.UserID)
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// HandleSelect adds one of the caller's open tasks to the duel
// @Summary Select task
// @Tags duels
// @Accept json
// @Produce json
// @Param id path string true "Duel ID"
// @Param request body SelectTaskRequest true "Selection"
// @Success 200 {object} domain.DuelState
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/duels/{id}/select [post]
func (h *DuelHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	duelID, ok := GetUUIDParam(r, w, ParamDuelID)
	if !ok {
		return
	}
	var req SelectTaskRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Select task"); err != nil {
		return
	}

	st, err := h.service.SelectTask(r.Context(), duelID, req.UserID, req.TaskID)
	if err != nil {
		respondServiceError(w, r, ErrMsgSelectTaskFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// HandleDeselect removes an unlocked selection
// @Summary Deselect task
// @Tags duels
// @Accept json
// @Produce json
// @Param id path string true "Duel ID"
// @Param request body DeselectTaskRequest true "Selection"
// @Success 200 {object} domain.DuelState
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/duels/{id}/deselect [post]
func (h *DuelHandler) HandleDeselect(w http.ResponseWriter, r *http.Request) {
	duelID, ok := GetUUIDParam(r, w, ParamDuelID)
	if !ok {
		return
	}
	var req DeselectTaskRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Deselect task"); err != nil {
		return
	}
	// validated as a uuid above
	selectedID := uuid.MustParse(req.SelectedID)

	st, err := h.service.DeselectTask(r.Context(), duelID, req.UserID, selectedID)
	if err != nil {
		respondServiceError(w, r, ErrMsgDeselectTaskFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// HandleEvidence submits proof that a selected task is done
// @Summary Submit evidence
// @Tags duels
// @Accept json
// @Produce json
// @Param id path string true "Duel ID"
// @Param selectedID path string true "Selected task ID"
// @Param request body EvidenceRequest true "Evidence"
// @Success 200 {object} EvidenceResponse
// @Failure 409 {object} ErrorResponse
// @Failure 423 {object} ErrorResponse
// @Router /api/v1/duels/{id}/tasks/{selectedID}/evidence [post]
func (h *DuelHandler) HandleEvidence(w http.ResponseWriter, r *http.Request) {
	duelID, selectedID, ok := duelAndSelection(w, r)
	if !ok {
		return
	}
	var req EvidenceRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Submit evidence"); err != nil {
		return
	}

	res, err := h.service.SubmitEvidence(r.Context(), duelID, req.UserID, selectedID, req.EvidenceRef)
	if err != nil {
		respondServiceError(w, r, ErrMsgSubmitEvidenceFailed, err)
		return
	}

	resp := EvidenceResponse{Duel: res.Duel, Hit: res.Hit}
	if res.Hit != nil && !res.Hit.Verdict.Approved {
		resp.Message = MsgEvidenceRejected
	}
	respondJSON(w, http.StatusOK, resp)
}

// HandleContest lets the opponent dispute a completed task
// @Summary Contest task
// @Tags duels
// @Accept json
// @Produce json
// @Param id path string true "Duel ID"
// @Param selectedID path string true "Selected task ID"
// @Param request body ContestRequest true "Contest"
// @Success 200 {object} DataResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/duels/{id}/tasks/{selectedID}/contest [post]
func (h *DuelHandler) HandleContest(w http.ResponseWriter, r *http.Request) {
	duelID, selectedID, ok := duelAndSelection(w, r)
	if !ok {
		return
	}
	var req ContestRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Contest task"); err != nil {
		return
	}

	st, err := h.service.Contest(r.Context(), duelID, req.UserID, selectedID, req.Reason)
	if err != nil {
		respondServiceError(w, r, ErrMsgContestFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgContestFiled, Data: st})
}

// HandleResolve records the adjudicator's ruling on a contest
// @Summary Resolve contest
// @Tags duels
// @Accept json
// @Produce json
// @Param id path string true "Duel ID"
// @Param selectedID path string true "Selected task ID"
// @Param request body ResolveContestRequest true "Ruling"
// @Success 200 {object} DataResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/duels/{id}/tasks/{selectedID}/resolve [post]
func (h *DuelHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	duelID, selectedID, ok := duelAndSelection(w, r)
	if !ok {
		return
	}
	var req ResolveContestRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Resolve contest"); err != nil {
		return
	}

	st, err := h.service.ResolveContest(r.Context(), duelID, selectedID, *req.Upheld)
	if err != nil {
		respondServiceError(w, r, ErrMsgResolveContestFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgContestResolved, Data: st})
}

func duelAndSelection(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	duelID, ok := GetUUIDParam(r, w, ParamDuelID)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	selectedID, ok := GetUUIDParam(r, w, ParamSelectedID)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return duelID, selectedID, true
}
