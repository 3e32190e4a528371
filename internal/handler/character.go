package handler

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/TaskArena_Go/internal/character"
	"github.com/osse101/TaskArena_Go/internal/domain"
)

// CharacterHandler serves character sheets and task outcomes
type CharacterHandler struct {
	service character.Service
}

// NewCharacterHandler creates a CharacterHandler
func NewCharacterHandler(service character.Service) *CharacterHandler {
	return &CharacterHandler{service: service}
}

// CreateCharacterRequest represents a character creation request
type CreateCharacterRequest struct {
	UserID     string            `json:"user_id" validate:"required,max=64,excludesall=\x00\n\r\t/"`
	Name       string            `json:"name" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Attributes domain.Attributes `json:"attributes"`
}

// ReviveRequest represents a paid revive
type ReviveRequest struct {
	HP int `json:"hp" validate:"min=1,max=100000"`
}

// ChooseClassRequest represents a class choice
type ChooseClassRequest struct {
	Class string `json:"class" validate:"required,class"`
}

// EquipRequest represents an equip request
type EquipRequest struct {
	ItemID string `json:"item_id" validate:"required,max=128"`
}

// CharacterResponse decorates a character with display names
type CharacterResponse struct {
	*domain.Character
	ClassName string `json:"class_name"`
}

// CharacterSheetResponse decorates a sheet with display names
type CharacterSheetResponse struct {
	*domain.CharacterSheet
	ClassName string `json:"class_name"`
}

// displayName turns identifiers like "iron_sword" into "Iron Sword"
func displayName(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

func newCharacterResponse(c *domain.Character) CharacterResponse {
	return CharacterResponse{Character: c, ClassName: displayName(string(c.Class))}
}

func newSheetResponse(s *domain.CharacterSheet) CharacterSheetResponse {
	return CharacterSheetResponse{CharacterSheet: s, ClassName: displayName(string(s.Character.Class))}
}

// HandleCreate creates a level 1 character
// @Summary Create character
// @Tags characters
// @Accept json
// @Produce json
// @Param request body CreateCharacterRequest true "Character"
// @Success 201 {object} CharacterResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/characters [post]
func (h *CharacterHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCharacterRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create character"); err != nil {
		return
	}

	c, err := h.service.Create(r.Context(), req.UserID, req.Name, req.Attributes)
	if err != nil {
		respondServiceError(w, r, ErrMsgCreateCharacterFailed, err)
		return
	}
	respondJSON(w, http.StatusCreated, newCharacterResponse(c))
}

// HandleGet returns the character sheet with equipment bonuses applied
// @Summary Get character sheet
// @Tags characters
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} CharacterSheetResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/characters/{userID} [get]
func (h *CharacterHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathParam(r, w, ParamUserID)
	if !ok {
		return
	}

	sheet, err := h.service.Get(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetCharacterFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, newSheetResponse(sheet))
}

// HandleCompleteTask grants the reward for a finished task
// @Summary Complete task
// @Tags characters
// @Produce json
// @Param userID path string true "User ID"
// @Param taskID path string true "Task ID"
// @Success 200 {object} character.Outcome
// @Failure 409 {object} ErrorResponse
// @Failure 423 {object} ErrorResponse
// @Router /api/v1/characters/{userID}/tasks/{taskID}/complete [post]
func (h *CharacterHandler) HandleCompleteTask(w http.ResponseWriter, r *http.Request) {
	h.handleOutcome(w, r, ParamTaskID, ErrMsgCompleteTaskFailed, h.service.CompleteTask)
}

// HandleMissTask applies the penalty for a missed task
// @Summary Miss task
// @Tags characters
// @Produce json
// @Param userID path string true "User ID"
// @Param taskID path string true "Task ID"
// @Success 200 {object} character.Outcome
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/characters/{userID}/tasks/{taskID}/miss [post]
func (h *CharacterHandler) HandleMissTask(w http.ResponseWriter, r *http.Request) {
	h.handleOutcome(w, r, ParamTaskID, ErrMsgMissTaskFailed, h.service.MissTask)
}

// HandleCompleteHabit grants the habit reward and heal
// @Summary Complete habit
// @Tags characters
// @Produce json
// @Param userID path string true "User ID"
// @Param habitID path string true "Habit ID"
// @Success 200 {object} character.Outcome
// @Failure 409 {object} ErrorResponse
// @Failure 423 {object} ErrorResponse
// @Router /api/v1/characters/{userID}/habits/{habitID}/complete [post]
func (h *CharacterHandler) HandleCompleteHabit(w http.ResponseWriter, r *http.Request) {
	h.handleOutcome(w, r, ParamHabitID, ErrMsgCompleteHabitFailed, h.service.CompleteHabit)
}

func (h *CharacterHandler) handleOutcome(w http.ResponseWriter, r *http.Request, param, opName string,
	apply func(ctx context.Context, userID, taskID string) (*character.Outcome, error)) {
	userID, ok := GetPathParam(r, w, ParamUserID)
	if !ok {
		return
	}
	taskID, ok := GetPathParam(r, w, param)
	if !ok {
		return
	}

	out, err := apply(r.Context(), userID, taskID)
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// HandleRevive restores an incapacitated character
// @Summary Revive character
// @Tags characters
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body ReviveRequest true "Revive"
// @Success 200 {object} CharacterResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/characters/{userID}/revive [post]
func (h *CharacterHandler) HandleRevive(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathParam(r, w, ParamUserID)
	if !ok {
		return
	}
	var req ReviveRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Revive"); err != nil {
		return
	}

	c, err := h.service.Revive(r.Context(), userID, req.HP)
	if err != nil {
		respondServiceError(w, r, ErrMsgReviveFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, newCharacterResponse(c))
}

// HandleChooseClass sets an advanced class once the unlock level is reached
// @Summary Choose class
// @Tags characters
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body ChooseClassRequest true "Class"
// @Success 200 {object} CharacterResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/characters/{userID}/class [post]
func (h *CharacterHandler) HandleChooseClass(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetPathParam(r, w, ParamUserID)
	if !ok {
		return
	}
	var req ChooseClassRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Choose class"); err != nil {
		return
	}
	class, _ := domain.ParseClass(req.Class)

	c, err := h.service.ChooseClass(r.Context(), userID, class)
	if err != nil {
		respondServiceError(w, r, ErrMsgChooseClassFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, newCharacterResponse(c))
}

// HandleEquip places an item in a slot
// @Summary Equip item
// @Tags characters
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param slot path string true "Slot"
// @Param request body EquipRequest true "Item"
// @Success 200 {object} CharacterSheetResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/characters/{userID}/equipment/{slot} [put]
func (h *CharacterHandler) HandleEquip(w http.ResponseWriter, r *http.Request) {
	userID, slot, ok := userAndSlot(w, r)
	if !ok {
		return
	}
	var req EquipRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Equip"); err != nil {
		return
	}

	sheet, err := h.service.Equip(r.Context(), userID, slot, req.ItemID)
	if err != nil {
		respondServiceError(w, r, ErrMsgEquipFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, newSheetResponse(sheet))
}

// HandleUnequip clears a slot
// @Summary Unequip slot
// @Tags characters
// @Produce json
// @Param userID path string true "User ID"
// @Param slot path string true "Slot"
// @Success 200 {object} CharacterSheetResponse
// @Router /api/v1/characters/{userID}/equipment/{slot} [delete]
func (h *CharacterHandler) HandleUnequip(w http.ResponseWriter, r *http.Request) {
	userID, slot, ok := userAndSlot(w, r)
	if !ok {
		return
	}

	sheet, err := h.service.Unequip(r.Context(), userID, slot)
	if err != nil {
		respondServiceError(w, r, ErrMsgUnequipFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, newSheetResponse(sheet))
}

func userAndSlot(w http.ResponseWriter, r *http.Request) (string, domain.Slot, bool) {
	userID, ok := GetPathParam(r, w, ParamUserID)
	if !ok {
		return "", "", false
	}
	raw, ok := GetPathParam(r, w, ParamSlot)
	if !ok {
		return "", "", false
	}
	slot := domain.Slot(strings.ToLower(raw))
	if !slot.IsValid() {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidInputError)
		return "", "", false
	}
	return userID, slot, true
}
