package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON encodes payload before touching the response so an encoding
// failure can still be reported as a 500
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := encodeBuffers.Get().(*bytes.Buffer)
	defer func() {
		if buf.Cap() <= maxPooledBuffer {
			buf.Reset()
			encodeBuffers.Put(buf)
		}
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeResponseFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteResponseFailed, "error", err)
	}
}

// large buffers are dropped rather than pinned in the pool
const maxPooledBuffer = 64 << 10

var encodeBuffers = sync.Pool{
	New: func() interface{} { return bytes.NewBuffer(make([]byte, 0, 512)) },
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and writes the status and message it maps to.
// Server-side failures are logged at error level, rejections at debug.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName, "error", err)
	} else {
		log.Debug(opName, "error", err, "status", status)
	}
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgCharacterNotFoundError = "Character not found"
	ErrMsgCharacterExistsError   = "Character already exists"
	ErrMsgItemNotFoundError      = "Item not found"
	ErrMsgTaskNotFoundError      = "Task not found"
	ErrMsgDuelNotFoundError      = "Duel not found"
	ErrMsgRaidNotFoundError      = "Raid not found"

	ErrMsgInvalidTransitionError = "That action is not allowed right now"
	ErrMsgStaleWriteError        = "The record changed while saving. Please retry."
	ErrMsgDuplicateEventError    = "That task was already recorded"
	ErrMsgAlreadyMemberError     = "You are already in this raid"
	ErrMsgTaskExpiredError       = "That task is past its due date"
	ErrMsgNotParticipantError    = "You are not a participant"
	ErrMsgIncapacitatedError     = "Your character is incapacitated. Revive to continue."
	ErrMsgQuotaViolationError    = "Exactly five tasks must be selected"
	ErrMsgSlotMismatchError      = "That item does not fit the slot"
	ErrMsgUnresolvedItemError    = "That item could not be resolved"
	ErrMsgClassLockedError       = "Class selection is not available"
	ErrMsgInvalidInputError      = "Invalid request. Please check your inputs."
)

// errorMapping pairs a domain error with its HTTP status and message
type errorMapping struct {
	err     error
	status  int
	message string
}

var serviceErrorMappings = []errorMapping{
	{domain.ErrCharacterNotFound, http.StatusNotFound, ErrMsgCharacterNotFoundError},
	{domain.ErrItemNotFound, http.StatusNotFound, ErrMsgItemNotFoundError},
	{domain.ErrTaskNotFound, http.StatusNotFound, ErrMsgTaskNotFoundError},
	{domain.ErrDuelNotFound, http.StatusNotFound, ErrMsgDuelNotFoundError},
	{domain.ErrRaidNotFound, http.StatusNotFound, ErrMsgRaidNotFoundError},

	{domain.ErrCharacterExists, http.StatusConflict, ErrMsgCharacterExistsError},
	{domain.ErrInvalidTransition, http.StatusConflict, ErrMsgInvalidTransitionError},
	{domain.ErrStaleWrite, http.StatusConflict, ErrMsgStaleWriteError},
	{domain.ErrDuplicateEvent, http.StatusConflict, ErrMsgDuplicateEventError},
	{domain.ErrAlreadyMember, http.StatusConflict, ErrMsgAlreadyMemberError},
	{domain.ErrTaskExpired, http.StatusConflict, ErrMsgTaskExpiredError},

	{domain.ErrNotParticipant, http.StatusForbidden, ErrMsgNotParticipantError},
	{domain.ErrClassLocked, http.StatusForbidden, ErrMsgClassLockedError},
	{domain.ErrIncapacitated, http.StatusLocked, ErrMsgIncapacitatedError},

	{domain.ErrQuotaViolation, http.StatusUnprocessableEntity, ErrMsgQuotaViolationError},
	{domain.ErrSlotMismatch, http.StatusUnprocessableEntity, ErrMsgSlotMismatchError},
	{domain.ErrUnresolvedItem, http.StatusUnprocessableEntity, ErrMsgUnresolvedItemError},

	{domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidInputError},
	{domain.ErrDatabaseError, http.StatusInternalServerError, ErrMsgGenericServerError},
}

// mapServiceErrorToUserMessage maps domain errors to an HTTP status and a
// message users can act upon. Anything unrecognised is a 500 with a generic
// message so internal details never leak.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	for _, m := range serviceErrorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
