package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Lookup errors
	ErrMsgCharacterNotFound = "character not found"
	ErrMsgCharacterExists   = "character already exists"
	ErrMsgItemNotFound      = "item not found"
	ErrMsgTaskNotFound      = "task not found"
	ErrMsgDuelNotFound      = "duel not found"
	ErrMsgRaidNotFound      = "raid not found"

	// State machine errors
	ErrMsgInvalidTransition = "invalid transition"
	ErrMsgIncapacitated     = "character is incapacitated"
	ErrMsgQuotaViolation    = "task selection quota violated"
	ErrMsgNotParticipant    = "not a participant"
	ErrMsgAlreadyMember     = "already a raid member"
	ErrMsgDuplicateEvent    = "task event already applied"
	ErrMsgTaskExpired       = "task is past its due date"

	// Equipment errors
	ErrMsgSlotMismatch   = "item type does not match slot"
	ErrMsgUnresolvedItem = "item could not be resolved"

	// Progression errors
	ErrMsgClassLocked = "class selection is locked"

	// Concurrency errors
	ErrMsgStaleWrite = "stale write"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrCharacterNotFound = errors.New(ErrMsgCharacterNotFound)
	ErrCharacterExists   = errors.New(ErrMsgCharacterExists)
	ErrItemNotFound      = errors.New(ErrMsgItemNotFound)
	ErrTaskNotFound      = errors.New(ErrMsgTaskNotFound)
	ErrDuelNotFound      = errors.New(ErrMsgDuelNotFound)
	ErrRaidNotFound      = errors.New(ErrMsgRaidNotFound)

	ErrInvalidTransition = errors.New(ErrMsgInvalidTransition)
	ErrIncapacitated     = errors.New(ErrMsgIncapacitated)
	ErrQuotaViolation    = errors.New(ErrMsgQuotaViolation)
	ErrNotParticipant    = errors.New(ErrMsgNotParticipant)
	ErrAlreadyMember     = errors.New(ErrMsgAlreadyMember)
	ErrDuplicateEvent    = errors.New(ErrMsgDuplicateEvent)
	ErrTaskExpired       = errors.New(ErrMsgTaskExpired)

	ErrSlotMismatch   = errors.New(ErrMsgSlotMismatch)
	ErrUnresolvedItem = errors.New(ErrMsgUnresolvedItem)

	ErrClassLocked = errors.New(ErrMsgClassLocked)

	// ErrStaleWrite is returned by repositories when the stored version moved
	// underneath a write. Callers re-read and retry.
	ErrStaleWrite = errors.New(ErrMsgStaleWrite)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
)
