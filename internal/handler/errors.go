package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidRequestFormat  = "Invalid request format"

	// Query and path parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgMissingPathParam  = "Missing %s"
	ErrMsgInvalidUUIDParam  = "Invalid %s"
	ErrMsgInvalidLimit      = "Invalid limit parameter"

	// Character operation error messages
	ErrMsgCreateCharacterFailed = "Failed to create character"
	ErrMsgGetCharacterFailed    = "Failed to get character"
	ErrMsgCompleteTaskFailed    = "Failed to complete task"
	ErrMsgCompleteHabitFailed   = "Failed to complete habit"
	ErrMsgMissTaskFailed        = "Failed to record missed task"
	ErrMsgReviveFailed          = "Failed to revive character"
	ErrMsgChooseClassFailed     = "Failed to choose class"
	ErrMsgEquipFailed           = "Failed to equip item"
	ErrMsgUnequipFailed         = "Failed to unequip item"

	// Duel operation error messages
	ErrMsgChallengeFailed      = "Failed to create duel"
	ErrMsgGetDuelFailed        = "Failed to get duel"
	ErrMsgAcceptDuelFailed     = "Failed to accept duel"
	ErrMsgCancelDuelFailed     = "Failed to cancel duel"
	ErrMsgSelectTaskFailed     = "Failed to select task"
	ErrMsgDeselectTaskFailed   = "Failed to deselect task"
	ErrMsgLockSelectionsFailed = "Failed to lock selections"
	ErrMsgSubmitEvidenceFailed = "Failed to submit evidence"
	ErrMsgContestFailed        = "Failed to contest task"
	ErrMsgResolveContestFailed = "Failed to resolve contest"

	// Raid operation error messages
	ErrMsgCreateRaidFailed     = "Failed to create raid"
	ErrMsgGetRaidFailed        = "Failed to get raid"
	ErrMsgJoinRaidFailed       = "Failed to join raid"
	ErrMsgStunFailed           = "Failed to stun boss"
	ErrMsgReduceChargeFailed   = "Failed to reduce charge"
	ErrMsgRaidLeaderboardError = "Failed to get raid leaderboard"

	// Global leaderboard error messages
	ErrMsgGetLeaderboardFailed = "Failed to retrieve leaderboard"
)

// Path parameter names
const (
	ParamUserID     = "userID"
	ParamTaskID     = "taskID"
	ParamHabitID    = "habitID"
	ParamSlot       = "slot"
	ParamDuelID     = "id"
	ParamRaidID     = "id"
	ParamSelectedID = "selectedID"
	ParamBoard      = "board"
	ParamLimit      = "limit"
)

// Success messages for API responses
const (
	MsgDuelCancelled    = "Duel cancelled"
	MsgEvidenceRejected = "Evidence was not approved"
	MsgContestFiled     = "Contest filed"
	MsgContestResolved  = "Contest resolved"
)

// Response writing log messages
const (
	LogMsgEncodeResponseFailed = "Failed to encode JSON response"
	LogMsgWriteResponseFailed  = "Failed to write response buffer"
)
