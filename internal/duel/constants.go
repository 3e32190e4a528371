package duel

// FSM event names
const (
	eventAccept   = "accept"
	eventCancel   = "cancel"
	eventStart    = "start"
	eventComplete = "complete"
)

// MaxContestReasonLength bounds the free-text reason of a contest
const MaxContestReasonLength = 500

// Metric entity label for retried duel writes
const metricEntityDuel = "duel"

// Error messages
const (
	ErrMsgSelfChallenge        = "cannot challenge yourself"
	ErrMsgDuelAlreadyOpen      = "an open duel already exists between these users"
	ErrMsgOnlyChallengedAccept = "only the challenged user can accept"
	ErrMsgWrongStatus          = "duel is not in the required status"
	ErrMsgTaskNotOwned         = "task does not belong to user"
	ErrMsgTaskNotSelectable    = "only open one-off tasks can be selected"
	ErrMsgTaskAlreadySelected  = "task already selected"
	ErrMsgSelectionNotFound    = "selected task not found"
	ErrMsgSelectionsLocked     = "selections are locked"
	ErrMsgSelectionTerminal    = "selected task is already completed or expired"
	ErrMsgEmptyEvidence        = "evidence reference is required"
	ErrMsgOwnTaskContest       = "cannot contest your own task"
	ErrMsgNotCompleted         = "only completed tasks can be contested"
	ErrMsgAlreadyContested     = "task was already contested"
	ErrMsgNoPendingContest     = "task has no pending contest"
	ErrMsgInvalidReason        = "contest reason must be 1-500 characters"
	ErrMsgGetChallengerFailed  = "failed to get challenger"
	ErrMsgGetChallengedFailed  = "failed to get challenged user"
	ErrMsgGetTaskFailed        = "failed to get task"
	ErrMsgVerifyFailed         = "evidence verification failed"
	ErrMsgListDuelsFailed      = "failed to list open duels"
)

// Log messages
const (
	LogMsgDuelChallenged   = "Duel challenge created"
	LogMsgDuelAccepted     = "Duel accepted"
	LogMsgDuelCancelled    = "Duel cancelled"
	LogMsgDuelStarted      = "Duel started"
	LogMsgSelectionLocked  = "Duel selections locked"
	LogMsgEvidenceRejected = "Duel evidence rejected"
	LogMsgDuelDamage       = "Duel damage applied"
	LogMsgDuelContested    = "Duel task contested"
	LogMsgContestResolved  = "Duel contest resolved"
	LogMsgDuelCompleted    = "Duel completed"
	LogMsgTasksExpired     = "Duel tasks expired"
	LogMsgLateSubmission   = "Duel evidence arrived after the due date"
	LogMsgSweepFailed      = "Duel sweep failed for duel"
	LogMsgPublishFailed    = "Failed to publish duel event"
)
