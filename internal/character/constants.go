package character

// Idempotency key prefixes for applied task events
const (
	KeyPrefixTaskCompleted  = "task_completed:"
	KeyPrefixTaskMissed     = "task_missed:"
	KeyPrefixHabitCompleted = "habit_completed:"
	KeyPrefixRevived        = "revived:"

	// HabitKeyDateLayout scopes habit completions to one per UTC day
	HabitKeyDateLayout = "2006-01-02"
)

// Metric entity label for retried character writes
const metricEntityCharacter = "character"

// Error messages
const (
	ErrMsgGetTaskFailed        = "failed to get task"
	ErrMsgResolveLoadoutFailed = "failed to resolve loadout"
	ErrMsgTaskNotOwned         = "task does not belong to user"
	ErrMsgTaskKindMismatch     = "wrong task kind"
	ErrMsgTaskAlreadyCompleted = "task already completed"
	ErrMsgUnknownDifficulty    = "unknown difficulty"
	ErrMsgInvalidName          = "name must be 1-32 characters"
	ErrMsgInvalidReviveHP      = "revive hp must be positive"
	ErrMsgNotIncapacitated     = "character is not incapacitated"
	ErrMsgInvalidSlot          = "unknown slot"
	ErrMsgNegativeAttribute    = "attributes must be non-negative"
	ErrMsgCatalogLookupFailed  = "failed to look up item"
)

// Log messages
const (
	LogMsgCharacterCreated   = "Character created"
	LogMsgTaskCompleted      = "Task completion applied"
	LogMsgHabitCompleted     = "Habit completion applied"
	LogMsgTaskMissed         = "Missed task penalty applied"
	LogMsgLevelUp            = "Character leveled up"
	LogMsgIncapacitated      = "Character incapacitated"
	LogMsgRevived            = "Character revived"
	LogMsgClassChosen        = "Character class chosen"
	LogMsgEquipmentChanged   = "Character equipment changed"
	LogMsgBossDamageApplied  = "Boss counter-attack applied"
	LogMsgPublishFailed      = "Failed to publish character event"
	LogMsgSkippedEquipment   = "Equipped items skipped during resolution"
	LogMsgDuplicateTaskEvent = "Task event already applied"
)
