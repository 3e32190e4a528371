package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "duel.completed")
const (
	// Character events
	EventTypeTaskCompleted   = "task.completed"
	EventTypeHabitCompleted  = "habit.completed"
	EventTypeTaskMissed      = "task.missed"
	EventTypeLevelUp         = "character.level_up"
	EventTypeIncapacitated   = "character.incapacitated"
	EventTypeRevived         = "character.revived"
	EventTypeClassChosen     = "character.class_chosen"
	EventTypeEquipmentChange = "character.equipment_changed"

	// Duel events
	EventTypeDuelChallenged     = "duel.challenged"
	EventTypeDuelAccepted       = "duel.accepted"
	EventTypeDuelCancelled      = "duel.cancelled"
	EventTypeDuelStarted        = "duel.started"
	EventTypeDuelDamage         = "duel.damage"
	EventTypeDuelContested      = "duel.contested"
	EventTypeDuelContestResolve = "duel.contest_resolved"
	EventTypeDuelCompleted      = "duel.completed"

	// Raid events
	EventTypeRaidCreated       = "raid.created"
	EventTypeRaidJoined        = "raid.joined"
	EventTypeRaidDamage        = "raid.damage"
	EventTypeRaidVictory       = "raid.victory"
	EventTypeRaidFailed        = "raid.failed"
	EventTypeRaidCounterAttack = "raid.counter_attack"
	EventTypeRaidStunned       = "raid.stunned"
)
