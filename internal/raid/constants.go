package raid

import "time"

// Raid creation defaults and limits
const (
	DefaultChargeRatePerMinute = 1
	DefaultDuration            = 72 * time.Hour
	MaxDuration                = 14 * 24 * time.Hour
	MaxStunDuration            = time.Hour
	MaxBossNameLength          = 64
)

// Metric entity label for retried raid writes
const metricEntityRaid = "raid"

// Error messages
const (
	ErrMsgInvalidBossName   = "boss name must be 1-64 characters"
	ErrMsgInvalidBossHP     = "boss max hp must be positive"
	ErrMsgInvalidBossDamage = "boss damage must not be negative"
	ErrMsgInvalidDuration   = "raid duration is out of range"
	ErrMsgInvalidChargeRate = "charge rate must not be negative"
	ErrMsgInvalidAmount     = "amount must be positive"
	ErrMsgInvalidStun       = "stun duration is out of range"
	ErrMsgRaidNotActive     = "raid is not active"
	ErrMsgRaidExpired       = "raid deadline has passed"
	ErrMsgGetCharacter      = "failed to get character"
	ErrMsgListRaidsFailed   = "failed to list active raids"
)

// Log messages
const (
	LogMsgRaidCreated         = "Raid created"
	LogMsgRaidJoined          = "Raid joined"
	LogMsgRaidDamage          = "Raid damage applied"
	LogMsgRaidVictory         = "Raid boss defeated"
	LogMsgRaidFailed          = "Raid failed at deadline"
	LogMsgRaidStunned         = "Raid boss stunned"
	LogMsgChargeReduced       = "Raid boss charge reduced"
	LogMsgCounterAttack       = "Raid boss counter-attack"
	LogMsgCounterAttackMember = "Failed to apply counter-attack to member"
	LogMsgTaskDamageFailed    = "Failed to apply task completion to raid"
	LogMsgSweepFailed         = "Raid sweep failed for raid"
	LogMsgPublishFailed       = "Failed to publish raid event"
	LogMsgEventPayloadDecode  = "Task completion payload could not be decoded"
)
