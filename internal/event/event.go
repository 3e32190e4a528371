package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Character event types
const (
	TaskCompleted          Type = domain.EventTypeTaskCompleted
	HabitCompleted         Type = domain.EventTypeHabitCompleted
	TaskMissed             Type = domain.EventTypeTaskMissed
	CharacterLevelUp       Type = domain.EventTypeLevelUp
	CharacterIncapacitated Type = domain.EventTypeIncapacitated
	CharacterRevived       Type = domain.EventTypeRevived
	CharacterClassChosen   Type = domain.EventTypeClassChosen
	EquipmentChanged       Type = domain.EventTypeEquipmentChange
)

// Duel event types
const (
	DuelChallenged      Type = domain.EventTypeDuelChallenged
	DuelAccepted        Type = domain.EventTypeDuelAccepted
	DuelCancelled       Type = domain.EventTypeDuelCancelled
	DuelStarted         Type = domain.EventTypeDuelStarted
	DuelDamage          Type = domain.EventTypeDuelDamage
	DuelContested       Type = domain.EventTypeDuelContested
	DuelContestResolved Type = domain.EventTypeDuelContestResolve
	DuelCompleted       Type = domain.EventTypeDuelCompleted
)

// Raid event types
const (
	RaidCreated       Type = domain.EventTypeRaidCreated
	RaidJoined        Type = domain.EventTypeRaidJoined
	RaidDamage        Type = domain.EventTypeRaidDamage
	RaidVictory       Type = domain.EventTypeRaidVictory
	RaidFailed        Type = domain.EventTypeRaidFailed
	RaidCounterAttack Type = domain.EventTypeRaidCounterAttack
	RaidStunned       Type = domain.EventTypeRaidStunned
)

// Typed event payloads for type safety

// TaskOutcomePayloadV1 is the payload for task.completed, habit.completed and task.missed
type TaskOutcomePayloadV1 struct {
	UserID     string            `json:"user_id"`
	TaskID     string            `json:"task_id"`
	Difficulty domain.Difficulty `json:"difficulty"`
	XPGained   int               `json:"xp_gained,omitempty"`
	GoldGained int               `json:"gold_gained,omitempty"`
	HPDelta    int               `json:"hp_delta,omitempty"`
	HPAfter    int               `json:"hp_after"`
	Timestamp  int64             `json:"timestamp"`
}

// LevelUpPayloadV1 is the payload for character level ups
type LevelUpPayloadV1 struct {
	UserID        string `json:"user_id"`
	OldLevel      int    `json:"old_level"`
	NewLevel      int    `json:"new_level"`
	ClassUnlocked bool   `json:"class_unlocked"`
}

// CharacterStatePayloadV1 is the payload for incapacitation, revival,
// class choice and equipment changes
type CharacterStatePayloadV1 struct {
	UserID    string       `json:"user_id"`
	HP        int          `json:"hp"`
	Class     domain.Class `json:"class,omitempty"`
	Slot      domain.Slot  `json:"slot,omitempty"`
	ItemID    string       `json:"item_id,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// DuelPayloadV1 describes a duel lifecycle change
type DuelPayloadV1 struct {
	DuelID       string            `json:"duel_id"`
	ChallengerID string            `json:"challenger_id"`
	ChallengedID string            `json:"challenged_id"`
	Status       domain.DuelStatus `json:"status"`
	ChallengerHP int               `json:"challenger_hp"`
	ChallengedHP int               `json:"challenged_hp"`
	WinnerID     string            `json:"winner_id,omitempty"`
	Timestamp    int64             `json:"timestamp"`
}

// DuelTaskPayloadV1 describes damage or a contest on one selected task
type DuelTaskPayloadV1 struct {
	DuelID         string               `json:"duel_id"`
	SelectedTaskID string               `json:"selected_task_id"`
	OwnerID        string               `json:"owner_id"`
	TargetID       string               `json:"target_id"`
	Damage         int                  `json:"damage"`
	TargetHP       int                  `json:"target_hp"`
	ContestReason  string               `json:"contest_reason,omitempty"`
	ContestStatus  domain.ContestStatus `json:"contest_status,omitempty"`
	Timestamp      int64                `json:"timestamp"`
}

// RaidPayloadV1 describes a raid lifecycle change
type RaidPayloadV1 struct {
	RaidID        string            `json:"raid_id"`
	BossName      string            `json:"boss_name"`
	Status        domain.RaidStatus `json:"status"`
	BossCurrentHP int               `json:"boss_current_hp"`
	BossMaxHP     int               `json:"boss_max_hp"`
	UserID        string            `json:"user_id,omitempty"`
	Timestamp     int64             `json:"timestamp"`
}

// RaidDamagePayloadV1 records one member's hit on the boss
type RaidDamagePayloadV1 struct {
	RaidID        string `json:"raid_id"`
	UserID        string `json:"user_id"`
	Damage        int    `json:"damage"`
	MemberTotal   int    `json:"member_total"`
	BossCurrentHP int    `json:"boss_current_hp"`
	Timestamp     int64  `json:"timestamp"`
}

// RaidCounterAttackPayloadV1 records a boss counter-attack on every member
type RaidCounterAttackPayloadV1 struct {
	RaidID     string         `json:"raid_id"`
	BossDamage int            `json:"boss_damage"`
	Damage     map[string]int `json:"damage"`
	Timestamp  int64          `json:"timestamp"`
}

// Type-safe event constructors

// New builds an event of the given type at the current schema version
func New(t Type, payload interface{}) Event {
	return Event{Version: EventSchemaVersion, Type: t, Payload: payload}
}

// NewDuelEvent snapshots a duel into a lifecycle event
func NewDuelEvent(t Type, d *domain.PvPDuel, now time.Time) Event {
	p := DuelPayloadV1{
		DuelID:       d.ID.String(),
		ChallengerID: d.ChallengerID,
		ChallengedID: d.ChallengedID,
		Status:       d.Status,
		ChallengerHP: d.ChallengerHP,
		ChallengedHP: d.ChallengedHP,
		Timestamp:    now.Unix(),
	}
	if d.WinnerID != nil {
		p.WinnerID = *d.WinnerID
	}
	return Event{
		Version:  EventSchemaVersion,
		Type:     t,
		Payload:  p,
		Metadata: map[string]interface{}{"duel_id": p.DuelID},
	}
}

// NewRaidEvent snapshots a raid into a lifecycle event
func NewRaidEvent(t Type, r *domain.Raid, userID string, now time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: RaidPayloadV1{
			RaidID:        r.ID.String(),
			BossName:      r.BossName,
			Status:        r.Status,
			BossCurrentHP: r.BossCurrentHP,
			BossMaxHP:     r.BossMaxHP,
			UserID:        userID,
			Timestamp:     now.Unix(),
		},
		Metadata: map[string]interface{}{"raid_id": r.ID.String()},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously.
// Every handler runs even if an earlier one fails.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(ErrFmtHandlersFailed, len(errs), event.Type, errors.Join(errs...))
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
