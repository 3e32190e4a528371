package metrics

import (
	"context"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/event"
	"github.com/osse101/TaskArena_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.TaskCompleted,
		event.HabitCompleted,
		event.TaskMissed,
		event.CharacterLevelUp,
		event.CharacterIncapacitated,
		event.DuelDamage,
		event.DuelContested,
		event.DuelContestResolved,
		event.DuelCompleted,
		event.DuelCancelled,
		event.RaidDamage,
		event.RaidVictory,
		event.RaidFailed,
		event.RaidCounterAttack,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.TaskCompleted, event.HabitCompleted:
		p, err := event.DecodePayload[event.TaskOutcomePayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		kind := string(domain.TaskKindTask)
		if evt.Type == event.HabitCompleted {
			kind = string(domain.TaskKindHabit)
		}
		TasksCompleted.WithLabelValues(kind, string(p.Difficulty)).Inc()
		XPAwarded.Add(float64(p.XPGained))
		GoldAwarded.Add(float64(p.GoldGained))

	case event.TaskMissed:
		p, err := event.DecodePayload[event.TaskOutcomePayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		TasksMissed.WithLabelValues(string(p.Difficulty)).Inc()

	case event.CharacterLevelUp:
		LevelUps.Inc()

	case event.CharacterIncapacitated:
		Incapacitations.Inc()

	case event.DuelDamage:
		if p, err := event.DecodePayload[event.DuelTaskPayloadV1](evt.Payload); err == nil {
			DuelDamage.Add(float64(p.Damage))
		}

	case event.DuelContested, event.DuelContestResolved:
		if p, err := event.DecodePayload[event.DuelTaskPayloadV1](evt.Payload); err == nil {
			DuelContests.WithLabelValues(string(p.ContestStatus)).Inc()
		}

	case event.DuelCompleted, event.DuelCancelled:
		if p, err := event.DecodePayload[event.DuelPayloadV1](evt.Payload); err == nil {
			DuelsFinished.WithLabelValues(string(p.Status)).Inc()
		}

	case event.RaidDamage:
		if p, err := event.DecodePayload[event.RaidDamagePayloadV1](evt.Payload); err == nil {
			RaidDamage.Add(float64(p.Damage))
		}

	case event.RaidVictory, event.RaidFailed:
		if p, err := event.DecodePayload[event.RaidPayloadV1](evt.Payload); err == nil {
			RaidsFinished.WithLabelValues(string(p.Status)).Inc()
		}

	case event.RaidCounterAttack:
		RaidCounterAttacks.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
