package leaderboard

import (
	"context"

	"github.com/osse101/TaskArena_Go/internal/event"
	"github.com/osse101/TaskArena_Go/internal/logger"
)

// Recorder feeds combat events into the boards
type Recorder struct {
	store Store
}

// NewRecorder creates a Recorder writing to store
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Register subscribes the recorder to combat events
func (r *Recorder) Register(bus event.Bus) {
	bus.Subscribe(event.DuelCompleted, r.HandleEvent)
	bus.Subscribe(event.RaidDamage, r.HandleEvent)
	bus.Subscribe(event.RaidVictory, r.HandleEvent)
}

// HandleEvent records the score carried by evt. Store failures are logged
// and swallowed: a redelivered event would otherwise count twice.
func (r *Recorder) HandleEvent(ctx context.Context, evt event.Event) error {
	board, userID, delta, ok := r.score(ctx, evt)
	if !ok || userID == "" || delta == 0 {
		return nil
	}

	log := logger.FromContext(ctx)
	if err := r.store.Increment(ctx, board, userID, delta); err != nil {
		log.Warn(LogMsgRecordFailed, "board", board, "user_id", userID, "error", err)
		return nil
	}
	log.Debug(LogMsgScoreRecorded, "board", board, "user_id", userID, "delta", delta)
	return nil
}

func (r *Recorder) score(ctx context.Context, evt event.Event) (string, string, float64, bool) {
	log := logger.FromContext(ctx)
	switch evt.Type {
	case event.DuelCompleted:
		p, err := event.DecodePayload[event.DuelPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecode, "type", evt.Type, "error", err)
			return "", "", 0, false
		}
		return BoardDuelWins, p.WinnerID, 1, true

	case event.RaidDamage:
		p, err := event.DecodePayload[event.RaidDamagePayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecode, "type", evt.Type, "error", err)
			return "", "", 0, false
		}
		return BoardRaidDamage, p.UserID, float64(p.Damage), true

	case event.RaidVictory:
		p, err := event.DecodePayload[event.RaidPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecode, "type", evt.Type, "error", err)
			return "", "", 0, false
		}
		return BoardFinalBlows, p.UserID, 1, true
	}
	return "", "", 0, false
}
