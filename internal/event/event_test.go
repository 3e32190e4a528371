package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	handled := false

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		if event.Type != eventType {
			t.Errorf("Expected event type %s, got %s", eventType, event.Type)
		}
		if event.Payload.(string) != "payload" {
			t.Errorf("Expected payload 'payload', got %v", event.Payload)
		}
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Version: "1.0",
		Type:    eventType,
		Payload: "payload",
	})

	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if !handled {
		t.Error("Handler was not called")
	}
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	count := 0

	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(eventType, handler)
	bus.Subscribe(eventType, handler)

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 handlers to be called, got %d", count)
	}
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")

	errHandler := errors.New("handler error")
	calls := 0
	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		calls++
		return errHandler
	})
	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	require.ErrorIs(t, err, errHandler)
	assert.Contains(t, err.Error(), "1 of the handlers")
	assert.Equal(t, 2, calls, "a failing handler does not stop the others")
}

func TestNewDuelEvent_SnapshotsWinner(t *testing.T) {
	winner := "alice"
	d := &domain.PvPDuel{
		ID:           uuid.New(),
		ChallengerID: "alice",
		ChallengedID: "bob",
		ChallengerHP: 40,
		Status:       domain.DuelStatusCompleted,
		WinnerID:     &winner,
	}
	evt := NewDuelEvent(DuelCompleted, d, time.Unix(100, 0))

	assert.Equal(t, EventSchemaVersion, evt.Version)
	assert.Equal(t, DuelCompleted, evt.Type)
	assert.Equal(t, d.ID.String(), evt.GetMetadataValue("duel_id"))

	p, err := DecodePayload[DuelPayloadV1](evt.Payload)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.WinnerID)
	assert.Equal(t, 40, p.ChallengerHP)
	assert.Equal(t, int64(100), p.Timestamp)
}

func TestDecodePayload_FromSerializedMap(t *testing.T) {
	raw := map[string]interface{}{"raid_id": "r1", "user_id": "u1", "damage": 25.0}
	p, err := DecodePayload[RaidDamagePayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, "r1", p.RaidID)
	assert.Equal(t, 25, p.Damage)
}

func TestDecodePayload_PointerAndNil(t *testing.T) {
	p, err := DecodePayload[LevelUpPayloadV1](&LevelUpPayloadV1{UserID: "ann", NewLevel: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, p.NewLevel)

	_, err = DecodePayload[LevelUpPayloadV1](nil)
	assert.Error(t, err)

	_, err = DecodePayload[LevelUpPayloadV1]((*LevelUpPayloadV1)(nil))
	assert.Error(t, err)

	_, err = DecodePayload[LevelUpPayloadV1](map[string]interface{}{"new_level": "four"})
	assert.ErrorContains(t, err, "LevelUpPayloadV1")
}

func TestEventTypesMatchDomain(t *testing.T) {
	assert.Equal(t, Type(domain.EventTypeTaskCompleted), TaskCompleted)
	assert.Equal(t, Type(domain.EventTypeRaidVictory), RaidVictory)
}
