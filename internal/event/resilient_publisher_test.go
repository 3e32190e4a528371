package event

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBusDown = errors.New("bus down")

// flakyBus fails the first `failures` publishes and records every delivered event
type flakyBus struct {
	mu        sync.Mutex
	failures  int
	attempts  int
	delivered []Event
	stamps    []time.Time
}

func (b *flakyBus) Publish(_ context.Context, evt Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts++
	b.stamps = append(b.stamps, time.Now())
	if b.failures < 0 || b.attempts <= b.failures {
		return errBusDown
	}
	b.delivered = append(b.delivered, evt)
	return nil
}

func (b *flakyBus) Subscribe(Type, Handler) {}

func (b *flakyBus) snapshot() (attempts int, delivered []Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts, append([]Event(nil), b.delivered...)
}

func readDeadLetters(t *testing.T, path string) []DeadLetterEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []DeadLetterEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e DeadLetterEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	return entries
}

func raidDamage(raidID string, dmg int) Event {
	return New(RaidDamage, RaidDamagePayloadV1{RaidID: raidID, UserID: "ann", Damage: dmg})
}

func TestResilientPublisher_DeliversWithoutRetry(t *testing.T) {
	bus := &flakyBus{}
	path := filepath.Join(t.TempDir(), "dl.jsonl")
	rp, err := NewResilientPublisher(bus, 3, 10*time.Millisecond, path)
	require.NoError(t, err)

	var asBus Bus = rp
	require.NoError(t, asBus.Publish(t.Context(), New(TaskCompleted, TaskOutcomePayloadV1{UserID: "ann", TaskID: "t1"})))
	require.NoError(t, rp.Shutdown(t.Context()))

	attempts, delivered := bus.snapshot()
	assert.Equal(t, 1, attempts)
	require.Len(t, delivered, 1)
	assert.Equal(t, TaskCompleted, delivered[0].Type)
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_RetriesUntilDelivered(t *testing.T) {
	bus := &flakyBus{failures: 2}
	rp, err := NewResilientPublisher(bus, 5, 20*time.Millisecond, filepath.Join(t.TempDir(), "dl.jsonl"))
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(t.Context(), raidDamage("r1", 12))

	require.Eventually(t, func() bool {
		_, delivered := bus.snapshot()
		return len(delivered) == 1
	}, 2*time.Second, 5*time.Millisecond)

	attempts, _ := bus.snapshot()
	assert.Equal(t, 3, attempts)

	bus.mu.Lock()
	first, second := bus.stamps[1].Sub(bus.stamps[0]), bus.stamps[2].Sub(bus.stamps[1])
	bus.mu.Unlock()
	assert.GreaterOrEqual(t, first, 20*time.Millisecond)
	assert.GreaterOrEqual(t, second, 40*time.Millisecond, "delay doubles per attempt")
}

func TestResilientPublisher_ExhaustedGoesToDeadLetter(t *testing.T) {
	bus := &flakyBus{failures: -1}
	path := filepath.Join(t.TempDir(), "dl.jsonl")
	rp, err := NewResilientPublisher(bus, 2, 5*time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(t.Context(), New(RaidVictory, RaidPayloadV1{RaidID: "r9", BossName: "Procrastination"}))

	require.Eventually(t, func() bool {
		attempts, _ := bus.snapshot()
		return attempts == 3
	}, 2*time.Second, 5*time.Millisecond, "one direct publish plus two retries")
	require.NoError(t, rp.Shutdown(t.Context()))

	entries := readDeadLetters(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, DeadLetterSchemaVersion, entries[0].SchemaVersion)
	assert.Equal(t, RaidVictory, entries[0].Event.Type)
	assert.Equal(t, 2, entries[0].Attempts)
	assert.Equal(t, errBusDown.Error(), entries[0].LastError)
}

func TestResilientPublisher_FullQueueSpillsToDeadLetter(t *testing.T) {
	bus := &flakyBus{failures: -1}
	path := filepath.Join(t.TempDir(), "dl.jsonl")
	dl, err := NewDeadLetterWriter(path)
	require.NoError(t, err)

	// no worker: the queue only fills
	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, 2),
		maxRetries: 3,
		retryDelay: time.Hour,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	for i := 0; i < 5; i++ {
		rp.PublishWithRetry(t.Context(), raidDamage("r1", i))
	}
	assert.Len(t, rp.retryQueue, 2)
	require.NoError(t, dl.Close())
	assert.Len(t, readDeadLetters(t, path), 3)
}

func TestResilientPublisher_ShutdownDrainsQueue(t *testing.T) {
	bus := &flakyBus{failures: 3}
	path := filepath.Join(t.TempDir(), "dl.jsonl")
	rp, err := NewResilientPublisher(bus, 5, time.Hour, path)
	require.NoError(t, err)

	for _, id := range []string{"d1", "d2", "d3"} {
		rp.PublishWithRetry(t.Context(), New(DuelCompleted, DuelPayloadV1{DuelID: id}))
	}

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	require.NoError(t, rp.Shutdown(ctx))

	// the hour-long backoff is skipped and each queued event gets a final attempt
	_, delivered := bus.snapshot()
	assert.Len(t, delivered, 3)
	assert.Empty(t, readDeadLetters(t, path))

	assert.NoError(t, rp.Shutdown(ctx), "second shutdown is a no-op")
}

func TestResilientPublisher_ConcurrentPublishers(t *testing.T) {
	bus := &flakyBus{}
	rp, err := NewResilientPublisher(bus, 3, 10*time.Millisecond, filepath.Join(t.TempDir(), "dl.jsonl"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				rp.PublishWithRetry(context.Background(), raidDamage("r1", g*100+i))
			}
		}(g)
	}
	wg.Wait()
	require.NoError(t, rp.Shutdown(t.Context()))

	_, delivered := bus.snapshot()
	assert.Len(t, delivered, 200)
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second
	for attempt, want := range map[int]time.Duration{1: 2 * time.Second, 2: 4 * time.Second, 5: 32 * time.Second} {
		assert.Equal(t, want, CalculateRetryDelay(base, attempt), "attempt %d", attempt)
	}
}

func TestDeadLetterWriter_ClosedRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dl.jsonl")
	w, err := NewDeadLetterWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.Write(raidDamage("r1", 3), 5, nil))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Write(raidDamage("r1", 4), 1, errBusDown), os.ErrClosed)

	entries := readDeadLetters(t, path)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].LastError)

	_, err = NewDeadLetterWriter(filepath.Join(t.TempDir(), "missing", "dl.jsonl"))
	assert.Error(t, err)
}
