package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/TaskArena_Go/internal/logger"
)

type retryEntry struct {
	event     Event
	attempt   int
	nextRetry time.Time
	lastErr   error
}

// ResilientPublisher wraps an event Bus with a bounded retry queue.
// Failed publishes are retried in the background with exponential backoff
// and written to a dead-letter file once retries are exhausted or the
// queue is full. Callers never block on retries.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// Publish implements Bus. It always returns nil once the event is accepted.
func (rp *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	rp.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe delegates to the inner bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

// PublishWithRetry publishes synchronously once and queues the event for
// background retry on failure.
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := rp.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	rp.enqueue(retryEntry{
		event:     evt,
		attempt:   1,
		nextRetry: time.Now().Add(CalculateRetryDelay(rp.retryDelay, 1)),
		lastErr:   err,
	})
}

func (rp *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case <-rp.shutdown:
		logger.Warn(LogMsgEventDroppedShutdown, "event_type", entry.event.Type)
		rp.writeDeadLetter(entry)
		return
	default:
	}

	select {
	case rp.retryQueue <- entry:
	default:
		logger.Error(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		rp.writeDeadLetter(entry)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case <-rp.shutdown:
			rp.drain()
			return
		case entry := <-rp.retryQueue:
			if wait := time.Until(entry.nextRetry); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
				case <-rp.shutdown:
					timer.Stop()
				}
			}
			rp.retry(entry)
		}
	}
}

func (rp *ResilientPublisher) retry(entry retryEntry) {
	err := rp.bus.Publish(context.Background(), entry.event)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempt)
		return
	}

	entry.lastErr = err
	if entry.attempt >= rp.maxRetries {
		logger.Error(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempt)
		rp.writeDeadLetter(entry)
		return
	}

	entry.attempt++
	entry.nextRetry = time.Now().Add(CalculateRetryDelay(rp.retryDelay, entry.attempt))
	logger.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempt, "error", err)

	select {
	case rp.retryQueue <- entry:
	default:
		rp.writeDeadLetter(entry)
	}
}

// drain gives every queued event one final attempt without waiting
func (rp *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			drained++
			if err := rp.bus.Publish(context.Background(), entry.event); err != nil {
				entry.lastErr = err
				rp.writeDeadLetter(entry)
			}
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(entry retryEntry) {
	if err := rp.deadLetter.Write(entry.event, entry.attempt, entry.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", entry.event.Type, "error", err)
	}
}

// Shutdown stops the retry worker after draining the queue. It returns
// ctx.Err() if the drain does not finish in time.
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.shutdownOnce.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return rp.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
