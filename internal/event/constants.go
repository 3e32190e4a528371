package event

import "time"

// EventSchemaVersion is stamped on every event built by New and the typed constructors
const EventSchemaVersion = "1.0"

const (
	// RetryQueueBufferSize bounds the background retry queue; overflow goes
	// straight to the dead letter file
	RetryQueueBufferSize = 1000

	DeadLetterFilePermissions = 0o644
)

// ErrFmtHandlersFailed wraps the joined handler errors from MemoryBus.Publish
const ErrFmtHandlersFailed = "%d of the handlers for %s failed: %w"

const (
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull        = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed      = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"
	LogMsgEventDroppedShutdown  = "Event dropped during shutdown"
	LogMsgQueueDrainedShutdown  = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"
)

// CalculateRetryDelay doubles baseDelay for every attempt after the first
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return baseDelay << (attempt - 1)
}
