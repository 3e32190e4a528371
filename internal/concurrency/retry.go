package concurrency

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/logger"
	"github.com/osse101/TaskArena_Go/internal/metrics"
)

// Stale-write retry tuning
const (
	DefaultMaxRetries = 5
	DefaultBaseDelay  = 5 * time.Millisecond
	DefaultMaxDelay   = 200 * time.Millisecond
	JitterPercent     = 20
)

// LogMsgStaleWriteRetry is logged on every retried conflict
const LogMsgStaleWriteRetry = "Stale write, retrying with fresh state"

// StaleWriteBackoff is the backoff used by RetryStale. Each call gets a
// fresh instance since backoffs are stateful.
func StaleWriteBackoff() retry.Backoff {
	b := retry.NewExponential(DefaultBaseDelay)
	b = retry.WithCappedDuration(DefaultMaxDelay, b)
	b = retry.WithJitterPercent(JitterPercent, b)
	return retry.WithMaxRetries(DefaultMaxRetries, b)
}

// RetryStale runs fn until it succeeds, returns an error other than
// domain.ErrStaleWrite, or the retry budget runs out. fn must re-read the
// entity it mutates on every attempt. entity labels the retry metric.
func RetryStale(ctx context.Context, entity string, fn func(ctx context.Context) error) error {
	attempt := 0
	return retry.Do(ctx, StaleWriteBackoff(), func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil || !errors.Is(err, domain.ErrStaleWrite) {
			return err
		}
		metrics.StaleWriteRetries.WithLabelValues(entity).Inc()
		logger.FromContext(ctx).Debug(LogMsgStaleWriteRetry, "entity", entity, "attempt", attempt)
		return retry.RetryableError(err)
	})
}
