package concurrency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

func TestLockManager_SameKeySameMutex(t *testing.T) {
	lm := NewLockManager()
	assert.Same(t, lm.GetLock("a"), lm.GetLock("a"))
	assert.NotSame(t, lm.GetLock("a"), lm.GetLock("b"))
}

func TestLockManager_WithLockSerializes(t *testing.T) {
	lm := NewLockManager()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = lm.WithLock("duel-1", func() error {
				v := counter
				counter = v + 1
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
}

func TestLockManager_Forget(t *testing.T) {
	lm := NewLockManager()
	first := lm.GetLock("raid")
	lm.Forget("raid")
	assert.NotSame(t, first, lm.GetLock("raid"))
}

func TestRetryStale(t *testing.T) {
	ctx := context.Background()

	t.Run("retries stale writes until success", func(t *testing.T) {
		calls := 0
		err := RetryStale(ctx, "test", func(context.Context) error {
			calls++
			if calls < 3 {
				return fmt.Errorf("%w: version moved", domain.ErrStaleWrite)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("other errors are returned immediately", func(t *testing.T) {
		calls := 0
		err := RetryStale(ctx, "test", func(context.Context) error {
			calls++
			return domain.ErrInvalidTransition
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		calls := 0
		err := RetryStale(ctx, "test", func(context.Context) error {
			calls++
			return domain.ErrStaleWrite
		})
		assert.True(t, errors.Is(err, domain.ErrStaleWrite))
		assert.Equal(t, DefaultMaxRetries+1, calls)
	})
}
