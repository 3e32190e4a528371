package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/TaskArena_Go/internal/testing/leaktest"
)

type testJob struct {
	executed *int32
	block    chan struct{}
}

func (j *testJob) Name() string { return "test" }

func (j *testJob) Process(ctx context.Context) error {
	if j.block != nil {
		<-j.block
	}
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)
	defer checker.Check(0)

	var executed int32
	pool := NewPool(TestWorkerCount, TestQueueSize)
	pool.Start()

	job := &testJob{executed: &executed}
	assert.True(t, pool.Enqueue(job))
	assert.True(t, pool.Enqueue(job))

	time.Sleep(TestWorkerProcessWaitTime * time.Millisecond)
	pool.Stop()

	assert.Equal(t, int32(TestExpectedJobCount), atomic.LoadInt32(&executed))
}

func TestPool_EnqueueWhenFull(t *testing.T) {
	var executed int32
	pool := NewPool(1, 1)

	// not started, so nothing drains the queue
	job := &testJob{executed: &executed}
	assert.True(t, pool.Enqueue(job))
	assert.False(t, pool.Enqueue(job))
}
