package scheduler

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TaskArena_Go/internal/logger"
	"github.com/osse101/TaskArena_Go/internal/worker"
)

type countingSweeper struct {
	runs atomic.Int32
}

func (c *countingSweeper) Sweep(context.Context) (int, error) {
	c.runs.Add(1)
	return 0, nil
}

// recordingPool takes or refuses jobs without running them
type recordingPool struct {
	mu     sync.Mutex
	accept bool
	seen   []string
}

func (p *recordingPool) Enqueue(job worker.Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, job.Name())
	return p.accept
}

func (p *recordingPool) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

func TestScheduler_RunsSweepsOnPool(t *testing.T) {
	pool := worker.NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	raids, duels := &countingSweeper{}, &countingSweeper{}
	sched.Schedule(10*time.Millisecond, worker.NewRaidSweepJob(raids))
	sched.Schedule(10*time.Millisecond, worker.NewDuelSweepJob(duels))

	require.Eventually(t, func() bool {
		return raids.runs.Load() >= 2 && duels.runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_RefusedTicksAreNotRetried(t *testing.T) {
	pool := &recordingPool{}
	sched := New(pool)
	sched.Schedule(5*time.Millisecond, worker.NewRaidSweepJob(&countingSweeper{}))

	require.Eventually(t, func() bool { return pool.count() >= 3 }, time.Second, time.Millisecond)
	sched.Stop()

	after := pool.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, pool.count(), "no enqueues after Stop")
}

func TestScheduler_IgnoresInvalidSchedules(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	pool := &recordingPool{accept: true}
	sched := New(pool)
	sched.Schedule(0, worker.NewRaidSweepJob(&countingSweeper{}))
	sched.Stop()
	sched.Schedule(time.Millisecond, worker.NewDuelSweepJob(&countingSweeper{}))

	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, pool.count())
	assert.Equal(t, 2, strings.Count(buf.String(), logger.LogMsgJobNotScheduled))
}

func TestScheduler_StopTwice(t *testing.T) {
	sched := New(worker.NewPool(1, 1))
	sched.Stop()
	assert.NotPanics(t, sched.Stop)
}
