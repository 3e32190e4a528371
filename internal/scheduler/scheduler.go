// Package scheduler feeds periodic jobs, such as the raid and duel expiry
// sweeps, into the worker pool.
package scheduler

import (
	"sync"
	"time"

	"github.com/osse101/TaskArena_Go/internal/logger"
	"github.com/osse101/TaskArena_Go/internal/worker"
)

// Enqueuer accepts jobs without blocking and reports whether it took them
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Scheduler hands each registered job to the pool once per interval. A tick
// the pool refuses is not retried; the next tick covers it.
type Scheduler struct {
	pool Enqueuer

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
	running sync.WaitGroup
}

// New returns a scheduler that feeds pool
func New(pool Enqueuer) *Scheduler {
	return &Scheduler{pool: pool, done: make(chan struct{})}
}

// Schedule registers job. A non-positive interval, or a call after Stop,
// leaves the job unscheduled.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || interval <= 0 {
		logger.Warn(logger.LogMsgJobNotScheduled, "job", job.Name(), "interval", interval, "stopped", s.stopped)
		return
	}
	s.running.Add(1)
	go s.loop(interval, job)
}

func (s *Scheduler) loop(interval time.Duration, job worker.Job) {
	defer s.running.Done()
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-tick.C:
			s.pool.Enqueue(job)
		}
	}
}

// Stop ends all schedules and waits for their goroutines. Jobs already handed
// to the pool keep running. Repeat calls return immediately.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.done)
	}
	s.mu.Unlock()
	s.running.Wait()
}
