package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/TaskArena_Go/internal/logger"
)

// Job is a unit of background work
type Job interface {
	Name() string
	Process(ctx context.Context) error
}

// Pool runs queued jobs on a fixed number of goroutines
type Pool struct {
	workers    int
	jobQueue   chan Job
	jobTimeout time.Duration
	wg         sync.WaitGroup
	quit       chan struct{}
}

// NewPool creates a pool. Each job gets DefaultJobTimeout to finish.
func NewPool(workers int, queueSize int) *Pool {
	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, queueSize),
		jobTimeout: DefaultJobTimeout,
		quit:       make(chan struct{}),
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()
	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())

	if err := job.Process(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "job", job.Name(), "error", err)
	}
}

// Enqueue queues job without blocking. It reports false when the queue is
// full; the caller drops the job and tries again on its next tick.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.Warn(LogMsgWorkerQueueFull, "job", job.Name())
		return false
	}
}

// Stop waits for running jobs to finish. Queued jobs are discarded.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}
