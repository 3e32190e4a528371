package worker

import (
	"context"
	"time"

	"github.com/osse101/TaskArena_Go/internal/logger"
	"github.com/osse101/TaskArena_Go/internal/metrics"
)

// Sweeper re-evaluates time-dependent state from persisted timestamps.
// raid.Service and duel.Service both satisfy it.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SweepJob runs one sweep and records its duration
type SweepJob struct {
	name    string
	sweeper Sweeper
}

// NewRaidSweepJob fails overdue raids and fires due counter-attacks
func NewRaidSweepJob(raids Sweeper) *SweepJob {
	return &SweepJob{name: SweepRaids, sweeper: raids}
}

// NewDuelSweepJob expires overdue selections and completes finished duels
func NewDuelSweepJob(duels Sweeper) *SweepJob {
	return &SweepJob{name: SweepDuels, sweeper: duels}
}

// Name implements Job
func (j *SweepJob) Name() string { return j.name }

// Process implements Job
func (j *SweepJob) Process(ctx context.Context) error {
	start := time.Now()
	n, err := j.sweeper.Sweep(ctx)
	metrics.SweepDuration.WithLabelValues(j.name).Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	if n > 0 {
		logger.FromContext(ctx).Debug(LogMsgSweepCompleted, "sweep", j.name, "evaluated", n)
	}
	return nil
}
