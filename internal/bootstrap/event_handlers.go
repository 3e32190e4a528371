package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/TaskArena_Go/internal/event"
	"github.com/osse101/TaskArena_Go/internal/leaderboard"
	"github.com/osse101/TaskArena_Go/internal/metrics"
	"github.com/osse101/TaskArena_Go/internal/raid"
)

// EventHandlerDependencies holds what the subscribers need
type EventHandlerDependencies struct {
	EventBus    event.Bus
	RaidService raid.Service
	Boards      leaderboard.Store
}

// RegisterEventHandlers attaches every subscriber:
//   - raid damage from completed tasks
//   - global leaderboards
//   - event metrics
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	raid.Register(deps.EventBus, deps.RaidService)
	slog.Info(LogMsgRaidHandlerRegistered)

	leaderboard.NewRecorder(deps.Boards).Register(deps.EventBus)
	slog.Info(LogMsgLeaderboardRecorderReady)

	if err := metrics.NewEventMetricsCollector().Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	return nil
}
