package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/TaskArena_Go/internal/event"
	"github.com/osse101/TaskArena_Go/internal/scheduler"
	"github.com/osse101/TaskArena_Go/internal/server"
	"github.com/osse101/TaskArena_Go/internal/worker"
)

// ShutdownComponents holds everything that needs an orderly stop
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	ResilientPublisher *event.ResilientPublisher

	// Closers are closed last, in order (Redis client, database pool)
	Closers []io.Closer
}

// GracefulShutdown stops components in dependency order:
//  1. HTTP server, so no new mutations arrive
//  2. sweeps, letting a running sweep finish
//  3. event publisher, flushing queued retries to the dead-letter file
//  4. external connections
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownWorkers)
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.WorkerPool != nil {
		c.WorkerPool.Stop()
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	for _, closer := range c.Closers {
		if err := closer.Close(); err != nil {
			slog.Error(LogMsgCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}

// CloseFunc adapts a no-error close (pgxpool.Pool.Close) to io.Closer
type CloseFunc func()

// Close implements io.Closer
func (f CloseFunc) Close() error {
	f()
	return nil
}
