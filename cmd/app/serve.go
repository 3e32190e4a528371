package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/TaskArena_Go/internal/bootstrap"
	"github.com/osse101/TaskArena_Go/internal/config"
	"github.com/osse101/TaskArena_Go/internal/database"
	"github.com/osse101/TaskArena_Go/internal/database/memory"
	"github.com/osse101/TaskArena_Go/internal/handler"
	"github.com/osse101/TaskArena_Go/internal/logger"
	"github.com/osse101/TaskArena_Go/internal/scheduler"
	"github.com/osse101/TaskArena_Go/internal/server"
	"github.com/osse101/TaskArena_Go/internal/worker"
)

const shutdownTimeout = 30 * time.Second

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and background sweeps",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply database migrations on start")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	bootstrap.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []io.Closer
	readiness := map[string]handler.Pinger{}

	var repos *bootstrap.Repositories
	if cfg.UsesMemoryStorage() {
		repos = bootstrap.InitializeMemoryRepositories(memory.NewStore())
	} else {
		if !skipMigrations {
			if err := database.Migrate(ctx, cfg.GetDBConnString()); err != nil {
				return err
			}
		}
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns,
			database.DefaultMaxConnIdleTime, database.DefaultMaxConnLifetime)
		if err != nil {
			return err
		}
		closers = append(closers, bootstrap.CloseFunc(pool.Close))
		readiness["database"] = pool
		repos = bootstrap.InitializeRepositories(pool)
	}

	if _, err := bootstrap.SyncItems(ctx, repos.Item, cfg.ItemsPath); err != nil {
		return err
	}
	engine, err := bootstrap.LoadBalance(cfg.BalancePath)
	if err != nil {
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	boards, redisStore, err := bootstrap.NewLeaderboardStore(cfg)
	if err != nil {
		return err
	}
	if redisStore != nil {
		// listed ahead of the pool so Redis closes first
		closers = append([]io.Closer{redisStore}, closers...)
		readiness["redis"] = redisStore
	}

	svc := bootstrap.InitializeServices(bootstrap.ServiceDependencies{
		Repos:     repos,
		Publisher: publisher,
		Engine:    engine,
		Verifier:  bootstrap.NewVerifier(cfg),
		Boards:    boards,
	})
	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:    bus,
		RaidService: svc.Raid,
		Boards:      boards,
	}); err != nil {
		return err
	}

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerCount*2)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(cfg.SweepInterval, worker.NewRaidSweepJob(svc.Raid))
	sched.Schedule(cfg.SweepInterval, worker.NewDuelSweepJob(svc.Duel))
	logger.Info(logger.LogMsgSweepJobStarted, "interval", cfg.SweepInterval)

	handlers := bootstrap.NewHandlers(svc, boards, repos)
	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, handlers, readiness)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info(logger.LogMsgShutdownRequested)
	case err = <-serveErr:
		if err != nil {
			logger.Error(logger.LogMsgServerFailed, "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         pool,
		ResilientPublisher: publisher,
		Closers:            closers,
	})

	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
