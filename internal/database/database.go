// Package database owns the pgx connection pool and schema migrations.
package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TaskArena_Go/internal/logger"
)

// NewPool connects and pings. Zero idle or lifetime durations fall back to
// DefaultMaxConnIdleTime and DefaultMaxConnLifetime.
func NewPool(ctx context.Context, connString string, maxConns int, maxIdle, maxLife time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	cfg.MaxConns = clampConns(maxConns)
	cfg.MinConns = min(DefaultMinConnections, cfg.MaxConns)
	cfg.MaxConnIdleTime = orDefault(maxIdle, DefaultMaxConnIdleTime)
	cfg.MaxConnLifetime = orDefault(maxLife, DefaultMaxConnLifetime)
	if _, ok := cfg.ConnConfig.RuntimeParams[RuntimeParamAppName]; !ok {
		cfg.ConnConfig.RuntimeParams[RuntimeParamAppName] = ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	logger.FromContext(ctx).Info(LogMsgSuccessfullyConnectedToDatabase,
		"host", cfg.ConnConfig.Host,
		"database", cfg.ConnConfig.Database,
		"max_conns", cfg.MaxConns)
	return pool, nil
}

func clampConns(n int) int32 {
	switch {
	case n < 1:
		return 1
	case n > math.MaxInt32:
		return math.MaxInt32
	}
	return int32(n)
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
