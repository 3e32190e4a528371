package bootstrap

import (
	"log/slog"

	"github.com/osse101/TaskArena_Go/internal/config"
	"github.com/osse101/TaskArena_Go/internal/leaderboard"
	"github.com/osse101/TaskArena_Go/internal/verifier"
)

// NewVerifier returns the remote judge when VERIFIER_URL is set and
// approves everything otherwise
func NewVerifier(cfg *config.Config) verifier.Verifier {
	if cfg.VerifierURL == "" {
		slog.Warn(LogMsgVerifierAutoApprove)
		return verifier.AutoApprove{}
	}
	slog.Info(LogMsgVerifierHTTP, "url", cfg.VerifierURL, "timeout", cfg.VerifierTimeout)
	return verifier.NewHTTPClient(cfg.VerifierURL, cfg.VerifierAPIKey, cfg.VerifierTimeout)
}

// NewLeaderboardStore returns a Redis-backed store when REDIS_ADDR is set.
// The Redis store is also returned separately so the caller can ping and
// close it; it is nil for the in-memory store.
func NewLeaderboardStore(cfg *config.Config) (leaderboard.Store, *leaderboard.RedisStore, error) {
	if cfg.RedisAddr == "" {
		slog.Info(LogMsgLeaderboardMemory)
		return leaderboard.NewMemoryStore(), nil, nil
	}

	client, err := leaderboard.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	store := leaderboard.NewRedisStore(client)
	slog.Info(LogMsgLeaderboardRedis, "addr", cfg.RedisAddr)
	return store, store, nil
}
