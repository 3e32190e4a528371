// Package leaderboard keeps global rankings across duels and raids.
// Scores live in Redis sorted sets; an in-process store backs development
// runs without Redis.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Entry is one ranked member of a board
type Entry struct {
	Rank   int     `json:"rank"`
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
}

// Store persists board scores
type Store interface {
	Increment(ctx context.Context, board, userID string, delta float64) error
	Top(ctx context.Context, board string, limit int) ([]Entry, error)
}

// ValidateBoard rejects names outside Boards
func ValidateBoard(board string) error {
	for _, b := range Boards {
		if b == board {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgUnknownBoard, board)
}

// ClampLimit bounds a requested page size
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// RedisStore keeps each board in a sorted set
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisClient creates a client for a single Redis instance
func NewRedisClient(addr string) (redis.UniversalClient, error) {
	if addr == "" {
		return nil, errors.New(ErrMsgAddrRequired)
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

// NewRedisStore wraps a Redis client
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func key(board string) string {
	return keyPrefix + board
}

// Increment implements Store
func (s *RedisStore) Increment(ctx context.Context, board, userID string, delta float64) error {
	if err := s.client.ZIncrBy(ctx, key(board), delta, userID).Err(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgIncrementScore, err)
	}
	return nil
}

// Top implements Store. Equal scores are ordered by member descending, as
// Redis orders them.
func (s *RedisStore) Top(ctx context.Context, board string, limit int) ([]Entry, error) {
	zs, err := s.client.ZRevRangeWithScores(ctx, key(board), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgReadBoard, err)
	}
	entries := make([]Entry, 0, len(zs))
	for i, z := range zs {
		member, _ := z.Member.(string)
		entries = append(entries, Entry{Rank: i + 1, UserID: member, Score: z.Score})
	}
	return entries, nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu     sync.RWMutex
	boards map[string]map[string]float64
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{boards: make(map[string]map[string]float64)}
}

// Increment implements Store
func (s *MemoryStore) Increment(_ context.Context, board, userID string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[board]
	if !ok {
		b = make(map[string]float64)
		s.boards[board] = b
	}
	b[userID] += delta
	return nil
}

// Top implements Store
func (s *MemoryStore) Top(_ context.Context, board string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.boards[board]))
	for userID, score := range s.boards[board] {
		entries = append(entries, Entry{UserID: userID, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID > entries[j].UserID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
