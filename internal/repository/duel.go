package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Duel defines the interface for duel aggregate persistence.
// SaveDuel writes the duel and all of its selected tasks as one unit,
// guarded by the duel version.
type Duel interface {
	CreateDuel(ctx context.Context, st *domain.DuelState) error
	GetDuel(ctx context.Context, id uuid.UUID) (*domain.DuelState, error)
	SaveDuel(ctx context.Context, st *domain.DuelState) error

	// ListOpenDuels returns ids of duels that are not yet completed or cancelled
	ListOpenDuels(ctx context.Context) ([]uuid.UUID, error)
	// HasOpenDuel reports whether the two users already share an open duel
	HasOpenDuel(ctx context.Context, userA, userB string) (bool, error)
}
