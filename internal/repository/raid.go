package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Raid defines the interface for raid aggregate persistence.
// SaveRaid writes the raid and its member ledger as one unit, guarded by
// the raid version.
type Raid interface {
	CreateRaid(ctx context.Context, st *domain.RaidState) error
	GetRaid(ctx context.Context, id uuid.UUID) (*domain.RaidState, error)
	SaveRaid(ctx context.Context, st *domain.RaidState) error

	ListActiveRaids(ctx context.Context) ([]uuid.UUID, error)
	ListActiveRaidsForMember(ctx context.Context, userID string) ([]uuid.UUID, error)
}
