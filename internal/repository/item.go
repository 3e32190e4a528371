package repository

import (
	"context"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Item defines the interface for item catalog persistence
type Item interface {
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	GetAllItems(ctx context.Context) ([]domain.Item, error)
	UpsertItem(ctx context.Context, item *domain.Item) error

	// Sync metadata operations
	GetSyncMetadata(ctx context.Context, configName string) (*domain.SyncMetadata, error)
	UpsertSyncMetadata(ctx context.Context, metadata *domain.SyncMetadata) error
}
