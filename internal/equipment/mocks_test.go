package equipment

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// MockItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) GetAllItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepository) UpsertItem(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetSyncMetadata(ctx context.Context, configName string) (*domain.SyncMetadata, error) {
	args := m.Called(ctx, configName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncMetadata), args.Error(1)
}

func (m *MockItemRepository) UpsertSyncMetadata(ctx context.Context, metadata *domain.SyncMetadata) error {
	args := m.Called(ctx, metadata)
	return args.Error(0)
}
