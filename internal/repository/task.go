package repository

import (
	"context"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Task is a read-only view of the task tracker
type Task interface {
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
}
