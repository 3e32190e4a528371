package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/repository"
)

// TaskRepository reads the task tracker's tasks table
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(pool *pgxpool.Pool) repository.Task {
	return &TaskRepository{pool: pool}
}

// GetTask retrieves a task or habit by id
func (r *TaskRepository) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	var (
		t          domain.Task
		kind, diff string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT task_id, owner_id, kind, title, description, difficulty, due_at, streak, completed_at
		FROM tasks WHERE task_id = $1`, taskID,
	).Scan(&t.ID, &t.OwnerID, &kind, &t.Title, &t.Description, &diff, &t.DueAt, &t.Streak, &t.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTask, err)
	}
	t.Kind = domain.TaskKind(kind)
	t.Difficulty = domain.Difficulty(diff)
	return &t, nil
}
