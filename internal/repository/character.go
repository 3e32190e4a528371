package repository

import (
	"context"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Character defines the interface for character persistence.
// Updates are compare-and-swap on Version and return domain.ErrStaleWrite
// when the stored version moved. A successful update bumps c.Version.
type Character interface {
	GetCharacter(ctx context.Context, userID string) (*domain.Character, error)
	CreateCharacter(ctx context.Context, c *domain.Character) error
	UpdateCharacter(ctx context.Context, c *domain.Character) error

	// ApplyTaskEvent records ev and updates c atomically. It returns
	// domain.ErrDuplicateEvent when ev.Key was already applied for the user.
	ApplyTaskEvent(ctx context.Context, c *domain.Character, ev *domain.TaskEvent) error
}
