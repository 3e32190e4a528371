package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TaskArena_Go/internal/database/memory"
	"github.com/osse101/TaskArena_Go/internal/database/postgres"
	"github.com/osse101/TaskArena_Go/internal/handler"
	"github.com/osse101/TaskArena_Go/internal/repository"
)

// Repositories holds every repository the services need
type Repositories struct {
	Character repository.Character
	Task      repository.Task
	Item      repository.Item
	Duel      repository.Duel
	Raid      repository.Raid

	// TaskWriter is set only for in-memory storage, where no tracker
	// owns the task tables
	TaskWriter handler.TaskWriter
}

// InitializeRepositories creates the PostgreSQL repositories
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Character: postgres.NewCharacterRepository(dbPool),
		Task:      postgres.NewTaskRepository(dbPool),
		Item:      postgres.NewItemRepository(dbPool),
		Duel:      postgres.NewDuelRepository(dbPool),
		Raid:      postgres.NewRaidRepository(dbPool),
	}
}

// InitializeMemoryRepositories backs every repository with one in-process store
func InitializeMemoryRepositories(store *memory.Store) *Repositories {
	return &Repositories{
		Character:  store,
		Task:       store,
		Item:       store,
		Duel:       store,
		Raid:       store,
		TaskWriter: store,
	}
}
