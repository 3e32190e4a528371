package bootstrap

import (
	"github.com/osse101/TaskArena_Go/internal/character"
	"github.com/osse101/TaskArena_Go/internal/duel"
	"github.com/osse101/TaskArena_Go/internal/equipment"
	"github.com/osse101/TaskArena_Go/internal/event"
	"github.com/osse101/TaskArena_Go/internal/formula"
	"github.com/osse101/TaskArena_Go/internal/handler"
	"github.com/osse101/TaskArena_Go/internal/leaderboard"
	"github.com/osse101/TaskArena_Go/internal/raid"
	"github.com/osse101/TaskArena_Go/internal/verifier"
)

// ServiceDependencies are the shared collaborators every service is built from
type ServiceDependencies struct {
	Repos     *Repositories
	Publisher event.Bus
	Engine    *formula.Engine
	Verifier  verifier.Verifier
	Boards    leaderboard.Store
}

// Services holds the domain services
type Services struct {
	Character character.Service
	Duel      duel.Service
	Raid      raid.Service
}

// InitializeServices builds the services. Items are resolved through a
// cached view of the item repository.
func InitializeServices(deps ServiceDependencies) *Services {
	catalog := equipment.NewStoreCatalog(deps.Repos.Item, CatalogCacheSize, CatalogCacheTTL)

	chars := character.NewService(deps.Repos.Character, deps.Repos.Task, catalog,
		equipment.DefaultSlotTable(), deps.Engine, deps.Publisher)
	duels := duel.NewService(deps.Repos.Duel, deps.Repos.Task, deps.Repos.Character,
		deps.Verifier, deps.Engine, deps.Publisher)
	raids := raid.NewService(deps.Repos.Raid, chars, deps.Engine, deps.Publisher)

	return &Services{Character: chars, Duel: duels, Raid: raids}
}

// NewHandlers builds the HTTP handlers. The task seeding route exists only
// when repositories are in memory.
func NewHandlers(svc *Services, boards leaderboard.Store, repos *Repositories) *handler.Handlers {
	h := &handler.Handlers{
		Character:   handler.NewCharacterHandler(svc.Character),
		Duel:        handler.NewDuelHandler(svc.Duel),
		Raid:        handler.NewRaidHandler(svc.Raid),
		Leaderboard: handler.NewLeaderboardHandler(boards),
	}
	if repos.TaskWriter != nil {
		h.Tasks = handler.NewTaskHandler(repos.TaskWriter)
	}
	return h
}
