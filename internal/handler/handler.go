package handler

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups the API handlers mounted under /api/v1
type Handlers struct {
	Character   *CharacterHandler
	Duel        *DuelHandler
	Raid        *RaidHandler
	Leaderboard *LeaderboardHandler

	// Tasks is set only for in-memory storage
	Tasks *TaskHandler
}

// Mount registers every API route on r
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/characters", func(r chi.Router) {
		r.Post("/", h.Character.HandleCreate)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", h.Character.HandleGet)
			r.Post("/tasks/{taskID}/complete", h.Character.HandleCompleteTask)
			r.Post("/tasks/{taskID}/miss", h.Character.HandleMissTask)
			r.Post("/habits/{habitID}/complete", h.Character.HandleCompleteHabit)
			r.Post("/revive", h.Character.HandleRevive)
			r.Post("/class", h.Character.HandleChooseClass)
			r.Put("/equipment/{slot}", h.Character.HandleEquip)
			r.Delete("/equipment/{slot}", h.Character.HandleUnequip)
		})
	})

	r.Route("/duels", func(r chi.Router) {
		r.Post("/", h.Duel.HandleChallenge)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Duel.HandleGet)
			r.Post("/accept", h.Duel.HandleAccept)
			r.Post("/cancel", h.Duel.HandleCancel)
			r.Post("/select", h.Duel.HandleSelect)
			r.Post("/deselect", h.Duel.HandleDeselect)
			r.Post("/lock", h.Duel.HandleLock)
			r.Post("/tasks/{selectedID}/evidence", h.Duel.HandleEvidence)
			r.Post("/tasks/{selectedID}/contest", h.Duel.HandleContest)
			r.Post("/tasks/{selectedID}/resolve", h.Duel.HandleResolve)
		})
	})

	r.Route("/raids", func(r chi.Router) {
		r.Post("/", h.Raid.HandleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Raid.HandleGet)
			r.Post("/join", h.Raid.HandleJoin)
			r.Post("/stun", h.Raid.HandleStun)
			r.Post("/reduce-charge", h.Raid.HandleReduceCharge)
			r.Get("/leaderboard", h.Raid.HandleLeaderboard)
		})
	})

	r.Get("/leaderboard/{board}", h.Leaderboard.HandleGetBoard)

	if h.Tasks != nil {
		r.Put("/dev/tasks/{taskID}", h.Tasks.HandlePut)
	}
}
