package handler

import (
	"net/http"
	"time"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// TaskWriter stores tracker tasks. Only the in-memory store implements it;
// in production the task tracker owns its tables.
type TaskWriter interface {
	PutTask(t domain.Task)
}

// TaskHandler lets development setups seed tasks without a tracker
type TaskHandler struct {
	store TaskWriter
}

// NewTaskHandler creates a TaskHandler
func NewTaskHandler(store TaskWriter) *TaskHandler {
	return &TaskHandler{store: store}
}

// PutTaskRequest describes a task or habit
type PutTaskRequest struct {
	OwnerID     string     `json:"owner_id" validate:"required,max=64"`
	Kind        string     `json:"kind" validate:"required,oneof=task habit"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Difficulty  string     `json:"difficulty" validate:"required,oneof=easy medium hard"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Streak      int        `json:"streak" validate:"min=0"`
}

// HandlePut inserts or replaces a task
// @Summary Seed a task (memory storage only)
// @Tags dev
// @Accept json
// @Produce json
// @Param taskID path string true "Task ID"
// @Param request body PutTaskRequest true "Task"
// @Success 200 {object} domain.Task
// @Router /api/v1/dev/tasks/{taskID} [put]
func (h *TaskHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	taskID, ok := GetPathParam(r, w, ParamTaskID)
	if !ok {
		return
	}
	var req PutTaskRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Put task"); err != nil {
		return
	}

	difficulty, _ := domain.ParseDifficulty(req.Difficulty)
	task := domain.Task{
		ID:          taskID,
		OwnerID:     req.OwnerID,
		Kind:        domain.TaskKind(req.Kind),
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  difficulty,
		DueAt:       req.DueAt,
		Streak:      req.Streak,
	}
	h.store.PutTask(task)
	respondJSON(w, http.StatusOK, task)
}
