package domain

import (
	"strings"
	"time"
)

// Difficulty of a task or habit
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes user input into a Difficulty
func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	}
	return "", false
}

// TaskKind distinguishes one-off tasks from recurring habits
type TaskKind string

const (
	TaskKindTask  TaskKind = "task"
	TaskKindHabit TaskKind = "habit"
)

// Task is owned by the task tracker and is read-only to the combat core
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Kind        TaskKind   `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Streak      int        `json:"streak"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsOverdue reports whether an uncompleted task has passed its due time
func (t *Task) IsOverdue(now time.Time) bool {
	return t.CompletedAt == nil && t.DueAt != nil && now.After(*t.DueAt)
}
