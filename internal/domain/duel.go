package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DuelRequiredTasks is the number of tasks each participant must lock in
	DuelRequiredTasks = 5

	// DuelStartingHP is the HP both duel participants start with
	DuelStartingHP = 100
)

// DuelStatus represents the lifecycle state of a PvP duel
type DuelStatus string

const (
	DuelStatusPending   DuelStatus = "pending"
	DuelStatusSelecting DuelStatus = "selecting"
	DuelStatusActive    DuelStatus = "active"
	DuelStatusCompleted DuelStatus = "completed"
	DuelStatusCancelled DuelStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible
func (s DuelStatus) IsTerminal() bool {
	return s == DuelStatusCompleted || s == DuelStatusCancelled
}

// ContestStatus tracks adjudication of a contested duel task
type ContestStatus string

const (
	ContestStatusNone       ContestStatus = "none"
	ContestStatusPending    ContestStatus = "pending"
	ContestStatusUpheld     ContestStatus = "upheld"
	ContestStatusOverturned ContestStatus = "overturned"
)

// PvPDuel is a 1v1 encounter. WinnerID is set iff Status is completed.
type PvPDuel struct {
	ID           uuid.UUID  `json:"id"`
	ChallengerID string     `json:"challenger_id"`
	ChallengedID string     `json:"challenged_id"`
	ChallengerHP int        `json:"challenger_hp"`
	ChallengedHP int        `json:"challenged_hp"`
	Status       DuelStatus `json:"status"`
	WinnerID     *string    `json:"winner_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	Version      int64      `json:"version"`
}

// IsParticipant reports whether userID is one of the two duelists
func (d *PvPDuel) IsParticipant(userID string) bool {
	return userID == d.ChallengerID || userID == d.ChallengedID
}

// Opponent returns the other participant
func (d *PvPDuel) Opponent(userID string) (string, bool) {
	switch userID {
	case d.ChallengerID:
		return d.ChallengedID, true
	case d.ChallengedID:
		return d.ChallengerID, true
	}
	return "", false
}

// HPOf returns the duel HP of a participant
func (d *PvPDuel) HPOf(userID string) int {
	if userID == d.ChallengerID {
		return d.ChallengerHP
	}
	return d.ChallengedHP
}

// SetHP sets a participant's duel HP clamped to [0, DuelStartingHP]
func (d *PvPDuel) SetHP(userID string, hp int) {
	if hp < 0 {
		hp = 0
	}
	if hp > DuelStartingHP {
		hp = DuelStartingHP
	}
	if userID == d.ChallengerID {
		d.ChallengerHP = hp
	} else {
		d.ChallengedHP = hp
	}
}

// PvPSelectedTask is a task a participant committed to a duel.
// Difficulty and DueAt are snapshotted at selection time.
type PvPSelectedTask struct {
	ID            uuid.UUID     `json:"id"`
	DuelID        uuid.UUID     `json:"duel_id"`
	OwnerID       string        `json:"owner_id"`
	TaskID        string        `json:"task_id"`
	Difficulty    Difficulty    `json:"difficulty"`
	DueAt         *time.Time    `json:"due_at,omitempty"`
	Locked        bool          `json:"locked"`
	Completed     bool          `json:"completed"`
	Expired       bool          `json:"expired"`
	EvidenceRef   *string       `json:"evidence_ref,omitempty"`
	Contested     bool          `json:"contested"`
	ContestReason string        `json:"contest_reason,omitempty"`
	ContestStatus ContestStatus `json:"contest_status"`
	DamageDealt   int           `json:"damage_dealt"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// IsTerminal reports whether the task can no longer change the duel outcome
func (t *PvPSelectedTask) IsTerminal() bool {
	return t.Completed || t.Expired
}

// DuelState is the duel aggregate persisted as a whole
type DuelState struct {
	Duel  PvPDuel           `json:"duel"`
	Tasks []PvPSelectedTask `json:"tasks"`
}

// TasksOf returns the selections owned by userID
func (s *DuelState) TasksOf(userID string) []PvPSelectedTask {
	var out []PvPSelectedTask
	for _, t := range s.Tasks {
		if t.OwnerID == userID {
			out = append(out, t)
		}
	}
	return out
}

// Task returns a pointer into Tasks for in-place mutation
func (s *DuelState) Task(selectedID uuid.UUID) *PvPSelectedTask {
	for i := range s.Tasks {
		if s.Tasks[i].ID == selectedID {
			return &s.Tasks[i]
		}
	}
	return nil
}

// Clone deep-copies the aggregate
func (s *DuelState) Clone() *DuelState {
	out := &DuelState{Duel: s.Duel}
	out.Tasks = make([]PvPSelectedTask, len(s.Tasks))
	copy(out.Tasks, s.Tasks)
	return out
}
