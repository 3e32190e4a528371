package duel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/formula"
	"github.com/osse101/TaskArena_Go/internal/verifier"
)

// lifecycle lists every legal status change of a duel
var lifecycle = fsm.Events{
	{Name: eventAccept, Src: []string{string(domain.DuelStatusPending)}, Dst: string(domain.DuelStatusSelecting)},
	{Name: eventCancel, Src: []string{string(domain.DuelStatusPending), string(domain.DuelStatusSelecting)}, Dst: string(domain.DuelStatusCancelled)},
	{Name: eventStart, Src: []string{string(domain.DuelStatusSelecting)}, Dst: string(domain.DuelStatusActive)},
	{Name: eventComplete, Src: []string{string(domain.DuelStatusActive)}, Dst: string(domain.DuelStatusCompleted)},
}

// transition fires evt against the duel's current status
func transition(d *domain.PvPDuel, evt string) error {
	m := fsm.NewFSM(string(d.Status), lifecycle, fsm.Callbacks{})
	if err := m.Event(context.Background(), evt); err != nil {
		return fmt.Errorf("%w: %s from %s", domain.ErrInvalidTransition, evt, d.Status)
	}
	d.Status = domain.DuelStatus(m.Current())
	return nil
}

func requireStatus(d *domain.PvPDuel, want ...domain.DuelStatus) error {
	for _, s := range want {
		if d.Status == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (%s)", domain.ErrInvalidTransition, ErrMsgWrongStatus, d.Status)
}

func requireParticipant(d *domain.PvPDuel, userID string) error {
	if !d.IsParticipant(userID) {
		return fmt.Errorf("%w: %s", domain.ErrNotParticipant, userID)
	}
	return nil
}

// NewDuel opens a pending challenge. Incapacitated characters can neither
// issue nor receive one.
func NewDuel(challenger, challenged *domain.Character, now time.Time) (*domain.DuelState, error) {
	if challenger.UserID == "" || challenged.UserID == "" {
		return nil, fmt.Errorf("%w: missing participant", domain.ErrInvalidInput)
	}
	if challenger.UserID == challenged.UserID {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgSelfChallenge)
	}
	if challenger.IsIncapacitated() {
		return nil, fmt.Errorf("%w: %s", domain.ErrIncapacitated, challenger.UserID)
	}
	if challenged.IsIncapacitated() {
		return nil, fmt.Errorf("%w: %s", domain.ErrIncapacitated, challenged.UserID)
	}

	return &domain.DuelState{
		Duel: domain.PvPDuel{
			ID:           uuid.New(),
			ChallengerID: challenger.UserID,
			ChallengedID: challenged.UserID,
			ChallengerHP: domain.DuelStartingHP,
			ChallengedHP: domain.DuelStartingHP,
			Status:       domain.DuelStatusPending,
			CreatedAt:    now,
		},
		Tasks: []domain.PvPSelectedTask{},
	}, nil
}

// Accept moves a pending duel into task selection
func Accept(st *domain.DuelState, by string) error {
	d := &st.Duel
	if err := requireParticipant(d, by); err != nil {
		return err
	}
	if by != d.ChallengedID {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgOnlyChallengedAccept)
	}
	return transition(d, eventAccept)
}

// Cancel ends a duel before it started. HP and rewards are untouched.
func Cancel(st *domain.DuelState, by string, now time.Time) error {
	d := &st.Duel
	if err := requireParticipant(d, by); err != nil {
		return err
	}
	if err := transition(d, eventCancel); err != nil {
		return err
	}
	d.EndedAt = &now
	return nil
}

// SelectTask commits one of owner's open tasks to the duel. Difficulty and
// due date are snapshotted.
func SelectTask(st *domain.DuelState, owner string, task *domain.Task) (*domain.PvPSelectedTask, error) {
	d := &st.Duel
	if err := requireParticipant(d, owner); err != nil {
		return nil, err
	}
	if err := requireStatus(d, domain.DuelStatusSelecting); err != nil {
		return nil, err
	}
	if task.OwnerID != owner {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgTaskNotOwned)
	}
	if task.Kind != domain.TaskKindTask || task.CompletedAt != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgTaskNotSelectable)
	}

	mine := st.TasksOf(owner)
	for _, t := range mine {
		if t.Locked {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgSelectionsLocked)
		}
		if t.TaskID == task.ID {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgTaskAlreadySelected)
		}
	}
	if len(mine) >= domain.DuelRequiredTasks {
		return nil, fmt.Errorf("%w: at most %d tasks", domain.ErrQuotaViolation, domain.DuelRequiredTasks)
	}

	sel := domain.PvPSelectedTask{
		ID:            uuid.New(),
		DuelID:        d.ID,
		OwnerID:       owner,
		TaskID:        task.ID,
		Difficulty:    task.Difficulty,
		DueAt:         task.DueAt,
		ContestStatus: domain.ContestStatusNone,
	}
	st.Tasks = append(st.Tasks, sel)
	return &sel, nil
}

// DeselectTask removes an unlocked selection
func DeselectTask(st *domain.DuelState, owner string, selectedID uuid.UUID) error {
	d := &st.Duel
	if err := requireParticipant(d, owner); err != nil {
		return err
	}
	if err := requireStatus(d, domain.DuelStatusSelecting); err != nil {
		return err
	}

	for i, t := range st.Tasks {
		if t.ID != selectedID || t.OwnerID != owner {
			continue
		}
		if t.Locked {
			return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgSelectionsLocked)
		}
		st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgSelectionNotFound)
}

// LockSelections freezes owner's selections. It requires exactly the full
// quota and starts the duel once both sides are locked. The returned flag
// reports whether the duel started.
func LockSelections(st *domain.DuelState, owner string, now time.Time) (bool, error) {
	d := &st.Duel
	if err := requireParticipant(d, owner); err != nil {
		return false, err
	}
	if err := requireStatus(d, domain.DuelStatusSelecting); err != nil {
		return false, err
	}

	mine := st.TasksOf(owner)
	if len(mine) != domain.DuelRequiredTasks {
		return false, fmt.Errorf("%w: need exactly %d tasks, have %d", domain.ErrQuotaViolation, domain.DuelRequiredTasks, len(mine))
	}
	if mine[0].Locked {
		return false, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgSelectionsLocked)
	}
	for i := range st.Tasks {
		if st.Tasks[i].OwnerID == owner {
			st.Tasks[i].Locked = true
		}
	}

	if !bothLocked(st) {
		return false, nil
	}
	if err := transition(d, eventStart); err != nil {
		return false, err
	}
	d.StartedAt = &now
	return true, nil
}

func bothLocked(st *domain.DuelState) bool {
	locked := map[string]int{}
	for _, t := range st.Tasks {
		if t.Locked {
			locked[t.OwnerID]++
		}
	}
	return locked[st.Duel.ChallengerID] == domain.DuelRequiredTasks &&
		locked[st.Duel.ChallengedID] == domain.DuelRequiredTasks
}

// Hit is the effect of one evidence submission
type Hit struct {
	SelectedTaskID uuid.UUID        `json:"selected_task_id"`
	TargetID       string           `json:"target_id"`
	Damage         int              `json:"damage"`
	TargetHP       int              `json:"target_hp"`
	Verdict        verifier.Verdict `json:"verdict"`
}

// CheckSubmission validates that owner may submit evidence for selectedID
// at now without changing anything. A selection past its due date yields
// domain.ErrTaskExpired. dueDates overrides the snapshotted due date per
// task id, as in ExpireTasks.
func CheckSubmission(st *domain.DuelState, owner string, selectedID uuid.UUID, evidenceRef string, dueDates map[string]time.Time, now time.Time) (*domain.PvPSelectedTask, error) {
	d := &st.Duel
	if err := requireParticipant(d, owner); err != nil {
		return nil, err
	}
	if err := requireStatus(d, domain.DuelStatusActive); err != nil {
		return nil, err
	}
	if strings.TrimSpace(evidenceRef) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyEvidence)
	}
	t := st.Task(selectedID)
	if t == nil || t.OwnerID != owner {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgSelectionNotFound)
	}
	if t.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgSelectionTerminal)
	}
	if overdue(t, dueDates, now) {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskExpired, t.TaskID)
	}
	return t, nil
}

// SubmitEvidence applies a judged completion. The completed flag gates the
// damage so each task hits at most once. A rejected verdict changes nothing
// and returns a zero-damage hit. A late submission marks the selection
// expired and returns domain.ErrTaskExpired; the caller should persist that.
func SubmitEvidence(st *domain.DuelState, owner string, selectedID uuid.UUID, evidenceRef string, verdict verifier.Verdict, engine *formula.Engine, dueDates map[string]time.Time, now time.Time) (*Hit, error) {
	t, err := CheckSubmission(st, owner, selectedID, evidenceRef, dueDates, now)
	if errors.Is(err, domain.ErrTaskExpired) {
		st.Task(selectedID).Expired = true
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	target, _ := st.Duel.Opponent(owner)
	hit := &Hit{SelectedTaskID: selectedID, TargetID: target, TargetHP: st.Duel.HPOf(target), Verdict: verdict}
	if !verdict.Approved {
		return hit, nil
	}

	before := st.Duel.HPOf(target)
	st.Duel.SetHP(target, before-engine.PvPDamage(t.Difficulty))
	after := st.Duel.HPOf(target)

	ref := evidenceRef
	t.Completed = true
	t.EvidenceRef = &ref
	t.CompletedAt = &now
	t.DamageDealt = before - after

	hit.Damage = t.DamageDealt
	hit.TargetHP = after
	return hit, nil
}

// Contest flags an opponent's completed task for adjudication
func Contest(st *domain.DuelState, by string, selectedID uuid.UUID, reason string) (*domain.PvPSelectedTask, error) {
	d := &st.Duel
	if err := requireParticipant(d, by); err != nil {
		return nil, err
	}
	if err := requireStatus(d, domain.DuelStatusActive, domain.DuelStatusCompleted); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > MaxContestReasonLength {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidReason)
	}
	t := st.Task(selectedID)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgSelectionNotFound)
	}
	if t.OwnerID == by {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgOwnTaskContest)
	}
	if !t.Completed {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgNotCompleted)
	}
	if t.Contested {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgAlreadyContested)
	}

	t.Contested = true
	t.ContestReason = reason
	t.ContestStatus = domain.ContestStatusPending
	return t, nil
}

// ResolveContest settles a pending contest. An overturned completion gives
// its damage back to the target only while the duel is still running; a
// finished duel keeps its result. The task stays terminal either way.
// It returns the HP restored.
func ResolveContest(st *domain.DuelState, selectedID uuid.UUID, upheld bool) (int, error) {
	t := st.Task(selectedID)
	if t == nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgSelectionNotFound)
	}
	if t.ContestStatus != domain.ContestStatusPending {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgNoPendingContest)
	}

	if upheld {
		t.ContestStatus = domain.ContestStatusUpheld
		return 0, nil
	}

	t.ContestStatus = domain.ContestStatusOverturned
	if st.Duel.Status != domain.DuelStatusActive {
		return 0, nil
	}
	target, _ := st.Duel.Opponent(t.OwnerID)
	before := st.Duel.HPOf(target)
	st.Duel.SetHP(target, before+t.DamageDealt)
	t.DamageDealt = 0
	return st.Duel.HPOf(target) - before, nil
}

// ExpireTasks marks open selections whose task is past due as expired.
// dueDates overrides the snapshotted due date per task id.
func ExpireTasks(st *domain.DuelState, dueDates map[string]time.Time, now time.Time) []uuid.UUID {
	if st.Duel.Status != domain.DuelStatusActive {
		return nil
	}
	var expired []uuid.UUID
	for i := range st.Tasks {
		t := &st.Tasks[i]
		if t.IsTerminal() || !overdue(t, dueDates, now) {
			continue
		}
		t.Expired = true
		expired = append(expired, t.ID)
	}
	return expired
}

func overdue(t *domain.PvPSelectedTask, dueDates map[string]time.Time, now time.Time) bool {
	if due, ok := dueDates[t.TaskID]; ok {
		return now.After(due)
	}
	return t.DueAt != nil && now.After(*t.DueAt)
}

// CheckCompletion ends an active duel once a side is at zero HP or every
// selection is terminal. It reports whether the duel completed.
func CheckCompletion(st *domain.DuelState, now time.Time) (bool, error) {
	d := &st.Duel
	if d.Status != domain.DuelStatusActive {
		return false, nil
	}
	if d.ChallengerHP > 0 && d.ChallengedHP > 0 && !allTerminal(st) {
		return false, nil
	}

	winner := decideWinner(st)
	if err := transition(d, eventComplete); err != nil {
		return false, err
	}
	d.WinnerID = &winner
	d.EndedAt = &now
	return true, nil
}

func allTerminal(st *domain.DuelState) bool {
	if len(st.Tasks) < 2*domain.DuelRequiredTasks {
		return false
	}
	for i := range st.Tasks {
		if !st.Tasks[i].IsTerminal() {
			return false
		}
	}
	return true
}

// decideWinner picks the side with HP left, then the higher HP. Equal HP
// goes to the side whose last damaging completion came first, then to the
// challenger.
func decideWinner(st *domain.DuelState) string {
	d := &st.Duel
	switch {
	case d.ChallengerHP > d.ChallengedHP:
		return d.ChallengerID
	case d.ChallengedHP > d.ChallengerHP:
		return d.ChallengedID
	}

	a := lastDamagingCompletion(st, d.ChallengerID)
	b := lastDamagingCompletion(st, d.ChallengedID)
	if b.Before(a) {
		return d.ChallengedID
	}
	return d.ChallengerID
}

func lastDamagingCompletion(st *domain.DuelState, owner string) time.Time {
	var last time.Time
	for _, t := range st.Tasks {
		if t.OwnerID != owner || t.DamageDealt <= 0 || t.CompletedAt == nil {
			continue
		}
		if t.CompletedAt.After(last) {
			last = *t.CompletedAt
		}
	}
	return last
}
