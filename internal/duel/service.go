package duel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/TaskArena_Go/internal/concurrency"
	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/event"
	"github.com/osse101/TaskArena_Go/internal/formula"
	"github.com/osse101/TaskArena_Go/internal/logger"
	"github.com/osse101/TaskArena_Go/internal/repository"
	"github.com/osse101/TaskArena_Go/internal/verifier"
)

// Service defines the interface for duel operations
type Service interface {
	Challenge(ctx context.Context, challengerID, challengedID string) (*domain.DuelState, error)
	GetDuel(ctx context.Context, duelID uuid.UUID) (*domain.DuelState, error)
	Accept(ctx context.Context, duelID uuid.UUID, userID string) (*domain.DuelState, error)
	Cancel(ctx context.Context, duelID uuid.UUID, userID string) (*domain.DuelState, error)

	SelectTask(ctx context.Context, duelID uuid.UUID, userID, taskID string) (*domain.DuelState, error)
	DeselectTask(ctx context.Context, duelID uuid.UUID, userID string, selectedID uuid.UUID) (*domain.DuelState, error)
	LockSelections(ctx context.Context, duelID uuid.UUID, userID string) (*domain.DuelState, error)

	SubmitEvidence(ctx context.Context, duelID uuid.UUID, userID string, selectedID uuid.UUID, evidenceRef string) (*SubmitResult, error)
	Contest(ctx context.Context, duelID uuid.UUID, userID string, selectedID uuid.UUID, reason string) (*domain.DuelState, error)
	ResolveContest(ctx context.Context, duelID uuid.UUID, selectedID uuid.UUID, upheld bool) (*domain.DuelState, error)

	// Sweep expires overdue selections and completes finished duels
	Sweep(ctx context.Context) (int, error)
}

// SubmitResult is returned from SubmitEvidence
type SubmitResult struct {
	Duel *domain.DuelState `json:"duel"`
	Hit  *Hit              `json:"hit"`
}

// CharacterReader looks up the characters taking part in a duel
type CharacterReader interface {
	GetCharacter(ctx context.Context, userID string) (*domain.Character, error)
}

type service struct {
	repo       repository.Duel
	tasks      repository.Task
	characters CharacterReader
	judge      verifier.Verifier
	engine     *formula.Engine
	eventBus   event.Bus
	locks      *concurrency.LockManager
	now        func() time.Time
}

// NewService creates a new duel service
func NewService(repo repository.Duel, tasks repository.Task, characters CharacterReader, judge verifier.Verifier, engine *formula.Engine, eventBus event.Bus) Service {
	return &service{
		repo:       repo,
		tasks:      tasks,
		characters: characters,
		judge:      judge,
		engine:     engine,
		eventBus:   eventBus,
		locks:      concurrency.NewLockManager(),
		now:        time.Now,
	}
}

// Challenge opens a pending duel between two healthy characters
func (s *service) Challenge(ctx context.Context, challengerID, challengedID string) (*domain.DuelState, error) {
	challenger, err := s.characters.GetCharacter(ctx, challengerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetChallengerFailed, err)
	}
	challenged, err := s.characters.GetCharacter(ctx, challengedID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetChallengedFailed, err)
	}

	st, err := NewDuel(challenger, challenged, s.now().UTC())
	if err != nil {
		return nil, err
	}

	// the store also refuses a second open duel for the pair
	err = s.locks.WithLock(pairKey(challengerID, challengedID), func() error {
		open, err := s.repo.HasOpenDuel(ctx, challengerID, challengedID)
		if err != nil {
			return err
		}
		if open {
			return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgDuelAlreadyOpen)
		}
		return s.repo.CreateDuel(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgDuelChallenged, "duel_id", st.Duel.ID, "challenger", challengerID, "challenged", challengedID)
	s.publish(ctx, event.NewDuelEvent(event.DuelChallenged, &st.Duel, s.now()))
	return st, nil
}

// GetDuel returns the duel with its selections
func (s *service) GetDuel(ctx context.Context, duelID uuid.UUID) (*domain.DuelState, error) {
	return s.repo.GetDuel(ctx, duelID)
}

// Accept lets the challenged user move the duel into selection. The
// acceptor must not be incapacitated.
func (s *service) Accept(ctx context.Context, duelID uuid.UUID, userID string) (*domain.DuelState, error) {
	if err := s.requireHealthy(ctx, userID); err != nil {
		return nil, err
	}

	st, err := s.mutate(ctx, duelID, func(st *domain.DuelState) error {
		return Accept(st, userID)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgDuelAccepted, "duel_id", duelID, "user_id", userID)
	s.publish(ctx, event.NewDuelEvent(event.DuelAccepted, &st.Duel, s.now()))
	return st, nil
}

// Cancel ends a duel that has not started yet
func (s *service) Cancel(ctx context.Context, duelID uuid.UUID, userID string) (*domain.DuelState, error) {
	st, err := s.mutate(ctx, duelID, func(st *domain.DuelState) error {
		return Cancel(st, userID, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgDuelCancelled, "duel_id", duelID, "user_id", userID)
	s.publish(ctx, event.NewDuelEvent(event.DuelCancelled, &st.Duel, s.now()))
	s.forget(&st.Duel)
	return st, nil
}

// SelectTask commits one of the user's tasks to the duel
func (s *service) SelectTask(ctx context.Context, duelID uuid.UUID, userID, taskID string) (*domain.DuelState, error) {
	if err := s.requireHealthy(ctx, userID); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgGetTaskFailed, err)
	}

	return s.mutate(ctx, duelID, func(st *domain.DuelState) error {
		_, err := SelectTask(st, userID, task)
		return err
	})
}

// DeselectTask removes an unlocked selection
func (s *service) DeselectTask(ctx context.Context, duelID uuid.UUID, userID string, selectedID uuid.UUID) (*domain.DuelState, error) {
	return s.mutate(ctx, duelID, func(st *domain.DuelState) error {
		return DeselectTask(st, userID, selectedID)
	})
}

// LockSelections freezes the user's selections and starts the duel when
// both sides are locked
func (s *service) LockSelections(ctx context.Context, duelID uuid.UUID, userID string) (*domain.DuelState, error) {
	if err := s.requireHealthy(ctx, userID); err != nil {
		return nil, err
	}
	var started bool
	st, err := s.mutate(ctx, duelID, func(st *domain.DuelState) error {
		var err error
		started, err = LockSelections(st, userID, s.now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info(LogMsgSelectionLocked, "duel_id", duelID, "user_id", userID)
	if started {
		log.Info(LogMsgDuelStarted, "duel_id", duelID)
		s.publish(ctx, event.NewDuelEvent(event.DuelStarted, &st.Duel, s.now()))
	}
	return st, nil
}

// SubmitEvidence asks the judge about a completion and applies the damage
// when approved. The judge is consulted outside the duel lock; the
// submission is validated again against fresh state before it is applied.
// A selection past its due date is expired on the spot and the submission
// fails with domain.ErrTaskExpired.
func (s *service) SubmitEvidence(ctx context.Context, duelID uuid.UUID, userID string, selectedID uuid.UUID, evidenceRef string) (*SubmitResult, error) {
	if err := s.requireHealthy(ctx, userID); err != nil {
		return nil, err
	}

	current, err := s.repo.GetDuel(ctx, duelID)
	if err != nil {
		return nil, err
	}
	dueDates := s.dueDates(ctx, current)
	sel, err := CheckSubmission(current, userID, selectedID, evidenceRef, dueDates, s.now().UTC())
	if errors.Is(err, domain.ErrTaskExpired) {
		return nil, s.expireLate(ctx, duelID, userID, selectedID, evidenceRef, dueDates, err)
	}
	if err != nil {
		return nil, err
	}

	req := verifier.Request{EvidenceRef: evidenceRef}
	if task, err := s.tasks.GetTask(ctx, sel.TaskID); err == nil {
		req.TaskTitle = task.Title
		req.TaskDescription = task.Description
	}
	verdict, err := s.judge.Verify(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgVerifyFailed, err)
	}

	var (
		hit       *Hit
		completed bool
		late      error
	)
	st, err := s.mutate(ctx, duelID, func(st *domain.DuelState) error {
		hit, completed, late = nil, false, nil
		now := s.now().UTC()
		h, err := SubmitEvidence(st, userID, selectedID, evidenceRef, verdict, s.engine, dueDates, now)
		if errors.Is(err, domain.ErrTaskExpired) {
			// the deadline passed while the judge deliberated; keep the expiry
			late = err
			completed, err = CheckCompletion(st, now)
			return err
		}
		if err != nil {
			return err
		}
		if !verdict.Approved {
			hit = h
			return errNoChange
		}
		done, err := CheckCompletion(st, now)
		if err != nil {
			return err
		}
		hit, completed = h, done
		return nil
	})
	if errors.Is(err, errNoChange) {
		logger.FromContext(ctx).Info(LogMsgEvidenceRejected, "duel_id", duelID, "user_id", userID, "reason", verdict.Reason)
		return &SubmitResult{Duel: current, Hit: hit}, nil
	}
	if err != nil {
		return nil, err
	}
	if late != nil {
		s.lateSubmission(ctx, st, userID, selectedID, completed)
		return nil, late
	}

	logger.FromContext(ctx).Info(LogMsgDuelDamage, "duel_id", duelID, "user_id", userID, "damage", hit.Damage, "target_hp", hit.TargetHP)
	s.publish(ctx, event.New(event.DuelDamage, event.DuelTaskPayloadV1{
		DuelID:         duelID.String(),
		SelectedTaskID: selectedID.String(),
		OwnerID:        userID,
		TargetID:       hit.TargetID,
		Damage:         hit.Damage,
		TargetHP:       hit.TargetHP,
		Timestamp:      s.now().Unix(),
	}))
	if completed {
		s.finished(ctx, st)
	}
	return &SubmitResult{Duel: st, Hit: hit}, nil
}

// expireLate persists the expiry of an overdue selection found before the
// judge was asked, then returns lateErr
func (s *service) expireLate(ctx context.Context, duelID uuid.UUID, userID string, selectedID uuid.UUID, evidenceRef string, dueDates map[string]time.Time, lateErr error) error {
	var completed bool
	st, err := s.mutate(ctx, duelID, func(st *domain.DuelState) error {
		now := s.now().UTC()
		_, err := SubmitEvidence(st, userID, selectedID, evidenceRef, verifier.Verdict{}, s.engine, dueDates, now)
		if !errors.Is(err, domain.ErrTaskExpired) {
			// someone else already settled the selection
			return errNoChange
		}
		completed, err = CheckCompletion(st, now)
		return err
	})
	if errors.Is(err, errNoChange) {
		return lateErr
	}
	if err != nil {
		return err
	}
	s.lateSubmission(ctx, st, userID, selectedID, completed)
	return lateErr
}

func (s *service) lateSubmission(ctx context.Context, st *domain.DuelState, userID string, selectedID uuid.UUID, completed bool) {
	logger.FromContext(ctx).Info(LogMsgLateSubmission, "duel_id", st.Duel.ID, "user_id", userID, "selected_task_id", selectedID)
	if completed {
		s.finished(ctx, st)
	}
}

// errNoChange aborts a mutation without saving
var errNoChange = errors.New("no change")

// Contest flags an opponent's completed task for adjudication
func (s *service) Contest(ctx context.Context, duelID uuid.UUID, userID string, selectedID uuid.UUID, reason string) (*domain.DuelState, error) {
	if err := s.requireHealthy(ctx, userID); err != nil {
		return nil, err
	}
	var contested domain.PvPSelectedTask
	st, err := s.mutate(ctx, duelID, func(st *domain.DuelState) error {
		t, err := Contest(st, userID, selectedID, reason)
		if err != nil {
			return err
		}
		contested = *t
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgDuelContested, "duel_id", duelID, "user_id", userID, "selected_task_id", selectedID)
	s.publish(ctx, event.New(event.DuelContested, s.taskPayload(st, &contested)))
	return st, nil
}

// ResolveContest applies the adjudicator's decision
func (s *service) ResolveContest(ctx context.Context, duelID uuid.UUID, selectedID uuid.UUID, upheld bool) (*domain.DuelState, error) {
	var restored int
	st, err := s.mutate(ctx, duelID, func(st *domain.DuelState) error {
		var err error
		restored, err = ResolveContest(st, selectedID, upheld)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgContestResolved, "duel_id", duelID, "selected_task_id", selectedID, "upheld", upheld, "restored_hp", restored)
	if t := st.Task(selectedID); t != nil {
		s.publish(ctx, event.New(event.DuelContestResolved, s.taskPayload(st, t)))
	}
	return st, nil
}

// Sweep re-evaluates every active duel from persisted state
func (s *service) Sweep(ctx context.Context) (int, error) {
	ids, err := s.repo.ListOpenDuels(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgListDuelsFailed, err)
	}

	log := logger.FromContext(ctx)
	finished := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return finished, ctx.Err()
		}
		done, err := s.sweepOne(ctx, id)
		if err != nil {
			log.Warn(LogMsgSweepFailed, "duel_id", id, "error", err)
			continue
		}
		if done {
			finished++
		}
	}
	return finished, nil
}

func (s *service) sweepOne(ctx context.Context, id uuid.UUID) (bool, error) {
	current, err := s.repo.GetDuel(ctx, id)
	if err != nil {
		return false, err
	}
	if current.Duel.Status != domain.DuelStatusActive {
		return false, nil
	}
	dueDates := s.dueDates(ctx, current)

	var (
		expired   []uuid.UUID
		completed bool
	)
	st, err := s.mutate(ctx, id, func(st *domain.DuelState) error {
		now := s.now().UTC()
		expired = ExpireTasks(st, dueDates, now)
		done, err := CheckCompletion(st, now)
		if err != nil {
			return err
		}
		completed = done
		if len(expired) == 0 && !done {
			return errNoChange
		}
		return nil
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if len(expired) > 0 {
		logger.FromContext(ctx).Info(LogMsgTasksExpired, "duel_id", id, "count", len(expired))
	}
	if completed {
		s.finished(ctx, st)
	}
	return completed, nil
}

// dueDates reads the current due date of every open selection from the
// tracker. Lookups that fail fall back to the snapshot.
func (s *service) dueDates(ctx context.Context, st *domain.DuelState) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, t := range st.Tasks {
		if t.IsTerminal() {
			continue
		}
		task, err := s.tasks.GetTask(ctx, t.TaskID)
		if err != nil || task.DueAt == nil {
			continue
		}
		out[t.TaskID] = *task.DueAt
	}
	return out
}

// requireHealthy rejects duel actions from incapacitated characters
func (s *service) requireHealthy(ctx context.Context, userID string) error {
	c, err := s.characters.GetCharacter(ctx, userID)
	if err != nil {
		return err
	}
	if c.IsIncapacitated() {
		return fmt.Errorf("%w: %s", domain.ErrIncapacitated, userID)
	}
	return nil
}

// pairKey names the lock for an unordered pair of users
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "pair:" + a + "|" + b
}

// mutate serializes fn per duel, re-reading the aggregate and retrying on
// stale writes. The state is saved only when fn succeeds.
func (s *service) mutate(ctx context.Context, duelID uuid.UUID, fn func(st *domain.DuelState) error) (*domain.DuelState, error) {
	var result *domain.DuelState
	err := s.locks.WithLock(duelID.String(), func() error {
		return concurrency.RetryStale(ctx, metricEntityDuel, func(ctx context.Context) error {
			st, err := s.repo.GetDuel(ctx, duelID)
			if err != nil {
				return err
			}
			if err := fn(st); err != nil {
				return err
			}
			if err := s.repo.SaveDuel(ctx, st); err != nil {
				return err
			}
			result = st
			return nil
		})
	})
	return result, err
}

func (s *service) finished(ctx context.Context, st *domain.DuelState) {
	winner := ""
	if st.Duel.WinnerID != nil {
		winner = *st.Duel.WinnerID
	}
	logger.FromContext(ctx).Info(LogMsgDuelCompleted, "duel_id", st.Duel.ID, "winner_id", winner,
		"challenger_hp", st.Duel.ChallengerHP, "challenged_hp", st.Duel.ChallengedHP)
	s.publish(ctx, event.NewDuelEvent(event.DuelCompleted, &st.Duel, s.now()))
	s.forget(&st.Duel)
}

// forget drops the locks of a duel that reached a terminal status
func (s *service) forget(d *domain.PvPDuel) {
	s.locks.Forget(d.ID.String())
	s.locks.Forget(pairKey(d.ChallengerID, d.ChallengedID))
}

func (s *service) taskPayload(st *domain.DuelState, t *domain.PvPSelectedTask) event.DuelTaskPayloadV1 {
	target, _ := st.Duel.Opponent(t.OwnerID)
	return event.DuelTaskPayloadV1{
		DuelID:         st.Duel.ID.String(),
		SelectedTaskID: t.ID.String(),
		OwnerID:        t.OwnerID,
		TargetID:       target,
		Damage:         t.DamageDealt,
		TargetHP:       st.Duel.HPOf(target),
		ContestReason:  t.ContestReason,
		ContestStatus:  t.ContestStatus,
		Timestamp:      s.now().Unix(),
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
