package character

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/TaskArena_Go/internal/attributes"
	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/event"
	"github.com/osse101/TaskArena_Go/internal/formula"
	"github.com/osse101/TaskArena_Go/internal/logger"
	"github.com/osse101/TaskArena_Go/internal/metrics"
	"github.com/osse101/TaskArena_Go/internal/progression"
)

// applyFunc computes the next character state from the current one
type applyFunc func(c domain.Character, b domain.Bonuses) (domain.Character, *Outcome, error)

// CompleteTask grants the reward of a one-off task and cascades level-ups
func (s *service) CompleteTask(ctx context.Context, userID, taskID string) (*Outcome, error) {
	task, err := s.loadTask(ctx, userID, taskID, domain.TaskKindTask)
	if err != nil {
		return nil, err
	}

	out, err := s.applyEvent(ctx, userID, taskID, domain.TaskEventCompleted, KeyPrefixTaskCompleted+taskID,
		func(c domain.Character, b domain.Bonuses) (domain.Character, *Outcome, error) {
			if c.IsIncapacitated() {
				return c, nil, domain.ErrIncapacitated
			}
			reward := s.engine.CompletionReward(task.Difficulty, c.Class, b)
			next, lvl := progression.ApplyXP(c, reward.XP, b)
			next.Gold += reward.Gold
			return next, &Outcome{Reward: reward, LevelUp: lvl}, nil
		})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgTaskCompleted, "user_id", userID, "task_id", taskID, "xp", out.Reward.XP, "gold", out.Reward.Gold)
	s.recordCompletion(ctx, task, out, event.TaskCompleted)
	return out, nil
}

// CompleteHabit grants the habit reward and then heals by base + streak.
// A habit can be completed once per UTC day.
func (s *service) CompleteHabit(ctx context.Context, userID, habitID string) (*Outcome, error) {
	habit, err := s.loadTask(ctx, userID, habitID, domain.TaskKindHabit)
	if err != nil {
		return nil, err
	}

	key := KeyPrefixHabitCompleted + habitID + ":" + s.now().UTC().Format(HabitKeyDateLayout)
	out, err := s.applyEvent(ctx, userID, habitID, domain.TaskEventHabitCompleted, key,
		func(c domain.Character, b domain.Bonuses) (domain.Character, *Outcome, error) {
			if c.IsIncapacitated() {
				return c, nil, domain.ErrIncapacitated
			}
			reward := s.engine.CompletionReward(habit.Difficulty, c.Class, b)
			next, lvl := progression.ApplyXP(c, reward.XP, b)
			next.Gold += reward.Gold
			next.CurrentHP = s.engine.HabitHeal(next.CurrentHP, next.MaxHP, habit.Streak, next.Class)
			return next, &Outcome{Reward: reward, LevelUp: lvl}, nil
		})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgHabitCompleted, "user_id", userID, "habit_id", habitID, "hp_delta", out.HPDelta)
	s.recordCompletion(ctx, habit, out, event.HabitCompleted)
	return out, nil
}

// MissTask applies the deadline penalty. Reaching 0 HP incapacitates.
func (s *service) MissTask(ctx context.Context, userID, taskID string) (*Outcome, error) {
	task, err := s.loadTask(ctx, userID, taskID, domain.TaskKindTask)
	if err != nil {
		return nil, err
	}
	if task.CompletedAt != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgTaskAlreadyCompleted)
	}

	out, err := s.applyEvent(ctx, userID, taskID, domain.TaskEventMissed, KeyPrefixTaskMissed+taskID,
		func(c domain.Character, _ domain.Bonuses) (domain.Character, *Outcome, error) {
			dmg := s.engine.MissDamage(c.Level, task.Difficulty, c.Class)
			next := formula.ApplyDamage(c, dmg)
			return next, &Outcome{Incapacitated: !c.IsIncapacitated() && next.IsIncapacitated()}, nil
		})
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info(LogMsgTaskMissed, "user_id", userID, "task_id", taskID, "hp_delta", out.HPDelta, "hp", out.Character.CurrentHP)
	metrics.TasksMissed.WithLabelValues(string(task.Difficulty)).Inc()

	now := s.now()
	s.publish(ctx, event.New(event.TaskMissed, event.TaskOutcomePayloadV1{
		UserID:     userID,
		TaskID:     taskID,
		Difficulty: task.Difficulty,
		HPDelta:    out.HPDelta,
		HPAfter:    out.Character.CurrentHP,
		Timestamp:  now.Unix(),
	}))
	if out.Incapacitated {
		s.incapacitated(ctx, &out.Character)
	}
	return out, nil
}

// Revive restores HP of an incapacitated character. It is an external
// correction and is recorded like any other task event.
func (s *service) Revive(ctx context.Context, userID string, hp int) (*domain.Character, error) {
	if hp <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidReviveHP)
	}

	key := KeyPrefixRevived + uuid.NewString()
	out, err := s.applyEvent(ctx, userID, "", domain.TaskEventRevived, key,
		func(c domain.Character, _ domain.Bonuses) (domain.Character, *Outcome, error) {
			if !c.IsIncapacitated() {
				return c, nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgNotIncapacitated)
			}
			c.CurrentHP = hp
			return attributes.Clamp(c), &Outcome{}, nil
		})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgRevived, "user_id", userID, "hp", out.Character.CurrentHP)
	s.publish(ctx, event.New(event.CharacterRevived, event.CharacterStatePayloadV1{
		UserID:    userID,
		HP:        out.Character.CurrentHP,
		Class:     out.Character.Class,
		Timestamp: s.now().Unix(),
	}))
	return &out.Character, nil
}

// ApplyBossDamage applies a raid counter-attack mitigated by class defense
func (s *service) ApplyBossDamage(ctx context.Context, userID string, bossDamage int) (int, error) {
	var (
		dealt      int
		knockedOut bool
		result     domain.Character
	)
	err := s.mutate(ctx, userID, func(ctx context.Context, c domain.Character) error {
		dmg := s.engine.CounterAttackDamage(bossDamage, c.Class)
		next := formula.ApplyDamage(c, dmg)
		if err := s.repo.UpdateCharacter(ctx, &next); err != nil {
			return err
		}
		dealt = c.CurrentHP - next.CurrentHP
		knockedOut = !c.IsIncapacitated() && next.IsIncapacitated()
		result = next
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info(LogMsgBossDamageApplied, "user_id", userID, "damage", dealt, "hp", result.CurrentHP)
	if knockedOut {
		s.incapacitated(ctx, &result)
	}
	return dealt, nil
}

// loadTask fetches a task and checks it can drive an event for userID
func (s *service) loadTask(ctx context.Context, userID, taskID string, kind domain.TaskKind) (*domain.Task, error) {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgGetTaskFailed, err)
	}
	if task.OwnerID != userID {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgTaskNotOwned)
	}
	if task.Kind != kind {
		return nil, fmt.Errorf("%w: %s: %s is a %s", domain.ErrInvalidInput, ErrMsgTaskKindMismatch, taskID, task.Kind)
	}
	if !s.engine.Known(task.Difficulty) {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgUnknownDifficulty, task.Difficulty)
	}
	return task, nil
}

// applyEvent runs apply against a fresh read and stores the result together
// with the idempotency key
func (s *service) applyEvent(ctx context.Context, userID, taskID string, kind domain.TaskEventKind, key string, apply applyFunc) (*Outcome, error) {
	var out *Outcome
	err := s.mutate(ctx, userID, func(ctx context.Context, c domain.Character) error {
		bonuses, err := s.bonuses(ctx, &c)
		if err != nil {
			return err
		}
		c = attributes.Refresh(c, bonuses)

		next, o, err := apply(c, bonuses)
		if err != nil {
			return err
		}
		next = attributes.Clamp(next)
		o.HPDelta = next.CurrentHP - c.CurrentHP

		ev := &domain.TaskEvent{
			UserID:     userID,
			TaskID:     taskID,
			Kind:       kind,
			Key:        key,
			HPDelta:    o.HPDelta,
			XPDelta:    o.Reward.XP,
			GoldDelta:  o.Reward.Gold,
			OccurredAt: s.now().UTC(),
		}
		if err := s.repo.ApplyTaskEvent(ctx, &next, ev); err != nil {
			return err
		}
		o.Character = next
		out = o
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEvent) {
			logger.FromContext(ctx).Debug(LogMsgDuplicateTaskEvent, "user_id", userID, "key", key)
		}
		return nil, err
	}
	return out, nil
}

func (s *service) recordCompletion(ctx context.Context, task *domain.Task, out *Outcome, t event.Type) {
	metrics.TasksCompleted.WithLabelValues(string(task.Kind), string(task.Difficulty)).Inc()
	metrics.XPAwarded.Add(float64(out.Reward.XP))
	metrics.GoldAwarded.Add(float64(out.Reward.Gold))

	now := s.now()
	s.publish(ctx, event.New(t, event.TaskOutcomePayloadV1{
		UserID:     task.OwnerID,
		TaskID:     task.ID,
		Difficulty: task.Difficulty,
		XPGained:   out.Reward.XP,
		GoldGained: out.Reward.Gold,
		HPDelta:    out.HPDelta,
		HPAfter:    out.Character.CurrentHP,
		Timestamp:  now.Unix(),
	}))

	if out.LevelUp.LeveledUp() {
		metrics.LevelUps.Add(float64(out.LevelUp.LevelsGained))
		logger.FromContext(ctx).Info(LogMsgLevelUp, "user_id", task.OwnerID, "old_level", out.LevelUp.OldLevel, "new_level", out.LevelUp.NewLevel)
		s.publish(ctx, event.New(event.CharacterLevelUp, event.LevelUpPayloadV1{
			UserID:        task.OwnerID,
			OldLevel:      out.LevelUp.OldLevel,
			NewLevel:      out.LevelUp.NewLevel,
			ClassUnlocked: out.LevelUp.ClassUnlocked,
		}))
	}
}

func (s *service) incapacitated(ctx context.Context, c *domain.Character) {
	metrics.Incapacitations.Inc()
	logger.FromContext(ctx).Warn(LogMsgIncapacitated, "user_id", c.UserID)
	s.publish(ctx, event.New(event.CharacterIncapacitated, event.CharacterStatePayloadV1{
		UserID:    c.UserID,
		HP:        c.CurrentHP,
		Class:     c.Class,
		Timestamp: s.now().Unix(),
	}))
}
