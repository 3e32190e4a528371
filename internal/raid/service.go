package raid

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
)

// Service defines the raid operations
type Service interface {
	Create(ctx context.Context, leaderID string, p Params) (*domain.RaidState, error)
	GetRaid(ctx context.Context, raidID uuid.UUID) (*domain.RaidState, error)
	Join(ctx context.Context, raidID uuid.UUID, userID string) (*domain.RaidState, error)
	ApplyDamage(ctx context.Context, raidID uuid.UUID, userID string, amount int) (*Damage, error)
	Stun(ctx context.Context, raidID uuid.UUID, userID string, d time.Duration) (*domain.RaidState, error)
	ReduceCharge(ctx context.Context, raidID uuid.UUID, userID string, amount int) (*domain.RaidState, error)
	Leaderboard(ctx context.Context, raidID uuid.UUID) ([]domain.LeaderboardEntry, error)

	// Sweep fails raids past their deadline and fires due counter-attacks
	Sweep(ctx context.Context) (int, error)

	// HandleTaskCompleted turns a task or habit completion into boss damage
	// in every active raid of the user
	HandleTaskCompleted(ctx context.Context, evt event.Event) error
}

// Characters is what the raid engine needs from the character service
type Characters interface {
	Get(ctx context.Context, userID string) (*domain.CharacterSheet, error)
	ApplyBossDamage(ctx context.Context, userID string, bossDamage int) (int, error)
}

type service struct {
	repo       repository.Raid
	characters Characters
	engine     *formula.Engine
	eventBus   event.Bus
	locks      *concurrency.LockManager
	now        func() time.Time
}

// NewService creates a new raid service
func NewService(repo repository.Raid, characters Characters, engine *formula.Engine, eventBus event.Bus) Service {
	return &service{
		repo:       repo,
		characters: characters,
		engine:     engine,
		eventBus:   eventBus,
		locks:      concurrency.NewLockManager(),
		now:        time.Now,
	}
}

// Register subscribes the service to completion events
func Register(bus event.Bus, svc Service) {
	bus.Subscribe(event.TaskCompleted, svc.HandleTaskCompleted)
	bus.Subscribe(event.HabitCompleted, svc.HandleTaskCompleted)
}

// Create opens a raid led by leaderID
func (s *service) Create(ctx context.Context, leaderID string, p Params) (*domain.RaidState, error) {
	if p.Duration == 0 {
		p.Duration = DefaultDuration
	}
	sheet, err := s.characters.Get(ctx, leaderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetCharacter, err)
	}

	st, err := NewRaid(p, &sheet.Character, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateRaid(ctx, st); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgRaidCreated, "raid_id", st.Raid.ID, "leader", leaderID, "boss", st.Raid.BossName)
	s.publish(ctx, event.NewRaidEvent(event.RaidCreated, &st.Raid, leaderID, s.now()))
	return st, nil
}

// GetRaid returns the raid with its live charge meter
func (s *service) GetRaid(ctx context.Context, raidID uuid.UUID) (*domain.RaidState, error) {
	st, err := s.repo.GetRaid(ctx, raidID)
	if err != nil {
		return nil, err
	}
	if st.Raid.Status == domain.RaidStatusActive {
		st.Raid.ChargeMeter = ChargeAt(&st.Raid, s.now().UTC())
	}
	return st, nil
}

// Join adds the user to the raid
func (s *service) Join(ctx context.Context, raidID uuid.UUID, userID string) (*domain.RaidState, error) {
	sheet, err := s.characters.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetCharacter, err)
	}

	st, err := s.mutate(ctx, raidID, func(st *domain.RaidState, now time.Time) error {
		return Join(st, &sheet.Character, now)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgRaidJoined, "raid_id", raidID, "user_id", userID)
	s.publish(ctx, event.NewRaidEvent(event.RaidJoined, &st.Raid, userID, s.now()))
	return st, nil
}

// ApplyDamage credits a member's hit against the boss. A raid found past
// its deadline is failed first and the hit is rejected.
func (s *service) ApplyDamage(ctx context.Context, raidID uuid.UUID, userID string, amount int) (*Damage, error) {
	var (
		dmg    *Damage
		failed bool
	)
	st, err := s.mutate(ctx, raidID, func(st *domain.RaidState, now time.Time) error {
		dmg, failed = nil, false
		if CheckDeadline(st, now) {
			failed = true
			return nil
		}
		var err error
		dmg, err = ApplyDamage(st, userID, amount, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if failed {
		s.failed(ctx, st)
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgRaidExpired)
	}

	logger.FromContext(ctx).Info(LogMsgRaidDamage, "raid_id", raidID, "user_id", userID, "damage", amount, "boss_hp", dmg.BossHP)
	s.publish(ctx, event.New(event.RaidDamage, event.RaidDamagePayloadV1{
		RaidID:        raidID.String(),
		UserID:        userID,
		Damage:        dmg.Amount,
		MemberTotal:   dmg.MemberTotal,
		BossCurrentHP: dmg.BossHP,
		Timestamp:     s.now().Unix(),
	}))
	if dmg.Victory {
		logger.FromContext(ctx).Info(LogMsgRaidVictory, "raid_id", raidID, "final_blow", userID)
		s.publish(ctx, event.NewRaidEvent(event.RaidVictory, &st.Raid, userID, s.now()))
		s.locks.Forget(raidID.String())
	}
	return dmg, nil
}

// Stun freezes the boss charge meter. Only members may stun.
func (s *service) Stun(ctx context.Context, raidID uuid.UUID, userID string, d time.Duration) (*domain.RaidState, error) {
	st, err := s.mutate(ctx, raidID, func(st *domain.RaidState, now time.Time) error {
		if st.Member(userID) == nil {
			return fmt.Errorf("%w: %s", domain.ErrNotParticipant, userID)
		}
		return Stun(st, d, now)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgRaidStunned, "raid_id", raidID, "user_id", userID, "until", st.Raid.StunnedUntil)
	s.publish(ctx, event.NewRaidEvent(event.RaidStunned, &st.Raid, userID, s.now()))
	return st, nil
}

// ReduceCharge drains the boss charge meter. Only members may drain it.
func (s *service) ReduceCharge(ctx context.Context, raidID uuid.UUID, userID string, amount int) (*domain.RaidState, error) {
	st, err := s.mutate(ctx, raidID, func(st *domain.RaidState, now time.Time) error {
		if st.Member(userID) == nil {
			return fmt.Errorf("%w: %s", domain.ErrNotParticipant, userID)
		}
		return ReduceCharge(st, amount, now)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgChargeReduced, "raid_id", raidID, "user_id", userID, "meter", st.Raid.ChargeMeter)
	return st, nil
}

// Leaderboard ranks the raid members by damage dealt
func (s *service) Leaderboard(ctx context.Context, raidID uuid.UUID) ([]domain.LeaderboardEntry, error) {
	st, err := s.repo.GetRaid(ctx, raidID)
	if err != nil {
		return nil, err
	}
	return Leaderboard(st.Members), nil
}

// Sweep re-evaluates every active raid from persisted timestamps
func (s *service) Sweep(ctx context.Context) (int, error) {
	ids, err := s.repo.ListActiveRaids(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgListRaidsFailed, err)
	}

	log := logger.FromContext(ctx)
	touched := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return touched, ctx.Err()
		}
		changed, err := s.sweepOne(ctx, id)
		if err != nil {
			log.Warn(LogMsgSweepFailed, "raid_id", id, "error", err)
			continue
		}
		if changed {
			touched++
		}
	}
	return touched, nil
}

func (s *service) sweepOne(ctx context.Context, id uuid.UUID) (bool, error) {
	var (
		failed  bool
		targets []string
	)
	st, err := s.mutate(ctx, id, func(st *domain.RaidState, now time.Time) error {
		failed, targets = false, nil
		if CheckDeadline(st, now) {
			failed = true
			return nil
		}
		targets = ResolveCounterAttack(st, now)
		if targets == nil {
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

	if failed {
		s.failed(ctx, st)
		return true, nil
	}
	s.counterAttack(ctx, st, targets)
	return true, nil
}

// counterAttack applies the boss damage to every member's character
func (s *service) counterAttack(ctx context.Context, st *domain.RaidState, targets []string) {
	log := logger.FromContext(ctx)
	dealt := make(map[string]int, len(targets))
	for _, userID := range targets {
		n, err := s.characters.ApplyBossDamage(ctx, userID, st.Raid.BossDamage)
		if err != nil {
			log.Warn(LogMsgCounterAttackMember, "raid_id", st.Raid.ID, "user_id", userID, "error", err)
			continue
		}
		dealt[userID] = n
	}

	log.Info(LogMsgCounterAttack, "raid_id", st.Raid.ID, "boss_damage", st.Raid.BossDamage, "members", len(dealt))
	s.publish(ctx, event.New(event.RaidCounterAttack, event.RaidCounterAttackPayloadV1{
		RaidID:     st.Raid.ID.String(),
		BossDamage: st.Raid.BossDamage,
		Damage:     dealt,
		Timestamp:  s.now().Unix(),
	}))
}

// HandleTaskCompleted implements Service. Failures are logged rather than
// returned so that a redelivered event cannot hit the boss twice.
func (s *service) HandleTaskCompleted(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)
	p, err := event.DecodePayload[event.TaskOutcomePayloadV1](evt.Payload)
	if err != nil {
		log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
		return nil
	}

	ids, err := s.repo.ListActiveRaidsForMember(ctx, p.UserID)
	if err != nil || len(ids) == 0 {
		if err != nil {
			log.Warn(LogMsgTaskDamageFailed, "user_id", p.UserID, "error", err)
		}
		return nil
	}

	sheet, err := s.characters.Get(ctx, p.UserID)
	if err != nil {
		log.Warn(LogMsgTaskDamageFailed, "user_id", p.UserID, "error", err)
		return nil
	}
	amount := s.engine.RaidDamage(p.Difficulty, sheet.Bonuses)
	if amount <= 0 {
		return nil
	}

	for _, id := range ids {
		if _, err := s.ApplyDamage(ctx, id, p.UserID, amount); err != nil {
			log.Warn(LogMsgTaskDamageFailed, "raid_id", id, "user_id", p.UserID, "error", err)
		}
	}
	return nil
}

// errNoChange aborts a mutation without saving
var errNoChange = errors.New("no change")

// mutate serializes fn per raid, re-reading the aggregate and retrying on
// stale writes. The state is saved only when fn succeeds.
func (s *service) mutate(ctx context.Context, raidID uuid.UUID, fn func(st *domain.RaidState, now time.Time) error) (*domain.RaidState, error) {
	var result *domain.RaidState
	err := s.locks.WithLock(raidID.String(), func() error {
		return concurrency.RetryStale(ctx, metricEntityRaid, func(ctx context.Context) error {
			st, err := s.repo.GetRaid(ctx, raidID)
			if err != nil {
				return err
			}
			if err := fn(st, s.now().UTC()); err != nil {
				return err
			}
			if err := s.repo.SaveRaid(ctx, st); err != nil {
				return err
			}
			result = st
			return nil
		})
	})
	return result, err
}

func (s *service) failed(ctx context.Context, st *domain.RaidState) {
	logger.FromContext(ctx).Info(LogMsgRaidFailed, "raid_id", st.Raid.ID, "boss_hp", st.Raid.BossCurrentHP)
	s.publish(ctx, event.NewRaidEvent(event.RaidFailed, &st.Raid, "", s.now()))
	s.locks.Forget(st.Raid.ID.String())
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
