// Package character hosts the character aggregate. It is the only writer of
// current HP, XP and level: every mutation is serialized per user and
// persisted with an optimistic version check.
package character

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/TaskArena_Go/internal/attributes"
	"github.com/osse101/TaskArena_Go/internal/concurrency"
	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/equipment"
	"github.com/osse101/TaskArena_Go/internal/event"
	"github.com/osse101/TaskArena_Go/internal/formula"
	"github.com/osse101/TaskArena_Go/internal/logger"
	"github.com/osse101/TaskArena_Go/internal/metrics"
	"github.com/osse101/TaskArena_Go/internal/progression"
	"github.com/osse101/TaskArena_Go/internal/repository"
)

// Outcome describes the effect of a task event on a character
type Outcome struct {
	Character     domain.Character          `json:"character"`
	Reward        formula.Reward            `json:"reward"`
	HPDelta       int                       `json:"hp_delta"`
	LevelUp       progression.LevelUpResult `json:"level_up"`
	Incapacitated bool                      `json:"incapacitated"`
}

// Service defines the character operations
type Service interface {
	Create(ctx context.Context, userID, name string, attrs domain.Attributes) (*domain.Character, error)
	Get(ctx context.Context, userID string) (*domain.CharacterSheet, error)

	CompleteTask(ctx context.Context, userID, taskID string) (*Outcome, error)
	CompleteHabit(ctx context.Context, userID, habitID string) (*Outcome, error)
	MissTask(ctx context.Context, userID, taskID string) (*Outcome, error)
	Revive(ctx context.Context, userID string, hp int) (*domain.Character, error)

	ChooseClass(ctx context.Context, userID string, class domain.Class) (*domain.Character, error)
	Equip(ctx context.Context, userID string, slot domain.Slot, itemID string) (*domain.CharacterSheet, error)
	Unequip(ctx context.Context, userID string, slot domain.Slot) (*domain.CharacterSheet, error)

	// ApplyBossDamage mitigates a raid boss attack by class defense and
	// applies it. It returns the damage actually dealt.
	ApplyBossDamage(ctx context.Context, userID string, bossDamage int) (int, error)
}

type service struct {
	repo     repository.Character
	tasks    repository.Task
	catalog  equipment.Catalog
	slots    equipment.SlotTable
	engine   *formula.Engine
	eventBus event.Bus
	locks    *concurrency.LockManager
	now      func() time.Time
}

// NewService creates a new character service
func NewService(repo repository.Character, tasks repository.Task, catalog equipment.Catalog, slots equipment.SlotTable, engine *formula.Engine, eventBus event.Bus) Service {
	return &service{
		repo:     repo,
		tasks:    tasks,
		catalog:  catalog,
		slots:    slots,
		engine:   engine,
		eventBus: eventBus,
		locks:    concurrency.NewLockManager(),
		now:      time.Now,
	}
}

// Create builds a level 1 Apprentice with full pools
func (s *service) Create(ctx context.Context, userID, name string, attrs domain.Attributes) (*domain.Character, error) {
	name = strings.TrimSpace(name)
	if userID == "" || name == "" || len(name) > domain.MaxCharacterNameLength {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidName)
	}
	if hasNegative(attrs) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNegativeAttribute)
	}

	now := s.now().UTC()
	c := domain.Character{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		Attributes: attrs,
		Level:      domain.StartingLevel,
		Class:      domain.ClassApprentice,
		Gold:       domain.StartingGold,
		Equipment:  domain.Loadout{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	c.MaxHP, c.MaxMana = attributes.Pools(&c, c.Level, domain.Bonuses{})
	c.CurrentHP = c.MaxHP
	c.CurrentMana = c.MaxMana

	if err := s.repo.CreateCharacter(ctx, &c); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgCharacterCreated, "user_id", userID, "max_hp", c.MaxHP)
	return &c, nil
}

// Get returns the character with its loadout resolved
func (s *service) Get(ctx context.Context, userID string) (*domain.CharacterSheet, error) {
	c, err := s.repo.GetCharacter(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.sheet(ctx, *c)
}

// ChooseClass assigns an advanced class once the unlock level is reached
func (s *service) ChooseClass(ctx context.Context, userID string, class domain.Class) (*domain.Character, error) {
	var result domain.Character
	err := s.mutate(ctx, userID, func(ctx context.Context, c domain.Character) error {
		updated, err := progression.ChooseClass(c, class)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateCharacter(ctx, &updated); err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgClassChosen, "user_id", userID, "class", class)
	s.publish(ctx, event.New(event.CharacterClassChosen, event.CharacterStatePayloadV1{
		UserID:    userID,
		HP:        result.CurrentHP,
		Class:     result.Class,
		Timestamp: s.now().Unix(),
	}))
	return &result, nil
}

// Equip puts an item into a slot. Unlike loadout resolution, a type that
// does not fit the slot is an error here.
func (s *service) Equip(ctx context.Context, userID string, slot domain.Slot, itemID string) (*domain.CharacterSheet, error) {
	if !slot.IsValid() {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgInvalidSlot, slot)
	}
	id := equipment.NormalizeID(itemID)
	item, err := s.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgCatalogLookupFailed, err)
	}
	if err := equipment.ValidateEquip(item, slot, s.slots); err != nil {
		return nil, err
	}

	return s.changeLoadout(ctx, userID, slot, item.ID, func(l domain.Loadout) domain.Loadout {
		return equipment.Equip(l, slot, item.ID)
	})
}

// Unequip empties a slot
func (s *service) Unequip(ctx context.Context, userID string, slot domain.Slot) (*domain.CharacterSheet, error) {
	if !slot.IsValid() {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgInvalidSlot, slot)
	}
	return s.changeLoadout(ctx, userID, slot, "", func(l domain.Loadout) domain.Loadout {
		return equipment.Unequip(l, slot)
	})
}

func (s *service) changeLoadout(ctx context.Context, userID string, slot domain.Slot, itemID string, change func(domain.Loadout) domain.Loadout) (*domain.CharacterSheet, error) {
	var result domain.Character
	err := s.mutate(ctx, userID, func(ctx context.Context, c domain.Character) error {
		c.Equipment = change(c.Equipment)
		bonuses, err := s.bonuses(ctx, &c)
		if err != nil {
			return err
		}
		c = attributes.Refresh(c, bonuses)
		if err := s.repo.UpdateCharacter(ctx, &c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgEquipmentChanged, "user_id", userID, "slot", slot, "item_id", itemID)
	s.publish(ctx, event.New(event.EquipmentChanged, event.CharacterStatePayloadV1{
		UserID:    userID,
		HP:        result.CurrentHP,
		Class:     result.Class,
		Slot:      slot,
		ItemID:    itemID,
		Timestamp: s.now().Unix(),
	}))
	return s.sheet(ctx, result)
}

// mutate serializes fn per user and retries it with a fresh read on stale writes
func (s *service) mutate(ctx context.Context, userID string, fn func(ctx context.Context, c domain.Character) error) error {
	return s.locks.WithLock(userID, func() error {
		return concurrency.RetryStale(ctx, metricEntityCharacter, func(ctx context.Context) error {
			c, err := s.repo.GetCharacter(ctx, userID)
			if err != nil {
				return err
			}
			return fn(ctx, *c)
		})
	})
}

// bonuses resolves the loadout and sums its effects. Unresolvable entries
// contribute nothing.
func (s *service) bonuses(ctx context.Context, c *domain.Character) (domain.Bonuses, error) {
	res, err := s.resolve(ctx, c)
	if err != nil {
		return domain.Bonuses{}, err
	}
	return equipment.AggregateBonuses(res.Items), nil
}

func (s *service) resolve(ctx context.Context, c *domain.Character) (*equipment.Resolution, error) {
	res, err := equipment.ResolveLoadout(ctx, c.Equipment, s.catalog, s.slots)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgResolveLoadoutFailed, err)
	}
	if len(res.Skipped) > 0 {
		for _, sk := range res.Skipped {
			metrics.UnresolvedEquipment.WithLabelValues(string(sk.Reason)).Inc()
		}
		logger.FromContext(ctx).Debug(LogMsgSkippedEquipment, "user_id", c.UserID, "count", len(res.Skipped))
	}
	return res, nil
}

func (s *service) sheet(ctx context.Context, c domain.Character) (*domain.CharacterSheet, error) {
	res, err := s.resolve(ctx, &c)
	if err != nil {
		return nil, err
	}
	bonuses := equipment.AggregateBonuses(res.Items)
	c = attributes.Refresh(c, bonuses)
	_, toNext := progression.Progress(&c)

	return &domain.CharacterSheet{
		Character: c,
		Bonuses:   bonuses,
		Effective: attributes.Effective(&c, bonuses),
		Equipped:  s.slots.RenderOrder(res.Items),
		Skipped:   res.Skipped,
		XPToNext:  toNext,
		CanChoose: progression.ClassUnlocked(&c) && c.Class == domain.ClassApprentice,
	}, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

func hasNegative(a domain.Attributes) bool {
	for _, v := range []int{a.Strength, a.Intelligence, a.Constitution, a.Perception, a.Agility, a.Vitality, a.Endurance} {
		if v < 0 {
			return true
		}
	}
	return false
}
