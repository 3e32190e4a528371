package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/repository"
)

const characterColumns = `user_id, character_id, name,
	strength, intelligence, constitution, perception, agility, vitality, endurance,
	level, current_xp, current_hp, max_hp, current_mana, max_mana,
	class, gold, diamonds, equipment, version, created_at, updated_at`

// CharacterRepository implements repository.Character for PostgreSQL
type CharacterRepository struct {
	pool *pgxpool.Pool
}

// NewCharacterRepository creates a new CharacterRepository
func NewCharacterRepository(pool *pgxpool.Pool) repository.Character {
	return &CharacterRepository{pool: pool}
}

// GetCharacter retrieves a character by owning user id
func (r *CharacterRepository) GetCharacter(ctx context.Context, userID string) (*domain.Character, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE user_id = $1`, userID)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCharacter, err)
	}
	return c, nil
}

// CreateCharacter inserts a new character at version 1
func (r *CharacterRepository) CreateCharacter(ctx context.Context, c *domain.Character) error {
	equipment, err := marshalLoadout(c.Equipment)
	if err != nil {
		return err
	}
	if c.Version == 0 {
		c.Version = 1
	}

	a := c.Attributes
	_, err = r.pool.Exec(ctx, `
		INSERT INTO characters (`+characterColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		c.UserID, c.ID, c.Name,
		a.Strength, a.Intelligence, a.Constitution, a.Perception, a.Agility, a.Vitality, a.Endurance,
		c.Level, c.CurrentXP, c.CurrentHP, c.MaxHP, c.CurrentMana, c.MaxMana,
		string(c.Class), c.Gold, c.Diamonds, equipment, c.Version, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrCharacterExists, c.UserID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertCharacter, err)
	}
	return nil
}

// UpdateCharacter writes c if its version still matches the stored one
func (r *CharacterRepository) UpdateCharacter(ctx context.Context, c *domain.Character) error {
	return updateCharacter(ctx, r.pool, c)
}

// ApplyTaskEvent records the idempotency key and the resulting character in one transaction
func (r *CharacterRepository) ApplyTaskEvent(ctx context.Context, c *domain.Character, ev *domain.TaskEvent) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO task_events (user_id, event_key, task_id, kind, hp_delta, xp_delta, gold_delta, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (user_id, event_key) DO NOTHING`,
			ev.UserID, ev.Key, ev.TaskID, string(ev.Kind), ev.HPDelta, ev.XPDelta, ev.GoldDelta, ev.OccurredAt,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToInsertTaskEvent, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateEvent, ev.Key)
		}
		return updateCharacter(ctx, tx, c)
	})
}

func updateCharacter(ctx context.Context, q execer, c *domain.Character) error {
	equipment, err := marshalLoadout(c.Equipment)
	if err != nil {
		return err
	}

	a := c.Attributes
	updatedAt := c.UpdatedAt
	err = q.QueryRow(ctx, `
		UPDATE characters SET
			name = $2,
			strength = $3, intelligence = $4, constitution = $5, perception = $6,
			agility = $7, vitality = $8, endurance = $9,
			level = $10, current_xp = $11, current_hp = $12, max_hp = $13,
			current_mana = $14, max_mana = $15, class = $16, gold = $17, diamonds = $18,
			equipment = $19, version = version + 1, updated_at = NOW()
		WHERE user_id = $1 AND version = $20
		RETURNING updated_at`,
		c.UserID, c.Name,
		a.Strength, a.Intelligence, a.Constitution, a.Perception, a.Agility, a.Vitality, a.Endurance,
		c.Level, c.CurrentXP, c.CurrentHP, c.MaxHP, c.CurrentMana, c.MaxMana,
		string(c.Class), c.Gold, c.Diamonds, equipment, c.Version,
	).Scan(&updatedAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateCharacter, err)
		}
		exists, existsErr := versionExists(ctx, q, `SELECT EXISTS (SELECT 1 FROM characters WHERE user_id = $1)`, c.UserID)
		if existsErr != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateCharacter, existsErr)
		}
		if !exists {
			return domain.ErrCharacterNotFound
		}
		return fmt.Errorf("%w: character %s at version %d", domain.ErrStaleWrite, c.UserID, c.Version)
	}

	c.Version++
	c.UpdatedAt = updatedAt
	return nil
}

func scanCharacter(row pgx.Row) (*domain.Character, error) {
	var (
		c         domain.Character
		class     string
		equipment []byte
	)
	a := &c.Attributes
	err := row.Scan(
		&c.UserID, &c.ID, &c.Name,
		&a.Strength, &a.Intelligence, &a.Constitution, &a.Perception, &a.Agility, &a.Vitality, &a.Endurance,
		&c.Level, &c.CurrentXP, &c.CurrentHP, &c.MaxHP, &c.CurrentMana, &c.MaxMana,
		&class, &c.Gold, &c.Diamonds, &equipment, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Class = domain.Class(class)

	c.Equipment = domain.Loadout{}
	if len(equipment) > 0 {
		if err := json.Unmarshal(equipment, &c.Equipment); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUnmarshalEquipment, err)
		}
	}
	return &c, nil
}

func marshalLoadout(l domain.Loadout) ([]byte, error) {
	if l == nil {
		l = domain.Loadout{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToMarshalEquipment, err)
	}
	return b, nil
}
