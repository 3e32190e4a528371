package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/repository"
)

const raidColumns = `raid_id, boss_name, boss_max_hp, boss_current_hp, boss_damage, deadline,
	status, charge_meter, charge_rate_per_minute, charge_updated_at, charge_deadline,
	is_stunned, stunned_until, created_at, ended_at, version`

// RaidRepository implements repository.Raid for PostgreSQL
type RaidRepository struct {
	pool *pgxpool.Pool
}

// NewRaidRepository creates a new RaidRepository
func NewRaidRepository(pool *pgxpool.Pool) repository.Raid {
	return &RaidRepository{pool: pool}
}

// CreateRaid inserts a new raid with its initial members
func (r *RaidRepository) CreateRaid(ctx context.Context, st *domain.RaidState) error {
	if st.Raid.Version == 0 {
		st.Raid.Version = 1
	}
	rd := &st.Raid
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO raids (`+raidColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			rd.ID, rd.BossName, rd.BossMaxHP, rd.BossCurrentHP, rd.BossDamage, rd.Deadline,
			string(rd.Status), rd.ChargeMeter, rd.ChargeRatePerMinute, rd.ChargeUpdatedAt, rd.ChargeDeadline,
			rd.IsStunned, rd.StunnedUntil, rd.CreatedAt, rd.EndedAt, rd.Version,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToInsertRaid, err)
		}
		return saveRaidMembers(ctx, tx, st)
	})
}

// GetRaid loads the raid aggregate
func (r *RaidRepository) GetRaid(ctx context.Context, id uuid.UUID) (*domain.RaidState, error) {
	var (
		st     domain.RaidState
		status string
	)
	rd := &st.Raid
	err := r.pool.QueryRow(ctx, `SELECT `+raidColumns+` FROM raids WHERE raid_id = $1`, id).Scan(
		&rd.ID, &rd.BossName, &rd.BossMaxHP, &rd.BossCurrentHP, &rd.BossDamage, &rd.Deadline,
		&status, &rd.ChargeMeter, &rd.ChargeRatePerMinute, &rd.ChargeUpdatedAt, &rd.ChargeDeadline,
		&rd.IsStunned, &rd.StunnedUntil, &rd.CreatedAt, &rd.EndedAt, &rd.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRaidNotFound, id)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRaid, err)
	}
	rd.Status = domain.RaidStatus(status)

	rows, err := r.pool.Query(ctx, `
		SELECT raid_id, user_id, damage_dealt, is_leader, joined_at
		FROM raid_members WHERE raid_id = $1 ORDER BY joined_at, user_id`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRaidMembers, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.RaidMember
		if err := rows.Scan(&m.RaidID, &m.UserID, &m.DamageDealt, &m.IsLeader, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRaidMembers, err)
		}
		st.Members = append(st.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRaidMembers, err)
	}

	return &st, nil
}

// SaveRaid writes the aggregate if the raid version still matches.
// Member damage only ever grows, so the upsert keeps the larger value.
func (r *RaidRepository) SaveRaid(ctx context.Context, st *domain.RaidState) error {
	rd := &st.Raid
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE raids SET
				boss_current_hp = $2, status = $3, charge_meter = $4, charge_updated_at = $5,
				charge_deadline = $6, is_stunned = $7, stunned_until = $8, ended_at = $9,
				version = version + 1
			WHERE raid_id = $1 AND version = $10`,
			rd.ID, rd.BossCurrentHP, string(rd.Status), rd.ChargeMeter, rd.ChargeUpdatedAt,
			rd.ChargeDeadline, rd.IsStunned, rd.StunnedUntil, rd.EndedAt, rd.Version,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateRaid, err)
		}
		if tag.RowsAffected() == 0 {
			exists, existsErr := versionExists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM raids WHERE raid_id = $1)`, rd.ID)
			if existsErr != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateRaid, existsErr)
			}
			if !exists {
				return fmt.Errorf("%w: %s", domain.ErrRaidNotFound, rd.ID)
			}
			return fmt.Errorf("%w: raid %s at version %d", domain.ErrStaleWrite, rd.ID, rd.Version)
		}
		return saveRaidMembers(ctx, tx, st)
	})
	if err != nil {
		return err
	}
	rd.Version++
	return nil
}

// ListActiveRaids returns ids of raids still in progress
func (r *RaidRepository) ListActiveRaids(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT raid_id FROM raids WHERE status = 'active' ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListActiveRaids, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListActiveRaids, err)
	}
	return ids, nil
}

// ListActiveRaidsForMember returns ids of active raids the user has joined
func (r *RaidRepository) ListActiveRaidsForMember(ctx context.Context, userID string) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.raid_id FROM raids r
		JOIN raid_members m ON m.raid_id = r.raid_id
		WHERE r.status = 'active' AND m.user_id = $1
		ORDER BY r.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListActiveRaids, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListActiveRaids, err)
	}
	return ids, nil
}

func saveRaidMembers(ctx context.Context, tx pgx.Tx, st *domain.RaidState) error {
	for _, m := range st.Members {
		_, err := tx.Exec(ctx, `
			INSERT INTO raid_members (raid_id, user_id, damage_dealt, is_leader, joined_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (raid_id, user_id) DO UPDATE SET
				damage_dealt = GREATEST(raid_members.damage_dealt, EXCLUDED.damage_dealt)`,
			st.Raid.ID, m.UserID, m.DamageDealt, m.IsLeader, m.JoinedAt,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToSaveRaidMember, err)
		}
	}
	return nil
}
