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

const duelColumns = `duel_id, challenger_id, challenged_id, challenger_hp, challenged_hp,
	status, winner_id, created_at, started_at, ended_at, version`

const duelTaskColumns = `selected_id, duel_id, owner_id, task_id, difficulty, due_at,
	locked, completed, expired, evidence_ref, contested, contest_reason, contest_status,
	damage_dealt, completed_at`

// DuelRepository implements repository.Duel for PostgreSQL
type DuelRepository struct {
	pool *pgxpool.Pool
}

// NewDuelRepository creates a new DuelRepository
func NewDuelRepository(pool *pgxpool.Pool) repository.Duel {
	return &DuelRepository{pool: pool}
}

// CreateDuel inserts a new duel and any initial selections
func (r *DuelRepository) CreateDuel(ctx context.Context, st *domain.DuelState) error {
	if st.Duel.Version == 0 {
		st.Duel.Version = 1
	}
	d := &st.Duel
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO duels (`+duelColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			d.ID, d.ChallengerID, d.ChallengedID, d.ChallengerHP, d.ChallengedHP,
			string(d.Status), d.WinnerID, d.CreatedAt, d.StartedAt, d.EndedAt, d.Version,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgOpenDuelExists)
			}
			return fmt.Errorf("%s: %w", ErrMsgFailedToInsertDuel, err)
		}
		return saveDuelTasks(ctx, tx, st)
	})
}

// GetDuel loads the duel aggregate
func (r *DuelRepository) GetDuel(ctx context.Context, id uuid.UUID) (*domain.DuelState, error) {
	var (
		st     domain.DuelState
		status string
	)
	d := &st.Duel
	err := r.pool.QueryRow(ctx, `SELECT `+duelColumns+` FROM duels WHERE duel_id = $1`, id).Scan(
		&d.ID, &d.ChallengerID, &d.ChallengedID, &d.ChallengerHP, &d.ChallengedHP,
		&status, &d.WinnerID, &d.CreatedAt, &d.StartedAt, &d.EndedAt, &d.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuelNotFound, id)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetDuel, err)
	}
	d.Status = domain.DuelStatus(status)

	rows, err := r.pool.Query(ctx, `SELECT `+duelTaskColumns+` FROM duel_tasks WHERE duel_id = $1 ORDER BY owner_id, task_id`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetDuelTasks, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t                         domain.PvPSelectedTask
			difficulty, contestStatus string
		)
		if err := rows.Scan(
			&t.ID, &t.DuelID, &t.OwnerID, &t.TaskID, &difficulty, &t.DueAt,
			&t.Locked, &t.Completed, &t.Expired, &t.EvidenceRef, &t.Contested, &t.ContestReason, &contestStatus,
			&t.DamageDealt, &t.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetDuelTasks, err)
		}
		t.Difficulty = domain.Difficulty(difficulty)
		t.ContestStatus = domain.ContestStatus(contestStatus)
		st.Tasks = append(st.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetDuelTasks, err)
	}

	return &st, nil
}

// SaveDuel writes the aggregate if the duel version still matches
func (r *DuelRepository) SaveDuel(ctx context.Context, st *domain.DuelState) error {
	d := &st.Duel
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE duels SET
				challenger_hp = $2, challenged_hp = $3, status = $4, winner_id = $5,
				started_at = $6, ended_at = $7, version = version + 1
			WHERE duel_id = $1 AND version = $8`,
			d.ID, d.ChallengerHP, d.ChallengedHP, string(d.Status), d.WinnerID,
			d.StartedAt, d.EndedAt, d.Version,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateDuel, err)
		}
		if tag.RowsAffected() == 0 {
			exists, existsErr := versionExists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM duels WHERE duel_id = $1)`, d.ID)
			if existsErr != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateDuel, existsErr)
			}
			if !exists {
				return fmt.Errorf("%w: %s", domain.ErrDuelNotFound, d.ID)
			}
			return fmt.Errorf("%w: duel %s at version %d", domain.ErrStaleWrite, d.ID, d.Version)
		}

		ids := make([]string, len(st.Tasks))
		for i, t := range st.Tasks {
			ids[i] = t.ID.String()
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM duel_tasks WHERE duel_id = $1 AND NOT (selected_id::text = ANY($2))`, d.ID, ids,
		); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteDuelTask, err)
		}
		return saveDuelTasks(ctx, tx, st)
	})
	if err != nil {
		return err
	}
	d.Version++
	return nil
}

// ListOpenDuels returns ids of duels not yet completed or cancelled
func (r *DuelRepository) ListOpenDuels(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT duel_id FROM duels
		WHERE status NOT IN ('completed', 'cancelled')
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListOpenDuels, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListOpenDuels, err)
	}
	return ids, nil
}

// HasOpenDuel reports whether two users already share an unfinished duel
func (r *DuelRepository) HasOpenDuel(ctx context.Context, userA, userB string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM duels
			WHERE status NOT IN ('completed', 'cancelled')
			  AND ((challenger_id = $1 AND challenged_id = $2) OR (challenger_id = $2 AND challenged_id = $1))
		)`, userA, userB,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToListOpenDuels, err)
	}
	return exists, nil
}

func saveDuelTasks(ctx context.Context, tx pgx.Tx, st *domain.DuelState) error {
	for i := range st.Tasks {
		t := &st.Tasks[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO duel_tasks (`+duelTaskColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			ON CONFLICT (selected_id) DO UPDATE SET
				locked = EXCLUDED.locked,
				completed = EXCLUDED.completed,
				expired = EXCLUDED.expired,
				evidence_ref = EXCLUDED.evidence_ref,
				contested = EXCLUDED.contested,
				contest_reason = EXCLUDED.contest_reason,
				contest_status = EXCLUDED.contest_status,
				damage_dealt = EXCLUDED.damage_dealt,
				completed_at = EXCLUDED.completed_at`,
			t.ID, st.Duel.ID, t.OwnerID, t.TaskID, string(t.Difficulty), t.DueAt,
			t.Locked, t.Completed, t.Expired, t.EvidenceRef, t.Contested, t.ContestReason, string(t.ContestStatus),
			t.DamageDealt, t.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToSaveDuelTask, err)
		}
	}
	return nil
}
