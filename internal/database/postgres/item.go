package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/repository"
)

const itemColumns = `item_id, item_key, name, item_type, rarity, price, currency, effects`

// ItemRepository implements repository.Item for PostgreSQL
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(pool *pgxpool.Pool) repository.Item {
	return &ItemRepository{pool: pool}
}

// GetItem retrieves an item by its normalized id
func (r *ItemRepository) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetItem, err)
	}
	return item, nil
}

// GetAllItems retrieves all items from the database
func (r *ItemRepository) GetAllItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY item_key`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAllItems, err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAllItems, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAllItems, err)
	}
	return items, nil
}

// UpsertItem inserts or replaces a catalog entry
func (r *ItemRepository) UpsertItem(ctx context.Context, item *domain.Item) error {
	effects, err := json.Marshal(item.Effects)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalEffects, err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO items (`+itemColumns+`, updated_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (item_id) DO UPDATE SET
			item_key = EXCLUDED.item_key,
			name = EXCLUDED.name,
			item_type = EXCLUDED.item_type,
			rarity = EXCLUDED.rarity,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			effects = EXCLUDED.effects,
			updated_at = NOW()`,
		item.ID, item.Key, item.Name, string(item.Type), string(item.Rarity), item.Price, string(item.Currency), effects,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertItem, err)
	}
	return nil
}

// GetSyncMetadata retrieves sync metadata for a config file
func (r *ItemRepository) GetSyncMetadata(ctx context.Context, configName string) (*domain.SyncMetadata, error) {
	var m domain.SyncMetadata
	err := r.pool.QueryRow(ctx, `
		SELECT config_name, last_sync_time, file_hash, file_mod_time
		FROM sync_metadata WHERE config_name = $1`, configName,
	).Scan(&m.ConfigName, &m.LastSyncTime, &m.FileHash, &m.FileModTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New(ErrMsgSyncMetadataNotFound)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSyncMetadata, err)
	}
	return &m, nil
}

// UpsertSyncMetadata records the last successful config sync
func (r *ItemRepository) UpsertSyncMetadata(ctx context.Context, m *domain.SyncMetadata) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sync_metadata (config_name, last_sync_time, file_hash, file_mod_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (config_name) DO UPDATE SET
			last_sync_time = EXCLUDED.last_sync_time,
			file_hash = EXCLUDED.file_hash,
			file_mod_time = EXCLUDED.file_mod_time`,
		m.ConfigName, m.LastSyncTime, m.FileHash, m.FileModTime,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertSyncMetadata, err)
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var (
		item                       domain.Item
		id                         uuid.UUID
		itemType, rarity, currency string
		effects                    []byte
	)
	if err := row.Scan(&id, &item.Key, &item.Name, &itemType, &rarity, &item.Price, &currency, &effects); err != nil {
		return nil, err
	}
	item.ID = id.String()
	item.Type = domain.ItemType(itemType)
	item.Rarity = domain.Rarity(rarity)
	item.Currency = domain.Currency(currency)
	if len(effects) > 0 {
		if err := json.Unmarshal(effects, &item.Effects); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUnmarshalEffects, err)
		}
	}
	return &item, nil
}
