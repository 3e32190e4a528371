package item

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/equipment"
	"github.com/osse101/TaskArena_Go/internal/logger"
	"github.com/osse101/TaskArena_Go/internal/repository"
)

// fileStamp identifies one version of the catalog file
type fileStamp struct {
	hash    string
	modTime time.Time
}

func stampFile(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, fmt.Errorf(ErrMsgStatConfigFileFailed, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileStamp{}, fmt.Errorf(ErrMsgReadForHashFailed, err)
	}
	sum := sha256.Sum256(data)
	return fileStamp{hash: hex.EncodeToString(sum[:]), modTime: info.ModTime()}, nil
}

// modTimePrecision is the resolution a stored mtime survives with; Postgres
// timestamptz keeps microseconds
const modTimePrecision = time.Microsecond

// matches reports whether the stored metadata describes this exact file
func (s fileStamp) matches(meta *domain.SyncMetadata) bool {
	if meta == nil || meta.FileHash != s.hash {
		return false
	}
	return meta.FileModTime.Truncate(modTimePrecision).Equal(s.modTime.Truncate(modTimePrecision))
}

// SyncToDatabase upserts every changed definition. The file is stamped once
// up front; when the stamp matches the last recorded sync nothing is read
// from the repository at all.
func (l *itemLoader) SyncToDatabase(ctx context.Context, config *Config, repo repository.Item, configPath string) (*SyncResult, error) {
	log := logger.FromContext(ctx)

	stamp, err := stampFile(configPath)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCheckFileChangeFailed, err)
	}
	// a lookup error means no sync has been recorded yet
	if meta, err := repo.GetSyncMetadata(ctx, ConfigFileName); err == nil && stamp.matches(meta) {
		log.Info(LogMsgConfigUnchanged, "path", configPath)
		return &SyncResult{}, nil
	}

	stored, err := repo.GetAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetExistingItemsFailed, err)
	}
	byID := make(map[string]domain.Item, len(stored))
	for _, it := range stored {
		byID[equipment.NormalizeID(it.ID)] = it
	}

	result := &SyncResult{}
	for _, def := range config.Items {
		want := def.ToDomain()
		warnUnknownEffects(ctx, want)

		have, exists := byID[want.ID]
		switch {
		case exists && sameItem(have, want):
			result.ItemsSkipped++
			continue
		case exists:
			result.ItemsUpdated++
			log.Info(LogMsgUpdatedItem, "key", want.Key, "id", want.ID)
		default:
			result.ItemsInserted++
			log.Info(LogMsgInsertedItem, "key", want.Key, "id", want.ID)
		}
		if err := repo.UpsertItem(ctx, &want); err != nil {
			return nil, fmt.Errorf(ErrMsgUpsertItemFailed, want.Key, err)
		}
	}

	meta := &domain.SyncMetadata{
		ConfigName:   ConfigFileName,
		LastSyncTime: time.Now(),
		FileHash:     stamp.hash,
		FileModTime:  stamp.modTime,
	}
	if err := repo.UpsertSyncMetadata(ctx, meta); err != nil {
		log.Warn(LogMsgUpdateMetadataFailed, "error", err)
	}

	log.Info(LogMsgSyncCompleted,
		"inserted", result.ItemsInserted,
		"updated", result.ItemsUpdated,
		"skipped", result.ItemsSkipped)
	return result, nil
}

func warnUnknownEffects(ctx context.Context, it domain.Item) {
	for _, eff := range it.Effects {
		if !equipment.IsBonusAttribute(eff.Attribute) {
			logger.FromContext(ctx).Warn(LogMsgUnknownEffect, "key", it.Key, "attribute", eff.Attribute)
		}
	}
}

func sameItem(a, b domain.Item) bool {
	if a.Key != b.Key || a.Name != b.Name || a.Type != b.Type || a.Rarity != b.Rarity ||
		a.Price != b.Price || a.Currency != b.Currency || len(a.Effects) != len(b.Effects) {
		return false
	}
	for i := range a.Effects {
		if a.Effects[i] != b.Effects[i] {
			return false
		}
	}
	return true
}
