package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/TaskArena_Go/internal/formula"
	"github.com/osse101/TaskArena_Go/internal/item"
	"github.com/osse101/TaskArena_Go/internal/repository"
)

// SyncItems loads, validates and syncs the item catalog file into repo.
// Unchanged files are skipped by hash.
func SyncItems(ctx context.Context, repo repository.Item, path string) (*item.SyncResult, error) {
	slog.Info(LogMsgSyncingItems, "path", path)
	loader := item.NewLoader()

	cfg, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadItems, err)
	}
	if err := loader.Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidItems, err)
	}

	result, err := loader.SyncToDatabase(ctx, cfg, repo, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedSyncItems, err)
	}

	if result.ItemsInserted > 0 || result.ItemsUpdated > 0 {
		slog.Info(LogMsgItemsSynced,
			"inserted", result.ItemsInserted,
			"updated", result.ItemsUpdated,
			"skipped", result.ItemsSkipped)
	} else {
		slog.Info(LogMsgItemsUnchanged)
	}
	return result, nil
}

// LoadBalance builds the formula engine from the balance file. A missing
// file falls back to the built-in tables.
func LoadBalance(path string) (*formula.Engine, error) {
	rules, err := formula.LoadRules(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadBalance, err)
	}
	slog.Info(LogMsgBalanceLoaded, "path", path, "classes", len(rules.Classes))
	return formula.NewEngine(rules), nil
}
