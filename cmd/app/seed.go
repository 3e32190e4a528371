package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/TaskArena_Go/internal/bootstrap"
	"github.com/osse101/TaskArena_Go/internal/config"
	"github.com/osse101/TaskArena_Go/internal/database"
	"github.com/osse101/TaskArena_Go/internal/database/postgres"
)

var itemsPath string

var seedItemsCmd = &cobra.Command{
	Use:   "seed-items",
	Short: "Sync the item catalog file into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		bootstrap.SetupLogger(cfg)
		if itemsPath == "" {
			itemsPath = cfg.ItemsPath
		}

		ctx := cmd.Context()
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns,
			database.DefaultMaxConnIdleTime, database.DefaultMaxConnLifetime)
		if err != nil {
			return err
		}
		defer pool.Close()

		res, err := bootstrap.SyncItems(ctx, postgres.NewItemRepository(pool), itemsPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted=%d updated=%d skipped=%d\n",
			res.ItemsInserted, res.ItemsUpdated, res.ItemsSkipped)
		return nil
	},
}

func init() {
	seedItemsCmd.Flags().StringVar(&itemsPath, "file", "", "items JSON file (defaults to ITEMS_PATH)")
}
