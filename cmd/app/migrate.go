package main

import (
	"github.com/spf13/cobra"

	"github.com/osse101/TaskArena_Go/internal/bootstrap"
	"github.com/osse101/TaskArena_Go/internal/config"
	"github.com/osse101/TaskArena_Go/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		bootstrap.SetupLogger(cfg)
		return database.Migrate(cmd.Context(), cfg.GetDBConnString())
	},
}
