package main

import (
	"recipebot/internal/config"
	"recipebot/internal/model"
	"recipebot/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := newLogger(cfg)
		defer log.Sync()

		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, verbose)
		if err != nil {
			return err
		}
		defer database.Close(db)

		log.Info("Migrate", "Starting database migration", nil)
		if err := database.Migrate(db, model.All()...); err != nil {
			return err
		}
		log.Info("Migrate", "Migration completed", nil)
		return nil
	},
}
