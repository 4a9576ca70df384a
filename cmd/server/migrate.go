package main

import (
	"lon-backend/internal/config"
	"lon-backend/internal/database"

	"github.com/spf13/cobra"
)

var seedDemo bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and seed the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		if err := database.Init(cfg.DBDSN, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return err
		}
		defer database.Close()

		if seedDemo {
			database.SeedDemoUsers(database.DB)
		}
		logger.Info("migration finished")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&seedDemo, "demo", false, "also create demo manager and member accounts")
}
