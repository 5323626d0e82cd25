package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"agri-backend/internal/shared/config"
	"agri-backend/internal/shared/storage/db"
)

func newMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply Postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = config.Load().DatabaseURL
			}
			if databaseURL == "" {
				return fmt.Errorf("no database: set --database-url or DATABASE_URL")
			}
			sqlDB, err := db.Open(cmd.Context(), databaseURL, db.ProfileMigrate)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := db.RunMigrations(cmd.Context(), sqlDB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string (default: DATABASE_URL)")
	return cmd
}
