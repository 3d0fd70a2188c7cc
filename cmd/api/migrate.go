package main

import (
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		rollback, err := cmd.Flags().GetBool("rollback")
		if err != nil {
			return err
		}
		return database.Migrate(cmd.Context(), cfg.DatabaseURL(), rollback)
	},
}

func init() {
	migrateCmd.Flags().Bool("rollback", false, "Roll back the most recent migration")
}
