package commands

import (
	"github.com/spf13/cobra"
	"housing-coop-go/internal/cli/output"
	"housing-coop-go/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate() error {
	_, dbConn, cleanup, err := connect()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := db.Migrate(dbConn, newLogger()); err != nil {
		return err
	}
	output.Success("schema is up to date")
	return nil
}
