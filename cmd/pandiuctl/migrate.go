package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sahilchouksey/pandiu-api/app"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

Runs GORM AutoMigrate for every table against the database selected by
DB_DRIVER and DB_DSN (or the DB_* connection settings for postgres).

Example:
  pandiuctl migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := app.LoadEnvironment()
		if err != nil {
			return err
		}
		if err := app.Migrate(env); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
