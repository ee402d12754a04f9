package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/wanderpack/internal/database"
)

var migrateDBPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and print the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(migrateDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		v, err := database.Version(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is at schema version %d\n", migrateDBPath, v)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDBPath, "db", "wanderpack.db", "SQLite database path")
}
