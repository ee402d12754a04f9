package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/wanderpack/internal/database"
	"github.com/dukerupert/wanderpack/internal/store"
)

var cleanupDBPath string

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cleanupDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := store.NewSessionStore(db).DeleteExpired()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired sessions\n", n)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupDBPath, "db", "wanderpack.db", "SQLite database path")
}
