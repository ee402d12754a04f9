package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/wanderpack/internal/database"
	"github.com/dukerupert/wanderpack/internal/store"
)

var contentDBPath string

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Read or edit page content blocks",
}

var contentGetCmd = &cobra.Command{
	Use:   "get <page> <key>",
	Short: "Print a content block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(contentDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		b, err := store.NewContentStore(db).Get(args[0], args[1])
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("no content block %s/%s", args[0], args[1])
		}
		fmt.Fprintln(cmd.OutOrStdout(), b.Value)
		return nil
	},
}

var contentSetCmd = &cobra.Command{
	Use:   "set <page> <key> <value>",
	Short: "Create or replace a content block",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(contentDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := store.NewContentStore(db).Set(args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s/%s\n", args[0], args[1])
		return nil
	},
}

func init() {
	contentCmd.PersistentFlags().StringVar(&contentDBPath, "db", "wanderpack.db", "SQLite database path")
	contentCmd.AddCommand(contentGetCmd)
	contentCmd.AddCommand(contentSetCmd)
}
