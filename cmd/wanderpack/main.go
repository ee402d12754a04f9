package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the wanderpack command. Subcommands do the work.
var rootCmd = &cobra.Command{
	Use:   "wanderpack",
	Short: "Trip planner and packing assistant",
	Long: `Wanderpack serves the trip planning and packing checklist API.

Configuration is read from CONFIG_PATH (default ./config.yaml) and the
environment. Run "wanderpack serve" to start the server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(contentCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
