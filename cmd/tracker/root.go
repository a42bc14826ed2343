package main

import (
	"github.com/spf13/cobra"

	"github.com/onedocs/tracker/internal/pkg/config"
	"github.com/onedocs/tracker/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Tracker - tasks, documents and emails backed by a remote store",
	Long: `Tracker keeps lists of tasks, documents and emails in step with a remote
store and serves them over HTTP.

Configuration comes from environment variables (and a .env file when present).

Examples:
  # Run the HTTP API against a local SQLite file
  STORE_DRIVER=sqlite tracker serve

  # Create tables or indexes for the configured store
  tracker migrate

  # Fill every collection with 20 sample records
  tracker seed --count 20`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.LogPretty,
			Service: "tracker",
		})
	},
}

var cfg *config.Config

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}
