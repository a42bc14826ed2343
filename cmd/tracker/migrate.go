package main

import (
	"github.com/spf13/cobra"

	"github.com/onedocs/tracker/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables (SQL) or indexes (MongoDB) for the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		if err := a.store.Migrate(cmd.Context()); err != nil {
			return err
		}
		log := logger.Get()
		log.Info().Str("store", a.store.Driver).Msg("migrations completed")
		return nil
	},
}
