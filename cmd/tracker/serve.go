package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/onedocs/tracker/internal/api"
	"github.com/onedocs/tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var migrateOnServe bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		if migrateOnServe {
			if err := a.store.Migrate(ctx); err != nil {
				return err
			}
		}

		e := api.NewRouter(a.routerDeps())
		log := logger.Get()

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Str("store", a.store.Driver).Msg("server listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnServe, "migrate", false, "Run migrations before serving")
}
