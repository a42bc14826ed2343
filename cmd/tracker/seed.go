package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
	"github.com/onedocs/tracker/internal/infrastructure/queue"
	"github.com/onedocs/tracker/pkg/logger"
)

const (
	seedAdminEmail = "admin@onedocs.local"
	seedAdminName  = "Admin"
)

var (
	seedCount         int
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill every collection with auto-filled sample records",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount <= 0 {
			return fmt.Errorf("--count must be positive")
		}
		ctx := cmd.Context()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		if err := a.store.Migrate(ctx); err != nil {
			return err
		}
		return seed(ctx, a, seedCount)
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 10, "Records to create per collection")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "changeme", "Password of the default profile created when none exist")
}

// seed creates a default profile when there are none, then count records per
// kind. Jobs are keyed by collection so each collection is written in order.
func seed(ctx context.Context, a *app, count int) error {
	log := logger.Component("seed")
	if err := a.profiles.Fetch(ctx); err != nil {
		return err
	}
	if len(a.profiles.Snapshot().Records) == 0 {
		_, err := a.auth.Register(ctx, ports.RegisterInput{
			Email:    seedAdminEmail,
			Password: seedAdminPassword,
			FullName: seedAdminName,
			Role:     domain.RoleAdmin,
		})
		if err != nil && !errors.Is(err, domain.ErrProfileExists) {
			return fmt.Errorf("create default profile: %w", err)
		}
		log.Info().Str("email", seedAdminEmail).Msg("default profile created")
	}
	profiles := a.profiles.Snapshot().Records

	workers := queue.NewDispatcher(a.cfg.SeedWorkers, logger.Component("queue"))
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	workers.Start(workerCtx)
	defer workers.Close()

	opts := ports.CreateOptions{}
	for i := 0; i < count; i++ {
		workers.EnqueueBatch([]queue.Job{
			{Key: domain.CollectionTasks, Run: func(ctx context.Context) error {
				_, err := a.tasks.Create(ctx, a.autofill.Task(profiles), opts)
				return err
			}},
			{Key: domain.CollectionDocuments, Run: func(ctx context.Context) error {
				_, err := a.documents.Create(ctx, a.autofill.Document(profiles), opts)
				return err
			}},
			{Key: domain.CollectionEmails, Run: func(ctx context.Context) error {
				_, err := a.emails.Create(ctx, a.autofill.Email(profiles), opts)
				return err
			}},
		})
	}

	if err := workers.Wait(); err != nil {
		return err
	}
	log.Info().Int("per_collection", count).Msg("seed completed")
	return nil
}
