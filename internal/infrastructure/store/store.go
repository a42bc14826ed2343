// Package store opens the configured storage backend and exposes its
// collections behind the ports interfaces.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
	"github.com/onedocs/tracker/internal/infrastructure/db/memory"
	"github.com/onedocs/tracker/internal/infrastructure/db/mongo"
	"github.com/onedocs/tracker/internal/infrastructure/db/sql"
	"github.com/onedocs/tracker/internal/pkg/config"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles the collections of one backend.
type Store struct {
	Driver    string
	Profiles  ports.ProfileRepository
	Tasks     ports.Collection[domain.Task]
	Documents ports.Collection[domain.Document]
	Emails    ports.Collection[domain.Email]

	// Pingers is keyed by dependency name for readiness checks.
	Pingers map[string]Pinger

	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Open connects to the backend named by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return Memory(), nil
	case config.StoreMongo:
		return openMongo(ctx, cfg)
	case config.StorePostgres:
		return openSQL(ctx, sql.Config{Driver: sql.DriverPostgres, DSN: cfg.Store.DSN, Debug: !cfg.IsProduction() && cfg.LogLevel == "debug"}, log)
	case config.StoreSQLite:
		dsn := cfg.Store.DSN
		if dsn == "" {
			dsn = cfg.Store.SQLitePath
		}
		return openSQL(ctx, sql.Config{Driver: sql.DriverSQLite, DSN: dsn, Debug: cfg.LogLevel == "debug"}, log)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
}

// Memory returns a fresh in-process store.
func Memory() *Store {
	return &Store{
		Driver:   config.StoreMemory,
		Profiles: memory.NewProfileRepository(),
		Tasks: memory.NewCollection[domain.Task](domain.CollectionTasks,
			memory.NewestFirst[domain.Task](func(t *domain.Task) time.Time { return t.CreatedAt })),
		Documents: memory.NewCollection[domain.Document](domain.CollectionDocuments,
			memory.NewestFirst[domain.Document](func(d *domain.Document) time.Time { return d.CreatedAt })),
		Emails: memory.NewCollection[domain.Email](domain.CollectionEmails,
			memory.NewestFirst[domain.Email](func(e *domain.Email) time.Time { return e.CreatedAt })),
		Pingers: map[string]Pinger{},
	}
}

func openMongo(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	return &Store{
		Driver:    config.StoreMongo,
		Profiles:  mongo.NewProfileRepository(db),
		Tasks:     mongo.NewCollection[domain.Task](db, domain.CollectionTasks),
		Documents: mongo.NewCollection[domain.Document](db, domain.CollectionDocuments),
		Emails:    mongo.NewCollection[domain.Email](db, domain.CollectionEmails),
		Pingers:   map[string]Pinger{"mongodb": mongo.Pinger{Client: client}},
		migrate: func(ctx context.Context) error {
			return mongo.EnsureIndexes(ctx, db)
		},
		close: client.Disconnect,
	}, nil
}

func openSQL(ctx context.Context, cfg sql.Config, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Store{
		Driver:    cfg.Driver,
		Profiles:  sql.NewProfileRepository(db),
		Tasks:     sql.NewCollection[domain.Task](db, domain.CollectionTasks),
		Documents: sql.NewCollection[domain.Document](db, domain.CollectionDocuments),
		Emails:    sql.NewCollection[domain.Email](db, domain.CollectionEmails),
		Pingers:   map[string]Pinger{cfg.Driver: sql.Pinger{DB: db}},
		migrate: func(context.Context) error {
			return sql.Migrate(db)
		},
		close: func(context.Context) error {
			return sql.Close(db)
		},
	}, nil
}

// Migrate prepares tables or indexes. It is a no-op for the memory store.
func (s *Store) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
