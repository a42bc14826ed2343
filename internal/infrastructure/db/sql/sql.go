// Package sql stores records in a relational database through gorm. Postgres
// is the hosted backend; SQLite serves local runs and tests.
package sql

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/onedocs/tracker/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	connectRetries = 5
	retryDelay     = 2 * time.Second
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config captures the settings required to open a relational store.
type Config struct {
	Driver string
	DSN    string
	Debug  bool
}

// Open connects to the database, retrying Postgres a few times while it comes up.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("sql: unsupported driver %q", cfg.Driver)
	}

	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	for attempt := 1; attempt <= connectRetries; attempt++ {
		db, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		if cfg.Driver != DriverPostgres || attempt == connectRetries {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}

	if err := (Pinger{DB: db}).Ping(ctx); err != nil {
		return nil, fmt.Errorf("sql ping: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables for every record kind.
func Migrate(db *gorm.DB) error {
	for _, m := range []any{&domain.Profile{}, &domain.Task{}, &domain.Document{}, &domain.Email{}} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// Pinger reports database reachability for readiness checks.
type Pinger struct {
	DB *gorm.DB
}

func (p Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
