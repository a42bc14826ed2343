package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/onedocs/tracker/internal/api"
	"github.com/onedocs/tracker/internal/core/autofill"
	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/service"
	"github.com/onedocs/tracker/internal/infrastructure/db/redis"
	"github.com/onedocs/tracker/internal/infrastructure/http/handlers"
	"github.com/onedocs/tracker/internal/infrastructure/store"
	"github.com/onedocs/tracker/internal/pkg/config"
	"github.com/onedocs/tracker/pkg/logger"
)

// app wires the store, the controllers and the services together.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *store.Store
	redis *goredis.Client

	profiles  *service.Controller[domain.Profile, *domain.Profile]
	tasks     *service.Controller[domain.Task, *domain.Task]
	documents *service.Controller[domain.Document, *domain.Document]
	emails    *service.Controller[domain.Email, *domain.Email]
	auth      *service.AuthService
	autofill  *autofill.Generator
}

// newApp expects logger.Init to have run.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.Get()
	st, err := store.Open(ctx, cfg, logger.Component("store"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := &app{cfg: cfg, log: log, store: st, autofill: autofill.New()}

	ctrlLog := logger.Component("controller")
	a.profiles = service.NewController[domain.Profile](service.ProfileKind(), st.Profiles, ctrlLog)
	a.tasks = service.NewController[domain.Task](service.TaskKind(), st.Tasks, ctrlLog).WithProfiles(st.Profiles)
	a.documents = service.NewController[domain.Document](service.DocumentKind(), st.Documents, ctrlLog).WithProfiles(st.Profiles)
	a.emails = service.NewController[domain.Email](service.EmailKind(), st.Emails, ctrlLog).WithProfiles(st.Profiles)

	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			_ = st.Close(ctx)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = rdb
		guard := redis.NewIdempotencyGuard(rdb, cfg.Redis.IdempotencyTTL)
		a.tasks.WithIdempotency(guard)
		a.documents.WithIdempotency(guard)
		a.emails.WithIdempotency(guard)
	} else {
		log.Info().Msg("REDIS_ADDR not set, idempotency keys are ignored")
	}

	a.auth = service.NewAuthService(st.Profiles, a.profiles, cfg.JWTSecret, cfg.TokenTTL)
	return a, nil
}

func (a *app) routerDeps() api.Deps {
	pingers := make(map[string]handlers.Pinger, len(a.store.Pingers)+1)
	for name, p := range a.store.Pingers {
		pingers[name] = p
	}
	if a.redis != nil {
		pingers["redis"] = redis.Pinger{Client: a.redis}
	}
	return api.Deps{
		Log:       logger.Component("http"),
		JWTSecret: a.cfg.JWTSecret,
		Auth:      a.auth,
		Profiles:  a.profiles,
		Tasks:     a.tasks,
		Documents: a.documents,
		Emails:    a.emails,
		Autofill:  a.autofill,
		Pingers:   pingers,
	}
}

func (a *app) close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing redis")
		}
	}
	if err := a.store.Close(ctx); err != nil {
		a.log.Warn().Err(err).Msg("closing store")
	}
}
