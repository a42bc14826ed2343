package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
	"github.com/onedocs/tracker/internal/pkg/metrics"
)

// IdempotencyGuard abstracts the idempotency key store (Redis).
type IdempotencyGuard interface {
	// Claim records key under scope and reports whether this is its first use.
	Claim(ctx context.Context, scope, key string) (bool, error)
	// Release forgets a claimed key so the request can be retried.
	Release(ctx context.Context, scope, key string) error
}

// Controller owns the in-memory list of one entity kind and keeps it in step
// with the remote store: every successful mutation is followed by a full
// re-read of the collection.
//
// Each fetch takes a sequence number when it is issued; a completed fetch is
// applied only if no later-issued fetch has been applied before it, so the
// visible list always comes from the most recently issued read.
type Controller[T domain.Searchable, P domain.RecordPtr[T]] struct {
	kind     Kind[T]
	store    ports.Collection[T]
	profiles ports.Collection[domain.Profile]
	guard    IdempotencyGuard
	log      zerolog.Logger

	mu        sync.RWMutex
	records   []T
	inflight  int
	lastErr   string
	syncedAt  time.Time
	attempted bool
	initial   chan struct{}
	issued    uint64
	applied   uint64
}

// NewController returns a controller for the kind backed by store.
func NewController[T domain.Searchable, P domain.RecordPtr[T]](kind Kind[T], store ports.Collection[T], log zerolog.Logger) *Controller[T, P] {
	return &Controller[T, P]{
		kind:    kind,
		store:   store,
		log:     log.With().Str("collection", store.Name()).Logger(),
		records: []T{},
	}
}

// WithProfiles enables embedding of assigned_to/created_by profile summaries
// after every fetch.
func (c *Controller[T, P]) WithProfiles(profiles ports.Collection[domain.Profile]) *Controller[T, P] {
	c.profiles = profiles
	return c
}

// WithIdempotency makes Create honour idempotency keys.
func (c *Controller[T, P]) WithIdempotency(guard IdempotencyGuard) *Controller[T, P] {
	c.guard = guard
	return c
}

// Fetch re-reads the whole collection. On failure the records are left as
// they were and the error message is kept in the state.
func (c *Controller[T, P]) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.inflight++
	c.lastErr = ""
	c.mu.Unlock()

	records, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	c.attempted = true

	if seq < c.applied {
		metrics.ResyncsTotal.WithLabelValues(c.store.Name(), "stale").Inc()
		c.log.Debug().Uint64("seq", seq).Uint64("applied", c.applied).Msg("discarding stale fetch")
		return err
	}
	c.applied = seq

	if err != nil {
		c.lastErr = err.Error()
		metrics.ResyncsTotal.WithLabelValues(c.store.Name(), "error").Inc()
		c.log.Warn().Err(err).Msg("fetch failed")
		return err
	}

	c.records = records
	c.lastErr = ""
	c.syncedAt = time.Now().UTC()
	metrics.ResyncsTotal.WithLabelValues(c.store.Name(), "ok").Inc()
	metrics.RecordsLoaded.WithLabelValues(c.store.Name()).Set(float64(len(records)))
	return nil
}

// EnsureFetched performs the initial fetch once; later reads use the held list.
// Callers arriving while the initial fetch runs wait for it instead of
// issuing their own.
func (c *Controller[T, P]) EnsureFetched(ctx context.Context) {
	c.mu.Lock()
	if c.attempted {
		c.mu.Unlock()
		return
	}
	first := c.initial == nil
	if first {
		c.initial = make(chan struct{})
	}
	done := c.initial
	c.mu.Unlock()

	if first {
		_ = c.Fetch(ctx)
		close(done)
		return
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (c *Controller[T, P]) load(ctx context.Context) ([]T, error) {
	start := time.Now()
	records, err := c.store.List(ctx, c.kind.Order)
	metrics.ObserveStore(c.store.Name(), "select", start, err)
	if err != nil {
		return nil, c.remote("select", err)
	}
	if records == nil {
		records = []T{}
	}

	if c.profiles == nil {
		return records, nil
	}

	start = time.Now()
	profiles, err := c.profiles.List(ctx, ProfileKind().Order)
	metrics.ObserveStore(c.profiles.Name(), "select", start, err)
	if err != nil {
		return nil, &domain.RemoteError{Collection: c.profiles.Name(), Op: "select", Err: err}
	}

	idx := domain.ProfileIndex(profiles)
	for i := range records {
		if a, ok := any(P(&records[i])).(domain.Assignable); ok {
			a.AssignmentRef().Resolve(idx)
		}
	}
	return records, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller[T, P]) Snapshot() ports.State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ports.State[T]{
		Records:  slices.Clone(c.records),
		Loading:  c.inflight > 0,
		Error:    c.lastErr,
		SyncedAt: c.syncedAt,
	}
}

// Filter returns the current state with records narrowed by search and status.
func (c *Controller[T, P]) Filter(search, status string) ports.State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ports.State[T]{
		Records:  domain.FilterRecords(c.records, search, status),
		Loading:  c.inflight > 0,
		Error:    c.lastErr,
		SyncedAt: c.syncedAt,
	}
}

// Create fills defaults, validates, inserts and resyncs.
//
// created_by is the authenticated caller when there is one, otherwise the
// value supplied by the input, otherwise domain.DefaultCreatorID.
func (c *Controller[T, P]) Create(ctx context.Context, rec T, opts ports.CreateOptions) (*ports.CreateResult, error) {
	p := P(&rec)
	if a, ok := any(p).(domain.Assignable); ok {
		ref := a.AssignmentRef()
		switch {
		case opts.Actor.ProfileID > 0:
			ref.CreatedBy = opts.Actor.ProfileID
		case ref.CreatedBy <= 0:
			ref.CreatedBy = domain.DefaultCreatorID
		}
	}
	if c.kind.Defaults != nil {
		c.kind.Defaults(&rec)
	}
	if c.kind.Validate != nil {
		if err := c.kind.Validate(&rec); err != nil {
			return nil, err
		}
	}

	key := opts.IdempotencyKey
	if key != "" && c.guard != nil {
		first, err := c.guard.Claim(ctx, c.store.Name(), key)
		switch {
		case err != nil:
			c.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency check failed, creating anyway")
			key = ""
		case !first:
			metrics.IdempotentReplaysTotal.WithLabelValues(c.store.Name()).Inc()
			c.log.Info().Str("idempotency_key", key).Msg("idempotent replay")
			return &ports.CreateResult{Replayed: true}, nil
		}
	} else {
		key = ""
	}

	start := time.Now()
	id, err := c.store.Insert(ctx, &rec)
	metrics.ObserveStore(c.store.Name(), "insert", start, err)
	if err != nil {
		if key != "" {
			if relErr := c.guard.Release(ctx, c.store.Name(), key); relErr != nil {
				c.log.Warn().Err(relErr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, c.remote("insert", err)
	}

	c.log.Info().Int64("id", id).Int64("actor", opts.Actor.ProfileID).Msgf("%s created", c.kind.Name)
	_ = c.Fetch(ctx)
	return &ports.CreateResult{ID: id}, nil
}

// Update applies a partial update to the record with the given id and resyncs.
func (c *Controller[T, P]) Update(ctx context.Context, id int64, fields map[string]any) error {
	if id <= 0 {
		return domain.InvalidField("id", "must be positive")
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", domain.ErrInvalidRecord)
	}
	for name := range fields {
		switch name {
		case "id", "_id", "created_at":
			return domain.InvalidField(name, "is read-only")
		}
	}
	if c.kind.ValidatePatch != nil {
		if err := c.kind.ValidatePatch(fields); err != nil {
			return err
		}
	}

	start := time.Now()
	err := c.store.Update(ctx, id, fields)
	metrics.ObserveStore(c.store.Name(), "update", start, err)
	if err != nil {
		return c.remote("update", err)
	}

	c.log.Info().Int64("id", id).Msgf("%s updated", c.kind.Name)
	_ = c.Fetch(ctx)
	return nil
}

// Delete removes the record with the given id and resyncs.
func (c *Controller[T, P]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.InvalidField("id", "must be positive")
	}

	start := time.Now()
	err := c.store.Delete(ctx, id)
	metrics.ObserveStore(c.store.Name(), "delete", start, err)
	if err != nil {
		return c.remote("delete", err)
	}

	c.log.Info().Int64("id", id).Msgf("%s deleted", c.kind.Name)
	_ = c.Fetch(ctx)
	return nil
}

func (c *Controller[T, P]) remote(op string, err error) error {
	return &domain.RemoteError{Collection: c.store.Name(), Op: op, Err: err}
}
