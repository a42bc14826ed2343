package ports

import (
	"context"
	"time"
)

// Actor identifies the caller of a mutation. A zero ProfileID means anonymous.
type Actor struct {
	ProfileID int64
	Email     string
}

// CreateOptions carries per-call context for Create.
type CreateOptions struct {
	Actor          Actor
	IdempotencyKey string
}

// CreateResult reports what Create did.
type CreateResult struct {
	ID int64
	// Replayed is true when the idempotency key was already used; nothing was inserted.
	Replayed bool
}

// State is a point-in-time copy of a controller's list state.
type State[T any] struct {
	Records  []T
	Loading  bool
	Error    string
	SyncedAt time.Time
}

// Reader is the read side of a resource controller.
type Reader[T any] interface {
	Fetch(ctx context.Context) error
	Snapshot() State[T]
	// Filter returns the snapshot narrowed by search text and status.
	Filter(search, status string) State[T]
	// EnsureFetched runs Fetch when the controller has never completed one.
	EnsureFetched(ctx context.Context)
}

// ResourceController is the full read/write contract used by the HTTP layer.
type ResourceController[T any] interface {
	Reader[T]
	Create(ctx context.Context, rec T, opts CreateOptions) (*CreateResult, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}
