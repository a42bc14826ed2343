package ports

import "context"

// Order names the field a collection is sorted by.
type Order struct {
	Field string
	Desc  bool
}

// Collection is the remote store contract for one named collection.
// Implementations assign ids and created_at on Insert.
type Collection[T any] interface {
	Name() string
	List(ctx context.Context, order Order) ([]T, error)
	Insert(ctx context.Context, rec *T) (int64, error)
	// Update replaces the given fields on the record with the given id.
	// Returns domain.ErrRecordNotFound when no record matches.
	Update(ctx context.Context, id int64, fields map[string]any) error
	// Delete removes the record with the given id.
	// Returns domain.ErrRecordNotFound when no record matches.
	Delete(ctx context.Context, id int64) error
}
