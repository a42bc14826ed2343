// Package memory keeps records in process memory. It backs local runs with
// STORE_DRIVER=memory and gives tests a store without external services.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

// Less orders two records for List.
type Less[T any] func(a, b *T) bool

// Collection implements ports.Collection with an ordered slice guarded by a
// mutex. Ids are assigned sequentially from 1.
type Collection[T any, P domain.RecordPtr[T]] struct {
	name string
	less Less[T]

	mu     sync.RWMutex
	rows   []T
	nextID int64
}

// NewCollection returns an empty collection. less defines List order; nil
// keeps insertion order.
func NewCollection[T any, P domain.RecordPtr[T]](name string, less Less[T]) *Collection[T, P] {
	return &Collection[T, P]{name: name, less: less}
}

func (c *Collection[T, P]) Name() string { return c.name }

// List ignores order; the collection's less function defines it.
func (c *Collection[T, P]) List(ctx context.Context, _ ports.Order) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	out := slices.Clone(c.rows)
	c.mu.RUnlock()

	if out == nil {
		out = []T{}
	}
	if c.less != nil {
		slices.SortStableFunc(out, func(a, b T) int {
			switch {
			case c.less(&a, &b):
				return -1
			case c.less(&b, &a):
				return 1
			}
			return 0
		})
	}
	return out, nil
}

func (c *Collection[T, P]) Insert(ctx context.Context, rec *T) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(rec), nil
}

// insertLocked stores rec; created_at keeps millisecond precision so it
// survives the bson round trip in Update unchanged.
func (c *Collection[T, P]) insertLocked(rec *T) int64 {
	c.nextID++
	P(rec).Assign(c.nextID, time.Now().UTC().Truncate(time.Millisecond))
	c.rows = append(c.rows, *rec)
	return c.nextID
}

// Update overlays fields onto the stored record using its bson field names.
func (c *Collection[T, P]) Update(ctx context.Context, id int64, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return domain.ErrRecordNotFound
	}

	raw, err := bson.Marshal(&c.rows[i])
	if err != nil {
		return fmt.Errorf("memory update: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("memory update: %w", err)
	}
	for k, v := range fields {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memory update: %w", err)
	}

	var updated T
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return fmt.Errorf("memory update: %w", err)
	}
	c.rows[i] = updated
	return nil
}

func (c *Collection[T, P]) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return domain.ErrRecordNotFound
	}
	c.rows = slices.Delete(c.rows, i, i+1)
	return nil
}

func (c *Collection[T, P]) index(id int64) int {
	return slices.IndexFunc(c.rows, func(r T) bool { return P(&r).RecordID() == id })
}

// ProfileRepository is an in-memory profiles collection with unique emails.
type ProfileRepository struct {
	*Collection[domain.Profile, *domain.Profile]
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{Collection: NewCollection[domain.Profile](domain.CollectionProfiles, ByFullName)}
}

func (r *ProfileRepository) Insert(ctx context.Context, p *domain.Profile) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(p.Email) != nil {
		return 0, fmt.Errorf("%w: email %s", domain.ErrConflict, p.Email)
	}
	return r.insertLocked(p), nil
}

func (r *ProfileRepository) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p := r.find(email); p != nil {
		found := *p
		return &found, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *ProfileRepository) find(email string) *domain.Profile {
	for i := range r.rows {
		if strings.EqualFold(r.rows[i].Email, email) {
			return &r.rows[i]
		}
	}
	return nil
}

// NewestFirst orders by created_at descending, newer ids first on ties.
func NewestFirst[T any, P domain.RecordPtr[T]](created func(*T) time.Time) Less[T] {
	return func(a, b *T) bool {
		ca, cb := created(a), created(b)
		if !ca.Equal(cb) {
			return ca.After(cb)
		}
		return P(a).RecordID() > P(b).RecordID()
	}
}

// ByFullName orders profiles by full name ascending. Profiles without a
// name sort last, as they do on the SQL and Mongo backends.
func ByFullName(a, b *domain.Profile) bool {
	switch {
	case a.FullName == nil && b.FullName != nil:
		return false
	case a.FullName != nil && b.FullName == nil:
		return true
	case a.FullName != nil && *a.FullName != *b.FullName:
		return *a.FullName < *b.FullName
	}
	return a.ID < b.ID
}
