package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

// Collection implements ports.Collection over one table.
type Collection[T any, P domain.RecordPtr[T]] struct {
	db   *gorm.DB
	name string
}

func NewCollection[T any, P domain.RecordPtr[T]](db *gorm.DB, name string) *Collection[T, P] {
	return &Collection[T, P]{db: db, name: name}
}

func (c *Collection[T, P]) Name() string { return c.name }

func (c *Collection[T, P]) table(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Table(c.name)
}

// List returns every row in the requested order; ties fall back to id.
// NULLs sort last in both directions, whatever the dialect's default.
func (c *Collection[T, P]) List(ctx context.Context, order ports.Order) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := c.table(ctx)
	if order.Field != "" {
		q = q.Order(q.Statement.Quote(order.Field) + " IS NULL").
			Order(clause.OrderByColumn{Column: clause.Column{Name: order.Field}, Desc: order.Desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: order.Desc})
	}

	out := []T{}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Collection[T, P]) Insert(ctx context.Context, rec *T) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	P(rec).Assign(0, time.Now().UTC())
	if err := c.table(ctx).Create(rec).Error; err != nil {
		return 0, translate(err)
	}
	return P(rec).RecordID(), nil
}

func (c *Collection[T, P]) Update(ctx context.Context, id int64, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := c.table(ctx).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (c *Collection[T, P]) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := c.table(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}
