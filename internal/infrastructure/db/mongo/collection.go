package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

const (
	countersCollection = "counters"
	sortMissingField   = "_sort_missing"
)

// Collection implements ports.Collection over one MongoDB collection. Integer
// ids are drawn from a per-collection sequence kept in the counters collection.
type Collection[T any, P domain.RecordPtr[T]] struct {
	db   *mongo.Database
	col  *mongo.Collection
	name string
	now  func() time.Time
}

func NewCollection[T any, P domain.RecordPtr[T]](db *mongo.Database, name string) *Collection[T, P] {
	return &Collection[T, P]{db: db, col: db.Collection(name), name: name, now: func() time.Time { return time.Now().UTC() }}
}

func (c *Collection[T, P]) Name() string { return c.name }

// List returns every document in the requested order; ties fall back to _id.
// Documents missing the field, or holding null, sort last.
func (c *Collection[T, P]) List(ctx context.Context, order ports.Order) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{}
	if order.Field != "" {
		dir := 1
		if order.Desc {
			dir = -1
		}
		pipeline = append(pipeline,
			bson.D{{Key: "$addFields", Value: bson.D{{Key: sortMissingField, Value: bson.D{
				{Key: "$eq", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$" + order.Field, nil}}}, nil}},
			}}}}},
			bson.D{{Key: "$sort", Value: bson.D{
				{Key: sortMissingField, Value: 1},
				{Key: order.Field, Value: dir},
				{Key: "_id", Value: dir},
			}}},
			bson.D{{Key: "$project", Value: bson.D{{Key: sortMissingField, Value: 0}}}},
		)
	}

	cur, err := c.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return out, nil
}

// Insert assigns the next id and created_at, then stores the document.
func (c *Collection[T, P]) Insert(ctx context.Context, rec *T) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := c.nextID(ctx)
	if err != nil {
		return 0, err
	}
	P(rec).Assign(id, c.now())

	if _, err := c.col.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		return 0, err
	}
	return id, nil
}

// Update sets the given fields on the document with the given id.
func (c *Collection[T, P]) Update(ctx context.Context, id int64, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := c.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (c *Collection[T, P]) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := c.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (c *Collection[T, P]) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := c.db.Collection(countersCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": c.name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("next id for %s: counter missing", c.name)
		}
		return 0, fmt.Errorf("next id for %s: %w", c.name, err)
	}
	return counter.Seq, nil
}
