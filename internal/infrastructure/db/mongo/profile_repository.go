package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onedocs/tracker/internal/core/domain"
)

// ProfileRepository is the profiles collection plus lookup by email.
type ProfileRepository struct {
	*Collection[domain.Profile, *domain.Profile]
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{Collection: NewCollection[domain.Profile](db, domain.CollectionProfiles)}
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Profile
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}
