package ports

import (
	"context"

	"github.com/onedocs/tracker/internal/core/domain"
)

// ProfileRepository is the lookup auth needs on top of the profiles collection.
type ProfileRepository interface {
	Collection[domain.Profile]
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
}
