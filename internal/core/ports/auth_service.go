package ports

import (
	"context"

	"github.com/onedocs/tracker/internal/core/domain"
)

// RegisterInput carries the fields needed to create a profile.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (string, *domain.Profile, error)
}
