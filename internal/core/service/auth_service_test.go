package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

type stubProfileRepo struct {
	*stubCollection[domain.Profile, *domain.Profile]
	findErr error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{stubCollection: newStubCollection[domain.Profile](domain.CollectionProfiles, nil)}
}

func (r *stubProfileRepo) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Email == email {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func newAuthService(repo *stubProfileRepo) *AuthService {
	writer := NewController[domain.Profile](ProfileKind(), repo, discardLogger)
	return NewAuthService(repo, writer, "secret", time.Hour)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newAuthService(repo)

	p, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: " Alice@Example.com ", Password: "pass123", FullName: "Alice",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("expected store-assigned id")
	}
	if p.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", p.Email)
	}
	if p.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if p.Role == nil || *p.Role != domain.RoleMember {
		t.Fatalf("expected default role %q, got %v", domain.RoleMember, p.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthService(newStubProfileRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Password: "pass"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass", Role: "owner"})
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for bad role, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthService(newStubProfileRepo())

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass"})
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "BOB@example.com", Password: "pass2"}); err != domain.ErrProfileExists {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}
}

func TestAuthService_Register_StoreConflict(t *testing.T) {
	repo := newStubProfileRepo()
	repo.insertErr = domain.ErrConflict
	svc := newAuthService(repo)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "eve@example.com", Password: "pass"}); err != domain.ErrProfileExists {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthService(newStubProfileRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "carol@example.com", Password: "s3cret", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, p, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if p == nil || p.Email != "carol@example.com" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
	if claims["sub"] != "1" {
		t.Fatalf("expected sub 1, got %v", claims["sub"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newAuthService(newStubProfileRepo())

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "dave@example.com", Password: "goodpass"})
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newAuthService(newStubProfileRepo())

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	repo := newStubProfileRepo()
	repo.findErr = errors.New("db down")
	svc := newAuthService(repo)

	_, _, err := svc.Login(context.Background(), "x@example.com", "pass")
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("expected store error, got %v", err)
	}
}
