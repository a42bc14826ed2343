package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

// ProfileWriter creates profiles and resyncs whoever lists them.
type ProfileWriter interface {
	Create(ctx context.Context, rec domain.Profile, opts ports.CreateOptions) (*ports.CreateResult, error)
}

// AuthService implements registration and login against the profiles collection.
type AuthService struct {
	repo      ports.ProfileRepository
	writer    ProfileWriter
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.ProfileRepository, writer ProfileWriter, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, writer: writer, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := in.Role
	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return nil, domain.InvalidField("role", "must be one of: admin member")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrProfileExists
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := domain.Profile{
		Email:        email,
		PasswordHash: string(hash),
		Role:         &role,
	}
	if name := strings.TrimSpace(in.FullName); name != "" {
		profile.FullName = &name
	}

	if _, err := s.writer.Create(ctx, profile, ports.CreateOptions{}); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrProfileExists
		}
		return nil, err
	}

	// fetch back to get ID and created_at
	return s.repo.FindByEmail(ctx, email)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(profile)
	if err != nil {
		return "", nil, err
	}

	return token, profile, nil
}

func (s *AuthService) generateToken(p *domain.Profile) (string, error) {
	role := ""
	if p.Role != nil {
		role = *p.Role
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(p.ID, 10),
		"email": p.Email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
