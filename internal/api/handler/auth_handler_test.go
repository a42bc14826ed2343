package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Profile, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.Profile, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Profile, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	return s.loginFn(ctx, email, password)
}

func newAuthContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Profile, error) {
			if in.Email != "alice@example.com" || in.Role != "admin" || in.FullName != "Alice" {
				t.Fatalf("unexpected input: %+v", in)
			}
			role := in.Role
			return &domain.Profile{ID: 1, Email: in.Email, PasswordHash: "hash", Role: &role}, nil
		},
	}
	c, rec := newAuthContext(`{"email":"alice@example.com","password":"secret1","full_name":"Alice","role":"admin"}`)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	profile, ok := resp["profile"].(map[string]any)
	if !ok {
		t.Fatalf("expected profile in response")
	}
	if profile["email"] != "alice@example.com" || profile["role"] != "admin" {
		t.Fatalf("unexpected profile payload: %+v", profile)
	}
	if _, leaked := profile["password"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestAuthHandler_Register_ProfileExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Profile, error) {
			return nil, domain.ErrProfileExists
		},
	}
	c, rec := newAuthContext(`{"email":"bob@example.com","password":"secret1"}`)

	_ = NewAuthHandler(stub).Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Invalid(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Profile, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", "not-json", http.StatusBadRequest},
		{"bad email", `{"email":"nope","password":"secret1"}`, http.StatusUnprocessableEntity},
		{"short password", `{"email":"a@example.com","password":"123"}`, http.StatusUnprocessableEntity},
		{"unknown role", `{"email":"a@example.com","password":"secret1","role":"owner"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAuthContext(tt.body)
			_ = NewAuthHandler(stub).Register(c)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Profile, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.Profile{ID: 1, Email: email}, nil
		},
	}
	c, rec := newAuthContext(`{"email":"alice@example.com","password":"secret"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" {
		t.Fatalf("expected token123, got %s", resp.Token)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Profile, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	c, rec := newAuthContext(`{"email":"alice@example.com","password":"wrong"}`)

	_ = NewAuthHandler(stub).Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
