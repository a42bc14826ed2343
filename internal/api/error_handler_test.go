package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/onedocs/tracker/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"not found", &domain.RemoteError{Collection: "tasks", Op: "update", Err: domain.ErrRecordNotFound}, http.StatusNotFound, "tasks: update: record not found"},
		{"invalid", domain.InvalidField("title", "is required"), http.StatusUnprocessableEntity, ""},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"profile exists", domain.ErrProfileExists, http.StatusConflict, "profile already exists"},
		{"remote", &domain.RemoteError{Collection: "emails", Op: "insert", Err: errors.New("connection reset")}, http.StatusBadGateway, "emails: insert: connection reset"},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/tasks", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error == "" {
				t.Fatalf("expected error message")
			}
			if tt.wantMsg != "" && body.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, body.Error)
			}
		})
	}
}
