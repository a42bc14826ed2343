package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedocs/tracker/internal/core/autofill"
	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/service"
	"github.com/onedocs/tracker/internal/infrastructure/http/handlers"
	"github.com/onedocs/tracker/internal/infrastructure/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := zerolog.Nop()
	st := store.Memory()

	profiles := service.NewController[domain.Profile](service.ProfileKind(), st.Profiles, log)
	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Log:        log,
		JWTSecret:  "router-secret",
		Auth:       service.NewAuthService(st.Profiles, profiles, "router-secret", time.Hour),
		Profiles:   profiles,
		Tasks:      service.NewController[domain.Task](service.TaskKind(), st.Tasks, log).WithProfiles(st.Profiles),
		Documents:  service.NewController[domain.Document](service.DocumentKind(), st.Documents, log).WithProfiles(st.Profiles),
		Emails:     service.NewController[domain.Email](service.EmailKind(), st.Emails, log).WithProfiles(st.Profiles),
		Autofill:   autofill.New(),
		Pingers:    map[string]handlers.Pinger{},
		Registerer: reg,
		Gatherer:   reg,
	})
}

func call(t *testing.T, h http.Handler, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestRouter_EndToEnd(t *testing.T) {
	h := newTestRouter(t)

	code, _ := call(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)

	code, body := call(t, h, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, _ = call(t, h, http.MethodPost, "/auth/register",
		`{"email":"mehmet@example.com","password":"secret1","full_name":"Mehmet Kaya"}`, "")
	require.Equal(t, http.StatusCreated, code)

	code, body = call(t, h, http.MethodPost, "/auth/login", `{"email":"mehmet@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	code, body = call(t, h, http.MethodPost, "/v1/emails", `{"subject":"Proje Güncellemesi","assigned_to":1}`, token)
	require.Equal(t, http.StatusCreated, code)
	email := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "pending", email["status"])
	assert.Equal(t, "Mehmet Kaya", email["created_by_profile"].(map[string]any)["full_name"])

	code, body = call(t, h, http.MethodGet, "/v1/documents/autofill", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["title"])
	assert.Equal(t, float64(1), body["assigned_to"])

	code, _ = call(t, h, http.MethodDelete, "/v1/documents/9", "", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, h, http.MethodGet, "/v1/tasks", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_MetricsExposeRequests(t *testing.T) {
	h := newTestRouter(t)
	call(t, h, http.MethodGet, "/v1/tasks", "", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "requests_total")
	assert.Contains(t, rec.Body.String(), "tracker_")
}
