package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/onedocs/tracker/docs"
	"github.com/onedocs/tracker/internal/api/handler"
	"github.com/onedocs/tracker/internal/api/middleware"
	"github.com/onedocs/tracker/internal/core/autofill"
	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
	"github.com/onedocs/tracker/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Log       zerolog.Logger
	JWTSecret string

	Auth      ports.AuthService
	Profiles  ports.Reader[domain.Profile]
	Tasks     ports.ResourceController[domain.Task]
	Documents ports.ResourceController[domain.Document]
	Emails    ports.ResourceController[domain.Email]
	Autofill  *autofill.Generator

	// Pingers are checked by the readiness probe, keyed by dependency name.
	Pingers map[string]handlers.Pinger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "tracker",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))
	e.Use(middleware.Identity(d.JWTSecret))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Records ---
	v1 := e.Group("/v1")

	profileHandler := handler.NewProfileHandler(d.Profiles)
	v1.GET("/profiles", profileHandler.List)
	v1.POST("/profiles/refresh", profileHandler.Refresh)

	handler.NewTaskHandler(d.Tasks, d.Profiles, d.Autofill.Task).Register(v1.Group("/tasks"))
	handler.NewDocumentHandler(d.Documents, d.Profiles, d.Autofill.Document).Register(v1.Group("/documents"))
	handler.NewEmailHandler(d.Emails, d.Profiles, d.Autofill.Email).Register(v1.Group("/emails"))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Pingers)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
