package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

// HeaderIdempotencyKey is the request header carrying a client-chosen key
// that makes Create safe to retry.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplay marks a response to a create request whose key had
// already been used.
const HeaderIdempotentReplay = "Idempotent-Replay"

type createRequest[T any] interface {
	toRecord() (T, error)
}

type updateRequest interface {
	fields() (map[string]any, error)
}

// SampleFunc builds an unsaved sample record for the given profiles.
type SampleFunc[T any] func(profiles []domain.Profile) T

// ResourceHandler serves one record kind: list, create, update, delete,
// refresh and autofill. C and U are the kind's create and update bodies.
type ResourceHandler[T any, C createRequest[T], U updateRequest] struct {
	ctrl     ports.ResourceController[T]
	profiles ports.Reader[domain.Profile]
	sample   SampleFunc[T]
}

func newResourceHandler[T any, C createRequest[T], U updateRequest](ctrl ports.ResourceController[T], profiles ports.Reader[domain.Profile], sample SampleFunc[T]) *ResourceHandler[T, C, U] {
	return &ResourceHandler[T, C, U]{ctrl: ctrl, profiles: profiles, sample: sample}
}

type (
	TaskHandler     = ResourceHandler[domain.Task, createTaskRequest, updateTaskRequest]
	DocumentHandler = ResourceHandler[domain.Document, createDocumentRequest, updateDocumentRequest]
	EmailHandler    = ResourceHandler[domain.Email, createEmailRequest, updateEmailRequest]
)

func NewTaskHandler(ctrl ports.ResourceController[domain.Task], profiles ports.Reader[domain.Profile], sample SampleFunc[domain.Task]) *TaskHandler {
	return newResourceHandler[domain.Task, createTaskRequest, updateTaskRequest](ctrl, profiles, sample)
}

func NewDocumentHandler(ctrl ports.ResourceController[domain.Document], profiles ports.Reader[domain.Profile], sample SampleFunc[domain.Document]) *DocumentHandler {
	return newResourceHandler[domain.Document, createDocumentRequest, updateDocumentRequest](ctrl, profiles, sample)
}

func NewEmailHandler(ctrl ports.ResourceController[domain.Email], profiles ports.Reader[domain.Profile], sample SampleFunc[domain.Email]) *EmailHandler {
	return newResourceHandler[domain.Email, createEmailRequest, updateEmailRequest](ctrl, profiles, sample)
}

// Register mounts the handler's routes on g.
func (h *ResourceHandler[T, C, U]) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.POST("/refresh", h.Refresh)
	g.GET("/autofill", h.Autofill)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List handles GET /v1/{kind}. The first call loads the collection.
//
// @Summary      List records
// @Tags         records
// @Produce      json
// @Param        kind    path   string  true   "tasks, documents or emails"
// @Param        search  query  string  false  "Case-insensitive substring over the text fields"
// @Param        status  query  string  false  "Exact status match"
// @Success      200     {object}  map[string]any
// @Router       /v1/{kind} [get]
func (h *ResourceHandler[T, C, U]) List(c echo.Context) error {
	h.ctrl.EnsureFetched(c.Request().Context())
	state := h.ctrl.Filter(c.QueryParam("search"), c.QueryParam("status"))
	return c.JSON(http.StatusOK, newListResponse(state))
}

// Refresh handles POST /v1/{kind}/refresh. A failed read is reported in the
// body's error field; the previous records are kept.
//
// @Summary      Re-read the collection
// @Tags         records
// @Produce      json
// @Param        kind  path  string  true  "tasks, documents or emails"
// @Success      200   {object}  map[string]any
// @Router       /v1/{kind}/refresh [post]
func (h *ResourceHandler[T, C, U]) Refresh(c echo.Context) error {
	_ = h.ctrl.Fetch(c.Request().Context())
	return c.JSON(http.StatusOK, newListResponse(h.ctrl.Snapshot()))
}

// Create handles POST /v1/{kind}.
//
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        kind             path      string  true   "tasks, documents or emails"
// @Param        Idempotency-Key  header    string  false  "Idempotency key to prevent duplicate submissions"
// @Success      201              {object}  map[string]any
// @Success      200              {object}  map[string]any  "Replayed idempotency key"
// @Failure      400              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Failure      502              {object}  errorResponse
// @Router       /v1/{kind} [post]
func (h *ResourceHandler[T, C, U]) Create(c echo.Context) error {
	var req C
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	rec, err := req.toRecord()
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	res, err := h.ctrl.Create(ctx, rec, ports.CreateOptions{
		Actor:          actorFrom(c),
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if res.Replayed {
		c.Response().Header().Set(HeaderIdempotentReplay, "true")
		h.ctrl.EnsureFetched(ctx)
		return c.JSON(http.StatusOK, newListResponse(h.ctrl.Snapshot()))
	}

	resp := newListResponse(h.ctrl.Snapshot())
	resp.ID = res.ID
	return c.JSON(http.StatusCreated, resp)
}

// Update handles PATCH /v1/{kind}/:id.
//
// @Summary      Update fields of a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        kind  path      string  true  "tasks, documents or emails"
// @Param        id    path      int     true  "Record id"
// @Success      200   {object}  map[string]any
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/{kind}/{id} [patch]
func (h *ResourceHandler[T, C, U]) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req U
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	fields, err := req.fields()
	if err != nil {
		return err
	}

	if err := h.ctrl.Update(c.Request().Context(), id, fields); err != nil {
		return err
	}
	resp := newListResponse(h.ctrl.Snapshot())
	resp.ID = id
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /v1/{kind}/:id.
//
// @Summary      Delete a record
// @Tags         records
// @Produce      json
// @Param        kind  path      string  true  "tasks, documents or emails"
// @Param        id    path      int     true  "Record id"
// @Success      200   {object}  map[string]any
// @Failure      404   {object}  errorResponse
// @Router       /v1/{kind}/{id} [delete]
func (h *ResourceHandler[T, C, U]) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.ctrl.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(h.ctrl.Snapshot()))
}

// Autofill handles GET /v1/{kind}/autofill: a sample record, not saved.
//
// @Summary      Generate a sample record
// @Tags         records
// @Produce      json
// @Param        kind  path  string  true  "tasks, documents or emails"
// @Success      200   {object}  map[string]any
// @Router       /v1/{kind}/autofill [get]
func (h *ResourceHandler[T, C, U]) Autofill(c echo.Context) error {
	h.profiles.EnsureFetched(c.Request().Context())
	return c.JSON(http.StatusOK, h.sample(h.profiles.Snapshot().Records))
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}
