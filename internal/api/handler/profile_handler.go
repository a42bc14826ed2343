package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

// ProfileHandler exposes the read-only profile list used for assignee pickers.
type ProfileHandler struct {
	profiles ports.Reader[domain.Profile]
}

func NewProfileHandler(profiles ports.Reader[domain.Profile]) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// List handles GET /v1/profiles.
//
// @Summary      List profiles
// @Tags         profiles
// @Produce      json
// @Param        search  query  string  false  "Substring over full name and email"
// @Success      200     {object}  map[string]any
// @Router       /v1/profiles [get]
func (h *ProfileHandler) List(c echo.Context) error {
	h.profiles.EnsureFetched(c.Request().Context())
	return c.JSON(http.StatusOK, newListResponse(h.profiles.Filter(c.QueryParam("search"), "")))
}

// Refresh handles POST /v1/profiles/refresh.
//
// @Summary      Re-read profiles
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/profiles/refresh [post]
func (h *ProfileHandler) Refresh(c echo.Context) error {
	_ = h.profiles.Fetch(c.Request().Context())
	return c.JSON(http.StatusOK, newListResponse(h.profiles.Snapshot()))
}
