package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/onedocs/tracker/internal/api/middleware"
	"github.com/onedocs/tracker/internal/core/ports"
)

// actorFrom returns the caller identified by middleware.Identity; the zero
// Actor means the request is anonymous.
func actorFrom(c echo.Context) ports.Actor {
	id, _ := c.Get(middleware.ProfileIDKey).(int64)
	email, _ := c.Get(middleware.EmailKey).(string)
	return ports.Actor{ProfileID: id, Email: email}
}
