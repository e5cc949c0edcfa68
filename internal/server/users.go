package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vivi-ai/vivi-planner/internal/store"
	"github.com/vivi-ai/vivi-planner/internal/taste"
)

// UsersHandler manages stored taste profiles.
type UsersHandler struct {
	Store store.Store
}

func (h *UsersHandler) Register(g *echo.Group) {
	g.PUT("/:id", h.upsert)
	g.GET("/:id", h.get)
}

func (h *UsersHandler) upsert(c echo.Context) error {
	var p store.Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.UserID = c.Param("id")
	if strings.TrimSpace(p.UserID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user id required")
	}
	if err := h.Store.UpsertProfile(c.Request().Context(), p); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *UsersHandler) get(c echo.Context) error {
	id := c.Param("id")
	p, found, err := h.Store.Profile(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !found {
		// Unknown users still plan fine; expose the profile they would get.
		return c.JSON(http.StatusOK, map[string]interface{}{
			"profile": taste.MockProfile(id),
			"mock":    true,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"profile": p, "mock": false})
}
