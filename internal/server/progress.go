package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vivi-ai/vivi-planner/internal/geo"
	"github.com/vivi-ai/vivi-planner/internal/store"
)

// ProgressHandler reports city exploration progress for a set of users.
type ProgressHandler struct {
	Store    store.Store
	Explorer *geo.Explorer
}

func (h *ProgressHandler) Register(g *echo.Group) {
	g.GET("", h.progress)
}

func (h *ProgressHandler) progress(c echo.Context) error {
	userIDs := splitParam(c.QueryParam("user_ids"))
	if len(userIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user_ids required")
	}
	hexes, err := h.Store.UserHexes(c.Request().Context(), userIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.Explorer.Progress(hexes))
}
