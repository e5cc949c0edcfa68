package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vivi-ai/vivi-planner/config"
	"github.com/vivi-ai/vivi-planner/internal/catalog"
	"github.com/vivi-ai/vivi-planner/internal/planner"
)

// EventsHandler exposes raw catalog search, useful for browsing what the
// planner would rank.
type EventsHandler struct {
	Catalog *catalog.Catalog
	Planner config.PlannerConfig
}

func (h *EventsHandler) Register(g *echo.Group) {
	g.GET("", h.search)
}

func (h *EventsHandler) search(c echo.Context) error {
	query := planner.MergedProfile{
		Vibe:        strings.ToLower(strings.TrimSpace(c.QueryParam("vibe"))),
		EnergyLevel: planner.ParseEnergyLevel(c.QueryParam("energy")),
		Location:    c.QueryParam("location"),
	}
	if query.Vibe == "" {
		query.Vibe = "chill"
	}
	if query.Location == "" {
		query.Location = h.Planner.DefaultLocation
	}
	if raw := c.QueryParam("budget"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "budget must be a number")
		}
		query.BudgetCap = &v
	}

	items := h.Catalog.Find(c.Request().Context(), query)
	if items == nil {
		items = []planner.Candidate{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"events": items})
}
