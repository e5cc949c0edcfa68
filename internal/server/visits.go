package server

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vivi-ai/vivi-planner/internal/geo"
	"github.com/vivi-ai/vivi-planner/internal/store"
)

// VisitsHandler records and lists completed visits.
type VisitsHandler struct {
	Store    store.Store
	Explorer *geo.Explorer
}

func (h *VisitsHandler) Register(g *echo.Group) {
	g.POST("", h.record)
	g.GET("", h.list)
}

func (h *VisitsHandler) record(c echo.Context) error {
	var v store.Visit
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(v.UserID) == "" || strings.TrimSpace(v.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and title required")
	}
	if v.H3 == "" && (v.Lat != 0 || v.Lng != 0) {
		hex, err := h.Explorer.CellFor(v.Lat, v.Lng)
		if err != nil {
			log.Printf("h3 index failed for visit: %v", err)
		} else {
			v.H3 = hex
		}
	}
	saved, err := h.Store.RecordVisit(c.Request().Context(), v)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, saved)
}

func (h *VisitsHandler) list(c echo.Context) error {
	userIDs := splitParam(c.QueryParam("user_ids"))
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = n
	}
	visits, err := h.Store.ListVisits(c.Request().Context(), userIDs, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if visits == nil {
		visits = []store.Visit{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"visits": visits})
}

func splitParam(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
