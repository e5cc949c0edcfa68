package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vivi-ai/vivi-planner/internal/planner"
)

// PlanHandler serves the group planning endpoint.
type PlanHandler struct {
	Orch *planner.Orchestrator
}

func (h *PlanHandler) Register(g *echo.Group) {
	g.POST("/plan", h.plan)
}

func (h *PlanHandler) plan(c echo.Context) error {
	var req planner.PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.QueryText) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query_text required")
	}
	resp := h.Orch.Plan(c.Request().Context(), req)
	return c.JSON(http.StatusOK, resp)
}
