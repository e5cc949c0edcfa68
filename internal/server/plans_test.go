package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/vivi-ai/vivi-planner/config"
	"github.com/vivi-ai/vivi-planner/internal/catalog"
	"github.com/vivi-ai/vivi-planner/internal/planner"
	"github.com/vivi-ai/vivi-planner/internal/store"
	"github.com/vivi-ai/vivi-planner/internal/taste"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &requestValidator{v: validator.New()}
	return e
}

func newTestOrchestrator() *planner.Orchestrator {
	cfg := config.PlannerConfig{DefaultLocation: "Boston, MA", CardLimit: 20}
	cat := catalog.New(
		[]catalog.Provider{catalog.NewMock(10)},
		catalog.NewMemoryCache(time.Minute), 10, nil)
	tastes := taste.NewSource(store.NewMemory(), time.Minute)
	return planner.NewOrchestrator(cfg, tastes, cat, nil, nil)
}

func TestPlanEndpoint(t *testing.T) {
	e := newTestEcho()
	h := &PlanHandler{Orch: newTestOrchestrator()}
	h.Register(e.Group("/api"))

	body := `{"query_text":"live music tonight, cheap","user_ids":["a","b"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp planner.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp.MergedVibe == "" || resp.EnergyProfile == "" {
		t.Fatalf("expected merged vibe and energy, got %+v", resp)
	}
	if len(resp.ActionLog) == 0 {
		t.Fatalf("expected a non-empty action log")
	}
	if len(resp.Candidates) == 0 {
		t.Fatalf("expected ranked candidates from the mock catalog")
	}
}

func TestPlanEndpointRejectsEmptyQuery(t *testing.T) {
	e := newTestEcho()
	h := &PlanHandler{Orch: newTestOrchestrator()}
	h.Register(e.Group("/api"))

	req := httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(`{"user_ids":["a"]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
