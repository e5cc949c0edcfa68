package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vivi-ai/vivi-planner/config"
	"github.com/vivi-ai/vivi-planner/internal/geo"
	"github.com/vivi-ai/vivi-planner/internal/store"
)

func testExplorer(t *testing.T) *geo.Explorer {
	t.Helper()
	e, err := geo.NewExplorer(config.GeoConfig{
		Resolution: 9,
		MinLat:     33.64, MinLng: -84.55,
		MaxLat: 33.90, MaxLng: -84.25,
		CenterLat: 33.7490, CenterLng: -84.3880,
	})
	if err != nil {
		t.Fatalf("new explorer: %v", err)
	}
	return e
}

func TestVisitRecordingFeedsProgress(t *testing.T) {
	e := newTestEcho()
	st := store.NewMemory()
	explorer := testExplorer(t)
	(&VisitsHandler{Store: st, Explorer: explorer}).Register(e.Group("/api/visits"))
	(&ProgressHandler{Store: st, Explorer: explorer}).Register(e.Group("/api/progress"))

	body := `{"user_id":"a","title":"Piedmont Park","lat":33.7851,"lng":-84.3738}`
	req := httptest.NewRequest(http.MethodPost, "/api/visits", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var saved store.Visit
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("bad visit json: %v", err)
	}
	if saved.ID == "" || saved.H3 == "" {
		t.Fatalf("expected id and h3 assigned, got %+v", saved)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/progress?user_ids=a", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var prog geo.Progress
	if err := json.Unmarshal(rec.Body.Bytes(), &prog); err != nil {
		t.Fatalf("bad progress json: %v", err)
	}
	if prog.VisitedCells != 1 {
		t.Fatalf("expected 1 visited cell, got %+v", prog)
	}
}

func TestListVisitsFiltersByUser(t *testing.T) {
	e := newTestEcho()
	st := store.NewMemory()
	(&VisitsHandler{Store: st, Explorer: testExplorer(t)}).Register(e.Group("/api/visits"))

	for _, body := range []string{
		`{"user_id":"a","title":"One","lat":33.75,"lng":-84.39}`,
		`{"user_id":"b","title":"Two","lat":33.76,"lng":-84.38}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/visits", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/visits?user_ids=a", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Visits []store.Visit `json:"visits"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(resp.Visits) != 1 || resp.Visits[0].UserID != "a" {
		t.Fatalf("expected only user a's visit, got %+v", resp.Visits)
	}
}
