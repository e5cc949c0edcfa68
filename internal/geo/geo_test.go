package geo

import (
	"testing"

	"github.com/vivi-ai/vivi-planner/config"
)

func testConfig() config.GeoConfig {
	return config.GeoConfig{
		Resolution: 9,
		MinLat:     33.64,
		MinLng:     -84.55,
		MaxLat:     33.90,
		MaxLng:     -84.25,
		CenterLat:  33.7490,
		CenterLng:  -84.3880,
	}
}

func TestCellForDeterministic(t *testing.T) {
	e, err := NewExplorer(testConfig())
	if err != nil {
		t.Fatalf("new explorer: %v", err)
	}
	a, err := e.CellFor(33.7490, -84.3880)
	if err != nil {
		t.Fatalf("cell for center: %v", err)
	}
	b, err := e.CellFor(33.7490, -84.3880)
	if err != nil {
		t.Fatalf("cell for center: %v", err)
	}
	if a == "" || a != b {
		t.Fatalf("expected stable non-empty cell, got %q and %q", a, b)
	}
}

func TestProgressCountsOnlyCellsInArea(t *testing.T) {
	e, err := NewExplorer(testConfig())
	if err != nil {
		t.Fatalf("new explorer: %v", err)
	}

	empty := e.Progress(nil)
	if empty.VisitedCells != 0 || empty.Percent != 0 {
		t.Fatalf("expected zero progress, got %+v", empty)
	}
	if empty.TotalCells == 0 {
		t.Fatalf("expected non-empty city grid")
	}

	inside, err := e.CellFor(33.7490, -84.3880)
	if err != nil {
		t.Fatalf("cell for center: %v", err)
	}
	outside, err := e.CellFor(40.7128, -74.0060) // New York, off the grid
	if err != nil {
		t.Fatalf("cell for nyc: %v", err)
	}

	p := e.Progress([]string{inside, outside, inside})
	if p.VisitedCells != 1 {
		t.Fatalf("expected 1 visited cell, got %d", p.VisitedCells)
	}
	if p.Percent <= 0 || p.Percent > 100 {
		t.Fatalf("percent out of range: %v", p.Percent)
	}
}
