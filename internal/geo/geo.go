// Package geo computes exploration progress over an H3 grid of the city.
package geo

import (
	"fmt"

	"github.com/uber/h3-go/v4"

	"github.com/vivi-ai/vivi-planner/config"
)

// Progress is how much of the city grid a set of users has visited.
type Progress struct {
	TotalCells   int     `json:"total_cells"`
	VisitedCells int     `json:"visited_cells"`
	Percent      float64 `json:"percent"`
	CenterLat    float64 `json:"center_lat"`
	CenterLng    float64 `json:"center_lng"`
	Resolution   int     `json:"resolution"`
}

// Explorer maps locations to H3 cells and scores visited cells against the
// configured city bounding box. The cell set is computed once at startup.
type Explorer struct {
	cfg  config.GeoConfig
	area map[string]struct{}
}

// NewExplorer builds the city grid from the configured bounding box.
func NewExplorer(cfg config.GeoConfig) (*Explorer, error) {
	if cfg.Resolution <= 0 {
		cfg.Resolution = 9
	}
	loop := h3.GeoLoop{
		h3.NewLatLng(cfg.MinLat, cfg.MinLng),
		h3.NewLatLng(cfg.MinLat, cfg.MaxLng),
		h3.NewLatLng(cfg.MaxLat, cfg.MaxLng),
		h3.NewLatLng(cfg.MaxLat, cfg.MinLng),
	}
	cells, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: loop}, cfg.Resolution)
	if err != nil {
		return nil, fmt.Errorf("build city grid: %w", err)
	}
	area := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		area[c.String()] = struct{}{}
	}
	return &Explorer{cfg: cfg, area: area}, nil
}

// CellFor returns the H3 cell index string for a coordinate at the explorer's
// resolution.
func (e *Explorer) CellFor(lat, lng float64) (string, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lng), e.cfg.Resolution)
	if err != nil {
		return "", fmt.Errorf("cell for %.4f,%.4f: %w", lat, lng, err)
	}
	return cell.String(), nil
}

// Progress scores the given visited cells against the city grid. Cells
// outside the bounding box do not count.
func (e *Explorer) Progress(visited []string) Progress {
	seen := make(map[string]struct{}, len(visited))
	for _, hex := range visited {
		if _, inArea := e.area[hex]; inArea {
			seen[hex] = struct{}{}
		}
	}
	total := len(e.area)
	p := Progress{
		TotalCells:   total,
		VisitedCells: len(seen),
		CenterLat:    e.cfg.CenterLat,
		CenterLng:    e.cfg.CenterLng,
		Resolution:   e.cfg.Resolution,
	}
	if total > 0 {
		p.Percent = float64(len(seen)) / float64(total) * 100
	}
	return p
}
