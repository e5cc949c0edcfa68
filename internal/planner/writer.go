package planner

import (
	"fmt"
	"sort"
	"strings"
)

// Writer scores and explains each candidate against the merged group profile,
// producing plan cards ordered by group score. Deterministic given identical
// inputs; it never drops candidates on its own.
type Writer struct{}

// NewWriter creates a new writer instance
func NewWriter() *Writer {
	return &Writer{}
}

// Score deltas for the independent ranking signals.
const (
	vibeExactScore   = 2.5
	vibeTagScore     = 1.5
	likedTermScore   = 1.2
	tagTermScore     = 1.0
	budgetFitScore   = 1.0
	distanceFitScore = 1.0
)

// Run builds one card per candidate and returns them sorted by group score
// descending. Ties keep discovery order (stable sort).
func (w *Writer) Run(merged MergedProfile, candidates []Candidate) []PlanCard {
	cards := make([]PlanCard, 0, len(candidates))
	for _, c := range candidates {
		score, reasons := w.scoreCandidate(merged, c)
		cards = append(cards, PlanCard{
			Title:      c.Title,
			Subtitle:   c.Address,
			Time:       merged.TimeWindow,
			Price:      string(c.Price),
			Vibe:       c.Vibe,
			Energy:     string(merged.EnergyLevel),
			Address:    c.Address,
			Lat:        c.Lat,
			Lng:        c.Lng,
			DistanceKm: c.DistanceKm,
			BookingURL: c.BookingURL,
			MapsURL:    c.MapsURL,
			Summary:    c.Summary,
			GroupScore: score,
			Reasons:    reasons,
			Source:     c.Source,
		})
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].GroupScore > cards[j].GroupScore
	})
	return cards
}

func (w *Writer) scoreCandidate(merged MergedProfile, c Candidate) (float64, []string) {
	score := 0.0
	reasons := []string{}

	tagSet := make(map[string]struct{}, len(c.Tags))
	for _, tag := range c.Tags {
		tagSet[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}

	vibe := strings.ToLower(strings.TrimSpace(merged.Vibe))
	if vibe != "" {
		if strings.EqualFold(strings.TrimSpace(c.Vibe), vibe) {
			score += vibeExactScore
			reasons = append(reasons, fmt.Sprintf("matches your group's %s vibe", vibe))
		} else if _, ok := tagSet[vibe]; ok {
			score += vibeTagScore
			reasons = append(reasons, fmt.Sprintf("tagged with %s", vibe))
		}
	}

	for _, term := range merged.LikedKeywords {
		if _, ok := tagSet[strings.ToLower(strings.TrimSpace(term))]; ok {
			score += likedTermScore
			reasons = append(reasons, fmt.Sprintf("matches a group favorite: %s", term))
		}
	}
	for _, term := range merged.TagKeywords {
		if _, ok := tagSet[strings.ToLower(strings.TrimSpace(term))]; ok {
			score += tagTermScore
			reasons = append(reasons, fmt.Sprintf("matches a shared tag: %s", term))
		}
	}

	if merged.BudgetCap != nil {
		if level, ok := c.Price.Level(); ok {
			if level <= BudgetLevel(*merged.BudgetCap) {
				score += budgetFitScore
				reasons = append(reasons, "within budget")
			} else {
				score -= budgetFitScore
			}
		}
	}

	if merged.DistanceCap != nil && c.DistanceKm != nil {
		if *c.DistanceKm <= *merged.DistanceCap {
			score += distanceFitScore
			reasons = append(reasons, "nearby")
		} else {
			score -= distanceFitScore
		}
	}

	return score, reasons
}
