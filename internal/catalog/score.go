package catalog

import (
	"strings"

	"github.com/vivi-ai/vivi-planner/internal/planner"
)

// relevanceScore is the provider-side relevance hint: a cheap heuristic that
// keeps combined results in a sensible order before the writer does its full
// scored-and-explained pass.
func relevanceScore(c planner.Candidate, query planner.MergedProfile) float64 {
	score := 0.0

	tags := make(map[string]struct{}, len(c.Tags))
	for _, tag := range c.Tags {
		tags[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}

	vibe := strings.ToLower(strings.TrimSpace(query.Vibe))
	if vibe != "" {
		if strings.EqualFold(strings.TrimSpace(c.Vibe), vibe) {
			score += 2.5
		} else if _, ok := tags[vibe]; ok {
			score += 1.5
		}
	}

	for _, like := range query.LikedKeywords {
		if _, ok := tags[strings.ToLower(strings.TrimSpace(like))]; ok {
			score += 1.2
		}
	}
	for _, tag := range query.TagKeywords {
		if _, ok := tags[strings.ToLower(strings.TrimSpace(tag))]; ok {
			score += 1.0
		}
	}

	if query.BudgetCap != nil {
		if level, ok := c.Price.Level(); ok {
			if level <= planner.BudgetLevel(*query.BudgetCap) {
				score += 1.0
			} else {
				score -= 1.0
			}
		}
	}

	return score
}
