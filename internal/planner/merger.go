package planner

import "strings"

// Merger combines N taste profiles into one group profile using
// deterministic aggregation rules. Pure function of its input.
type Merger struct{}

// NewMerger creates a new merger instance
func NewMerger() *Merger {
	return &Merger{}
}

// Merge aggregates the given profiles in input order. An empty input yields
// an all-default profile. Budget and distance caps take the minimum across
// members so the group plan satisfies its most constrained member.
func (m *Merger) Merge(profiles []TasteProfile) MergedProfile {
	merged := MergedProfile{
		Vibe:          "chill",
		EnergyLevel:   EnergyMedium,
		LikedKeywords: []string{},
		TagKeywords:   []string{},
	}

	vibeCounts := make(map[string]int)
	var vibeOrder []string
	for _, p := range profiles {
		for _, vibe := range p.Vibes {
			key := strings.ToLower(strings.TrimSpace(vibe))
			if key == "" {
				continue
			}
			if vibeCounts[key] == 0 {
				vibeOrder = append(vibeOrder, key)
			}
			vibeCounts[key]++
		}
		if p.BudgetMax != nil {
			if merged.BudgetCap == nil || *p.BudgetMax < *merged.BudgetCap {
				v := *p.BudgetMax
				merged.BudgetCap = &v
			}
		}
		if p.DistanceKmMax != nil {
			if merged.DistanceCap == nil || *p.DistanceKmMax < *merged.DistanceCap {
				v := *p.DistanceKmMax
				merged.DistanceCap = &v
			}
		}
		merged.LikedKeywords = appendUnique(merged.LikedKeywords, p.Likes)
		merged.TagKeywords = appendUnique(merged.TagKeywords, p.Tags)
	}

	// Most frequent vibe wins; ties go to the vibe seen first across
	// profiles in input order.
	best := ""
	bestCount := 0
	for _, vibe := range vibeOrder {
		if vibeCounts[vibe] > bestCount {
			best = vibe
			bestCount = vibeCounts[vibe]
		}
	}
	if best != "" {
		merged.Vibe = best
	}

	return merged
}

// appendUnique appends items not yet present, comparing case-insensitively
// but preserving the casing of the first occurrence.
func appendUnique(dst []string, items []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, existing := range dst {
		seen[strings.ToLower(existing)] = struct{}{}
	}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, item)
	}
	return dst
}
