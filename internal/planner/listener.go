package planner

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Listener turns a free-text group request into a structured Intent using
// keyword matching against a fixed vocabulary. It makes no external calls
// and never fails: unparseable input yields a default Intent.
type Listener struct{}

// NewListener creates a new listener instance
func NewListener() *Listener {
	return &Listener{}
}

// vibeVocabulary maps each known vibe to the phrases that signal it.
// Multi-word phrases are listed before their shorter cousins so that
// "board game" wins over "game".
var vibeVocabulary = []struct {
	vibe  string
	terms []string
}{
	{"chill", []string{"chill", "relax", "low-key", "lowkey", "mellow", "laid back", "casual"}},
	{"music", []string{"live music", "concert", "music", "band", "gig", "vinyl", "dj"}},
	{"outdoors", []string{"outdoors", "outdoor", "outside", "hike", "hiking", "kayak", "picnic", "park", "nature", "sunset"}},
	{"party", []string{"party", "dancing", "dance", "club", "rave", "night out", "nightlife"}},
	{"cozy", []string{"cozy", "cosy", "board game", "cafe", "coffee", "quiet", "intimate"}},
	{"creative", []string{"art", "gallery", "museum", "market", "craft", "maker", "creative", "pottery"}},
	{"social", []string{"brewery", "drinks", "beer", "trivia", "hang out", "hangout", "meet up", "meetup", "social", "bar"}},
	{"foodie", []string{"food", "dinner", "brunch", "restaurant", "tacos", "eat", "foodie", "snacks"}},
	{"sporty", []string{"sports", "sporty", "climbing", "bowling", "workout", "fitness", "active", "run"}},
}

var highEnergyTerms = []string{"party", "dance", "dancing", "club", "rave", "climbing", "run", "hype", "wild", "big night", "adventure", "active"}
var lowEnergyTerms = []string{"chill", "relax", "cozy", "cosy", "quiet", "calm", "low-key", "lowkey", "mellow", "laid back"}

var (
	dayHintRe   = regexp.MustCompile(`(?i)\b(tonight|today|tomorrow|this (?:weekend|week)|(?:mon|tues|wednes|thurs|fri|satur|sun)day(?: (?:morning|afternoon|evening|night))?)\b`)
	clockHintRe = regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s*(?:am|pm)?\s*[-–]\s*\d{1,2}(?::\d{2})?\s*(?:am|pm)\b|\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`)
	budgetRe    = regexp.MustCompile(`(?i)(?:under|below|max|up to)?\s*\$\s*(\d+(?:\.\d+)?)|(?i)\bunder\s+(\d+)\s*(?:bucks|dollars)\b`)
)

// Run extracts a structured intent from the request text.
func (l *Listener) Run(text string) Intent {
	lowered := strings.ToLower(text)

	type vibeMatch struct {
		vibe  string
		count int
		first int
	}
	var matches []vibeMatch
	for _, entry := range vibeVocabulary {
		count := 0
		first := len(lowered) + 1
		for _, term := range entry.terms {
			idx := strings.Index(lowered, term)
			if idx < 0 {
				continue
			}
			count++
			if idx < first {
				first = idx
			}
		}
		if count > 0 {
			matches = append(matches, vibeMatch{vibe: entry.vibe, count: count, first: first})
		}
	}
	// Most matched terms first; ties broken by where the vibe first appears
	// in the input text.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].count != matches[j].count {
			return matches[i].count > matches[j].count
		}
		return matches[i].first < matches[j].first
	})

	vibes := make([]string, 0, len(matches))
	for _, m := range matches {
		vibes = append(vibes, m.vibe)
	}
	if len(vibes) == 0 {
		vibes = []string{"chill"}
	}

	return Intent{
		PrimaryVibes: vibes,
		EnergyLevel:  extractEnergy(lowered),
		TimeHint:     extractTimeHint(text),
		BudgetHint:   extractBudgetHint(lowered),
	}
}

func extractEnergy(lowered string) EnergyLevel {
	high, low := 0, 0
	for _, term := range highEnergyTerms {
		if strings.Contains(lowered, term) {
			high++
		}
	}
	for _, term := range lowEnergyTerms {
		if strings.Contains(lowered, term) {
			low++
		}
	}
	switch {
	case high > low:
		return EnergyHigh
	case low > high:
		return EnergyLow
	default:
		return EnergyMedium
	}
}

func extractTimeHint(text string) string {
	var parts []string
	if day := dayHintRe.FindString(text); day != "" {
		parts = append(parts, strings.ToLower(day))
	}
	if clock := clockHintRe.FindString(text); clock != "" {
		parts = append(parts, strings.ToLower(strings.TrimSpace(clock)))
	}
	return strings.Join(parts, " ")
}

func extractBudgetHint(lowered string) *float64 {
	if m := budgetRe.FindStringSubmatch(lowered); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				return &v
			}
		}
	}
	if strings.Contains(lowered, "free ") || strings.HasSuffix(lowered, "free") {
		v := 0.0
		return &v
	}
	if strings.Contains(lowered, "cheap") || strings.Contains(lowered, "on a budget") {
		v := 20.0
		return &v
	}
	return nil
}
