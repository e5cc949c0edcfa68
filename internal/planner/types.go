package planner

import (
	"context"
	"strings"
)

// EnergyLevel is a coarse activity-intensity classification derived from request text.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// ParseEnergyLevel normalizes arbitrary input to a known level, defaulting to medium.
func ParseEnergyLevel(s string) EnergyLevel {
	switch EnergyLevel(strings.ToLower(strings.TrimSpace(s))) {
	case EnergyLow:
		return EnergyLow
	case EnergyHigh:
		return EnergyHigh
	default:
		return EnergyMedium
	}
}

// PriceBand is a discretized cost tier used to compare a candidate's price
// against a budget ceiling.
type PriceBand string

const (
	PriceFree  PriceBand = "free"
	PriceOne   PriceBand = "$"
	PriceTwo   PriceBand = "$$"
	PriceThree PriceBand = "$$$"
	PriceFour  PriceBand = "$$$$"
)

var priceLevels = map[PriceBand]int{
	PriceFree:  0,
	PriceOne:   1,
	PriceTwo:   2,
	PriceThree: 3,
	PriceFour:  4,
}

// Level returns the ordinal price level for the band. ok is false for
// unknown or missing bands.
func (p PriceBand) Level() (int, bool) {
	lvl, ok := priceLevels[PriceBand(strings.ToLower(strings.TrimSpace(string(p))))]
	return lvl, ok
}

// BudgetLevel maps a numeric budget cap onto the price-band scale.
func BudgetLevel(cap float64) int {
	switch {
	case cap <= 0:
		return 0
	case cap <= 20:
		return 1
	case cap <= 45:
		return 2
	case cap <= 75:
		return 3
	default:
		return 4
	}
}

// TasteProfile is one user's taste profile. Immutable once fetched for the
// lifetime of a planning request.
type TasteProfile struct {
	UserID        string   `json:"user_id"`
	Likes         []string `json:"likes"`
	Dislikes      []string `json:"dislikes"`
	Vibes         []string `json:"vibes"`
	BudgetMax     *float64 `json:"budget_max,omitempty"`
	DistanceKmMax *float64 `json:"distance_km_max,omitempty"`
	Tags          []string `json:"tags"`
}

// Intent is the structured form of a free-text request. Produced once per
// request by the Listener; never mutated afterward.
type Intent struct {
	PrimaryVibes []string    `json:"primary_vibes"`
	EnergyLevel  EnergyLevel `json:"energy_level"`
	TimeHint     string      `json:"time_hint,omitempty"`
	BudgetHint   *float64    `json:"budget_hint,omitempty"`
}

// TopVibe returns the highest-ranked vibe, or the given fallback.
func (i Intent) TopVibe(fallback string) string {
	if len(i.PrimaryVibes) > 0 && i.PrimaryVibes[0] != "" {
		return i.PrimaryVibes[0]
	}
	return fallback
}

// MergedProfile is the group profile built once per planning attempt. Every
// field has a safe default so downstream stages never see missing required
// fields.
type MergedProfile struct {
	Vibe          string      `json:"vibe"`
	EnergyLevel   EnergyLevel `json:"energy_level"`
	Location      string      `json:"location"`
	TimeWindow    string      `json:"time_window,omitempty"`
	BudgetCap     *float64    `json:"budget_cap,omitempty"`
	DistanceCap   *float64    `json:"distance_cap,omitempty"`
	LikedKeywords []string    `json:"liked_keywords"`
	TagKeywords   []string    `json:"tag_keywords"`
}

// Candidate is a venue or event returned by a candidate source. Transient,
// fetched fresh per request; never persisted by the core.
type Candidate struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Vibe       string    `json:"vibe"`
	Price      PriceBand `json:"price,omitempty"`
	Address    string    `json:"address,omitempty"`
	Lat        float64   `json:"lat,omitempty"`
	Lng        float64   `json:"lng,omitempty"`
	DistanceKm *float64  `json:"distance_km,omitempty"`
	BookingURL string    `json:"booking_url,omitempty"`
	MapsURL    string    `json:"maps_url,omitempty"`
	Tags       []string  `json:"tags"`
	Summary    string    `json:"summary,omitempty"`
	Source     string    `json:"source"`
}

// PlanCard is one ranked, explained plan suggestion.
type PlanCard struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle,omitempty"`
	Time       string   `json:"time,omitempty"`
	Price      string   `json:"price,omitempty"`
	Vibe       string   `json:"vibe,omitempty"`
	Energy     string   `json:"energy,omitempty"`
	Address    string   `json:"address,omitempty"`
	Lat        float64  `json:"lat,omitempty"`
	Lng        float64  `json:"lng,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	BookingURL string   `json:"booking_url,omitempty"`
	MapsURL    string   `json:"maps_url,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	GroupScore float64  `json:"group_score"`
	Reasons    []string `json:"reasons"`
	Source     string   `json:"source"`
}

// PlanRequest is an incoming group planning request.
type PlanRequest struct {
	QueryText    string   `json:"query_text" validate:"required"`
	UserIDs      []string `json:"user_ids"`
	LocationHint string   `json:"location_hint,omitempty"`
	TimeWindow   string   `json:"time_window,omitempty"`
	VibeHint     string   `json:"vibe_hint,omitempty"`
	BudgetCap    *float64 `json:"budget_cap,omitempty"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
	CustomLikes  []string `json:"custom_likes,omitempty"`
	CustomTags   []string `json:"custom_tags,omitempty"`
}

// PlanResponse is the ranked, explained planning result.
type PlanResponse struct {
	QueryNormalized string      `json:"query_normalized"`
	MergedVibe      string      `json:"merged_vibe"`
	EnergyProfile   EnergyLevel `json:"energy_profile"`
	Candidates      []PlanCard  `json:"candidates"`
	ActionLog       []string    `json:"action_log"`
}

// TasteSource yields a taste profile for a user. Implementations never fail:
// an unknown user yields a default/mock profile.
type TasteSource interface {
	Taste(ctx context.Context, userID string) TasteProfile
}

// CandidateSource searches for candidate venues/events matching the merged
// group profile. Implementations never fail; provider trouble surfaces as an
// empty result.
type CandidateSource interface {
	Find(ctx context.Context, query MergedProfile) []Candidate
}

// Decision is one step decision from the external reasoner.
type Decision struct {
	Action    string       `json:"action"`
	Args      DecisionArgs `json:"args"`
	Rationale string       `json:"rationale,omitempty"`
}

// DecisionArgs carries optional arguments for a decided action.
type DecisionArgs struct {
	UserIDs   []string       `json:"user_ids,omitempty"`
	Overrides MergeOverrides `json:"overrides,omitempty"`
}

// MergeOverrides lets the reasoner pin individual merged-profile fields.
type MergeOverrides struct {
	Location    string `json:"location,omitempty"`
	TimeWindow  string `json:"time_window,omitempty"`
	Vibe        string `json:"vibe,omitempty"`
	EnergyLevel string `json:"energy_level,omitempty"`
}

// DecisionPrompt is the input to a reasoner step.
type DecisionPrompt struct {
	System string
	State  string
}

// StepReasoner asks an external reasoning service for the next action.
// Best effort: any error is treated by the caller exactly like "no action".
type StepReasoner interface {
	Decide(ctx context.Context, prompt DecisionPrompt) (Decision, error)
}
