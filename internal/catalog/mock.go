package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/vivi-ai/vivi-planner/internal/planner"
)

// Mock is an offline fallback for the live place/event providers. When API
// keys are missing in local or demo environments we still want the map and
// planner to feel alive, so it serves a curated Cambridge/Boston data set
// lightly scored against the incoming query.
type Mock struct {
	limit int
}

// NewMock creates the offline provider. limit caps results per search.
func NewMock(limit int) *Mock {
	if limit <= 0 {
		limit = 20
	}
	return &Mock{limit: limit}
}

func (m *Mock) Name() string { return "mock" }

// Find filters the curated set by the query vibe and orders it by the
// relevance heuristic. Vibe filtering degrades gracefully: exact vibe
// matches first, then tag matches, then the whole set, so a niche vibe
// never empties the demo catalog.
func (m *Mock) Find(_ context.Context, query planner.MergedProfile) ([]planner.Candidate, error) {
	events := filterByVibe(mockEvents, query.Vibe)

	scored := make([]planner.Candidate, len(events))
	copy(scored, events)
	sort.SliceStable(scored, func(i, j int) bool {
		return relevanceScore(scored[i], query) > relevanceScore(scored[j], query)
	})

	if len(scored) > m.limit {
		scored = scored[:m.limit]
	}
	return scored, nil
}

func filterByVibe(events []planner.Candidate, vibe string) []planner.Candidate {
	vibe = strings.ToLower(strings.TrimSpace(vibe))
	if vibe == "" {
		return events
	}
	var exact, tagged []planner.Candidate
	for _, e := range events {
		if strings.EqualFold(e.Vibe, vibe) {
			exact = append(exact, e)
			continue
		}
		for _, tag := range e.Tags {
			if strings.EqualFold(tag, vibe) {
				tagged = append(tagged, e)
				break
			}
		}
	}
	if len(exact) > 0 {
		return exact
	}
	if len(tagged) > 0 {
		return tagged
	}
	return events
}

func km(v float64) *float64 { return &v }

var mockEvents = []planner.Candidate{
	{
		ID:         "gp-charles-river-espl",
		Title:      "Charles River Esplanade",
		Vibe:       "outdoors",
		Price:      planner.PriceFree,
		Address:    "Storrow Dr, Boston, MA 02114",
		Lat:        42.3554,
		Lng:        -71.0721,
		DistanceKm: km(1.2),
		MapsURL:    "https://maps.google.com/?q=Charles+River+Esplanade",
		Tags:       []string{"park", "scenic", "running", "cycling"},
		Summary:    "Riverfront greenway with sunset views, perfect for picnics and casual walks.",
		Source:     "google_places",
	},
	{
		ID:         "gp-aeronaut-brewing",
		Title:      "Aeronaut Brewing Co.",
		Vibe:       "social",
		Price:      planner.PriceTwo,
		Address:    "14 Tyler St, Somerville, MA 02143",
		Lat:        42.3807,
		Lng:        -71.0989,
		DistanceKm: km(2.4),
		BookingURL: "https://www.aeronautbrewing.com/",
		MapsURL:    "https://maps.google.com/?q=Aeronaut+Brewing+Co",
		Tags:       []string{"brewery", "live music", "nightlife"},
		Summary:    "Community-oriented taproom with rotating events, trivia, and live sets.",
		Source:     "google_places",
	},
	{
		ID:         "gp-bow-market",
		Title:      "Bow Market",
		Vibe:       "creative",
		Price:      planner.PriceOne,
		Address:    "1 Bow Market Way, Somerville, MA 02143",
		Lat:        42.3797,
		Lng:        -71.0966,
		DistanceKm: km(2.1),
		BookingURL: "https://www.bowmarketsomerville.com/",
		MapsURL:    "https://maps.google.com/?q=Bow+Market",
		Tags:       []string{"market", "artisanal", "food hall"},
		Summary:    "Open-air courtyard of indie food stalls, makers, and pop-up performances.",
		Source:     "google_places",
	},
	{
		ID:         "gp-the-sinclair",
		Title:      "The Sinclair",
		Vibe:       "music",
		Price:      planner.PriceTwo,
		Address:    "52 Church St, Cambridge, MA 02138",
		Lat:        42.3736,
		Lng:        -71.1202,
		DistanceKm: km(0.6),
		BookingURL: "https://www.sinclaircambridge.com/",
		MapsURL:    "https://maps.google.com/?q=The+Sinclair",
		Tags:       []string{"concert venue", "nightlife", "indie"},
		Summary:    "Intimate Harvard Square venue hosting touring bands and themed DJ nights.",
		Source:     "google_places",
	},
	{
		ID:         "gp-nightshift-lovejoy",
		Title:      "Nightshift Brewing Lovejoy Wharf",
		Vibe:       "social",
		Price:      planner.PriceTwo,
		Address:    "1 Lovejoy Wharf, Boston, MA 02114",
		Lat:        42.3675,
		Lng:        -71.0604,
		DistanceKm: km(2.7),
		BookingURL: "https://www.nightshiftbrewing.com/locations/lovejoy-wharf/",
		MapsURL:    "https://maps.google.com/?q=Nightshift+Brewing+Lovejoy+Wharf",
		Tags:       []string{"brewery", "harbor", "patio"},
		Summary:    "Large taproom on the Boston Harbor with board games and frequent pop-up events.",
		Source:     "google_places",
	},
	{
		ID:         "eb-sunset-kayak",
		Title:      "Sunset Kayak Social on the Charles",
		Vibe:       "outdoors",
		Price:      planner.PriceTwo,
		Address:    "Charles River Canoe & Kayak, Cambridge, MA",
		Lat:        42.3621,
		Lng:        -71.1132,
		DistanceKm: km(1.8),
		BookingURL: "https://www.eventbrite.com/e/sunset-kayak-social-tickets-123456789",
		MapsURL:    "https://maps.google.com/?q=Charles+River+Canoe+%26+Kayak",
		Tags:       []string{"kayaking", "sunset", "fitness"},
		Summary:    "Group paddle with instructors, capped with snacks on the dock.",
		Source:     "eventbrite",
	},
	{
		ID:         "eb-vinyl-night",
		Title:      "Vinyl Night at Lamplighter Brewing",
		Vibe:       "music",
		Price:      planner.PriceOne,
		Address:    "Lamplighter Brewing Co., Cambridge, MA",
		Lat:        42.3649,
		Lng:        -71.1016,
		DistanceKm: km(1.1),
		BookingURL: "https://www.eventbrite.com/e/vinyl-night-at-lamplighter-tickets-234567891",
		MapsURL:    "https://maps.google.com/?q=Lamplighter+Brewing+Co",
		Tags:       []string{"vinyl", "craft beer", "nightlife"},
		Summary:    "Bring your records, trade picks with the DJ, and enjoy small-batch pours.",
		Source:     "eventbrite",
	},
	{
		ID:         "eb-pop-up-market",
		Title:      "Central Square Night Market",
		Vibe:       "creative",
		Price:      planner.PriceFree,
		Address:    "Central Square, Cambridge, MA",
		Lat:        42.3654,
		Lng:        -71.1037,
		DistanceKm: km(0.8),
		BookingURL: "https://www.eventbrite.com/e/central-square-night-market-tickets-345678912",
		MapsURL:    "https://maps.google.com/?q=Central+Square+Cambridge",
		Tags:       []string{"market", "art", "food trucks"},
		Summary:    "Monthly open-air bazaar with live DJs, street food, and local makers.",
		Source:     "eventbrite",
	},
	{
		ID:         "eb-board-game-cafe",
		Title:      "Board Game Meetup at Knight Moves",
		Vibe:       "cozy",
		Price:      planner.PriceOne,
		Address:    "Knight Moves Cafe, Brookline, MA",
		Lat:        42.3419,
		Lng:        -71.1219,
		DistanceKm: km(4.7),
		BookingURL: "https://www.eventbrite.com/e/board-game-meetup-tickets-456789123",
		MapsURL:    "https://maps.google.com/?q=Knight+Moves+Cafe",
		Tags:       []string{"board games", "cafe", "social"},
		Summary:    "Reserve a table and dive into strategy classics with other gamers.",
		Source:     "eventbrite",
	},
	{
		ID:         "eb-silent-disco",
		Title:      "Rooftop Silent Disco",
		Vibe:       "party",
		Price:      planner.PriceTwo,
		Address:    "Envoy Hotel Rooftop, Boston, MA",
		Lat:        42.3525,
		Lng:        -71.0436,
		DistanceKm: km(3.5),
		BookingURL: "https://www.eventbrite.com/e/rooftop-silent-disco-tickets-567891234",
		MapsURL:    "https://maps.google.com/?q=Envoy+Hotel+Rooftop",
		Tags:       []string{"dance", "nightlife", "skyline"},
		Summary:    "Choose your channel and dance the night away above the Seaport skyline.",
		Source:     "eventbrite",
	},
}
