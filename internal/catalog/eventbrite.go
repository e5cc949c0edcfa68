package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vivi-ai/vivi-planner/config"
	"github.com/vivi-ai/vivi-planner/internal/planner"
)

// Eventbrite searches the Eventbrite v3 API. It is optional: when no API key
// is configured every search fails fast and the catalog falls back to its
// other providers.
type Eventbrite struct {
	apiKey     string
	endpoint   string
	maxResults int
	httpClient *http.Client
	logger     *log.Logger
}

// NewEventbrite creates the provider from config.
func NewEventbrite(cfg config.EventbriteConfig) *Eventbrite {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = "https://www.eventbriteapi.com/v3"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	return &Eventbrite{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.New(log.Writer(), "[EVENTBRITE] ", log.LstdFlags),
	}
}

func (e *Eventbrite) Name() string { return "eventbrite" }

type eventbriteResponse struct {
	Events []struct {
		ID   string `json:"id"`
		Name struct {
			Text string `json:"text"`
		} `json:"name"`
		Summary string `json:"summary"`
		URL     string `json:"url"`
		IsFree  bool   `json:"is_free"`
		Venue   struct {
			Latitude  string `json:"latitude"`
			Longitude string `json:"longitude"`
			Address   struct {
				LocalizedAddressDisplay string `json:"localized_address_display"`
			} `json:"address"`
		} `json:"venue"`
		Category struct {
			Name string `json:"name"`
		} `json:"category"`
		Format struct {
			Name string `json:"name"`
		} `json:"format"`
	} `json:"events"`
}

// Find searches upcoming events near the query location using the query vibe
// and liked keywords as search terms.
func (e *Eventbrite) Find(ctx context.Context, query planner.MergedProfile) ([]planner.Candidate, error) {
	if strings.TrimSpace(e.apiKey) == "" {
		return nil, fmt.Errorf("eventbrite api key not configured")
	}

	terms := append([]string{query.Vibe}, query.LikedKeywords...)
	params := url.Values{}
	params.Set("q", strings.TrimSpace(strings.Join(terms, " ")))
	params.Set("expand", "venue,category,format")
	params.Set("page_size", strconv.Itoa(e.maxResults))
	if query.Location != "" {
		params.Set("location.address", query.Location)
	}
	if query.DistanceCap != nil {
		params.Set("location.within", fmt.Sprintf("%.0fkm", *query.DistanceCap))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", e.endpoint+"/events/search/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var payload eventbriteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	candidates := make([]planner.Candidate, 0, len(payload.Events))
	for _, ev := range payload.Events {
		price := planner.PriceTwo
		if ev.IsFree {
			price = planner.PriceFree
		}
		lat, _ := strconv.ParseFloat(ev.Venue.Latitude, 64)
		lng, _ := strconv.ParseFloat(ev.Venue.Longitude, 64)
		// Tags come from the event's own taxonomy; echoing query keywords
		// back as tags would let every result fire the writer's overlap
		// signals for free.
		var tags []string
		if name := strings.TrimSpace(ev.Category.Name); name != "" {
			tags = append(tags, strings.ToLower(name))
		}
		if name := strings.TrimSpace(ev.Format.Name); name != "" {
			tags = append(tags, strings.ToLower(name))
		}
		candidates = append(candidates, planner.Candidate{
			ID:         "eb-" + ev.ID,
			Title:      ev.Name.Text,
			Vibe:       query.Vibe,
			Price:      price,
			Address:    ev.Venue.Address.LocalizedAddressDisplay,
			Lat:        lat,
			Lng:        lng,
			BookingURL: ev.URL,
			Tags:       tags,
			Summary:    ev.Summary,
			Source:     "eventbrite",
		})
	}
	return candidates, nil
}
