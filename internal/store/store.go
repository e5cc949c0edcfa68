// Package store persists user taste profiles and visit history.
package store

import (
	"context"
	"time"
)

// Profile is a stored user taste profile.
type Profile struct {
	UserID        string   `json:"user_id"`
	Name          string   `json:"name,omitempty"`
	AvatarURL     string   `json:"avatar_url,omitempty"`
	Likes         []string `json:"likes"`
	Dislikes      []string `json:"dislikes"`
	Vibes         []string `json:"vibes"`
	BudgetMax     *float64 `json:"budget_max,omitempty"`
	DistanceKmMax *float64 `json:"distance_km_max,omitempty"`
	Tags          []string `json:"tags"`
}

// Visit is one recorded completed visit, with the H3 cell of its location.
type Visit struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	GroupID     string    `json:"group_id,omitempty"`
	PlaceID     string    `json:"place_id,omitempty"`
	Title       string    `json:"title"`
	Address     string    `json:"address,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	H3          string    `json:"h3,omitempty"`
	Rating      *int      `json:"rating,omitempty"`
	Review      string    `json:"review,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// Store is the persistence contract for profiles and visits.
type Store interface {
	UpsertProfile(ctx context.Context, p Profile) error
	Profile(ctx context.Context, userID string) (Profile, bool, error)
	RecordVisit(ctx context.Context, v Visit) (Visit, error)
	ListVisits(ctx context.Context, userIDs []string, limit int) ([]Visit, error)
	UserHexes(ctx context.Context, userIDs []string) ([]string, error)
}
