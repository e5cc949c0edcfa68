package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres is the durable Store implementation.
type Postgres struct {
	DB *sql.DB
}

// NewWithDSN opens a Postgres connection and verifies it.
func NewWithDSN(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	s := &Postgres{DB: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureSchema creates the tables when migrations have not run yet, which
// keeps local dev working without the migrate step.
func (s *Postgres) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			name TEXT,
			avatar_url TEXT,
			likes TEXT[] NOT NULL DEFAULT '{}',
			dislikes TEXT[] NOT NULL DEFAULT '{}',
			vibes TEXT[] NOT NULL DEFAULT '{}',
			budget_max DOUBLE PRECISION,
			distance_km_max DOUBLE PRECISION,
			tags TEXT[] NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS visits (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			group_id TEXT,
			place_id TEXT,
			title TEXT NOT NULL,
			address TEXT,
			lat DOUBLE PRECISION NOT NULL,
			lng DOUBLE PRECISION NOT NULL,
			h3 TEXT,
			rating INT,
			review TEXT,
			completed_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_user ON visits(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_h3_user ON visits(h3, user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// UpsertProfile creates or replaces a user profile.
func (s *Postgres) UpsertProfile(ctx context.Context, p Profile) error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (user_id, name, avatar_url, likes, dislikes, vibes, budget_max, distance_km_max, tags)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			likes = EXCLUDED.likes,
			dislikes = EXCLUDED.dislikes,
			vibes = EXCLUDED.vibes,
			budget_max = EXCLUDED.budget_max,
			distance_km_max = EXCLUDED.distance_km_max,
			tags = EXCLUDED.tags`,
		p.UserID, p.Name, p.AvatarURL,
		pq.Array(emptyIfNil(p.Likes)), pq.Array(emptyIfNil(p.Dislikes)), pq.Array(emptyIfNil(p.Vibes)),
		p.BudgetMax, p.DistanceKmMax, pq.Array(emptyIfNil(p.Tags)))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Profile fetches one user profile.
func (s *Postgres) Profile(ctx context.Context, userID string) (Profile, bool, error) {
	var p Profile
	var name, avatar sql.NullString
	var likes, dislikes, vibes, tags pq.StringArray
	err := s.DB.QueryRowContext(ctx, `
		SELECT user_id, name, avatar_url, likes, dislikes, vibes, budget_max, distance_km_max, tags
		FROM users WHERE user_id = $1`, userID).
		Scan(&p.UserID, &name, &avatar, &likes, &dislikes, &vibes, &p.BudgetMax, &p.DistanceKmMax, &tags)
	if err == sql.ErrNoRows {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, fmt.Errorf("get profile: %w", err)
	}
	p.Name = name.String
	p.AvatarURL = avatar.String
	p.Likes = likes
	p.Dislikes = dislikes
	p.Vibes = vibes
	p.Tags = tags
	return p, true, nil
}

// RecordVisit inserts a visit, assigning an id and timestamp when missing.
func (s *Postgres) RecordVisit(ctx context.Context, v Visit) (Visit, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CompletedAt.IsZero() {
		v.CompletedAt = time.Now().UTC()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO visits (id, user_id, group_id, place_id, title, address, lat, lng, h3, rating, review, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		v.ID, v.UserID, v.GroupID, v.PlaceID, v.Title, v.Address, v.Lat, v.Lng, v.H3, v.Rating, v.Review, v.CompletedAt)
	if err != nil {
		return Visit{}, fmt.Errorf("record visit: %w", err)
	}
	return v, nil
}

// ListVisits returns visits newest-first, optionally filtered by user ids.
func (s *Postgres) ListVisits(ctx context.Context, userIDs []string, limit int) ([]Visit, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows *sql.Rows
	var err error
	if len(userIDs) > 0 {
		rows, err = s.DB.QueryContext(ctx, `
			SELECT id, user_id, group_id, place_id, title, address, lat, lng, h3, rating, review, completed_at
			FROM visits WHERE user_id = ANY($1)
			ORDER BY completed_at DESC LIMIT $2`, pq.Array(userIDs), limit)
	} else {
		rows, err = s.DB.QueryContext(ctx, `
			SELECT id, user_id, group_id, place_id, title, address, lat, lng, h3, rating, review, completed_at
			FROM visits ORDER BY completed_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var groupID, placeID, address, h3, review sql.NullString
		if err := rows.Scan(&v.ID, &v.UserID, &groupID, &placeID, &v.Title, &address, &v.Lat, &v.Lng, &h3, &v.Rating, &review, &v.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.GroupID = groupID.String
		v.PlaceID = placeID.String
		v.Address = address.String
		v.H3 = h3.String
		v.Review = review.String
		out = append(out, v)
	}
	return out, rows.Err()
}

// UserHexes returns the distinct H3 cells the given users have visited.
func (s *Postgres) UserHexes(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT DISTINCT h3 FROM visits
		WHERE user_id = ANY($1) AND h3 IS NOT NULL AND h3 <> ''`, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("user hexes: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var hex string
		if err := rows.Scan(&hex); err != nil {
			return nil, fmt.Errorf("scan hex: %w", err)
		}
		out = append(out, hex)
	}
	return out, rows.Err()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
