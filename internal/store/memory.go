package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is the in-process Store used for demos and tests, mirroring the
// Postgres semantics (newest-first visit listing, distinct hexes).
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	visits   []Visit
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{profiles: make(map[string]Profile)}
}

func (m *Memory) UpsertProfile(_ context.Context, p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = p
	return nil
}

func (m *Memory) Profile(_ context.Context, userID string) (Profile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	return p, ok, nil
}

func (m *Memory) RecordVisit(_ context.Context, v Visit) (Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CompletedAt.IsZero() {
		v.CompletedAt = time.Now().UTC()
	}
	m.visits = append(m.visits, v)
	return v, nil
}

func (m *Memory) ListVisits(_ context.Context, userIDs []string, limit int) ([]Visit, error) {
	if limit <= 0 {
		limit = 100
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	filter := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		filter[id] = struct{}{}
	}

	out := make([]Visit, 0, len(m.visits))
	for _, v := range m.visits {
		if len(filter) > 0 {
			if _, ok := filter[v.UserID]; !ok {
				continue
			}
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) UserHexes(_ context.Context, userIDs []string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filter := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		filter[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, v := range m.visits {
		if v.H3 == "" {
			continue
		}
		if _, ok := filter[v.UserID]; !ok {
			continue
		}
		if _, ok := seen[v.H3]; ok {
			continue
		}
		seen[v.H3] = struct{}{}
		out = append(out, v.H3)
	}
	return out, nil
}
