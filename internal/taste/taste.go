// Package taste resolves per-user taste profiles for the planner.
package taste

import (
	"context"
	"hash/fnv"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/vivi-ai/vivi-planner/internal/planner"
	"github.com/vivi-ai/vivi-planner/internal/store"
)

// Source resolves taste profiles from the store, falling back to a
// deterministic mock profile for unknown users so planning never stalls on
// missing data. Lookups are cached for a short TTL because a group plan hits
// the same profiles several times per request.
type Source struct {
	store  store.Store
	cache  *gocache.Cache
	logger *log.Logger
}

// NewSource creates a taste source over the given store. A nil store is
// allowed; every lookup then resolves to a mock profile.
func NewSource(st store.Store, ttl time.Duration) *Source {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Source{
		store:  st,
		cache:  gocache.New(ttl, 2*ttl),
		logger: log.New(log.Writer(), "[TASTE] ", log.LstdFlags),
	}
}

// Taste returns the profile for userID. It never fails: store errors are
// logged and the mock profile is used instead.
func (s *Source) Taste(ctx context.Context, userID string) planner.TasteProfile {
	if v, ok := s.cache.Get(userID); ok {
		if p, ok := v.(planner.TasteProfile); ok {
			return p
		}
	}

	p := s.resolve(ctx, userID)
	s.cache.Set(userID, p, gocache.DefaultExpiration)
	return p
}

func (s *Source) resolve(ctx context.Context, userID string) planner.TasteProfile {
	if s.store != nil {
		stored, found, err := s.store.Profile(ctx, userID)
		if err != nil {
			s.logger.Printf("profile lookup failed for %s: %v", userID, err)
		} else if found {
			return planner.TasteProfile{
				UserID:        stored.UserID,
				Likes:         stored.Likes,
				Dislikes:      stored.Dislikes,
				Vibes:         stored.Vibes,
				BudgetMax:     stored.BudgetMax,
				DistanceKmMax: stored.DistanceKmMax,
				Tags:          stored.Tags,
			}
		}
	}
	return MockProfile(userID)
}

// mockTemplates are the demo personas. A user id always maps to the same
// persona, so repeated plans for the same group are reproducible.
var mockTemplates = []planner.TasteProfile{
	{
		Likes:         []string{"live music", "craft beer", "trivia"},
		Dislikes:      []string{"crowds"},
		Vibes:         []string{"music", "social"},
		BudgetMax:     f(40),
		DistanceKmMax: f(8),
		Tags:          []string{"bar", "indie"},
	},
	{
		Likes:         []string{"hiking", "picnic", "photography"},
		Dislikes:      []string{"loud venues"},
		Vibes:         []string{"outdoors", "chill"},
		BudgetMax:     f(20),
		DistanceKmMax: f(15),
		Tags:          []string{"park", "scenic"},
	},
	{
		Likes:         []string{"board games", "coffee", "bookstores"},
		Dislikes:      []string{"sports bars"},
		Vibes:         []string{"cozy", "chill"},
		BudgetMax:     f(25),
		DistanceKmMax: f(5),
		Tags:          []string{"cafe", "quiet"},
	},
	{
		Likes:         []string{"street food", "night markets", "tacos"},
		Dislikes:      []string{"formal dining"},
		Vibes:         []string{"foodie", "social"},
		BudgetMax:     f(35),
		DistanceKmMax: f(10),
		Tags:          []string{"food", "casual"},
	},
	{
		Likes:         []string{"dancing", "cocktails", "djs"},
		Dislikes:      []string{"early mornings"},
		Vibes:         []string{"party", "music"},
		BudgetMax:     f(60),
		DistanceKmMax: f(12),
		Tags:          []string{"nightlife", "dance"},
	},
}

// MockProfile returns a deterministic demo profile for the user id.
func MockProfile(userID string) planner.TasteProfile {
	h := fnv.New32a()
	h.Write([]byte(userID))
	tpl := mockTemplates[h.Sum32()%uint32(len(mockTemplates))]
	tpl.UserID = userID
	return tpl
}

func f(v float64) *float64 { return &v }
