// Package catalog implements the planner's CandidateSource: it fans a merged
// group profile out to the configured providers, rescores the combined
// results with a lightweight relevance heuristic, and caches searches.
package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sort"

	"github.com/vivi-ai/vivi-planner/internal/planner"
	"github.com/vivi-ai/vivi-planner/internal/telemetry"
)

// Provider is one upstream venue/event source. Providers may fail; the
// catalog tolerates that per provider and keeps going.
type Provider interface {
	Name() string
	Find(ctx context.Context, query planner.MergedProfile) ([]planner.Candidate, error)
}

// Cache stores search results keyed by query digest.
type Cache interface {
	Get(ctx context.Context, key string) ([]planner.Candidate, bool)
	Set(ctx context.Context, key string, items []planner.Candidate)
}

// Catalog aggregates providers behind the planner.CandidateSource contract.
type Catalog struct {
	providers  []Provider
	cache      Cache
	maxResults int
	telemetry  *telemetry.Telemetry
	logger     *log.Logger
}

// New creates a catalog over the given providers. cache may be nil.
func New(providers []Provider, cache Cache, maxResults int, tele *telemetry.Telemetry) *Catalog {
	if maxResults <= 0 {
		maxResults = 25
	}
	return &Catalog{
		providers:  providers,
		cache:      cache,
		maxResults: maxResults,
		telemetry:  tele,
		logger:     log.New(log.Writer(), "[CATALOG] ", log.LstdFlags),
	}
}

// Find never fails: provider errors are logged and skipped, and an empty
// result is a valid answer.
func (c *Catalog) Find(ctx context.Context, query planner.MergedProfile) []planner.Candidate {
	key := cacheKey(query)
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			return cached
		}
	}

	var merged []planner.Candidate
	for _, p := range c.providers {
		results, err := p.Find(ctx, query)
		if err != nil {
			c.logger.Printf("provider %s failed: %v", p.Name(), err)
			continue
		}
		c.telemetry.CatalogSearch(p.Name())
		merged = append(merged, results...)
	}

	// Re-score across providers so the best hits rise to the top regardless
	// of which source produced them.
	sort.SliceStable(merged, func(i, j int) bool {
		return relevanceScore(merged[i], query) > relevanceScore(merged[j], query)
	})
	if len(merged) > c.maxResults {
		merged = merged[:c.maxResults]
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, merged)
	}
	return merged
}

func cacheKey(query planner.MergedProfile) string {
	b, err := json.Marshal(query)
	if err != nil {
		return "catalog:unkeyed"
	}
	sum := sha256.Sum256(b)
	return "catalog:" + hex.EncodeToString(sum[:])
}
