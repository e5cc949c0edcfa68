package catalog

import (
	"context"
	"encoding/json"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/vivi-ai/vivi-planner/internal/planner"
)

// memoryCache is the in-process fallback cache.
type memoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates an in-process TTL cache for catalog searches.
func NewMemoryCache(ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &memoryCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]planner.Candidate, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false
	}
	items, ok := v.([]planner.Candidate)
	return items, ok
}

func (m *memoryCache) Set(_ context.Context, key string, items []planner.Candidate) {
	m.c.Set(key, items, gocache.DefaultExpiration)
}

// redisCache shares catalog results across instances. Cache trouble is
// logged and treated as a miss; the catalog always has the providers.
type redisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewRedisCache creates a redis-backed cache for catalog searches.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.New(log.Writer(), "[CATALOG] ", log.LstdFlags),
	}
}

func (r *redisCache) Get(ctx context.Context, key string) ([]planner.Candidate, bool) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Printf("redis get failed: %v", err)
		}
		return nil, false
	}
	var items []planner.Candidate
	if err := json.Unmarshal(raw, &items); err != nil {
		r.logger.Printf("redis cache entry corrupt: %v", err)
		return nil, false
	}
	return items, true
}

func (r *redisCache) Set(ctx context.Context, key string, items []planner.Candidate) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.Printf("redis set failed: %v", err)
	}
}
