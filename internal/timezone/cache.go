package timezone

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"vietchef/backend/internal/metrics"
)

// Cache stores resolved zone ids keyed by the raw address string.
type Cache interface {
	Get(ctx context.Context, address string) (string, bool)
	Set(ctx context.Context, address, zone string)
}

// MemoryCache is a bounded in-process cache with per-entry expiry.
type MemoryCache struct {
	lru *expirable.LRU[string, string]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, address string) (string, bool) {
	return c.lru.Get(address)
}

func (c *MemoryCache) Set(_ context.Context, address, zone string) {
	c.lru.Add(address, zone)
}

func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// RedisCache shares resolved zones between instances. Redis errors are logged
// and treated as misses.
type RedisCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedisCache(client redis.Cmdable, prefix string, ttl time.Duration, log *slog.Logger) *RedisCache {
	if prefix == "" {
		prefix = "vietchef:tz:"
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl, log: log}
}

func (c *RedisCache) Get(ctx context.Context, address string) (string, bool) {
	zone, err := c.client.Get(ctx, c.prefix+address).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "timezone cache read failed", slog.Any("err", err))
		}
		return "", false
	}
	return zone, true
}

func (c *RedisCache) Set(ctx context.Context, address, zone string) {
	if err := c.client.Set(ctx, c.prefix+address, zone, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "timezone cache write failed", slog.Any("err", err))
	}
}

// TieredCache reads the in-process tier first and backfills it from the shared tier.
type TieredCache struct {
	local   *MemoryCache
	shared  Cache
	metrics *metrics.Metrics
}

// NewTieredCache builds a two-tier cache. shared may be nil.
func NewTieredCache(local *MemoryCache, shared Cache, m *metrics.Metrics) *TieredCache {
	return &TieredCache{local: local, shared: shared, metrics: m}
}

func (c *TieredCache) Get(ctx context.Context, address string) (string, bool) {
	if zone, ok := c.local.Get(ctx, address); ok {
		c.metrics.CacheLookup("memory", true)
		return zone, true
	}
	c.metrics.CacheLookup("memory", false)

	if c.shared == nil {
		return "", false
	}
	zone, ok := c.shared.Get(ctx, address)
	c.metrics.CacheLookup("redis", ok)
	if ok {
		c.local.Set(ctx, address, zone)
	}
	return zone, ok
}

func (c *TieredCache) Set(ctx context.Context, address, zone string) {
	c.local.Set(ctx, address, zone)
	if c.shared != nil {
		c.shared.Set(ctx, address, zone)
	}
}
