package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jackzampolin/provlink/internal/metrics"
)

// Cache stores fetched sources by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to redisURL. An empty URL returns nil, nil: no cache configured.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Health checks if the Redis connection is healthy.
func (c *RedisCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedFetcher reads through a Cache in front of another Fetcher. Cache
// failures are logged and fall through to the underlying fetcher.
type CachedFetcher struct {
	next    Fetcher
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewCachedFetcher wraps next with cache.
func NewCachedFetcher(next Fetcher, cache Cache, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *CachedFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFetcher{next: next, cache: cache, ttl: ttl, logger: logger, metrics: m}
}

// Fetch implements Fetcher.
func (f *CachedFetcher) Fetch(ctx context.Context, ref Ref) (*Source, error) {
	key := CacheKey(ref)

	b, ok, err := f.cache.Get(ctx, key)
	switch {
	case err != nil:
		f.metrics.IncrementCache("error")
		f.logger.Warn("document cache read failed", "key", key, "error", err)
	case ok:
		var src Source
		if err := json.Unmarshal(b, &src); err == nil {
			f.metrics.IncrementCache("hit")
			return &src, nil
		}
		f.logger.Warn("discarding corrupt cache entry", "key", key)
	default:
		f.metrics.IncrementCache("miss")
	}

	src, err := f.next.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(src); err == nil {
		if err := f.cache.Set(ctx, key, b, f.ttl); err != nil {
			f.logger.Warn("document cache write failed", "key", key, "error", err)
		}
	}
	return src, nil
}

// CacheKey is the cache key for a document.
func CacheKey(ref Ref) string {
	return "provlink:document:" + url.QueryEscape(ref.SubmissionID) + ":" + url.QueryEscape(ref.DocumentID)
}
