// Package rediscache stores ranked recommendation lists in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

// KeyPrefix namespaces every key written by this service.
const KeyPrefix = "career-leader:rec:"

// Cache implements domain.RecommendationCache on top of go-redis.
type Cache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

var _ domain.RecommendationCache = (*Cache)(nil)

// New wraps a Redis client. A non-positive ttl keeps entries until evicted.
func New(rdb redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// NewClient parses a redis:// URL into a client.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=rediscache.NewClient: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Key builds the storage key for a catalog version and query key.
func Key(version, key string) string {
	return KeyPrefix + version + ":" + key
}

// Get returns the cached list. A miss is (nil, false, nil).
func (c *Cache) Get(ctx domain.Context, version, key string) ([]domain.Recommendation, bool, error) {
	ctx, span := otel.Tracer("cache.recommendations").Start(ctx, "recommendations.Get")
	defer span.End()
	b, err := c.rdb.Get(ctx, Key(version, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("op=rediscache.Get: %w", err)
	}
	var recs []domain.Recommendation
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, false, fmt.Errorf("op=rediscache.Get: decode: %w", err)
	}
	span.SetAttributes(attribute.Bool("cache.hit", true))
	return recs, true, nil
}

// Set stores a list under the version-scoped key.
func (c *Cache) Set(ctx domain.Context, version, key string, recs []domain.Recommendation) error {
	ctx, span := otel.Tracer("cache.recommendations").Start(ctx, "recommendations.Set")
	defer span.End()
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("op=rediscache.Set: encode: %w", err)
	}
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, Key(version, key), b, ttl).Err(); err != nil {
		return fmt.Errorf("op=rediscache.Set: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
