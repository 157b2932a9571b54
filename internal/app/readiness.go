package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

// Pinger is the minimal interface for a database pool capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// RedisPingResult is the minimal return type of a Redis client's Ping.
type RedisPingResult interface{ Err() error }

// RedisClient is the minimal interface for a Redis client needed for readiness.
type RedisClient interface {
	Ping(ctx context.Context) RedisPingResult
}

// ReadinessChecks are the probes behind /readyz. A nil check is skipped.
type ReadinessChecks struct {
	Catalog func(ctx context.Context) error
	DB      func(ctx context.Context) error
	Redis   func(ctx context.Context) error
}

// BuildReadinessChecks returns the catalog, db and redis probes. The db and
// redis probes are nil when the backing store is not configured, since the
// service runs without them.
func BuildReadinessChecks(src domain.CatalogSource, pool Pinger, rdb RedisClient) ReadinessChecks {
	var rc ReadinessChecks
	rc.Catalog = func(_ context.Context) error {
		snap := src.Current()
		if snap == nil || len(snap.Questions) == 0 {
			return fmt.Errorf("%w: no questions loaded", domain.ErrCatalogIncomplete)
		}
		if len(snap.Careers) == 0 {
			return fmt.Errorf("%w: no careers loaded", domain.ErrCatalogIncomplete)
		}
		return nil
	}
	if pool != nil {
		rc.DB = func(ctx context.Context) error { return pool.Ping(ctx) }
	}
	if rdb != nil {
		rc.Redis = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return rc
}

type goRedis struct{ c redis.Cmdable }

func (g goRedis) Ping(ctx context.Context) RedisPingResult { return g.c.Ping(ctx) }

// WrapRedis adapts a go-redis client to RedisClient.
func WrapRedis(c redis.Cmdable) RedisClient { return goRedis{c: c} }
