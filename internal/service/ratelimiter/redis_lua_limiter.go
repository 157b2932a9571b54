// Package ratelimiter implements a token bucket shared by every replica
// through a Redis Lua script.
package ratelimiter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces bucket keys in Redis.
const KeyPrefix = "career-leader:rate:"

// BucketConfig sizes one token bucket.
type BucketConfig struct {
	Capacity   int64
	RefillRate float64 // tokens per second
}

// NewBucketConfigFromPerMinute allows perMinute requests with a burst of the same size.
func NewBucketConfigFromPerMinute(perMinute int) BucketConfig {
	if perMinute <= 0 {
		return BucketConfig{}
	}
	return BucketConfig{
		Capacity:   int64(perMinute),
		RefillRate: float64(perMinute) / 60.0,
	}
}

// RedisLuaLimiter keeps one bucket per client key in a Redis hash.
type RedisLuaLimiter struct {
	rdb    redis.Scripter
	bucket BucketConfig
	script *redis.Script
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisLuaLimiter returns nil when rdb is nil or the bucket is empty;
// a nil limiter allows everything.
func NewRedisLuaLimiter(rdb redis.Scripter, bucket BucketConfig) *RedisLuaLimiter {
	if rdb == nil || bucket.Capacity <= 0 || bucket.RefillRate <= 0 {
		return nil
	}
	// idle buckets expire once they would be full again
	ttl := time.Duration(float64(bucket.Capacity)/bucket.RefillRate*float64(time.Second)) + time.Second
	return &RedisLuaLimiter{
		rdb:    rdb,
		bucket: bucket,
		script: redis.NewScript(luaTokenBucketScript),
		ttl:    ttl,
		now:    time.Now,
	}
}

const luaTokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])
local ttl_ms = tonumber(ARGV[5])

local tokens = capacity
local last_refill = now

local data = redis.call("HMGET", key, "tokens", "last_refill")
if data[1] then
  tokens = tonumber(data[1])
end
if data[2] then
  last_refill = tonumber(data[2])
end

local delta = now - last_refill
if delta < 0 then
  delta = 0
end
tokens = math.min(capacity, tokens + delta * refill_rate)

local allowed = 0
local retry_after = 0
if tokens >= cost then
  tokens = tokens - cost
  allowed = 1
else
  retry_after = (cost - tokens) / refill_rate
end

redis.call("HSET", key, "tokens", tostring(tokens), "last_refill", tostring(now))
redis.call("PEXPIRE", key, ttl_ms)

return { allowed, tostring(retry_after) }
`

// Allow takes cost tokens from key's bucket. On Redis errors it allows the
// request and returns the error for logging.
func (l *RedisLuaLimiter) Allow(ctx context.Context, key string, cost int64) (bool, time.Duration, error) {
	if l == nil {
		return true, 0, nil
	}
	if cost <= 0 {
		cost = 1
	}
	nowSec := float64(l.now().UnixNano()) / 1e9
	res, err := l.script.Run(ctx, l.rdb, []string{KeyPrefix + key},
		l.bucket.Capacity, l.bucket.RefillRate, nowSec, cost, l.ttl.Milliseconds()).Slice()
	if err != nil {
		return true, 0, fmt.Errorf("op=ratelimiter.Allow: %w", err)
	}
	if len(res) < 2 {
		return true, 0, fmt.Errorf("op=ratelimiter.Allow: unexpected script result %v", res)
	}
	allowed := toInt64(res[0]) == 1
	retry := toFloat64(res[1])
	if math.IsNaN(retry) || retry < 0 {
		retry = 0
	}
	return allowed, time.Duration(retry*1000) * time.Millisecond, nil
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case string:
		var f float64
		if _, err := fmt.Sscanf(t, "%g", &f); err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
