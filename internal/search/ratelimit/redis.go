package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens }
`)

// RedisLimiter is a token bucket shared through Redis. The bucket holds rate
// tokens and refills completely once per window.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	rate   int
	window time.Duration
	logger *slog.Logger
}

// NewRedis creates a RedisLimiter.
func NewRedis(rdb *redis.Client, prefix string, rate int, window time.Duration, logger *slog.Logger) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		prefix: prefix,
		rate:   rate,
		window: window,
		logger: logger,
	}
}

// Allow consumes a token for key. Requests are let through when Redis is
// unreachable.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l.rate <= 0 {
		return false
	}

	allowed, err := l.take(ctx, l.prefix+":"+key, time.Now())
	if err != nil {
		l.logger.Warn("rate limiter unavailable", "key", key, "error", err)
		return true
	}
	return allowed
}

func (l *RedisLimiter) take(ctx context.Context, key string, now time.Time) (bool, error) {
	ttl := int64((2 * l.window) / time.Second)
	if ttl < 1 {
		ttl = 1
	}
	args := []any{
		now.UnixMilli(),
		l.rate,
		l.rate,
		l.window.Milliseconds(),
		ttl,
	}

	vals, err := tokenBucket.Run(ctx, l.rdb, []string{key}, args...).Slice()
	if err != nil {
		return false, err
	}
	if len(vals) != 2 {
		return false, fmt.Errorf("unexpected script result %#v", vals)
	}
	return asInt64(vals[0]) == 1, nil
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
