package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	l := NewRedis(rdb, "packages:rl", 1, time.Minute, discardLogger())
	for i := 0; i < 3; i++ {
		if !l.Allow(context.Background(), "10.0.0.1") {
			t.Fatalf("request %d blocked while Redis is unreachable", i+1)
		}
	}
}

func TestRedisLimiter_ZeroRateBlocks(t *testing.T) {
	l := NewRedis(nil, "packages:rl", 0, time.Minute, discardLogger())
	if l.Allow(context.Background(), "10.0.0.1") {
		t.Error("zero rate should block all requests")
	}
}

func TestAsInt64(t *testing.T) {
	tests := []struct {
		in   any
		want int64
	}{
		{int64(1), 1},
		{"7", 7},
		{"x", 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := asInt64(tt.in); got != tt.want {
			t.Errorf("asInt64(%#v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestRedisLimiter_Live runs against a live Redis when REDIS_ADDR is set.
func TestRedisLimiter_Live(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	prefix := "packages-test:rl:" + time.Now().Format("150405.000000")
	l := NewRedis(rdb, prefix, 2, 200*time.Millisecond, discardLogger())
	defer rdb.Del(ctx, prefix+":client")

	passed := 0
	for i := 0; i < 4; i++ {
		if l.Allow(ctx, "client") {
			passed++
		}
	}
	if passed != 2 {
		t.Errorf("passed %d requests, want 2", passed)
	}

	time.Sleep(250 * time.Millisecond)
	if !l.Allow(ctx, "client") {
		t.Error("request after refill should be allowed")
	}
}

func TestLimiter_Evict(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Close()

	ctx := context.Background()
	l.Allow(ctx, "stale")
	l.Allow(ctx, "fresh")

	l.mu.Lock()
	l.buckets["stale"].lastReset = time.Now().Add(-3 * time.Minute)
	l.mu.Unlock()

	l.evict(time.Now())

	if got := l.Len(); got != 1 {
		t.Fatalf("Len() = %d after evict, want 1", got)
	}
	l.mu.Lock()
	_, ok := l.buckets["fresh"]
	l.mu.Unlock()
	if !ok {
		t.Error("fresh bucket should survive eviction")
	}
}
