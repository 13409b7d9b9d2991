package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := NewRedisLimiter(client, "login:", 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("attempt %d: expected allowed, got %v, %v", i+1, ok, err)
		}
	}
	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); ok {
		t.Fatalf("expected fourth attempt to be rejected")
	}
	if ok, _ := limiter.Allow(ctx, "10.0.0.2"); !ok {
		t.Fatalf("expected other key to be allowed")
	}

	if ttl := mr.TTL("login:10.0.0.1"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected window ttl, got %v", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestRedisLimiterUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	if _, err := NewRedisLimiter(client, "login:", 3, time.Minute).Allow(context.Background(), "k"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}

func TestMemoryLimiter(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow(ctx, "a"); !ok {
			t.Fatalf("attempt %d should pass", i+1)
		}
	}
	if ok, _ := limiter.Allow(ctx, "a"); ok {
		t.Fatalf("third attempt should be rejected")
	}

	now = now.Add(31 * time.Second)
	if ok, _ := limiter.Allow(ctx, "a"); !ok {
		t.Fatalf("one token should have been refilled")
	}

	now = now.Add(5 * time.Minute)
	limiter.Allow(ctx, "b")
	if _, ok := limiter.buckets["a"]; ok {
		t.Fatalf("idle bucket should have been swept")
	}
}
