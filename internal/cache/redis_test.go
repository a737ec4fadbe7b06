// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test unless JOBBOARD_TEST_REDIS_URL is set.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("JOBBOARD_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: JOBBOARD_TEST_REDIS_URL not set")
	}
	return url
}

func newTestRedisCache(t *testing.T, prefix string) *RedisCache {
	t.Helper()
	url := skipIfNoRedis(t)

	c, err := NewRedisCacheFromURL(url, prefix, time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	_ = c.Clear(context.Background())
	return c
}

func TestRedisCache_Basic(t *testing.T) {
	cache := newTestRedisCache(t, "test-basic:")
	ctx := context.Background()

	if err := cache.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get returned %q, want %q", got, "value")
	}

	if err := cache.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete returned %v, want ErrCacheMiss", err)
	}
}

func TestRedisCache_TTL(t *testing.T) {
	cache := newTestRedisCache(t, "test-ttl:")
	ctx := context.Background()

	if err := cache.Set(ctx, "key", []byte("value"), 100*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if _, err := cache.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after TTL expiration returned %v, want ErrCacheMiss", err)
	}
}

func TestRedisCache_ClearAndStats(t *testing.T) {
	cache := newTestRedisCache(t, "test-clear:")
	ctx := context.Background()
	cache.ResetStats()

	_ = cache.Set(ctx, "a", []byte("1"), time.Minute)
	_ = cache.Set(ctx, "b", []byte("2"), time.Minute)
	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Sets != 2 || stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats = %+v, want 2 sets, 1 hit, 1 miss", stats)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	for _, k := range []string{"a", "b"} {
		if _, err := cache.Get(ctx, k); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Get(%s) after Clear returned %v, want ErrCacheMiss", k, err)
		}
	}
}

func TestRedisCache_Close(t *testing.T) {
	cache := newTestRedisCache(t, "test-close:")
	ctx := context.Background()

	if err := cache.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := cache.Ping(ctx); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Ping after Close returned %v, want ErrCacheClosed", err)
	}
}

func TestRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCacheFromURL("invalid-url", "test:", time.Minute); err == nil {
		t.Error("expected error with invalid URL, got nil")
	}
	if _, err := NewRedisCacheFromURL("", "test:", time.Minute); err == nil {
		t.Error("expected error with empty URL, got nil")
	}
}
