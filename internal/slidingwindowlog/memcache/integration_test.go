package swlmemcache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	swlmemcache "tenantlimit/internal/slidingwindowlog/memcache"
	"tenantlimit/internal/testharness/memcachetest"
)

func TestSlidingWindowLogMemcache_Integration(t *testing.T) {
	client := memcachetest.SetupMemcachedClient(t)

	ctx := context.Background()
	keyPrefix := "test_swl_mc_integration"
	keys := []string{
		fmt.Sprintf("%s:%d", keyPrefix, 1),
		fmt.Sprintf("%s:%d", keyPrefix, 2),
	}
	memcachetest.CleanupKeys(t, client, keys)
	defer memcachetest.CleanupKeys(t, client, keys)

	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	limiter := swlmemcache.NewLimiter(client, keyPrefix, 10*time.Second, 3, swlmemcache.WithClock(func() time.Time { return now }))

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, 1)
		if err != nil {
			t.Fatalf("Allow %d: unexpected error: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("Allow %d: should be allowed", i+1)
		}
	}

	allowed, err := limiter.Allow(ctx, 1)
	if err != nil {
		t.Fatalf("Allow over limit: unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("Allow over limit: should be denied")
	}

	allowed, err = limiter.Allow(ctx, 2)
	if err != nil {
		t.Fatalf("Allow tenant 2: unexpected error: %v", err)
	}
	if !allowed {
		t.Fatal("Allow tenant 2: should be allowed")
	}

	// Sliding past the window frees the quota.
	now = now.Add(10 * time.Second)
	allowed, err = limiter.Allow(ctx, 1)
	if err != nil {
		t.Fatalf("Allow after window: unexpected error: %v", err)
	}
	if !allowed {
		t.Fatal("Allow after window: old entries should have aged out")
	}
}
