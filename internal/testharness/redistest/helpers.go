// Package redistest provides helpers for integration tests that need a real
// Redis instance.
package redistest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

// GetRedisAddress returns the Redis address, defaulting to "localhost:6379".
// If REDIS_ADDR environment variable is set, it's used.
// If CI environment variable is "true", it defaults to "redis:6379".
func GetRedisAddress() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	if os.Getenv("CI") == "true" {
		return "redis:6379"
	}
	return "localhost:6379"
}

// SetupRedisClient initializes and returns a Redis client for integration
// tests. The test is skipped when Redis is not reachable, so unit-test runs
// stay green without infrastructure.
func SetupRedisClient(t testing.TB) *redis.Client {
	t.Helper()
	redisAddr := GetRedisAddress()

	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s, skipping integration test: %v", redisAddr, err)
	}
	return client
}

// CleanupTenantKeys deletes the per-tenant keys a limiter wrote during a
// test. Keys follow the "<limiterKey>:<tenantID>" layout.
func CleanupTenantKeys(t testing.TB, client *redis.Client, limiterKey string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, limiterKey+":*", 50).Result()
		if err != nil {
			t.Fatalf("Failed to SCAN for keys with prefix %q: %v", limiterKey, err)
		}
		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				t.Errorf("Failed to DEL keys %v during cleanup: %v", keys, err)
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
