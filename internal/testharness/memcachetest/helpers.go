// Package memcachetest provides helpers for integration tests that need a
// real Memcached instance.
package memcachetest

import (
	"os"
	"testing"

	"github.com/bradfitz/gomemcache/memcache"
)

// GetMemcachedAddress returns the Memcached address, defaulting to "localhost:11211".
// If MEMCACHED_ADDR environment variable is set, it's used.
// If CI environment variable is "true", it defaults to "memcached:11211".
func GetMemcachedAddress() string {
	if addr := os.Getenv("MEMCACHED_ADDR"); addr != "" {
		return addr
	}
	if os.Getenv("CI") == "true" {
		return "memcached:11211"
	}
	return "localhost:11211"
}

// SetupMemcachedClient initializes and returns a *memcache.Client for
// integration tests. Memcache has no ping, so connectivity is probed with a
// throwaway Set/Get; the test is skipped when the server is unreachable.
func SetupMemcachedClient(t testing.TB) *memcache.Client {
	t.Helper()
	memcachedAddr := GetMemcachedAddress()

	mc := memcache.New(memcachedAddr)
	probe := &memcache.Item{Key: "tenantlimit_ping", Value: []byte("1"), Expiration: 10}
	if err := mc.Set(probe); err != nil {
		t.Skipf("Memcached not available at %s, skipping integration test: %v", memcachedAddr, err)
	}
	if _, err := mc.Get(probe.Key); err != nil {
		t.Skipf("Memcached not available at %s, skipping integration test: %v", memcachedAddr, err)
	}
	mc.Delete(probe.Key)
	return mc
}

// CleanupKeys deletes the specified keys from Memcached. Cleanup is
// best-effort; missing keys are fine.
func CleanupKeys(t testing.TB, client *memcache.Client, keys []string) {
	t.Helper()
	for _, key := range keys {
		if err := client.Delete(key); err != nil && err != memcache.ErrCacheMiss {
			t.Logf("Warning: failed to delete Memcached key %q: %v", key, err)
		}
	}
}
