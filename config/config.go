package config

import (
	"fmt"
	"time"
)

// AlgorithmType represents the type of rate limiting algorithm.
type AlgorithmType string

const (
	SlidingWindowLog AlgorithmType = "sliding_window_log"
)

// BackendType represents the storage backend.
type BackendType string

const (
	InMemory BackendType = "in_memory"
	Redis    BackendType = "redis"
	Memcache BackendType = "memcache"
)

// LimiterConfig holds the configuration for a single rate limiter instance.
// Window parameters are fixed at construction time; there is no runtime
// mutation of quota policy.
type LimiterConfig struct {
	Algorithm AlgorithmType `yaml:"algorithm"`
	Backend   BackendType   `yaml:"backend"`
	Key       string        `yaml:"key"`

	WindowParams *WindowConfig `yaml:"window_params,omitempty"`

	RedisParams    *RedisBackendConfig    `yaml:"redis_params,omitempty"`
	MemcacheParams *MemcacheBackendConfig `yaml:"memcache_params,omitempty"`
}

// WindowConfig holds parameters for the sliding window log algorithm.
type WindowConfig struct {
	// Window is the trailing window length. Requests older than
	// now - Window are evicted from the log.
	Window time.Duration `yaml:"window"`
	// Limit is the maximum number of requests a tenant may have inside the
	// trailing window.
	Limit int64 `yaml:"limit"`
	// MaxTenants bounds the number of distinct tenants the in-memory
	// registry will track. Tenant identifiers must fall in [0, MaxTenants).
	MaxTenants int `yaml:"max_tenants"`
}

// Validate checks that the window parameters are usable.
func (w *WindowConfig) Validate() error {
	if w.Window <= 0 {
		return fmt.Errorf("window must be positive, got %s", w.Window)
	}
	if w.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", w.Limit)
	}
	if w.MaxTenants <= 0 {
		return fmt.Errorf("max_tenants must be positive, got %d", w.MaxTenants)
	}
	return nil
}

// RedisBackendConfig holds parameters for the Redis backend.
type RedisBackendConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// MemcacheBackendConfig holds parameters for the Memcache backend.
type MemcacheBackendConfig struct {
	Addresses []string `yaml:"addresses"`
}
