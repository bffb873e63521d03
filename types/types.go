// Package types defines common types and interfaces used throughout the rate limiter.
package types

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"

	"tenantlimit/internal/memcacheiface"
)

// Limiter is the interface that all rate limiter backends implement.
type Limiter interface {
	// Allow checks if a request is allowed for the given tenant.
	// It returns true if the request is admitted, false if it is rejected by
	// the rate limit policy, and a non-nil error only for faults (invalid
	// tenant, registry capacity, backing store failure). A policy rejection
	// is never an error.
	Allow(ctx context.Context, tenantID int) (bool, error)
}

// Sentinel errors for the fault side of the tri-state outcome. Limiter
// implementations wrap them with call context; callers match with errors.Is.
var (
	// ErrTenantOutOfRange reports a tenant identifier outside the configured
	// identifier space (negative or >= max tenants).
	ErrTenantOutOfRange = errors.New("tenant id out of range")

	// ErrRegistryFull reports that tracking a new tenant would exceed the
	// configured registry capacity.
	ErrRegistryFull = errors.New("tenant registry at capacity")

	// ErrStoreUnavailable reports that the limiter's backing store could not
	// serve the admission check. The admission decision is indeterminate.
	ErrStoreUnavailable = errors.New("limiter backing store unavailable")
)

// BackendClients holds initialized backend client instances.
type BackendClients struct {
	// RedisClient is the Redis client instance.
	RedisClient *redis.Client
	// MemcacheClient is the Memcache client instance.
	MemcacheClient memcacheiface.Client
}
