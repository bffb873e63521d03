// Package swlinmemory provides the in-memory, concurrency-safe implementation
// of the sliding window log rate limiting algorithm.
//
// Locking is per tenant, not global: concurrent requests for different
// tenants never contend, and requests for the same tenant serialize so that
// eviction, capacity check and enqueue are one atomic unit. Slot creation on
// a tenant's first request is protected separately by the registry lock.
package swlinmemory

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"tenantlimit/internal/slidingwindowlog"
)

// Limiter is the in-memory sliding window log limiter.
type Limiter struct {
	key      string // Limiter key from config
	window   slidingwindowlog.Window
	registry *registry
	nowFunc  func() time.Time
}

// NewLimiterOption is a function type for setting options on a Limiter.
type NewLimiterOption func(*Limiter)

// WithClock sets a custom clock for the Limiter. Used by tests to make
// window arithmetic deterministic.
func WithClock(nowFunc func() time.Time) NewLimiterOption {
	return func(l *Limiter) {
		l.nowFunc = nowFunc
	}
}

// NewLimiter creates a new in-memory sliding window log limiter.
// It takes a unique key for the limiter, the trailing window size, the
// maximum number of requests inside the window, and the maximum number of
// distinct tenants the registry will track.
func NewLimiter(key string, windowSize time.Duration, limit int64, maxTenants int, opts ...NewLimiterOption) *Limiter {
	l := &Limiter{
		key:      key,
		window:   slidingwindowlog.NewWindow(windowSize, limit),
		registry: newRegistry(maxTenants),
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	log.Info().Str("limiter_type", "SlidingWindowLog").Str("backend", "InMemory").Str("limiter_key", key).Dur("window", windowSize).Int64("limit", limit).Int("max_tenants", maxTenants).Msg("Limiter: Initialized")
	return l
}

// Allow checks if a request arriving now is allowed for the given tenant.
// It returns true if the request is admitted, false if rejected by the rate
// limit, and a non-nil error only for faults (tenant id out of range,
// registry at capacity, context cancelled).
func (l *Limiter) Allow(ctx context.Context, tenantID int) (bool, error) {
	// Check if context is cancelled before taking the tenant lock.
	select {
	case <-ctx.Done():
		log.Warn().Err(ctx.Err()).Str("limiter_type", "SlidingWindowLog").Str("backend", "InMemory").Str("limiter_key", l.key).Int("tenant_id", tenantID).Msg("Limiter: Context cancelled during check")
		return false, ctx.Err()
	default:
	}
	return l.AllowAt(tenantID, l.nowFunc().UnixMilli())
}

// AllowAt runs one admission check for the given tenant at an explicit
// timestamp in milliseconds since the Unix epoch. Callers that stamp
// requests themselves use this form; Allow reads the limiter's clock and
// delegates here.
func (l *Limiter) AllowAt(tenantID int, nowMillis int64) (bool, error) {
	state, err := l.registry.getOrCreate(tenantID)
	if err != nil {
		log.Error().Err(err).Str("limiter_type", "SlidingWindowLog").Str("backend", "InMemory").Str("limiter_key", l.key).Int("tenant_id", tenantID).Msg("Limiter: Tenant lookup failed")
		return false, err
	}

	state.mu.Lock()
	evicted := l.window.Evict(&state.queue, nowMillis)
	allowed := int64(state.queue.Len()) < l.window.Limit()
	if allowed {
		state.queue.Enqueue(nowMillis)
	}
	depth := state.queue.Len()
	state.mu.Unlock()

	if evicted > 0 {
		log.Debug().Str("limiter_key", l.key).Int("tenant_id", tenantID).Int("evicted", evicted).Int("queue_depth", depth).Msg("Limiter: Evicted expired entries")
	}
	log.Debug().Str("limiter_key", l.key).Int("tenant_id", tenantID).Bool("allowed", allowed).Int("queue_depth", depth).Int64("now_ms", nowMillis).Msg("Limiter: Admission decision")
	return allowed, nil
}

// QueueDepth returns the number of recorded requests for the tenant as of
// its last admission check. It is an observability hook; a tenant that was
// never seen reports zero.
func (l *Limiter) QueueDepth(tenantID int) int {
	state := l.registry.get(tenantID)
	if state == nil {
		return 0
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.queue.Len()
}
