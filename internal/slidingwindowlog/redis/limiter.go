// Package swlredis provides a Redis implementation of the sliding window log
// rate limiting algorithm, so several processes can enforce one tenant quota.
// The per-tenant timestamp log lives in a sorted set keyed by tenant;
// eviction, capacity check and insert run as one Lua script, which gives the
// same per-tenant atomicity the in-memory form gets from its tenant lock.
package swlredis

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"tenantlimit/types"
)

// Limiter is the Redis-backed sliding window log limiter.
type Limiter struct {
	key        string // Limiter key from config, used as the Redis key prefix
	client     *redis.Client
	windowSize time.Duration
	limit      int64
	script     *redis.Script
	nowFunc    func() time.Time
	seq        uint64 // disambiguates members that share a millisecond
}

// NewLimiterOption is a function type for setting options on a Limiter.
type NewLimiterOption func(*Limiter)

// WithClock sets a custom clock for the Limiter. Used by tests to make
// script arguments deterministic.
func WithClock(nowFunc func() time.Time) NewLimiterOption {
	return func(l *Limiter) {
		l.nowFunc = nowFunc
	}
}

// NewLimiter creates a new Redis-backed sliding window log limiter.
func NewLimiter(key string, windowSize time.Duration, limit int64, client *redis.Client, opts ...NewLimiterOption) *Limiter {
	l := &Limiter{
		key:        key,
		client:     client,
		windowSize: windowSize,
		limit:      limit,
		script:     redisAllowScript,
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	log.Info().Str("limiter_type", "SlidingWindowLog").Str("backend", "Redis").Str("limiter_key", key).Dur("window", windowSize).Int64("limit", limit).Msg("Limiter: Initialized")
	return l
}

// Allow checks if a request for the given tenant is allowed. Script failures
// are surfaced as a store fault distinct from a policy rejection.
func (l *Limiter) Allow(ctx context.Context, tenantID int) (bool, error) {
	if tenantID < 0 {
		return false, fmt.Errorf("limiter '%s': tenant %d: %w", l.key, tenantID, types.ErrTenantOutOfRange)
	}

	redisKey := l.key + ":" + strconv.Itoa(tenantID)
	nowMillis := l.nowFunc().UnixMilli()
	windowMillis := l.windowSize.Milliseconds()
	member := strconv.FormatInt(nowMillis, 10) + ":" + strconv.FormatUint(atomic.AddUint64(&l.seq, 1), 10)

	result, err := l.script.Run(ctx, l.client, []string{redisKey}, nowMillis, windowMillis, l.limit, member).Result()
	if err != nil {
		log.Error().Err(err).Str("limiter_type", "SlidingWindowLog").Str("backend", "Redis").Str("limiter_key", l.key).Int("tenant_id", tenantID).Msg("Limiter: Script execution failed")
		return false, fmt.Errorf("limiter '%s': redis script failed for tenant %d: %w: %w", l.key, tenantID, types.ErrStoreUnavailable, err)
	}

	allowed, ok := result.(int64)
	if !ok {
		err := fmt.Errorf("limiter '%s': unexpected script result type %T for tenant %d: %w", l.key, result, tenantID, types.ErrStoreUnavailable)
		log.Error().Err(err).Str("limiter_key", l.key).Int("tenant_id", tenantID).Msg("Limiter: Unexpected script result")
		return false, err
	}

	isAllowed := allowed == 1
	log.Debug().Str("limiter_key", l.key).Int("tenant_id", tenantID).Bool("allowed", isAllowed).Int64("now_ms", nowMillis).Msg("Limiter: Admission decision")
	return isAllowed, nil
}
