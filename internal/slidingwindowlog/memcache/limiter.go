// Package swlmemcache provides a Memcache implementation of the sliding
// window log rate limiting algorithm.
//
// Memcache has no server-side scripting, so the per-tenant timestamp log is
// stored as a space-separated list of millisecond timestamps and updated with
// a compare-and-swap loop: read, evict aged entries, check capacity, write
// back. A CAS conflict means another caller won the race for this tenant;
// the check is retried a bounded number of times.
package swlmemcache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/rs/zerolog/log"

	"tenantlimit/internal/memcacheiface"
	"tenantlimit/types"
)

// casRetries bounds the read-modify-write loop under contention.
const casRetries = 5

// Limiter is the Memcache-backed sliding window log limiter.
type Limiter struct {
	client     memcacheiface.Client
	keyPrefix  string
	windowSize time.Duration
	limit      int64
	nowFunc    func() time.Time
}

// NewLimiterOption is a function type for setting options on a Limiter.
type NewLimiterOption func(*Limiter)

// WithClock sets a custom clock (nowFunc) for the Limiter.
func WithClock(nowFunc func() time.Time) NewLimiterOption {
	return func(l *Limiter) {
		l.nowFunc = nowFunc
	}
}

// NewLimiter creates a new Memcache-backed sliding window log limiter.
func NewLimiter(client memcacheiface.Client, keyPrefix string, windowSize time.Duration, limit int64, opts ...NewLimiterOption) *Limiter {
	l := &Limiter{
		client:     client,
		keyPrefix:  keyPrefix,
		windowSize: windowSize,
		limit:      limit,
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	log.Info().Str("limiter_type", "SlidingWindowLog").Str("backend", "Memcache").Str("limiter_key_prefix", keyPrefix).Dur("window", windowSize).Int64("limit", limit).Msg("Limiter: Initialized")
	return l
}

// Allow checks if a request for the given tenant is allowed.
func (l *Limiter) Allow(ctx context.Context, tenantID int) (bool, error) {
	if tenantID < 0 {
		return false, fmt.Errorf("limiter '%s': tenant %d: %w", l.keyPrefix, tenantID, types.ErrTenantOutOfRange)
	}

	memcacheKey := l.keyPrefix + ":" + strconv.Itoa(tenantID)
	expiry := int32(l.windowSize.Seconds())
	if expiry < 1 {
		expiry = 1
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		now := l.nowFunc().UnixMilli()

		item, err := l.client.Get(memcacheKey)
		if err == memcache.ErrCacheMiss {
			// First request inside the window for this tenant: try to claim
			// the key. ErrNotStored means another caller claimed it first.
			add := &memcache.Item{
				Key:        memcacheKey,
				Value:      []byte(strconv.FormatInt(now, 10)),
				Expiration: expiry,
			}
			err = l.client.Add(add)
			if err == nil {
				log.Debug().Str("limiter", l.keyPrefix).Int("tenant_id", tenantID).Int("count", 1).Msg("Allowed (added)")
				return true, nil
			}
			if err == memcache.ErrNotStored {
				continue
			}
			log.Error().Err(err).Str("limiter", l.keyPrefix).Int("tenant_id", tenantID).Msg("Failed to add timestamp log")
			return false, fmt.Errorf("limiter '%s': memcache add failed for tenant %d: %w: %w", l.keyPrefix, tenantID, types.ErrStoreUnavailable, err)
		}
		if err != nil {
			log.Error().Err(err).Str("limiter", l.keyPrefix).Int("tenant_id", tenantID).Msg("Failed to read timestamp log")
			return false, fmt.Errorf("limiter '%s': memcache get failed for tenant %d: %w: %w", l.keyPrefix, tenantID, types.ErrStoreUnavailable, err)
		}

		entries, err := parseLog(item.Value)
		if err != nil {
			return false, fmt.Errorf("limiter '%s': corrupt timestamp log for tenant %d: %w: %w", l.keyPrefix, tenantID, types.ErrStoreUnavailable, err)
		}

		live := evict(entries, now, l.windowSize.Milliseconds())
		if int64(len(live)) >= l.limit {
			log.Debug().Str("limiter", l.keyPrefix).Int("tenant_id", tenantID).Int("count", len(live)).Msg("Denied (over limit)")
			return false, nil
		}

		live = append(live, now)
		item.Value = encodeLog(live)
		item.Expiration = expiry

		err = l.client.CompareAndSwap(item)
		if err == nil {
			log.Debug().Str("limiter", l.keyPrefix).Int("tenant_id", tenantID).Int("count", len(live)).Msg("Allowed (swapped)")
			return true, nil
		}
		if err == memcache.ErrCASConflict || err == memcache.ErrNotStored || err == memcache.ErrCacheMiss {
			// Lost the race or the key expired mid-flight; re-read and retry.
			continue
		}
		log.Error().Err(err).Str("limiter", l.keyPrefix).Int("tenant_id", tenantID).Msg("Failed to swap timestamp log")
		return false, fmt.Errorf("limiter '%s': memcache cas failed for tenant %d: %w: %w", l.keyPrefix, tenantID, types.ErrStoreUnavailable, err)
	}

	return false, fmt.Errorf("limiter '%s': gave up after %d cas conflicts for tenant %d: %w", l.keyPrefix, casRetries, tenantID, types.ErrStoreUnavailable)
}

// parseLog decodes a space-separated list of millisecond timestamps.
func parseLog(value []byte) ([]int64, error) {
	fields := strings.Fields(string(value))
	entries := make([]int64, 0, len(fields))
	for _, f := range fields {
		ts, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", f, err)
		}
		entries = append(entries, ts)
	}
	return entries, nil
}

// evict drops entries that have aged out of the trailing window. The log is
// ordered oldest first, so the survivors are one contiguous suffix.
func evict(entries []int64, nowMillis, windowMillis int64) []int64 {
	cut := 0
	for cut < len(entries) && nowMillis-entries[cut] >= windowMillis {
		cut++
	}
	return entries[cut:]
}

func encodeLog(entries []int64) []byte {
	parts := make([]string, len(entries))
	for i, ts := range entries {
		parts[i] = strconv.FormatInt(ts, 10)
	}
	return []byte(strings.Join(parts, " "))
}
