// Package middleware wraps HTTP handlers with per-tenant rate limiting.
package middleware

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"tenantlimit/metrics"
	"tenantlimit/types"
)

// RateLimitMiddleware provides rate limiting functionality.
type RateLimitMiddleware struct {
	limiter    types.Limiter
	metrics    *metrics.RateLimitMetrics
	limiterKey string
}

// NewRateLimitMiddleware creates a new RateLimitMiddleware.
func NewRateLimitMiddleware(limiter types.Limiter, metrics *metrics.RateLimitMetrics, limiterKey string) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter:    limiter,
		metrics:    metrics,
		limiterKey: limiterKey,
	}
}

// Handle wraps an http.HandlerFunc with rate limiting logic.
// tenantFunc extracts the tenant identifier from the request.
//
// The three admission outcomes map to distinct responses: admitted requests
// proceed, policy rejections get 429, and faults get 400 (bad tenant) or 503
// (registry full, store down). A rejection is never reported as a fault.
func (m *RateLimitMiddleware) Handle(next http.HandlerFunc, tenantFunc func(*http.Request) (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantFunc(r)
		if err != nil {
			log.Warn().Err(err).Str("limiter_key", m.limiterKey).Str("remote_addr", r.RemoteAddr).Msg("Middleware: Could not extract tenant id")
			m.metrics.RecordFault()
			http.Error(w, "missing or malformed tenant id", http.StatusBadRequest)
			return
		}

		allowed, err := m.limiter.Allow(r.Context(), tenantID)
		if err != nil {
			m.metrics.RecordFault()
			log.Error().Err(err).Str("limiter_key", m.limiterKey).Int("tenant_id", tenantID).Msg("Middleware: Admission check failed")
			switch {
			case errors.Is(err, types.ErrTenantOutOfRange):
				http.Error(w, "unknown tenant", http.StatusBadRequest)
			case errors.Is(err, types.ErrRegistryFull), errors.Is(err, types.ErrStoreUnavailable):
				http.Error(w, "rate limiter unavailable", http.StatusServiceUnavailable)
			default:
				http.Error(w, "rate limiter error", http.StatusInternalServerError)
			}
			return
		}

		m.metrics.RecordRequest(allowed)

		if !allowed {
			log.Debug().Str("limiter_key", m.limiterKey).Int("tenant_id", tenantID).Msg("Middleware: Request rate limited")
			w.WriteHeader(http.StatusTooManyRequests) // 429 Too Many Requests
			return
		}

		next.ServeHTTP(w, r)
	}
}
