// Package metrics exposes admission decision counters via Prometheus. The
// queue-state debug printing of early prototypes is replaced by these
// counters plus structured logs at the decision sites.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tenantlimit",
		Name:      "requests_total",
		Help:      "Admission decisions partitioned by limiter and outcome (allowed, rejected, fault).",
	},
	[]string{"limiter", "outcome"},
)

// RateLimitMetrics records the tri-state admission outcomes for one limiter.
type RateLimitMetrics struct {
	allowed  prometheus.Counter
	rejected prometheus.Counter
	faults   prometheus.Counter
}

// NewRateLimitMetrics returns the metrics handle for the given limiter key.
func NewRateLimitMetrics(limiterKey string) *RateLimitMetrics {
	return &RateLimitMetrics{
		allowed:  decisions.WithLabelValues(limiterKey, "allowed"),
		rejected: decisions.WithLabelValues(limiterKey, "rejected"),
		faults:   decisions.WithLabelValues(limiterKey, "fault"),
	}
}

// RecordRequest records a policy decision.
func (r *RateLimitMetrics) RecordRequest(allowed bool) {
	if allowed {
		r.allowed.Inc()
	} else {
		r.rejected.Inc()
	}
}

// RecordFault records a check that failed without a policy decision
// (invalid tenant, registry capacity, backing store failure).
func (r *RateLimitMetrics) RecordFault() {
	r.faults.Inc()
}

// Allowed returns the counter of admitted requests.
func (r *RateLimitMetrics) Allowed() prometheus.Counter { return r.allowed }

// Rejected returns the counter of policy rejections.
func (r *RateLimitMetrics) Rejected() prometheus.Counter { return r.rejected }

// Faults returns the counter of failed checks.
func (r *RateLimitMetrics) Faults() prometheus.Counter { return r.faults }
