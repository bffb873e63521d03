package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"tenantlimit/metrics"
)

func TestRecordRequest(t *testing.T) {
	m := metrics.NewRateLimitMetrics("test_metrics_requests")

	m.RecordRequest(true)
	m.RecordRequest(true)
	m.RecordRequest(false)

	if got := testutil.ToFloat64(m.Allowed()); got != 2 {
		t.Fatalf("allowed counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Rejected()); got != 1 {
		t.Fatalf("rejected counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Faults()); got != 0 {
		t.Fatalf("fault counter = %v, want 0", got)
	}
}

func TestRecordFault(t *testing.T) {
	m := metrics.NewRateLimitMetrics("test_metrics_faults")

	m.RecordFault()

	if got := testutil.ToFloat64(m.Faults()); got != 1 {
		t.Fatalf("fault counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Allowed()); got != 0 {
		t.Fatalf("allowed counter = %v, want 0", got)
	}
}
