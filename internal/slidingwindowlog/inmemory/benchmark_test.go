package swlinmemory_test

import (
	"context"
	"testing"
	"time"

	swlinmemory "tenantlimit/internal/slidingwindowlog/inmemory"
)

func BenchmarkSlidingWindowLogInMemory_Allow(b *testing.B) {
	ctx := context.Background()

	configs := []struct {
		name   string
		limit  int64
		window time.Duration
	}{
		{"Limit10_Window1s", 10, 1 * time.Second},
		{"Limit1000_Window1s", 1000, 1 * time.Second},
		{"Limit100000_Window1m", 100000, 1 * time.Minute},
		{"Limit1000_Window100ms", 1000, 100 * time.Millisecond},
	}

	for _, config := range configs {
		b.Run(config.name, func(b *testing.B) {
			limiter := swlinmemory.NewLimiter("bench_swl_inmemory_"+config.name, config.window, config.limit, 1024)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = limiter.Allow(ctx, 1)
			}
		})
	}
}

// BenchmarkSlidingWindowLogInMemory_AllowParallel spreads callers over many
// tenants so the per-tenant locking shows up instead of a single hot mutex.
func BenchmarkSlidingWindowLogInMemory_AllowParallel(b *testing.B) {
	ctx := context.Background()
	const tenants = 64
	limiter := swlinmemory.NewLimiter("bench_swl_inmemory_parallel", time.Second, 1000, tenants)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		id := 0
		for pb.Next() {
			_, _ = limiter.Allow(ctx, id%tenants)
			id++
		}
	})
}
