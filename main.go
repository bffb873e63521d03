// Package main is the entry point for the rate limiter application: a demo
// HTTP server that applies config-driven per-tenant rate limits.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	ratelimiter "tenantlimit/api"
	"tenantlimit/metrics"
	"tenantlimit/middleware"
)

// main parses flags, loads configuration, initializes rate limiters, sets up
// HTTP routes with middleware, and starts the HTTP server.
func main() {
	// Configure zerolog for console output
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	port := flag.Int("p", 8080, "Port to run the HTTP server on")
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	logLevelStr := flag.String("log-level", "info", "Logging level (trace, debug, info, warn, error, fatal, panic)")
	flag.Parse()

	logLevel, err := zerolog.ParseLevel(*logLevelStr)
	if err != nil {
		log.Fatal().Err(err).Str("log_level", *logLevelStr).Msg("Invalid log level provided")
	}
	zerolog.SetGlobalLevel(logLevel)

	log.Info().Str("config_path", *configPath).Msg("Starting application initialization")

	limiters, limiterConfigs, closer, err := ratelimiter.NewLimitersFromConfigPath(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config_path", *configPath).Msg("Application startup failed: Error initializing rate limiters from config")
	}
	defer closer.Close()

	tenantLimiterKey := "tenant_rate_limit"
	tenantLimiter, ok := limiters[tenantLimiterKey]
	if !ok {
		log.Fatal().Str("limiter_key", tenantLimiterKey).Msg("Application startup failed: Rate limiter key not found in config")
	}
	tenantLimiterConfig := limiterConfigs[tenantLimiterKey]
	log.Info().Str("limiter_key", tenantLimiterKey).Str("backend", string(tenantLimiterConfig.Backend)).Msg("Serving with limiter")

	tenantMetrics := metrics.NewRateLimitMetrics(tenantLimiterKey)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(tenantLimiter, tenantMetrics, tenantLimiterKey)

	http.HandleFunc("/unlimited", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Unlimited! Let's Go!")
	})

	http.HandleFunc("/limited", rateLimitMiddleware.Handle(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Limited, don't over use me!")
	}, getTenantID))

	// Expose Prometheus metrics endpoint
	http.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", *port)
	log.Info().Str("address", addr).Msg("Starting HTTP server")
	log.Fatal().Err(http.ListenAndServe(addr, nil)).Str("address", addr).Msg("HTTP server stopped")
}

// getTenantID extracts the tenant identifier from the X-Tenant-ID header.
func getTenantID(r *http.Request) (int, error) {
	raw := r.Header.Get("X-Tenant-ID")
	if raw == "" {
		return 0, fmt.Errorf("missing X-Tenant-ID header")
	}
	tenantID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("malformed X-Tenant-ID header %q: %w", raw, err)
	}
	return tenantID, nil
}
