package api_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tenantlimit/api"
	"tenantlimit/config"
	"tenantlimit/types"
)

func TestCreateLimiterInMemory(t *testing.T) {
	factory := api.NewFactory()

	cfg := config.LimiterConfig{
		Algorithm: config.SlidingWindowLog,
		Backend:   config.InMemory,
		Key:       "test_factory",
		WindowParams: &config.WindowConfig{
			Window:     10 * time.Second,
			Limit:      2,
			MaxTenants: 10,
		},
	}

	limiter, err := factory.CreateLimiter(cfg, types.BackendClients{})
	if err != nil {
		t.Fatalf("CreateLimiter failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, 1)
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d unexpectedly denied", i+1)
		}
	}
	if allowed, _ := limiter.Allow(ctx, 1); allowed {
		t.Fatal("request over the ceiling was admitted")
	}
}

func TestCreateLimiterValidation(t *testing.T) {
	factory := api.NewFactory()

	cases := []struct {
		name string
		cfg  config.LimiterConfig
	}{
		{
			name: "missing window params",
			cfg: config.LimiterConfig{
				Algorithm: config.SlidingWindowLog,
				Backend:   config.InMemory,
				Key:       "no_params",
			},
		},
		{
			name: "unsupported algorithm",
			cfg: config.LimiterConfig{
				Algorithm: "token_bucket",
				Backend:   config.InMemory,
				Key:       "bad_algo",
			},
		},
		{
			name: "redis backend without client",
			cfg: config.LimiterConfig{
				Algorithm: config.SlidingWindowLog,
				Backend:   config.Redis,
				Key:       "no_redis_client",
				WindowParams: &config.WindowConfig{
					Window:     time.Second,
					Limit:      1,
					MaxTenants: 1,
				},
			},
		},
		{
			name: "non-positive limit",
			cfg: config.LimiterConfig{
				Algorithm: config.SlidingWindowLog,
				Backend:   config.InMemory,
				Key:       "bad_limit",
				WindowParams: &config.WindowConfig{
					Window:     time.Second,
					Limit:      0,
					MaxTenants: 1,
				},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := factory.CreateLimiter(tc.cfg, types.BackendClients{}); err == nil {
				t.Fatal("CreateLimiter accepted an invalid config")
			}
		})
	}
}

func TestNewLimitersFromConfigPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `limiters:
  - key: tenant_rate_limit
    algorithm: sliding_window_log
    backend: in_memory
    window_params:
      window: 10s
      limit: 10
      max_tenants: 100
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	limiters, configs, closer, err := api.NewLimitersFromConfigPath(path)
	if err != nil {
		t.Fatalf("NewLimitersFromConfigPath failed: %v", err)
	}
	defer closer.Close()

	limiter, ok := limiters["tenant_rate_limit"]
	if !ok {
		t.Fatal("limiter key missing from result map")
	}
	cfg, ok := configs["tenant_rate_limit"]
	if !ok {
		t.Fatal("limiter config missing from result map")
	}
	if cfg.WindowParams.Window != 10*time.Second || cfg.WindowParams.Limit != 10 || cfg.WindowParams.MaxTenants != 100 {
		t.Fatalf("unexpected parsed window params: %+v", cfg.WindowParams)
	}

	if allowed, err := limiter.Allow(context.Background(), 0); err != nil || !allowed {
		t.Fatalf("first request through configured limiter: allowed=%v err=%v", allowed, err)
	}
}

func TestNewLimitersFromConfigPathErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, _, _, err := api.NewLimitersFromConfigPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("no limiters", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("limiters: []\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, _, _, err := api.NewLimitersFromConfigPath(path); err == nil {
			t.Fatal("expected error for empty limiter list")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		yaml := `limiters:
  - algorithm: sliding_window_log
    backend: in_memory
    window_params:
      window: 10s
      limit: 10
      max_tenants: 100
`
		if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, _, _, err := api.NewLimitersFromConfigPath(path); err == nil {
			t.Fatal("expected error for limiter without key")
		}
	})
}
