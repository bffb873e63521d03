package api

import (
	"fmt"

	"tenantlimit/config"
	swlinmemory "tenantlimit/internal/slidingwindowlog/inmemory"
	swlmemcache "tenantlimit/internal/slidingwindowlog/memcache"
	swlredis "tenantlimit/internal/slidingwindowlog/redis"
	"tenantlimit/types"
)

// Factory is responsible for creating Limiter instances based on configuration.
type Factory struct{}

// NewFactory creates a new Factory instance.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateLimiter creates a Limiter instance based on the provided configuration
// and available backend clients.
func (f *Factory) CreateLimiter(cfg config.LimiterConfig, clients types.BackendClients) (Limiter, error) {
	switch cfg.Algorithm {
	case config.SlidingWindowLog:
		if cfg.WindowParams == nil {
			return nil, fmt.Errorf("window parameters are missing in config for key '%s'", cfg.Key)
		}
		if err := cfg.WindowParams.Validate(); err != nil {
			return nil, fmt.Errorf("invalid window parameters for key '%s': %w", cfg.Key, err)
		}
		switch cfg.Backend {
		case config.InMemory:
			// In-memory doesn't need external clients
			return swlinmemory.NewLimiter(cfg.Key, cfg.WindowParams.Window, cfg.WindowParams.Limit, cfg.WindowParams.MaxTenants), nil
		case config.Redis:
			if clients.RedisClient == nil {
				return nil, fmt.Errorf("redis client is required but not provided for redis backend for key '%s'", cfg.Key)
			}
			return swlredis.NewLimiter(cfg.Key, cfg.WindowParams.Window, cfg.WindowParams.Limit, clients.RedisClient), nil
		case config.Memcache:
			if clients.MemcacheClient == nil {
				return nil, fmt.Errorf("memcache client is required but not provided for memcache backend for key '%s'", cfg.Key)
			}
			return swlmemcache.NewLimiter(clients.MemcacheClient, cfg.Key, cfg.WindowParams.Window, cfg.WindowParams.Limit), nil
		default:
			return nil, fmt.Errorf("unsupported backend type '%s' for sliding window log for key '%s'", cfg.Backend, cfg.Key)
		}
	default:
		return nil, fmt.Errorf("unsupported algorithm type '%s' for key '%s'", cfg.Algorithm, cfg.Key)
	}
}
