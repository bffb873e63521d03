// Package api is the public surface of the rate limiter: a config-driven
// factory that builds limiter instances and manages backend client lifecycle.
package api

import (
	"fmt"
	"io"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/rs/zerolog/log"

	apiinternal "tenantlimit/api/internal"
	"tenantlimit/config"
	"tenantlimit/types"
)

// clientCloser is an internal type that holds backend clients and implements io.Closer.
type clientCloser struct {
	clients        types.BackendClients
	memcacheClient *memcache.Client
}

// Close gracefully shuts down all initialized backend clients held by the clientCloser.
func (c *clientCloser) Close() error {
	log.Info().Msg("API: Starting backend client shutdown")
	var errs []error

	if c.clients.RedisClient != nil {
		if err := c.clients.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis client: %w", err))
			log.Error().Err(err).Msg("API: Error closing Redis client")
		} else {
			log.Info().Msg("API: Redis client closed")
		}
	}

	if c.memcacheClient != nil {
		if err := c.memcacheClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Memcache client: %w", err))
			log.Error().Err(err).Msg("API: Error closing Memcache client")
		} else {
			log.Info().Msg("API: Memcache client closed")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during client shutdown: %v", errs)
	}

	log.Info().Msg("API: Backend client shutdown complete")
	return nil
}

// NewLimitersFromConfigPath loads config, initializes any needed backend
// clients, and returns a map of rate limiters keyed by their config key, the
// per-key configs, and an io.Closer for backend clients.
func NewLimitersFromConfigPath(configPath string) (map[string]types.Limiter, map[string]config.LimiterConfig, io.Closer, error) {
	log.Info().Str("config_path", configPath).Msg("API: Initializing rate limiters")
	cfgFile, err := apiinternal.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading configuration: %w", err)
	}

	if len(cfgFile.Limiters) == 0 {
		return nil, nil, nil, fmt.Errorf("no limiter configurations found in %s", configPath)
	}

	backendClients := types.BackendClients{}
	var memcacheClient *memcache.Client

	for _, cfg := range cfgFile.Limiters {
		cfg := cfg
		switch cfg.Backend {
		case config.Redis:
			if backendClients.RedisClient != nil {
				continue
			}
			redisClient, err := apiinternal.InitRedisClient(&cfg)
			if err != nil {
				return nil, nil, nil, err
			}
			backendClients.RedisClient = redisClient
		case config.Memcache:
			if backendClients.MemcacheClient != nil {
				continue
			}
			memcacheClient, err = apiinternal.InitMemcacheClient(&cfg)
			if err != nil {
				closeQuietly(backendClients, nil)
				return nil, nil, nil, err
			}
			backendClients.MemcacheClient = memcacheClient
		}
	}

	limiters := make(map[string]types.Limiter, len(cfgFile.Limiters))
	limiterConfigs := make(map[string]config.LimiterConfig, len(cfgFile.Limiters))
	factory := NewFactory()

	for _, cfg := range cfgFile.Limiters {
		if cfg.Key == "" {
			closeQuietly(backendClients, memcacheClient)
			return nil, nil, nil, fmt.Errorf("limiter configuration missing 'key' field")
		}
		if _, dup := limiters[cfg.Key]; dup {
			closeQuietly(backendClients, memcacheClient)
			return nil, nil, nil, fmt.Errorf("duplicate limiter key '%s'", cfg.Key)
		}

		limiter, err := factory.CreateLimiter(cfg, backendClients)
		if err != nil {
			closeQuietly(backendClients, memcacheClient)
			return nil, nil, nil, fmt.Errorf("limiter '%s': failed to create instance: %w", cfg.Key, err)
		}

		limiters[cfg.Key] = limiter
		limiterConfigs[cfg.Key] = cfg
		log.Info().Str("limiter_key", cfg.Key).Str("algorithm", string(cfg.Algorithm)).Str("backend", string(cfg.Backend)).Msg("API: Limiter created")
	}

	log.Info().Int("count", len(limiters)).Msg("API: All rate limiters initialized")

	closer := &clientCloser{clients: backendClients, memcacheClient: memcacheClient}
	return limiters, limiterConfigs, closer, nil
}

// closeQuietly releases backend clients on an initialization error path.
func closeQuietly(clients types.BackendClients, memcacheClient *memcache.Client) {
	if clients.RedisClient != nil {
		clients.RedisClient.Close()
	}
	if memcacheClient != nil {
		memcacheClient.Close()
	}
}
