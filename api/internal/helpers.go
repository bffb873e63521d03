package internal

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"tenantlimit/config"
)

// ConfigFile represents the top-level structure of the configuration file:
// a list of limiters under the 'limiters' key.
type ConfigFile struct {
	Limiters []config.LimiterConfig `yaml:"limiters"`
}

// LoadConfig reads and unmarshals the YAML config.
func LoadConfig(path string) (*ConfigFile, error) {
	log.Debug().Str("config_path", path).Msg("Loading configuration")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var cfg ConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config file %s: %w", path, err)
	}
	log.Debug().Str("config_path", path).Int("limiters", len(cfg.Limiters)).Msg("Configuration loaded")
	return &cfg, nil
}

// InitRedisClient initializes and pings a Redis client based on config.
func InitRedisClient(cfg *config.LimiterConfig) (*redis.Client, error) {
	if cfg.RedisParams == nil {
		return nil, fmt.Errorf("redis backend selected but redis_params are missing in config")
	}
	log.Info().Str("address", cfg.RedisParams.Address).Int("db", cfg.RedisParams.DB).Msg("Initializing Redis client")
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisParams.Address,
		Password: cfg.RedisParams.Password,
		DB:       cfg.RedisParams.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		// Close the client if ping fails to prevent resource leaks
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisParams.Address, err)
	}
	log.Info().Str("address", cfg.RedisParams.Address).Msg("Connected to Redis")
	return client, nil
}

// InitMemcacheClient initializes and pings a Memcache client based on config.
func InitMemcacheClient(cfg *config.LimiterConfig) (*memcache.Client, error) {
	if cfg.MemcacheParams == nil || len(cfg.MemcacheParams.Addresses) == 0 {
		return nil, fmt.Errorf("memcache backend selected but memcache_params are missing in config")
	}
	log.Info().Strs("addresses", cfg.MemcacheParams.Addresses).Msg("Initializing Memcache client")
	client := memcache.New(cfg.MemcacheParams.Addresses...)
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Memcached at %v: %w", cfg.MemcacheParams.Addresses, err)
	}
	log.Info().Strs("addresses", cfg.MemcacheParams.Addresses).Msg("Connected to Memcached")
	return client, nil
}
