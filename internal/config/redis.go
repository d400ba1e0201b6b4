package config

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a redis client for the configured cache. It does not
// ping; reachability is checked by the readiness gate.
func NewRedisClient(cfg CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}
