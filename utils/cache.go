// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reservas/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the redis client backing the query cache.
	CacheClient *redis.Client
	cacheMu     sync.Mutex
)

// InitCache initializes the redis cache client and checks it answers PING.
func InitCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis (Cache): %w", err)
	}
	CacheClient = client
	return nil
}

// GetCacheClient returns the redis cache client, connecting on first use.
func GetCacheClient() (*redis.Client, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if CacheClient == nil {
		if err := InitCache(); err != nil {
			return nil, err
		}
	}
	return CacheClient, nil
}
