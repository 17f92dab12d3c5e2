package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eridehero/eridehero/internal/shared/config"
)

var (
	client   *redis.Client
	clientMu sync.RWMutex
)

// Init establishes the shared Redis connection used for rate-limit
// counters, OAuth state, and pending profiles.
func Init(cfg *config.RedisConfig) error {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	clientMu.Lock()
	client = c
	clientMu.Unlock()

	return nil
}

// Get returns the shared Redis client
func Get() *redis.Client {
	clientMu.RLock()
	defer clientMu.RUnlock()
	return client
}

// Close closes the shared Redis client
func Close() error {
	clientMu.Lock()
	defer clientMu.Unlock()

	if client == nil {
		return nil
	}
	c := client
	client = nil
	return c.Close()
}
