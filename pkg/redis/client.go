// Package redis provides an optional caching layer. When REDIS_ENABLED is
// false every operation is a no-op and callers fall through to the source.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/battcast/backend/pkg/config"
)

// Client wraps the redis client with an enabled flag.
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New creates a redis client from config. When redis is disabled the
// returned client is still usable, it just never caches.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{enabled: false}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Enabled reports whether caching is active.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Redis returns the underlying client, or nil when disabled.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
