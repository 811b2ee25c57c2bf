// Package redis caches catalog snapshots used as fallback data when the
// backing store is unreachable.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// snapshotTTL bounds how stale served fallback data can be.
const snapshotTTL = 6 * time.Hour

// Client wraps Redis operations for the snapshot cache.
type Client struct {
	rdb *redis.Client
}

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// NewClient creates a new Redis client and verifies the connection.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func snapshotKey(operation string) string {
	return fmt.Sprintf("catalog:snapshot:%s", operation)
}

// GetSnapshot returns the cached snapshot for an operation, if present.
func (c *Client) GetSnapshot(ctx context.Context, operation string) ([]byte, bool, error) {
	raw, err := c.rdb.Get(ctx, snapshotKey(operation)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get snapshot failed: %w", err)
	}
	return raw, true, nil
}

// SetSnapshot stores a snapshot for an operation. Snapshots expire so stale
// fallback data ages out on its own.
func (c *Client) SetSnapshot(ctx context.Context, operation string, data []byte) error {
	if err := c.rdb.Set(ctx, snapshotKey(operation), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("set snapshot failed: %w", err)
	}
	return nil
}
