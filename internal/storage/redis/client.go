// Package redis stores trainer records in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/creatures/internal/config"
)

// Client wraps redis.UniversalClient so stores can be tested against any
// implementation.
type Client interface {
	redis.UniversalClient
}

// NewClient creates a client for a single Redis instance and verifies it
// is reachable.
//
// Postcondition: Returns a connected Client or a non-nil error.
func NewClient(ctx context.Context, cfg config.RedisConfig) (Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
