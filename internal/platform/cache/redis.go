// Package cache owns the Redis client shared by the report cache, the rate
// limiter, and the asynq webhook queue.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the startup health check so a wrong REDIS_ADDR fails
// fast instead of hanging the boot sequence.
const pingTimeout = 5 * time.Second

// New dials Redis at addr and confirms the connection with a bounded ping.
// Callers treat a returned error as fatal; nothing in venda degrades to
// running without Redis.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  pingTimeout,
		MinIdleConns: 1,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", addr, err)
	}

	return client, nil
}
