package database

import (
	"context"
	"net"
	"time"

	"rsm-commerce/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to redis. It returns nil when the server cannot be
// reached so callers can run without rate limiting.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
