package redis

import (
	"context"
	"fmt"
	"net"
	"recommendationService/pkg/config"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the instance backing the shared id sequence and
// fails fast when it cannot be reached.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(Options(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", net.JoinHostPort(cfg.RedisHost, cfg.RedisPort), err)
	}

	return client, nil
}

// Options maps the config onto client options. The allocator issues one INCR
// per create, so a small pool is enough.
func Options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     4,
	}
}

func CloseRedisClient(client *redis.Client) error {
	if client == nil {
		return nil
	}

	return client.Close()
}
