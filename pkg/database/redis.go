package database

import (
	"context"
	"fmt"
	"time"

	"seat-chart/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects a Redis client for the shared hold store. Returns an
// error when the server cannot be reached so the caller can decide whether
// to fall back to the in-process store.
func InitRedis(config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}

	return client, nil
}
