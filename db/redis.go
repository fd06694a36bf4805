package db

import (
	"context"
	"fmt"
	"time"

	"github.com/suwook2/project-musicgen/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the global redis client. It stays nil when redis is not
// reachable; callers treat a nil client as cache-off.
var RedisClient *redis.Client

// ConnectRedis initializes the redis connection.
func ConnectRedis(cfg *config.Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	RedisClient = client
	return nil
}

// CloseRedis closes the redis connection.
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}
