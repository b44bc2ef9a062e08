package redis

import (
	"context"
	"fmt"

	"carelink-srv/config"
	pkgRedis "carelink-srv/pkg/redis"
)

// Connect initializes and returns a Redis client.
func Connect(ctx context.Context, cfg config.RedisConfig) (*pkgRedis.Client, error) {
	client, err := pkgRedis.NewClient(pkgRedis.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Password:        cfg.Password,
		DB:              cfg.DB,
		UseTLS:          cfg.UseTLS,
		MaxRetries:      cfg.MaxRetries,
		MinIdleConns:    cfg.MinIdleConns,
		PoolSize:        cfg.PoolSize,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// Disconnect closes the Redis connection.
func Disconnect(client *pkgRedis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
