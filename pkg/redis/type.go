package redis

import (
	"time"

	redis_client "github.com/redis/go-redis/v9"
)

// Config is the Redis connection configuration. Only standalone mode is
// supported.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	UseTLS   bool

	// Connection pool settings
	MaxRetries      int
	MinIdleConns    int
	PoolSize        int
	PoolTimeout     time.Duration
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// Client wraps redis.Client with the publishing surface this service needs.
type Client struct {
	*redis_client.Client
	config Config
}
