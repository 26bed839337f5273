package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// Client represents a Redis client
type Client struct {
	rc     *redis.Client
	logger *slog.Logger
}

// NewClient creates a Redis client. The initial ping is informational
// only: a Redis that is down at startup must not prevent the service
// from starting, since the job store falls back to memory.
func NewClient(config *Config, logger *slog.Logger) *Client {
	poolSize := config.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	rc := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolSize:     poolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rc.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis not reachable at startup",
			slog.String("addr", fmt.Sprintf("%s:%d", config.Host, config.Port)),
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("Successfully connected to Redis",
			slog.String("addr", fmt.Sprintf("%s:%d", config.Host, config.Port)),
		)
	}

	return &Client{rc: rc, logger: logger}
}

// GetClient returns the underlying go-redis client
func (c *Client) GetClient() *redis.Client {
	return c.rc
}

// Ping checks the Redis connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rc.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.rc.Close()
}
