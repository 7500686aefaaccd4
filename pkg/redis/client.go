package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config describes how to reach the cache store.
type Config struct {
	URL string // "redis://localhost:6379/0"
	// OpTimeout is applied to reads and writes. Zero keeps the driver defaults.
	OpTimeout time.Duration
}

// NewClient parses the URL, builds a client and pings it once.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("REDIS_URL configuration is required")
	}

	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.OpTimeout > 0 {
		opts.ReadTimeout = cfg.OpTimeout
		opts.WriteTimeout = cfg.OpTimeout
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}

	return client, nil
}
