package port

import (
	"context"
	"time"
)

// CacheStorePort is an expiring key/value store for JSON text and raw bytes.
type CacheStorePort interface {
	// Get returns found=false on a miss. err is reserved for store failures.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes keys and reports how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)
	KeysByPrefix(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
}

// RateCounterPort counts hits in a fixed window.
type RateCounterPort interface {
	// Increment bumps key and returns the count inside the current window.
	// The window starts with the first hit.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}
