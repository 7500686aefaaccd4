package redis_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 500

// RedisCacheStore implements port.CacheStorePort and port.RateCounterPort.
type RedisCacheStore struct {
	rdb *redis.Client
}

func NewRedisCacheStore(rdb *redis.Client) (*RedisCacheStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	return &RedisCacheStore{rdb: rdb}, nil
}

func (s *RedisCacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis GET %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

func (s *RedisCacheStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := s.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis DEL: %w", err)
	}
	return n, nil
}

// KeysByPrefix walks the keyspace with SCAN so the server is never blocked.
func (s *RedisCacheStore) KeysByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis SCAN %s*: %w", prefix, err)
	}
	return keys, nil
}

func (s *RedisCacheStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Increment is a fixed window counter: INCR, then EXPIRE on the first hit.
func (s *RedisCacheStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis INCR %s: %w", key, err)
	}
	return incr.Val(), nil
}
