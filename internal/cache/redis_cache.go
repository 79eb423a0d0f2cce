package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/scoring-service/internal/utils"
)

// ErrCacheMiss is returned by Get when no value exists for the key.
var ErrCacheMiss = errors.New("cache: key not found")

type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
}

func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

type redisCache struct {
	client *redis.Client
	logger utils.Logger
}

func NewRedisCache(client *redis.Client, logger utils.Logger) CacheService {
	return &redisCache{
		client: client,
		logger: logger,
	}
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// Corrupt entry, drop it so the next read repopulates.
		r.logger.WarnContext(ctx, "Dropping undecodable cache entry", "key", key, "error", err)
		r.client.Del(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// DeletePattern removes all keys matching pattern using SCAN, so large
// invalidations don't block redis the way KEYS would.
func (r *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys for pattern %s: %w", pattern, err)
	}
	return r.Delete(ctx, keys...)
}
