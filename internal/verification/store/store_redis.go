package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tradeverify/internal/verification"
	"tradeverify/pkg/platform/sentinel"
)

const keyPrefix = "tradeverify:result:"

// RedisCache shares results across replicas. Values are JSON with a
// server-side TTL.
type RedisCache struct {
	client   redis.UniversalClient
	cacheTTL time.Duration
}

func NewRedisCache(client redis.UniversalClient, cacheTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, cacheTTL: cacheTTL}
}

func (c *RedisCache) Get(ctx context.Context, key string) (verification.Result, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return verification.Result{}, sentinel.ErrNotFound
	}
	if err != nil {
		return verification.Result{}, fmt.Errorf("redis get: %w", err)
	}
	var res verification.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return verification.Result{}, fmt.Errorf("decode cached result: %w", err)
	}
	return res, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, result verification.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
