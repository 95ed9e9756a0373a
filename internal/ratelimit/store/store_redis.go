package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tradeverify/internal/ratelimit"
)

const keyPrefix = "tradeverify:ratelimit:"

// RedisStore keeps one sorted set per key, scored by request time in
// milliseconds, so every replica sees the same window. The check and the
// insert are two round trips; concurrent requests racing between them can
// overshoot the limit slightly.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error) {
	now := s.now()
	k := keyPrefix + key
	cutoff := now.Add(-window).UnixMilli()

	var count *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(cutoff, 10))
		count = p.ZCard(ctx, k)
		oldest = p.ZRangeWithScores(ctx, k, 0, 0)
		return nil
	})
	if err != nil {
		return ratelimit.Result{}, fmt.Errorf("redis window read: %w", err)
	}

	resetAt := now.Add(window)
	if zs := oldest.Val(); len(zs) > 0 {
		resetAt = time.UnixMilli(int64(zs[0].Score)).Add(window)
	}

	n := int(count.Val())
	if n >= limit {
		return ratelimit.Result{
			Allowed:    false,
			Limit:      limit,
			ResetAt:    resetAt,
			RetryAfter: retryAfter(resetAt.Sub(now)),
		}, nil
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, k, redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
		p.PExpire(ctx, k, window)
		return nil
	})
	if err != nil {
		return ratelimit.Result{}, fmt.Errorf("redis window write: %w", err)
	}
	if n == 0 {
		resetAt = now.Add(window)
	}
	return ratelimit.Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - n - 1,
		ResetAt:   resetAt,
	}, nil
}
