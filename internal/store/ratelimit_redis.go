package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Roisfaozi/gas.to/internal/ratelimit"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ ratelimit.Store = (*RateLimitRedisStore)(nil)

// RateLimitRedisStore is a Redis-backed sliding-window request log.
// Each key is a sorted set of request timestamps scored by epoch
// millis, so multiple server instances share one window.
type RateLimitRedisStore struct {
	client *redis.Client
}

// NewRateLimitRedisStore creates a Redis rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{client: client}
}

// Record logs a request for key, prunes entries older than the
// window, and returns the count remaining in the window.
func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()
	cutoff := now.Add(-window).UnixMilli()
	redisKey := "ratelimit:" + key

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", cutoff))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	})
	count := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("recording rate limit request: %w", err)
	}

	return count.Val(), nil
}
