// Package ratelimit guards the administrative write API (link
// creation). The public redirect and bio endpoints are deliberately
// not limited.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store is the sliding-window request log behind the limiter.
type Store interface {
	// Record logs a request for key and returns how many requests fall
	// inside the current window, pruning expired entries.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// LimitConfig is one window/max pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// MetadataKey marks huma operations that opt in to rate limiting.
const MetadataKey = "rateLimit"

// EndpointConfig is attached to an operation's metadata. Operations
// without it are not limited at all.
type EndpointConfig struct {
	Limits []LimitConfig
}

// Exceeded describes the limit a request ran into.
type Exceeded struct {
	Config LimitConfig
	Count  int64
}

// Limiter checks a client against a set of window limits.
type Limiter struct {
	store Store
}

// NewLimiter creates a limiter over the given store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow records the request under every configured window and reports
// whether all limits hold. Each window tracks independently.
func (l *Limiter) Allow(ctx context.Context, clientKey, route string, limits []LimitConfig) (bool, *Exceeded, error) {
	for _, limit := range limits {
		key := fmt.Sprintf("%s:%s:%d", clientKey, route, limit.Window.Milliseconds())

		count, err := l.store.Record(ctx, key, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &Exceeded{Config: limit, Count: count}, nil
		}
	}

	return true, nil, nil
}
