// Package ratelimit decides whether a query may run.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter is consulted once per operation, after validation and before any
// resolver runs. Returning true rejects the operation.
type RateLimiter interface {
	LimitQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) bool
}

// TokenBucket admits operations at a steady rate with bursts, shared by all callers.
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket allows r operations per second with bursts of up to burst.
func NewTokenBucket(r rate.Limit, burst int) *TokenBucket {
	return &TokenBucket{limiter: rate.NewLimiter(r, burst)}
}

func (b *TokenBucket) LimitQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) bool {
	return !b.limiter.Allow()
}

// KeyedTokenBucket keeps one bucket per key, e.g. per client address.
type KeyedTokenBucket struct {
	// Key extracts the bucket key from the request context.
	Key func(ctx context.Context) string

	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewKeyedTokenBucket(r rate.Limit, burst int, key func(ctx context.Context) string) *KeyedTokenBucket {
	return &KeyedTokenBucket{
		Key:      key,
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
}

// getLimiter returns the limiter for the given key, creating one if needed
func (b *KeyedTokenBucket) getLimiter(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	limiter, exists := b.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(b.rate, b.burst)
		b.limiters[key] = limiter
	}
	return limiter
}

func (b *KeyedTokenBucket) LimitQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) bool {
	return !b.getLimiter(b.Key(ctx)).Allow()
}
