// Package noop defines a rate limiter that admits every operation.
package noop

import "context"

// RateLimiter is a no-op rate limiter that does nothing.
type RateLimiter struct{}

func (RateLimiter) LimitQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) bool {
	return false
}
