// Package context carries per-request values shared by the engine, the executor and
// the tracers.
package context

import (
	"context"
)

type requestKeyType int

const requestIDKey requestKeyType = iota

// WithRequestID returns a context carrying the request id so it can be later
// retrieved using RequestID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the id of the request being executed.
func RequestID(ctx context.Context) (id string, found bool) {
	if ctx == nil {
		return
	}

	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v, true
	}

	return
}
