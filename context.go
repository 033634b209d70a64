package graphql

import (
	"context"

	gcontext "github.com/graph-gophers/graphql-engine/internal/context"
)

// RequestID returns the id the engine assigned to the request being executed, or ""
// outside of a request.
func RequestID(ctx context.Context) string {
	id, _ := gcontext.RequestID(ctx)
	return id
}
