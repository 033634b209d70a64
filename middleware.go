package graphql

import (
	"context"

	"github.com/graph-gophers/graphql-engine/errors"
)

// Exec executes a request.
type Exec func(ctx context.Context, req *Request) *Response

// Middleware can wrap Exec to add additional behaviour
type Middleware func(next Exec) Exec

func ParseErrorsMiddleware(parseErrors func([]*errors.QueryError) []*errors.QueryError) Middleware {
	return func(next Exec) Exec {
		return func(ctx context.Context, req *Request) *Response {
			response := next(ctx, req)
			response.Errors = parseErrors(response.Errors)
			return response
		}
	}
}

// InspectInputMiddleware can be used to inspect the provided input and return a custom response.
// If no response is returned, we simply continue by calling next().
func InspectInputMiddleware(inspectInput func(req *Request) *Response) Middleware {
	return func(next Exec) Exec {
		return func(ctx context.Context, req *Request) *Response {
			if response := inspectInput(req); response != nil {
				return response
			}

			return next(ctx, req)
		}
	}
}
