// Package noop defines a no-op tracer implementation.
package noop

import (
	"context"

	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/trace/tracer"
)

// Tracer is a no-op tracer that does nothing.
type Tracer struct{}

func (Tracer) TraceQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) (context.Context, tracer.QueryFinishFunc) {
	return ctx, func(errs []*errors.QueryError) {}
}

func (Tracer) TraceField(ctx context.Context, label, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	return ctx, func(err *errors.QueryError) {}
}

func (Tracer) TraceValidation(context.Context) tracer.ValidationFinishFunc {
	return func(errs []*errors.QueryError) {}
}
