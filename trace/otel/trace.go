// Package otel traces requests, validation and field resolution with OpenTelemetry.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/graph-gophers/graphql-engine/errors"
	gcontext "github.com/graph-gophers/graphql-engine/internal/context"
	"github.com/graph-gophers/graphql-engine/trace/tracer"
)

// DefaultTracer creates a tracer using a default name
func DefaultTracer() *Tracer {
	return &Tracer{
		Tracer: otel.Tracer("graphql-engine"),
	}
}

// Tracer is an OpenTelemetry implementation of tracer.Tracer. Set the Tracer
// property to your tracer instance as required.
type Tracer struct {
	Tracer oteltrace.Tracer
}

func (t *Tracer) TraceQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) (context.Context, tracer.QueryFinishFunc) {
	spanCtx, span := t.Tracer.Start(ctx, "GraphQL Request")

	var attributes []attribute.KeyValue
	attributes = append(attributes, attribute.String("graphql.query", queryString))
	if operationName != "" {
		attributes = append(attributes, attribute.String("graphql.operationName", operationName))
	}
	if len(variables) != 0 {
		attributes = append(attributes, attribute.String("graphql.variables", fmt.Sprintf("%v", variables)))
	}
	if id, ok := gcontext.RequestID(ctx); ok {
		attributes = append(attributes, attribute.String("graphql.request_id", id))
	}
	span.SetAttributes(attributes...)

	return spanCtx, func(errs []*errors.QueryError) {
		if len(errs) > 0 {
			span.SetAttributes(attribute.Int("graphql.errors", len(errs)))
			span.SetStatus(codes.Error, summarize(errs))
		}
		span.End()
	}
}

func (t *Tracer) TraceField(ctx context.Context, label, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	if trivial {
		return ctx, func(*errors.QueryError) {}
	}

	var attributes []attribute.KeyValue

	spanCtx, span := t.Tracer.Start(ctx, label)
	attributes = append(attributes, attribute.String("graphql.type", typeName))
	attributes = append(attributes, attribute.String("graphql.field", fieldName))
	for name, value := range args {
		attributes = append(attributes, attribute.String("graphql.args."+name, fmt.Sprintf("%v", value)))
	}
	span.SetAttributes(attributes...)

	return spanCtx, func(err *errors.QueryError) {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (t *Tracer) TraceValidation(ctx context.Context) tracer.ValidationFinishFunc {
	_, span := t.Tracer.Start(ctx, "GraphQL Validate")

	return func(errs []*errors.QueryError) {
		if len(errs) > 0 {
			span.SetStatus(codes.Error, summarize(errs))
		}
		span.End()
	}
}

func summarize(errs []*errors.QueryError) string {
	msg := errs[0].Error()
	if len(errs) > 1 {
		msg += fmt.Sprintf(" (and %d more errors)", len(errs)-1)
	}
	return msg
}
