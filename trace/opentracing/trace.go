// Package opentracing traces requests, validation and field resolution with
// OpenTracing spans.
package opentracing

import (
	"context"
	"fmt"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"

	"github.com/graph-gophers/graphql-engine/errors"
	gcontext "github.com/graph-gophers/graphql-engine/internal/context"
	"github.com/graph-gophers/graphql-engine/trace/tracer"
)

// Tracer implements tracer.Tracer and tracer.ValidationTracer. Spans are started on
// Tracer, or on the global tracer when it is nil.
type Tracer struct {
	Tracer opentracing.Tracer
}

func (t Tracer) startSpan(ctx context.Context, name string) (opentracing.Span, context.Context) {
	ot := t.Tracer
	if ot == nil {
		ot = opentracing.GlobalTracer()
	}
	return opentracing.StartSpanFromContextWithTracer(ctx, ot, name)
}

func (t Tracer) TraceQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) (context.Context, tracer.QueryFinishFunc) {
	span, spanCtx := t.startSpan(ctx, "GraphQL request")
	span.SetTag("graphql.query", queryString)

	if operationName != "" {
		span.SetTag("graphql.operationName", operationName)
	}
	if id, ok := gcontext.RequestID(ctx); ok {
		span.SetTag("graphql.request_id", id)
	}

	if len(variables) != 0 {
		span.LogFields(log.Object("graphql.variables", variables))
	}

	return spanCtx, func(errs []*errors.QueryError) {
		if len(errs) > 0 {
			ext.Error.Set(span, true)
			span.SetTag("graphql.error", summarize(errs))
		}
		span.Finish()
	}
}

func (t Tracer) TraceField(ctx context.Context, label, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	if trivial {
		return ctx, noop
	}

	span, spanCtx := t.startSpan(ctx, label)
	span.SetTag("graphql.type", typeName)
	span.SetTag("graphql.field", fieldName)
	for name, value := range args {
		span.SetTag("graphql.args."+name, value)
	}

	return spanCtx, func(err *errors.QueryError) {
		if err != nil {
			ext.Error.Set(span, true)
			span.SetTag("graphql.error", err.Error())
		}
		span.Finish()
	}
}

func (t Tracer) TraceValidation(ctx context.Context) tracer.ValidationFinishFunc {
	span, _ := t.startSpan(ctx, "Validate Query")

	return func(errs []*errors.QueryError) {
		if len(errs) > 0 {
			ext.Error.Set(span, true)
			span.SetTag("graphql.error", summarize(errs))
		}
		span.Finish()
	}
}

func summarize(errs []*errors.QueryError) string {
	msg := errs[0].Error()
	if len(errs) > 1 {
		msg += fmt.Sprintf(" (and %d more errors)", len(errs)-1)
	}
	return msg
}

func noop(*errors.QueryError) {}
