package opentracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jaeger "github.com/uber/jaeger-client-go"

	graphql "github.com/graph-gophers/graphql-engine"
	"github.com/graph-gophers/graphql-engine/example/todos"
	"github.com/graph-gophers/graphql-engine/trace/opentracing"
	"github.com/graph-gophers/graphql-engine/trace/tracer"
)

func TestInterfaceImplementation(t *testing.T) {
	var _ tracer.ValidationTracer = &opentracing.Tracer{}
	var _ tracer.Tracer = &opentracing.Tracer{}
}

func TestSpans(t *testing.T) {
	reporter := jaeger.NewInMemoryReporter()
	jt, closer := jaeger.NewTracer("graphql-test", jaeger.NewConstSampler(true), reporter)
	defer closer.Close()

	e := graphql.NewEngine(todos.Schema(),
		graphql.Root(&todos.Resolver{Store: todos.NewStore()}),
		graphql.Tracer(opentracing.Tracer{Tracer: jt}),
	)
	resp := e.Execute(context.Background(), &graphql.Request{
		Query:     `query ($id: ID!) { todo(id: $id) { title } todos(first: -1) { id } }`,
		Variables: map[string]interface{}{"id": "t2"},
	})
	require.False(t, resp.OK())

	spans := map[string]*jaeger.Span{}
	for _, s := range reporter.GetSpans() {
		span := s.(*jaeger.Span)
		spans[span.OperationName()] = span
	}
	require.Contains(t, spans, "Validate Query")
	require.Contains(t, spans, "GraphQL request")
	require.Contains(t, spans, "GraphQL field: Query.todo")
	require.Contains(t, spans, "GraphQL field: Todo.title")
	require.Contains(t, spans, "GraphQL field: Query.todos")

	todo := spans["GraphQL field: Query.todo"].Tags()
	assert.Equal(t, "Query", todo["graphql.type"])
	assert.Equal(t, "t2", todo["graphql.args.id"])
	assert.NotContains(t, todo, "error")

	failed := spans["GraphQL field: Query.todos"].Tags()
	assert.Equal(t, true, failed["error"])

	request := spans["GraphQL request"]
	assert.Equal(t, true, request.Tags()["error"])
	assert.Len(t, request.Tags()["graphql.request_id"], 27)
	assert.Equal(t, request.Context().(jaeger.SpanContext).TraceID(), spans["GraphQL field: Todo.title"].Context().(jaeger.SpanContext).TraceID())
}
