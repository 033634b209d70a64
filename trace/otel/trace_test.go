package otel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	graphql "github.com/graph-gophers/graphql-engine"
	"github.com/graph-gophers/graphql-engine/example/todos"
	otelgraphql "github.com/graph-gophers/graphql-engine/trace/otel"
	"github.com/graph-gophers/graphql-engine/trace/tracer"
)

func TestInterfaceImplementation(t *testing.T) {
	var _ tracer.ValidationTracer = &otelgraphql.Tracer{}
	var _ tracer.Tracer = &otelgraphql.Tracer{}
}

func newEngine(t *testing.T) (*graphql.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	e := graphql.NewEngine(todos.Schema(),
		graphql.Root(&todos.Resolver{Store: todos.NewStore()}),
		graphql.Tracer(&otelgraphql.Tracer{Tracer: provider.Tracer("test")}),
	)
	return e, recorder
}

func TestSpans(t *testing.T) {
	e, recorder := newEngine(t)

	resp := e.Execute(context.Background(), &graphql.Request{
		Query:         `query Q { todo(id: "t1") { title __typename } }`,
		OperationName: "Q",
	})
	require.True(t, resp.OK())

	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.ElementsMatch(t, []string{
		"GraphQL Validate",
		"GraphQL field: Query.todo",
		"GraphQL field: Todo.title",
		"GraphQL Request",
	}, names)

	for _, span := range recorder.Ended() {
		if span.Name() != "GraphQL Request" {
			continue
		}
		attrs := map[string]string{}
		for _, kv := range span.Attributes() {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
		assert.Equal(t, "Q", attrs["graphql.operationName"])
		assert.Len(t, attrs["graphql.request_id"], 27)
		assert.Equal(t, codes.Unset, span.Status().Code)
	}
}

func TestErrorStatus(t *testing.T) {
	e, recorder := newEngine(t)

	resp := e.Execute(context.Background(), &graphql.Request{Query: `{ todos(first: -1) { id } }`})
	require.False(t, resp.OK())

	statuses := map[string]codes.Code{}
	for _, span := range recorder.Ended() {
		statuses[span.Name()] = span.Status().Code
	}
	assert.Equal(t, codes.Unset, statuses["GraphQL Validate"])
	assert.Equal(t, codes.Error, statuses["GraphQL field: Query.todos"])
	assert.Equal(t, codes.Error, statuses["GraphQL Request"])

	recorder2 := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder2))
	tr := &otelgraphql.Tracer{Tracer: provider.Tracer("test")}
	e = graphql.NewEngine(todos.Schema(), graphql.Tracer(tr))
	resp = e.Execute(context.Background(), &graphql.Request{Query: `{ nope }`})
	require.False(t, resp.OK())
	require.Len(t, recorder2.Ended(), 1)
	assert.Equal(t, "GraphQL Validate", recorder2.Ended()[0].Name())
	assert.Equal(t, codes.Error, recorder2.Ended()[0].Status().Code)
}

func TestDefaultTracer(t *testing.T) {
	assert.NotNil(t, otelgraphql.DefaultTracer().Tracer)
}
