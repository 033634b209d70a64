package noop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/graph-gophers/graphql-engine/trace/noop"
	"github.com/graph-gophers/graphql-engine/trace/tracer"
)

func TestInterfaceImplementation(t *testing.T) {
	var _ tracer.ValidationTracer = &noop.Tracer{}
	var _ tracer.Tracer = &noop.Tracer{}
}

func TestReturnsSameContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), struct{}{}, 1)
	got, finish := noop.Tracer{}.TraceQuery(ctx, "{ a }", "", nil)
	assert.Equal(t, ctx, got)
	finish(nil)
}
