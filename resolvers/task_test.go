package resolvers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/graphql-engine/resolvers"
)

func TestDeferRunsOnce(t *testing.T) {
	var calls int32
	task := resolvers.Defer(func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "done", nil
	})
	ctx := context.Background()
	assert.Equal(t, "done", resolvers.Await(ctx, task).Value)
	r, ok := task.Poll(ctx)
	assert.True(t, ok)
	assert.Equal(t, "done", r.Value)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDeferPollDoesNotRunInline(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	task := resolvers.Defer(func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "late", nil
	})
	ctx := context.Background()

	_, ok := task.Poll(ctx)
	assert.False(t, ok)
	_, ok = task.Poll(ctx)
	assert.False(t, ok)

	close(release)
	var r resolvers.Result
	require.Eventually(t, func() bool {
		r, ok = task.Poll(ctx)
		return ok
	}, time.Second, time.Millisecond)
	assert.Equal(t, "late", r.Value)
	assert.Equal(t, "late", resolvers.Await(ctx, task).Value)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestFuture(t *testing.T) {
	f := resolvers.NewFuture()
	_, ok := f.Poll(context.Background())
	assert.False(t, ok)

	boom := errors.New("boom")
	f.Complete(nil, boom)
	f.Complete("ignored", nil)
	r, ok := f.Poll(context.Background())
	require.True(t, ok)
	assert.ErrorIs(t, r.Err, boom)
	assert.Nil(t, r.Value)
}

func TestFutureWaitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := resolvers.Await(ctx, resolvers.NewFuture())
	assert.ErrorIs(t, r.Err, context.Canceled)
}

func TestGo(t *testing.T) {
	task := resolvers.Go(context.Background(), func(context.Context) (interface{}, error) {
		time.Sleep(time.Millisecond)
		return 7, nil
	})
	assert.Equal(t, 7, resolvers.Await(context.Background(), task).Value)
}

// countdown is ready after a number of polls and has no Wait method.
type countdown struct{ n int }

func (c *countdown) Poll(context.Context) (resolvers.Result, bool) {
	if c.n > 0 {
		c.n--
		return resolvers.Result{}, false
	}
	return resolvers.Result{Value: "ready"}, true
}

func TestAwaitPollsUntilReady(t *testing.T) {
	r := resolvers.Await(context.Background(), &countdown{n: 3})
	assert.Equal(t, "ready", r.Value)
}

type panicky struct{}

func (panicky) Poll(context.Context) (resolvers.Result, bool) { panic("poll failed") }

func TestPollRecovers(t *testing.T) {
	r, done := resolvers.Poll(context.Background(), panicky{})
	assert.True(t, done)
	var p *resolvers.PanicError
	require.ErrorAs(t, r.Err, &p)
	assert.Equal(t, "panic occurred: poll failed", p.Error())
}

func TestPending(t *testing.T) {
	p := resolvers.NewPending(resolvers.NewFuture())
	assert.False(t, p.Resolved())
	p.Resolve(resolvers.Result{Value: 1})
	assert.True(t, p.Resolved())
	assert.Equal(t, 1, p.Result().Value)
}
