package resolvers

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"
)

// Result is the outcome of a Task.
type Result struct {
	Value interface{}
	Err   error
}

// Task is the unit of work behind a field whose value is not known yet. A resolver
// returns a Task in place of its value; the execution strategy drives it to
// completion. The finished value may itself be a Task.
type Task interface {
	// Poll reports the result once the work has finished. Under the non-blocking
	// strategy Poll must not block.
	Poll(ctx context.Context) (Result, bool)
}

// Waiter is implemented by tasks that can block until they finish.
type Waiter interface {
	Wait(ctx context.Context) Result
}

// PanicError carries a value recovered from a panicking resolver.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic occurred: %v", e.Value)
}

// Recover converts a recovered panic into a *PanicError. It returns nil if r is nil.
func Recover(r interface{}) *PanicError {
	if r == nil {
		return nil
	}
	return &PanicError{Value: r, Stack: debug.Stack()}
}

// Await blocks until t finishes or ctx is done.
func Await(ctx context.Context, t Task) (res Result) {
	defer func() {
		if p := Recover(recover()); p != nil {
			res = Result{Err: p}
		}
	}()
	if w, ok := t.(Waiter); ok {
		return w.Wait(ctx)
	}
	backoff := 50 * time.Microsecond
	for {
		if r, done := t.Poll(ctx); done {
			return r
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{Err: ctx.Err()}
		case <-timer.C:
		}
		if backoff < 5*time.Millisecond {
			backoff *= 2
		}
	}
}

// Poll polls t once, turning a panic into an error result.
func Poll(ctx context.Context, t Task) (res Result, done bool) {
	defer func() {
		if p := Recover(recover()); p != nil {
			res, done = Result{Err: p}, true
		}
	}()
	return t.Poll(ctx)
}

type thunk struct {
	fn      func(ctx context.Context) (interface{}, error)
	once    sync.Once
	started sync.Once
	done    chan struct{}
	res     Result
}

// Defer wraps work that runs when the strategy first drives the task. Blocking
// strategies run it on the goroutine that waits for it; a non-blocking Poll starts it
// on a new goroutine and reports it ready once it has finished, so the polling loop
// never runs resolver code itself.
func Defer(fn func(ctx context.Context) (interface{}, error)) Task {
	return &thunk{fn: fn, done: make(chan struct{})}
}

func (t *thunk) Poll(ctx context.Context) (Result, bool) {
	t.started.Do(func() {
		go t.Wait(ctx)
	})
	select {
	case <-t.done:
		return t.res, true
	default:
		return Result{}, false
	}
}

func (t *thunk) Wait(ctx context.Context) Result {
	t.once.Do(func() {
		t.res = call(ctx, t.fn)
		close(t.done)
	})
	return t.res
}

func call(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (res Result) {
	defer func() {
		if p := Recover(recover()); p != nil {
			res = Result{Err: p}
		}
	}()
	v, err := fn(ctx)
	return Result{Value: v, Err: err}
}

// Future is a Task completed by its producer. It suits hosts that resolve fields from
// their own event loop.
type Future struct {
	done chan struct{}
	once sync.Once
	res  Result
}

func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Complete records the result. Later calls are ignored.
func (f *Future) Complete(v interface{}, err error) {
	f.once.Do(func() {
		f.res = Result{Value: v, Err: err}
		close(f.done)
	})
}

func (f *Future) Poll(ctx context.Context) (Result, bool) {
	select {
	case <-f.done:
		return f.res, true
	default:
		return Result{}, false
	}
}

func (f *Future) Wait(ctx context.Context) Result {
	select {
	case <-f.done:
		return f.res
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}

// Go starts fn on a new goroutine and returns a Task for its result.
func Go(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) Task {
	f := NewFuture()
	go func() {
		r := call(ctx, fn)
		f.Complete(r.Value, r.Err)
	}()
	return f
}

// Pending is a suspended field as seen by an execution strategy. The strategy drives
// Task to completion and hands the result back through Resolve.
type Pending struct {
	Task     Task
	result   Result
	resolved bool
}

func NewPending(t Task) *Pending {
	return &Pending{Task: t}
}

func (p *Pending) Resolve(r Result) {
	p.result = r
	p.resolved = true
}

func (p *Pending) Resolved() bool {
	return p.resolved
}

func (p *Pending) Result() Result {
	return p.result
}
