// Package strategy drives executions whose resolvers suspend. An execution resolves
// fields until every remaining field waits on a resolvers.Task; a strategy completes
// those tasks and steps the execution again. All strategies produce the same response
// for the same input.
package strategy

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/graph-gophers/graphql-engine/resolvers"
)

// Run is an execution in progress.
type Run interface {
	// Step advances until the run is done or waits on unresolved pending tasks.
	Step()
	Done() bool
	Pending() []*resolvers.Pending
}

// Strategy drives a Run to completion.
type Strategy interface {
	Execute(ctx context.Context, run Run)
}

// CurrentThread blocks the calling goroutine on each pending task in turn.
type CurrentThread struct{}

func (CurrentThread) Execute(ctx context.Context, run Run) {
	for run.Step(); !run.Done(); run.Step() {
		for _, p := range run.Pending() {
			if !p.Resolved() {
				p.Resolve(resolvers.Await(ctx, p.Task))
			}
		}
	}
}

// NonBlocking never blocks on a task: it polls each pending task once per round.
// Resolvers must report work that is not ready through Poll rather than block.
type NonBlocking struct {
	// Yield is called between rounds that did not finish the run. The default sleeps
	// briefly, backing off while tasks stay unready.
	Yield func()
}

// Poll advances run as far as possible without blocking and reports whether it is
// done. Hosts with their own event loop call Poll from the loop.
func Poll(ctx context.Context, run Run) bool {
	run.Step()
	if run.Done() {
		return true
	}
	for _, p := range run.Pending() {
		if p.Resolved() {
			continue
		}
		if r, ok := resolvers.Poll(ctx, p.Task); ok {
			p.Resolve(r)
		} else if err := ctx.Err(); err != nil {
			p.Resolve(resolvers.Result{Err: err})
		}
	}
	run.Step()
	return run.Done()
}

func (s NonBlocking) Execute(ctx context.Context, run Run) {
	yield := s.Yield
	if yield == nil {
		yield = backoff()
	}
	for !Poll(ctx, run) {
		yield()
	}
}

func backoff() func() {
	d := time.Duration(0)
	return func() {
		if d == 0 {
			runtime.Gosched()
			d = 10 * time.Microsecond
			return
		}
		time.Sleep(d)
		if d < time.Millisecond {
			d *= 2
		}
	}
}

// Spawner starts work on behalf of an execution.
type Spawner interface {
	// Spawn runs task asynchronously. A task that could not be started is run by the
	// caller instead.
	Spawn(task func()) error
}

// SpawnerFunc is a function type that implements the Spawner interface.
type SpawnerFunc func(task func()) error

func (f SpawnerFunc) Spawn(task func()) error {
	return f(task)
}

// Spawned hands every pending task of a wave to a Spawner and waits for all of them
// before stepping the run again, so sibling fields resolve in parallel.
type Spawned struct {
	Spawner Spawner
}

func WithSpawner(s Spawner) *Spawned {
	return &Spawned{Spawner: s}
}

func (s *Spawned) Execute(ctx context.Context, run Run) {
	for run.Step(); !run.Done(); run.Step() {
		var wg sync.WaitGroup
		for _, p := range run.Pending() {
			if p.Resolved() {
				continue
			}
			p := p
			wg.Add(1)
			work := func() {
				defer wg.Done()
				p.Resolve(resolvers.Await(ctx, p.Task))
			}
			if err := s.Spawner.Spawn(work); err != nil {
				work()
			}
		}
		wg.Wait()
	}
}
