package strategy

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/graph-gophers/graphql-engine/log"
)

// GoSpawner starts a goroutine per task. When created with a positive limit, at most
// limit tasks run at a time and Spawn blocks until a slot frees up.
type GoSpawner struct {
	limiter chan struct{}
}

func NewGoSpawner(limit int) *GoSpawner {
	s := &GoSpawner{}
	if limit > 0 {
		s.limiter = make(chan struct{}, limit)
	}
	return s
}

func (s *GoSpawner) Spawn(task func()) error {
	if s.limiter == nil {
		go task()
		return nil
	}
	s.limiter <- struct{}{}
	go func() {
		defer func() { <-s.limiter }()
		task()
	}()
	return nil
}

// AntsSpawner runs tasks on an ants goroutine pool.
type AntsSpawner struct {
	pool *ants.Pool
}

// NewAntsSpawner creates a pool of size workers. Panics escaping a task are reported
// to logger.
func NewAntsSpawner(size int, logger log.Logger) (*AntsSpawner, error) {
	if logger == nil {
		logger = &log.DefaultLogger{}
	}
	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(v any) {
		logger.LogPanic(context.Background(), v)
	}))
	if err != nil {
		return nil, err
	}
	return &AntsSpawner{pool: pool}, nil
}

func (s *AntsSpawner) Spawn(task func()) error {
	return s.pool.Submit(task)
}

// Running reports the number of busy workers.
func (s *AntsSpawner) Running() int {
	return s.pool.Running()
}

// Release stops the pool. Tasks submitted afterwards run on the caller.
func (s *AntsSpawner) Release() {
	s.pool.Release()
}
