package graphql

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/config"
	"github.com/graph-gophers/graphql-engine/errors"
	gcontext "github.com/graph-gophers/graphql-engine/internal/context"
	"github.com/graph-gophers/graphql-engine/internal/exec"
	"github.com/graph-gophers/graphql-engine/internal/query"
	"github.com/graph-gophers/graphql-engine/internal/validation"
	"github.com/graph-gophers/graphql-engine/log"
	"github.com/graph-gophers/graphql-engine/ratelimit"
	"github.com/graph-gophers/graphql-engine/ratelimit/noop"
	"github.com/graph-gophers/graphql-engine/resolvers"
	"github.com/graph-gophers/graphql-engine/schema"
	"github.com/graph-gophers/graphql-engine/strategy"
	tracenoop "github.com/graph-gophers/graphql-engine/trace/noop"
	"github.com/graph-gophers/graphql-engine/trace/tracer"
)

// Engine executes requests against a schema. It is safe for concurrent use.
type Engine struct {
	schema               *schema.Schema
	maxDepth             int
	maxComplexity        int
	maxParallelism       int
	maxParseDepth        int
	disableIntrospection bool
	concurrentValidation bool
	tracer               tracer.Tracer
	validationTracer     tracer.ValidationTracer
	logger               log.Logger
	rateLimiter          ratelimit.RateLimiter
	strategy             strategy.Strategy
	resolverFactory      resolvers.ResolverFactory
	root                 interface{}
	middleware           []Middleware
	exec                 Exec
	release              func()
}

// Option configures an Engine.
type Option func(*Engine)

// MaxDepth rejects documents whose selections nest deeper than n. Zero disables the check.
func MaxDepth(n int) Option {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// MaxComplexity rejects documents whose estimated complexity exceeds n. Zero disables the check.
func MaxComplexity(n int) Option {
	return func(e *Engine) {
		e.maxComplexity = n
	}
}

// MaxParallelism bounds the number of requests of a batch executed at once.
func MaxParallelism(n int) Option {
	return func(e *Engine) {
		e.maxParallelism = n
	}
}

// MaxParseDepth bounds the nesting of selection sets accepted by the parser.
func MaxParseDepth(n int) Option {
	return func(e *Engine) {
		e.maxParseDepth = n
	}
}

// DisableIntrospection rejects queries selecting __schema or __type.
func DisableIntrospection() Option {
	return func(e *Engine) {
		e.disableIntrospection = true
	}
}

// ConcurrentValidation runs the validation rules of a document in parallel.
func ConcurrentValidation() Option {
	return func(e *Engine) {
		e.concurrentValidation = true
	}
}

// Tracer is used to trace queries and fields. When t also implements
// tracer.ValidationTracer it traces validation too, unless ValidationTracer is given.
func Tracer(t tracer.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// ValidationTracer is used to trace validation.
func ValidationTracer(t tracer.ValidationTracer) Option {
	return func(e *Engine) {
		e.validationTracer = t
	}
}

// Logger is used to log panics during query execution. It defaults to log.DefaultLogger.
// A logger implementing log.ExecutionLogger also receives one record per request.
func Logger(l log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// RateLimiter is consulted before an operation is executed.
func RateLimiter(l ratelimit.RateLimiter) Option {
	return func(e *Engine) {
		e.rateLimiter = l
	}
}

// Strategy drives pending resolver tasks. It defaults to strategy.CurrentThread.
func Strategy(s strategy.Strategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

// ResolverFactory creates the resolvers of all fields. It defaults to
// resolvers.DynamicResolverFactory.
func ResolverFactory(f resolvers.ResolverFactory) Option {
	return func(e *Engine) {
		e.resolverFactory = f
	}
}

// Root is the value the root fields are resolved on.
func Root(v interface{}) Option {
	return func(e *Engine) {
		e.root = v
	}
}

// UseMiddleware wraps Execute. The first middleware is the outermost.
func UseMiddleware(m ...Middleware) Option {
	return func(e *Engine) {
		e.middleware = append(e.middleware, m...)
	}
}

// NewEngine creates an engine serving s.
func NewEngine(s *schema.Schema, opts ...Option) *Engine {
	e := &Engine{
		schema:          s,
		maxDepth:        50,
		maxParallelism:  10,
		maxParseDepth:   query.DefaultMaxDepth,
		tracer:          tracenoop.Tracer{},
		logger:          &log.DefaultLogger{},
		rateLimiter:     noop.RateLimiter{},
		strategy:        strategy.CurrentThread{},
		resolverFactory: resolvers.DynamicResolverFactory(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.validationTracer == nil {
		if vt, ok := e.tracer.(tracer.ValidationTracer); ok {
			e.validationTracer = vt
		} else {
			e.validationTracer = tracenoop.Tracer{}
		}
	}

	e.exec = e.execute
	for i := len(e.middleware) - 1; i >= 0; i-- {
		e.exec = e.middleware[i](e.exec)
	}
	return e
}

// FromConfig creates an engine from cfg. Options are applied after the configuration,
// so they take precedence. Close releases the spawner pool created for the
// "spawner" strategy.
func FromConfig(s *schema.Schema, cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := &log.DefaultLogger{Logger: log.New(cfg.LogLevel, cfg.LogFormat)}
	base := []Option{
		MaxDepth(cfg.MaxDepth),
		MaxComplexity(cfg.MaxComplexity),
		MaxParallelism(cfg.MaxParallelism),
		Logger(logger),
	}
	if cfg.DisableIntrospection {
		base = append(base, DisableIntrospection())
	}
	if cfg.RateLimit > 0 {
		base = append(base, RateLimiter(ratelimit.NewTokenBucket(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))))
	}

	var release func()
	switch cfg.Strategy {
	case config.NonBlocking:
		base = append(base, Strategy(strategy.NonBlocking{}))
	case config.Spawner:
		spawner, err := strategy.NewAntsSpawner(cfg.SpawnerPoolSize, logger)
		if err != nil {
			return nil, fmt.Errorf("create spawner pool: %w", err)
		}
		release = spawner.Release
		base = append(base, Strategy(strategy.WithSpawner(spawner)))
	}

	e := NewEngine(s, append(base, opts...)...)
	e.release = release
	return e, nil
}

// Close releases resources held by the engine.
func (e *Engine) Close() {
	if e.release != nil {
		e.release()
	}
}

// Schema returns the schema the engine serves.
func (e *Engine) Schema() *schema.Schema {
	return e.schema
}

// Execute runs the request through the middleware chain and returns its response.
func (e *Engine) Execute(ctx context.Context, req *Request) *Response {
	return e.exec(ctx, req)
}

func (e *Engine) execute(ctx context.Context, req *Request) *Response {
	return e.Start(ctx, req).Wait()
}

// ExecuteBatch executes every request of the batch, at most MaxParallelism at a time.
func (e *Engine) ExecuteBatch(ctx context.Context, batch *BatchRequest) *BatchResponse {
	if !batch.IsBatch() {
		return &BatchResponse{Single: e.Execute(ctx, batch.Single)}
	}

	out := make([]*Response, len(batch.Batch))
	var g errgroup.Group
	if e.maxParallelism > 0 {
		g.SetLimit(e.maxParallelism)
	}
	for i, req := range batch.Batch {
		i, req := i, req
		g.Go(func() error {
			out[i] = e.Execute(ctx, req)
			return nil
		})
	}
	_ = g.Wait()
	return &BatchResponse{Batch: out}
}

// Run is a request whose execution has been prepared. Hosts that drive their own
// event loop call Poll until it reports true; others call Wait.
type Run struct {
	engine   *Engine
	ctx      context.Context
	req      *Request
	exec     *exec.Execution
	op       *ast.OperationDefinition
	finish   tracer.QueryFinishFunc
	started  time.Time
	response *Response
}

// Start parses, validates and prepares the request without resolving any field.
// Middleware is not applied.
func (e *Engine) Start(ctx context.Context, req *Request) *Run {
	id := ksuid.New().String()
	ctx = gcontext.WithRequestID(ctx, id)
	r := &Run{engine: e, ctx: ctx, req: req, started: time.Now()}

	doc, perr := query.ParseWithMaxDepth(req.Query, e.maxParseDepth)
	if perr != nil {
		r.fail(perr.QueryError())
		return r
	}

	validationFinish := e.validationTracer.TraceValidation(ctx)
	errs := validation.Validate(e.schema, doc, e.validationOptions())
	validationFinish(errs)
	if len(errs) != 0 {
		r.fail(errs...)
		return r
	}

	op, qerr := exec.SelectOperation(doc, req.OperationName)
	if qerr != nil {
		r.fail(qerr)
		return r
	}
	r.op = op

	if e.rateLimiter.LimitQuery(ctx, req.Query, req.OperationName, req.Variables) {
		err := errors.Errorf("rate limit exceeded")
		err.Rule = "RateLimited"
		r.fail(err)
		return r
	}

	vars, errs := exec.CoerceVariables(e.schema, op, req.Variables)
	if len(errs) != 0 {
		r.fail(errs...)
		return r
	}

	traceCtx, finish := e.tracer.TraceQuery(ctx, req.Query, req.OperationName, req.Variables)
	r.ctx, r.finish = traceCtx, finish
	r.exec = &exec.Execution{
		Schema:           e.schema,
		Doc:              doc,
		Operation:        op,
		Vars:             vars,
		Root:             e.root,
		OperationContext: req.OperationContext,
		Context:          traceCtx,
		ResolverFactory:  e.resolverFactory,
		Tracer:           e.tracer,
		Logger:           e.logger,
	}
	r.exec.Start()
	return r
}

func (e *Engine) validationOptions() validation.Options {
	return validation.Options{
		MaxDepth:             e.maxDepth,
		MaxComplexity:        e.maxComplexity,
		DisableIntrospection: e.disableIntrospection,
		Concurrent:           e.concurrentValidation,
	}
}

// Poll advances the run without blocking and reports whether it is done.
func (r *Run) Poll() bool {
	if r.response != nil {
		return true
	}
	if !strategy.Poll(r.ctx, r.exec) {
		return false
	}
	r.complete()
	return true
}

// Wait drives the run to completion with the engine's strategy.
func (r *Run) Wait() *Response {
	if r.response == nil {
		r.engine.strategy.Execute(r.ctx, r.exec)
		r.complete()
	}
	return r.response
}

// Response returns the response of a finished run, or nil.
func (r *Run) Response() *Response {
	return r.response
}

// RequestID returns the id assigned to the request.
func (r *Run) RequestID() string {
	return RequestID(r.ctx)
}

func (r *Run) fail(errs ...*errors.QueryError) {
	r.response = &Response{Errors: errs}
	r.record()
}

func (r *Run) complete() {
	data, errs := r.exec.Result()
	r.finish(errs)
	r.response = &Response{Data: data, Errors: errs}
	r.record()
}

func (r *Run) record() {
	el, ok := r.engine.logger.(log.ExecutionLogger)
	if !ok {
		return
	}
	rec := log.ExecutionRecord{
		RequestID:     r.RequestID(),
		OperationName: r.req.OperationName,
		Errors:        len(r.response.Errors),
		Duration:      time.Since(r.started),
	}
	if r.op != nil {
		rec.OperationName = r.op.Name.Value
		rec.OperationType = string(r.op.Type)
	}
	el.LogExecution(r.ctx, rec)
}
