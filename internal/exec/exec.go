// Package exec resolves a validated operation against a schema.
package exec

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/internal/selections"
	"github.com/graph-gophers/graphql-engine/log"
	"github.com/graph-gophers/graphql-engine/resolvers"
	"github.com/graph-gophers/graphql-engine/schema"
	"github.com/graph-gophers/graphql-engine/trace/noop"
	"github.com/graph-gophers/graphql-engine/trace/tracer"
	"github.com/graph-gophers/graphql-engine/value"
)

// Execution runs one operation. It resolves fields breadth-first, one level of the
// response tree per wave. Step advances until every field is resolved or some field is
// waiting on a Task; the execution strategy resolves the pending tasks between steps.
// The response is assembled once all waves are done.
type Execution struct {
	Schema           *schema.Schema
	Doc              *ast.Document
	Operation        *ast.OperationDefinition
	Vars             map[string]interface{}
	Root             interface{}
	OperationContext interface{}
	Context          context.Context
	ResolverFactory  resolvers.ResolverFactory
	Tracer           tracer.Tracer
	Logger           log.Logger

	root    *execNode
	queue   []*execNode
	next    []*execNode
	serial  []*execNode
	parked  []*parked
	pending []*resolvers.Pending
	done    bool
	data    *value.Object
	errs    []*errors.QueryError
}

var introspectionFactory = resolvers.DynamicResolverFactory()

// parked is a field waiting on a Task.
type parked struct {
	p      *resolvers.Pending
	node   *execNode
	finish tracer.FieldFinishFunc
}

// execNode is used to build a tree structure that closely assembles the returned data.
// This in-memory representation allows nodes to be resolved in a different order
// (breadth-first, possibly suspended) than they are written (depth-first).
type execNode struct {
	label    interface{}     // response key or list index
	parent   *execNode       // parent node
	children []*execNode     // child nodes
	typ      schema.MetaType // declared type, wrapped in Nullable when nullable
	field    *fieldToExec    // field information, shared by the elements of a list
	objType  *schema.Object  // concrete type of an object value
	value    interface{}     // resolved object value
	leaf     value.Value     // serialized scalar or enum
	list     bool
	null     bool // resolved to null at a nullable position
	err      *errors.QueryError
}

// fullPath returns the full path of the node. This path is included in all graphQL
// error messages.
func (n *execNode) fullPath() []interface{} {
	if n == nil || n.parent == nil {
		return nil
	}
	return append(n.parent.fullPath(), n.label)
}

// SelectOperation picks the operation to execute from the document.
func SelectOperation(doc *ast.Document, name string) (*ast.OperationDefinition, *errors.QueryError) {
	if len(doc.Operations) == 0 {
		err := errors.Errorf("no operations in query document")
		err.Rule = "NoOperationProvided"
		return nil, err
	}
	if name == "" {
		if len(doc.Operations) > 1 {
			err := errors.Errorf("more than one operation in query document and no operation name given")
			err.Rule = "MultipleOperationsProvided"
			return nil, err
		}
		return doc.Operations[0], nil
	}
	for _, op := range doc.Operations {
		if op.Name.Value == name {
			return op, nil
		}
	}
	err := errors.Errorf("no operation with name %q", name)
	err.Rule = "UnknownOperationName"
	return nil, err
}

// Start prepares the root selection set. It must be called once before Step.
func (e *Execution) Start() {
	if e.Context == nil {
		e.Context = context.Background()
	}
	if e.Tracer == nil {
		e.Tracer = noop.Tracer{}
	}
	if e.ResolverFactory == nil {
		e.ResolverFactory = resolvers.DynamicResolverFactory()
	}
	rootType := e.Schema.RootType(e.Operation.Type)
	if rootType == nil {
		e.done = true
		e.errs = []*errors.QueryError{errors.Errorf("schema does not support %s operations", e.Operation.Type)}
		return
	}
	e.root = &execNode{typ: rootType}
	e.expandObject(e.root, rootType, e.Root, e.Operation.Selections)
	if e.Operation.Type == ast.Mutation {
		// mutations run their top-level fields one after another
		e.serial, e.next = e.next, nil
	}
}

// Step resolves fields until the execution finishes or some field waits on a Task
// that has not been resolved yet.
func (e *Execution) Step() {
	for !e.done {
		if len(e.parked) > 0 {
			for _, p := range e.parked {
				if !p.p.Resolved() {
					return
				}
			}
			// outcomes are applied in the order the fields were parked, whatever
			// order they completed in
			waiting := e.parked
			e.parked, e.pending = nil, nil
			for _, p := range waiting {
				r := p.p.Result()
				e.complete(p.node, r.Value, r.Err, p.finish)
			}
			continue
		}

		if err := e.Context.Err(); err != nil {
			e.cancel(err)
			return
		}
		if len(e.queue) == 0 {
			switch {
			case len(e.next) > 0:
				e.queue, e.next = e.next, nil
			case len(e.serial) > 0:
				e.queue, e.serial = e.serial[:1], e.serial[1:]
			default:
				e.finish()
				return
			}
		}

		queue := e.queue
		e.queue = nil
		for _, n := range queue {
			e.resolveField(n)
		}
	}
}

// Pending returns the tasks the execution is waiting on.
func (e *Execution) Pending() []*resolvers.Pending {
	return e.pending
}

func (e *Execution) Done() bool {
	return e.done
}

// Result returns the response data and errors of a finished execution. The data is
// nil when the execution was canceled.
func (e *Execution) Result() (*value.Object, []*errors.QueryError) {
	return e.data, e.errs
}

func (e *Execution) finish() {
	e.done = true
	e.data = e.writeRoot()
}

func (e *Execution) cancel(cause error) {
	e.done = true
	e.parked, e.pending = nil, nil
	err := errors.Errorf("%s", cause)
	err.Rule = "Canceled"
	e.errs = []*errors.QueryError{err}
}

func (e *Execution) resolveField(n *execNode) {
	f := n.field
	parent := n.parent
	args, err := CoerceArguments(e.Schema, f.def.Arguments, f.fields[0].Arguments, e.Vars)
	if err != nil {
		n.err = e.fieldError(err, n)
		return
	}

	la := e.lookAhead(f, args)
	ctx := selections.With(e.Context, la)
	label := fmt.Sprintf("GraphQL field: %s.%s", parent.objType.Name, f.def.Name)
	trivial := f.def == schema.TypenameField
	traceCtx, finish := e.Tracer.TraceField(ctx, label, parent.objType.Name, f.def.Name, trivial, args)

	v, err := e.callResolver(&resolvers.ResolveRequest{
		Context:          traceCtx,
		OperationContext: e.OperationContext,
		Schema:           e.Schema,
		ParentType:       parent.objType,
		Parent:           parent.value,
		Field:            f.def,
		Args:             args,
		LookAhead:        la,
		Path:             n.fullPath(),
	})
	e.complete(n, v, err, finish)
}

func (e *Execution) callResolver(req *resolvers.ResolveRequest) (v interface{}, err error) {
	defer func() {
		if p := resolvers.Recover(recover()); p != nil {
			v, err = nil, p
		}
	}()
	factory := e.ResolverFactory
	if strings.HasPrefix(req.Field.Name, "__") || strings.HasPrefix(req.ParentType.Name, "__") {
		// meta fields and introspection types resolve the same way under any factory
		factory = introspectionFactory
	}
	resolver := factory.CreateResolver(req)
	if resolver == nil {
		return nil, fmt.Errorf("no resolver found for %s.%s", req.ParentType.Name, req.Field.Name)
	}
	return resolver()
}

// complete handles the outcome of a resolver or of a finished Task.
func (e *Execution) complete(n *execNode, v interface{}, err error, finish tracer.FieldFinishFunc) {
	if err == nil {
		if task, ok := v.(resolvers.Task); ok {
			e.park(n, task, finish)
			return
		}
	}
	if err != nil {
		n.err = e.fieldError(err, n)
	}
	if finish != nil {
		finish(n.err)
	}
	if n.err == nil {
		e.completeValue(n, v)
	}
}

func (e *Execution) park(n *execNode, task resolvers.Task, finish tracer.FieldFinishFunc) {
	p := resolvers.NewPending(task)
	e.parked = append(e.parked, &parked{p: p, node: n, finish: finish})
	e.pending = append(e.pending, p)
}

// completeValue turns a resolved value into the node's result according to the
// node's declared type. Object values schedule their fields for the next wave; list
// elements are completed right away.
func (e *Execution) completeValue(n *execNode, v interface{}) {
	if err, ok := v.(error); ok && !isNull(v) {
		n.err = e.fieldError(err, n)
		return
	}
	if task, ok := v.(resolvers.Task); ok {
		e.park(n, task, nil)
		return
	}

	t := n.typ
	if nn, ok := t.(*schema.Nullable); ok {
		if isNull(v) {
			n.null = true
			return
		}
		t = nn.OfType
	} else if isNull(v) {
		n.err = e.nodeError(n, "Cannot return null for non-nullable field %s.%s.", n.fieldParentType(), n.field.def.Name)
		return
	}

	switch t := t.(type) {
	case *schema.Scalar:
		out, err := t.Serialize(dereference(v))
		if err != nil {
			n.err = e.fieldError(err, n)
			return
		}
		n.leaf = value.Scalar{V: out}

	case *schema.Enum:
		name, ok := enumName(v)
		if !ok || t.Value(name) == nil {
			n.err = e.nodeError(n, "Enum %q cannot represent value: %v", t.Name, dereference(v))
			return
		}
		n.leaf = value.Scalar{V: name}

	case *schema.List:
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			n.err = e.nodeError(n, "Resolved object was not an array, it was a: %v", rv.Kind())
			return
		}
		n.list = true
		n.children = make([]*execNode, rv.Len())
		for i := range n.children {
			c := &execNode{label: i, parent: n, typ: t.OfType, field: n.field}
			n.children[i] = c
			e.completeValue(c, rv.Index(i).Interface())
		}

	case *schema.Object:
		e.expandObject(n, t, v, n.field.selections())

	case *schema.Interface, *schema.Union:
		obj, cast, ok := resolvers.ResolveType(e.Schema, t, v)
		if !ok {
			n.err = e.nodeError(n, "Abstract type %q must resolve to an Object type at runtime for field %s.%s.", t.TypeName(), n.fieldParentType(), n.field.def.Name)
			return
		}
		e.expandObject(n, obj, cast, n.field.selections())

	default:
		n.err = e.nodeError(n, "unexpected type %s", t.Kind())
	}
}

// expandObject adds the fields selected on an object value as children of n and
// schedules them for the next wave.
func (e *Execution) expandObject(n *execNode, obj *schema.Object, v interface{}, sels []ast.Selection) {
	n.objType = obj
	n.value = v
	for _, f := range e.collectFields(obj, sels) {
		c := &execNode{label: f.key, parent: n, typ: e.Schema.Meta(f.def.Type), field: f}
		n.children = append(n.children, c)
		e.next = append(e.next, c)
	}
}

// fieldParentType names the object type the node's field was selected on.
func (n *execNode) fieldParentType() string {
	for p := n.parent; p != nil; p = p.parent {
		if !p.list {
			return p.objType.Name
		}
	}
	return ""
}

func (e *Execution) fieldError(err error, n *execNode) *errors.QueryError {
	var qe *errors.QueryError
	switch err := err.(type) {
	case *resolvers.PanicError:
		if e.Logger != nil {
			e.Logger.LogPanic(e.Context, err.Value)
		}
		qe = errors.Errorf("graphql: %s", err)
	case *errors.QueryError:
		qe = err.WithPath(nil)
	default:
		qe = errors.Errorf("%s", err)
		var fe *errors.FieldError
		if stderrors.As(err, &fe) {
			qe.Extensions = fe.Extensions
		} else if ex, ok := err.(errors.Extender); ok {
			qe.Extensions = ex.Extensions()
		}
	}
	qe.Path = n.fullPath()
	if len(qe.Locations) == 0 {
		qe.Locations = []errors.Location{n.field.fields[0].Span.Location()}
	}
	return qe
}

func (e *Execution) nodeError(n *execNode, format string, a ...interface{}) *errors.QueryError {
	return e.fieldError(fmt.Errorf(format, a...), n)
}

// isNull checks whether a value is nil or a nil pointer, interface, map, func or chan.
func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func dereference(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return v
	}
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func enumName(v interface{}) (string, bool) {
	v = dereference(v)
	switch v := v.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}
