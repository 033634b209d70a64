package exec

import (
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/schema"
	"github.com/graph-gophers/graphql-engine/value"
)

// writeRoot assembles the response from the resolved tree. Errors are reported in
// depth-first document order. A null propagating out of a top-level field stops at
// that field's slot.
func (e *Execution) writeRoot() *value.Object {
	out := value.NewObject(len(e.root.children))
	for _, c := range e.root.children {
		v, _ := e.writeNode(c)
		out.Set(c.label.(string), v)
	}
	return out
}

// writeNode returns the value of n and true if the parent must become null too
// (error propagation).
func (e *Execution) writeNode(n *execNode) (value.Value, bool) {
	_, nullable := n.typ.(*schema.Nullable)
	if n.err != nil {
		e.addError(n.err)
		return value.Null{}, !nullable
	}
	switch {
	case n.null:
		return value.Null{}, false
	case n.leaf != nil:
		return n.leaf, false
	case n.list:
		return e.writeList(n, nullable)
	case n.objType != nil:
		return e.writeObj(n, nullable)
	}
	// never resolved
	return value.Null{}, !nullable
}

// writeList writes every element, so that errors below a nulled list are still
// reported.
func (e *Execution) writeList(n *execNode, nullable bool) (value.Value, bool) {
	propNull := false
	l := make(value.List, len(n.children))
	for i, c := range n.children {
		v, prop := e.writeNode(c)
		l[i] = v
		if prop {
			propNull = true
		}
	}
	if propNull {
		return value.Null{}, !nullable
	}
	return l, false
}

func (e *Execution) writeObj(n *execNode, nullable bool) (value.Value, bool) {
	propNull := false
	obj := value.NewObject(len(n.children))
	for _, c := range n.children {
		v, prop := e.writeNode(c)
		obj.Set(c.label.(string), v)
		if prop {
			propNull = true
		}
	}
	if propNull {
		return value.Null{}, !nullable
	}
	return obj, false
}

func (e *Execution) addError(err *errors.QueryError) {
	if err != nil {
		e.errs = append(e.errs, err)
	}
}
