package ast

import "github.com/graph-gophers/graphql-engine/errors"

// Name is an identifier together with where it appeared.
type Name struct {
	Value string
	Span  errors.Span
}

func (n Name) Location() errors.Location {
	return n.Span.Location()
}

// Document is an executable document: operation and fragment definitions in source order.
type Document struct {
	Definitions []Definition
	Operations  []*OperationDefinition
	Fragments   []*FragmentDefinition
	Span        errors.Span
}

// Fragment returns the first fragment definition with the given name.
func (d *Document) Fragment(name string) *FragmentDefinition {
	for _, f := range d.Fragments {
		if f.Name.Value == name {
			return f
		}
	}
	return nil
}

// Definition is either an *OperationDefinition or a *FragmentDefinition.
type Definition interface {
	NodeSpan() errors.Span
	isDefinition()
}

type OperationType string

const (
	Query    OperationType = "query"
	Mutation OperationType = "mutation"
)

type OperationDefinition struct {
	Type       OperationType
	Name       Name // zero for anonymous operations
	Vars       []*VariableDefinition
	Directives DirectiveList
	Selections []Selection
	// Shorthand is set for the `{ ... }` form, which has no keyword.
	Shorthand bool
	Span      errors.Span
}

func (o *OperationDefinition) NodeSpan() errors.Span { return o.Span }
func (*OperationDefinition) isDefinition()          {}

// Var returns the variable definition named name, or nil.
func (o *OperationDefinition) Var(name string) *VariableDefinition {
	for _, v := range o.Vars {
		if v.Name.Value == name {
			return v
		}
	}
	return nil
}

type VariableDefinition struct {
	Name       Name
	Type       Type
	Default    InputValue
	Directives DirectiveList
	Span       errors.Span
}

type FragmentDefinition struct {
	Name       Name
	On         Name
	Directives DirectiveList
	Selections []Selection
	Span       errors.Span
}

func (f *FragmentDefinition) NodeSpan() errors.Span { return f.Span }
func (*FragmentDefinition) isDefinition()          {}

type Argument struct {
	Name  Name
	Value InputValue
	Span  errors.Span
}

type ArgumentList []*Argument

// Get returns the value of the argument named name.
func (l ArgumentList) Get(name string) (InputValue, bool) {
	for _, arg := range l {
		if arg.Name.Value == name {
			return arg.Value, true
		}
	}
	return nil, false
}

type Directive struct {
	Name      Name
	Arguments ArgumentList
	Span      errors.Span
}

type DirectiveList []*Directive

func (l DirectiveList) Get(name string) *Directive {
	for _, d := range l {
		if d.Name.Value == name {
			return d
		}
	}
	return nil
}
