package ast

import "github.com/graph-gophers/graphql-engine/errors"

// Selection is one of *Field, *FragmentSpread or *InlineFragment.
type Selection interface {
	NodeSpan() errors.Span
	isSelection()
}

type Field struct {
	Alias      Name // zero when the field is not aliased
	Name       Name
	Arguments  ArgumentList
	Directives DirectiveList
	Selections []Selection
	Span       errors.Span
}

// ResponseKey is the key the field's value is written under.
func (f *Field) ResponseKey() string {
	if f.Alias.Value != "" {
		return f.Alias.Value
	}
	return f.Name.Value
}

// KeyName is the alias name when present, otherwise the field name.
func (f *Field) KeyName() Name {
	if f.Alias.Value != "" {
		return f.Alias
	}
	return f.Name
}

type FragmentSpread struct {
	Name       Name
	Directives DirectiveList
	Span       errors.Span
}

type InlineFragment struct {
	On         Name // zero when there is no type condition
	Directives DirectiveList
	Selections []Selection
	Span       errors.Span
}

func (f *Field) NodeSpan() errors.Span          { return f.Span }
func (f *FragmentSpread) NodeSpan() errors.Span { return f.Span }
func (f *InlineFragment) NodeSpan() errors.Span { return f.Span }

func (*Field) isSelection()          {}
func (*FragmentSpread) isSelection() {}
func (*InlineFragment) isSelection() {}
