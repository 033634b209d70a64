package ast

import "github.com/graph-gophers/graphql-engine/errors"

// Type is a type reference: *NamedType, *ListType or *NonNullType.
type Type interface {
	String() string
	NodeSpan() errors.Span
	isType()
}

type NamedType struct {
	Name string
	Span errors.Span
}

type ListType struct {
	OfType Type
	Span   errors.Span
}

type NonNullType struct {
	OfType Type
	Span   errors.Span
}

func (t *NamedType) String() string   { return t.Name }
func (t *ListType) String() string    { return "[" + t.OfType.String() + "]" }
func (t *NonNullType) String() string { return t.OfType.String() + "!" }

func (t *NamedType) NodeSpan() errors.Span   { return t.Span }
func (t *ListType) NodeSpan() errors.Span    { return t.Span }
func (t *NonNullType) NodeSpan() errors.Span { return t.Span }

func (*NamedType) isType()   {}
func (*ListType) isType()    {}
func (*NonNullType) isType() {}

// Named builds a reference to the named type.
func Named(name string) *NamedType { return &NamedType{Name: name} }

// ListOf builds a list type reference.
func ListOf(t Type) *ListType { return &ListType{OfType: t} }

// NonNull builds a non-null type reference.
func NonNull(t Type) *NonNullType { return &NonNullType{OfType: t} }

// TypeName returns the name of the innermost named type.
func TypeName(t Type) string {
	for {
		switch tt := t.(type) {
		case *NamedType:
			return tt.Name
		case *ListType:
			t = tt.OfType
		case *NonNullType:
			t = tt.OfType
		default:
			return ""
		}
	}
}

// IsNonNull reports whether t is a non-null type reference.
func IsNonNull(t Type) bool {
	_, ok := t.(*NonNullType)
	return ok
}

// Nullable strips one level of non-null.
func Nullable(t Type) Type {
	if nn, ok := t.(*NonNullType); ok {
		return nn.OfType
	}
	return t
}

// TypeEqual compares two type references structurally.
func TypeEqual(a, b Type) bool {
	switch a := a.(type) {
	case *NamedType:
		b, ok := b.(*NamedType)
		return ok && a.Name == b.Name
	case *ListType:
		b, ok := b.(*ListType)
		return ok && TypeEqual(a.OfType, b.OfType)
	case *NonNullType:
		b, ok := b.(*NonNullType)
		return ok && TypeEqual(a.OfType, b.OfType)
	}
	return false
}
