// Package schema holds the type registry an engine executes against. Types are
// declared through a Builder; Build registers every declaration reachable from the root
// types and checks the result.
package schema

import (
	"github.com/graph-gophers/graphql-engine/ast"
)

type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindNullable
	KindObject
	KindEnum
	KindInterface
	KindUnion
	KindInputObject
	KindPlaceholder
)

// String returns the introspection name of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "SCALAR"
	case KindList:
		return "LIST"
	case KindNullable:
		return "NULLABLE"
	case KindObject:
		return "OBJECT"
	case KindEnum:
		return "ENUM"
	case KindInterface:
		return "INTERFACE"
	case KindUnion:
		return "UNION"
	case KindInputObject:
		return "INPUT_OBJECT"
	case KindPlaceholder:
		return "PLACEHOLDER"
	}
	return "UNKNOWN"
}

// MetaType describes the shape of a type. The set of implementations is closed:
// *Scalar, *List, *Nullable, *Object, *Enum, *Interface, *Union, *InputObject and
// *Placeholder.
type MetaType interface {
	Kind() Kind
	// TypeName is empty for the List and Nullable wrappers.
	TypeName() string
	isMetaType()
}

type Scalar struct {
	Name        string
	Description string
	// Serialize converts a resolved value into its output form.
	Serialize func(v interface{}) (interface{}, error)
	// ParseValue coerces a variable value.
	ParseValue func(v interface{}) (interface{}, error)
	// ParseLiteral coerces a literal from the document. Variables have already been
	// substituted.
	ParseLiteral func(v ast.InputValue) (interface{}, error)
}

// List wraps the item type of a list. It never appears in the name index.
type List struct {
	OfType MetaType
}

// Nullable marks its inner type as accepting null. Type references without a
// trailing "!" resolve to a Nullable wrapper.
type Nullable struct {
	OfType MetaType
}

type Object struct {
	Name        string
	Description string
	Fields      FieldList
	Interfaces  []string
}

type Enum struct {
	Name        string
	Description string
	Values      []*EnumValue
}

type EnumValue struct {
	Name        string
	Description string
	Deprecation *Deprecation
}

// Value returns the enum value named name.
func (t *Enum) Value(name string) *EnumValue {
	for _, v := range t.Values {
		if v.Name == name {
			return v
		}
	}
	return nil
}

type Interface struct {
	Name        string
	Description string
	Fields      FieldList
	// PossibleTypes is filled in by Build from the objects implementing the interface.
	PossibleTypes []string
}

type Union struct {
	Name          string
	Description   string
	PossibleTypes []string
}

type InputObject struct {
	Name        string
	Description string
	Fields      ArgumentList
}

// Placeholder stands in for a type whose registration is still in progress.
type Placeholder struct {
	Name string
}

func (*Scalar) Kind() Kind      { return KindScalar }
func (*List) Kind() Kind        { return KindList }
func (*Nullable) Kind() Kind    { return KindNullable }
func (*Object) Kind() Kind      { return KindObject }
func (*Enum) Kind() Kind        { return KindEnum }
func (*Interface) Kind() Kind   { return KindInterface }
func (*Union) Kind() Kind       { return KindUnion }
func (*InputObject) Kind() Kind { return KindInputObject }
func (*Placeholder) Kind() Kind { return KindPlaceholder }

func (t *Scalar) TypeName() string      { return t.Name }
func (*List) TypeName() string          { return "" }
func (*Nullable) TypeName() string      { return "" }
func (t *Object) TypeName() string      { return t.Name }
func (t *Enum) TypeName() string        { return t.Name }
func (t *Interface) TypeName() string   { return t.Name }
func (t *Union) TypeName() string       { return t.Name }
func (t *InputObject) TypeName() string { return t.Name }
func (t *Placeholder) TypeName() string { return t.Name }

func (*Scalar) isMetaType()      {}
func (*List) isMetaType()        {}
func (*Nullable) isMetaType()    {}
func (*Object) isMetaType()      {}
func (*Enum) isMetaType()        {}
func (*Interface) isMetaType()   {}
func (*Union) isMetaType()       {}
func (*InputObject) isMetaType() {}
func (*Placeholder) isMetaType() {}

type Deprecation struct {
	Reason string
}

type Field struct {
	Name        string
	Description string
	Type        ast.Type
	Arguments   ArgumentList
	Deprecation *Deprecation
}

type FieldList []*Field

func (l FieldList) Get(name string) *Field {
	for _, f := range l {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (l FieldList) Names() []string {
	names := make([]string, len(l))
	for i, f := range l {
		names[i] = f.Name
	}
	return names
}

type Argument struct {
	Name        string
	Description string
	Type        ast.Type
	Default     ast.InputValue
}

type ArgumentList []*Argument

func (l ArgumentList) Get(name string) *Argument {
	for _, a := range l {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func (l ArgumentList) Names() []string {
	names := make([]string, len(l))
	for i, a := range l {
		names[i] = a.Name
	}
	return names
}

type Directive struct {
	Name        string
	Description string
	Locations   []string
	Arguments   ArgumentList
}

// Fields returns the fields of an object or interface type, nil otherwise.
func Fields(t MetaType) FieldList {
	switch t := t.(type) {
	case *Object:
		return t.Fields
	case *Interface:
		return t.Fields
	}
	return nil
}

// IsComposite reports whether values of t have a selection set.
func IsComposite(t MetaType) bool {
	switch t.(type) {
	case *Object, *Interface, *Union:
		return true
	}
	return false
}

// IsAbstract reports whether t is an interface or a union.
func IsAbstract(t MetaType) bool {
	switch t.(type) {
	case *Interface, *Union:
		return true
	}
	return false
}

// IsLeaf reports whether t is a scalar or an enum.
func IsLeaf(t MetaType) bool {
	switch t.(type) {
	case *Scalar, *Enum:
		return true
	}
	return false
}

// IsInput reports whether t may be used for arguments and variables.
func IsInput(t MetaType) bool {
	switch t.(type) {
	case *Scalar, *Enum, *InputObject:
		return true
	}
	return false
}

// Unwrap strips List and Nullable wrappers.
func Unwrap(t MetaType) MetaType {
	for {
		switch tt := t.(type) {
		case *List:
			t = tt.OfType
		case *Nullable:
			t = tt.OfType
		default:
			return t
		}
	}
}
