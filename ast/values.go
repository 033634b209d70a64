package ast

import (
	"strings"

	"github.com/graph-gophers/graphql-engine/errors"
)

// InputValue is a literal in the document: *NullValue, *ScalarValue, *EnumValue,
// *ListValue, *ObjectValue or *Variable.
type InputValue interface {
	String() string
	NodeSpan() errors.Span
	isInputValue()
}

type ScalarKind int

const (
	IntValue ScalarKind = iota
	FloatValue
	StringValue
	BooleanValue
)

func (k ScalarKind) String() string {
	switch k {
	case IntValue:
		return "Int"
	case FloatValue:
		return "Float"
	case StringValue:
		return "String"
	case BooleanValue:
		return "Boolean"
	}
	return "unknown"
}

type NullValue struct {
	Span errors.Span
}

// ScalarValue holds the literal's text. For strings this is the decoded value, for
// numbers and booleans it is the source text.
type ScalarValue struct {
	Kind  ScalarKind
	Text  string
	Block bool
	Span  errors.Span
}

type EnumValue struct {
	Name string
	Span errors.Span
}

type ListValue struct {
	Values []InputValue
	Span   errors.Span
}

type ObjectField struct {
	Name  Name
	Value InputValue
	Span  errors.Span
}

type ObjectValue struct {
	Fields []*ObjectField
	Span   errors.Span
}

// Get returns the value of the field named name.
func (o *ObjectValue) Get(name string) (InputValue, bool) {
	for _, f := range o.Fields {
		if f.Name.Value == name {
			return f.Value, true
		}
	}
	return nil, false
}

type Variable struct {
	Name string
	Span errors.Span
}

func (v *NullValue) NodeSpan() errors.Span   { return v.Span }
func (v *ScalarValue) NodeSpan() errors.Span { return v.Span }
func (v *EnumValue) NodeSpan() errors.Span   { return v.Span }
func (v *ListValue) NodeSpan() errors.Span   { return v.Span }
func (v *ObjectValue) NodeSpan() errors.Span { return v.Span }
func (v *Variable) NodeSpan() errors.Span    { return v.Span }

func (*NullValue) isInputValue()   {}
func (*ScalarValue) isInputValue() {}
func (*EnumValue) isInputValue()   {}
func (*ListValue) isInputValue()   {}
func (*ObjectValue) isInputValue() {}
func (*Variable) isInputValue()    {}

func (v *NullValue) String() string   { return "null" }
func (v *ScalarValue) String() string { return printValue(v) }
func (v *EnumValue) String() string   { return v.Name }
func (v *ListValue) String() string   { return printValue(v) }
func (v *ObjectValue) String() string { return printValue(v) }
func (v *Variable) String() string    { return "$" + v.Name }

func printValue(v InputValue) string {
	var sb strings.Builder
	p := printer{sb: &sb}
	p.value(v)
	return sb.String()
}
