package errors

import "fmt"

type SchemaErrorKind int

const (
	DuplicateType SchemaErrorKind = iota
	MissingInterfaceField
	UndeclaredUnionMember
	UnknownType
	UnresolvedPlaceholder
	NotAnObject
	InvalidType
)

// SchemaError is returned when a type registry cannot be built.
type SchemaError struct {
	Kind     SchemaErrorKind
	TypeName string
	Message  string
}

func SchemaErrorf(kind SchemaErrorKind, typeName, format string, a ...interface{}) *SchemaError {
	return &SchemaError{Kind: kind, TypeName: typeName, Message: fmt.Sprintf(format, a...)}
}

func (e *SchemaError) Error() string {
	return "graphql: schema: " + e.Message
}
