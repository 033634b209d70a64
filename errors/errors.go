package errors

import (
	"fmt"
)

// QueryError is the diagnostic reported to callers: syntax, validation, document-level
// and field-level failures all surface as a QueryError.
type QueryError struct {
	Message       string                 `json:"message"`
	Locations     []Location             `json:"locations,omitempty"`
	Path          []interface{}          `json:"path,omitempty"`
	Rule          string                 `json:"-"`
	ResolverError error                  `json:"-"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`
}

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (a Location) Before(b Location) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

// Errorf formats a QueryError. The first operand implementing error becomes the
// ResolverError so that errors.Is and errors.As can reach it.
func Errorf(format string, a ...interface{}) *QueryError {
	qe := &QueryError{
		Message: fmt.Sprintf(format, a...),
	}
	for _, arg := range a {
		if err, ok := arg.(error); ok {
			qe.ResolverError = err
			break
		}
	}
	return qe
}

func (err *QueryError) Error() string {
	if err == nil {
		return "<nil>"
	}
	str := fmt.Sprintf("graphql: %s", err.Message)
	for _, loc := range err.Locations {
		str += fmt.Sprintf(" (line %d, column %d)", loc.Line, loc.Column)
	}
	return str
}

func (err *QueryError) Unwrap() error {
	if err == nil {
		return nil
	}
	return err.ResolverError
}

// WithPath returns a copy of err located at the given response path.
func (err *QueryError) WithPath(path []interface{}) *QueryError {
	c := *err
	c.Path = path
	return &c
}

var _ error = &QueryError{}
