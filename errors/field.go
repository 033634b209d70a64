package errors

// FieldError is returned by resolvers that want to attach structured extension data to
// the error reported for their field.
type FieldError struct {
	Message    string
	Extensions map[string]interface{}
	Cause      error
}

func NewFieldError(message string, extensions map[string]interface{}) *FieldError {
	return &FieldError{Message: message, Extensions: extensions}
}

func (e *FieldError) Error() string {
	return e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}

// Extender is implemented by resolver errors that carry extension data.
type Extender interface {
	Extensions() map[string]interface{}
}
