package errors

import (
	"fmt"
	"strings"
)

// Position is a point in the source text. Line and Column are 1-based, Offset is the
// 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) Location() Location {
	return Location{Line: p.Line, Column: p.Column}
}

// Span covers the source text from Start up to, but not including, End.
type Span struct {
	Start Position
	End   Position
}

func (s Span) Location() Location {
	return s.Start.Location()
}

type LexerErrorKind int

const (
	UnexpectedCharacter LexerErrorKind = iota
	UnterminatedString
	InvalidEscape
	InvalidNumber
)

func (k LexerErrorKind) String() string {
	switch k {
	case UnexpectedCharacter:
		return "unexpected character"
	case UnterminatedString:
		return "unterminated string"
	case InvalidEscape:
		return "invalid escape sequence"
	case InvalidNumber:
		return "invalid number literal"
	}
	return "unknown lexer error"
}

// LexerError reports a malformed token.
type LexerError struct {
	Kind LexerErrorKind
	Pos  Position
	// Text is the offending input, e.g. the character or the escape sequence.
	Text string
}

func (e *LexerError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s at line %d, column %d", e.Kind, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s %q at line %d, column %d", e.Kind, e.Text, e.Pos.Line, e.Pos.Column)
}

type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	ExpectedName
	ExpectedOneOf
	UnterminatedFragment
	DuplicateVariable
	LexerFailure
	DepthExceeded
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case ExpectedName:
		return "expected name"
	case ExpectedOneOf:
		return "expected one of"
	case UnterminatedFragment:
		return "unterminated fragment"
	case DuplicateVariable:
		return "duplicate variable"
	case LexerFailure:
		return "lexer error"
	case DepthExceeded:
		return "depth exceeded"
	}
	return "unknown parse error"
}

// ParseError reports malformed grammar. When the failure comes from the lexer, Lexer
// holds the underlying error.
type ParseError struct {
	Kind     ParseErrorKind
	Span     Span
	Message  string
	Expected []string
	Lexer    *LexerError
}

func (e *ParseError) Error() string {
	return "syntax error: " + e.describe()
}

func (e *ParseError) describe() string {
	switch {
	case e.Lexer != nil:
		return e.Lexer.Error()
	case e.Kind == ExpectedOneOf && len(e.Expected) > 0:
		return fmt.Sprintf("%s, expected one of %s", e.Message, strings.Join(e.Expected, ", "))
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	if e.Lexer == nil {
		return nil
	}
	return e.Lexer
}

// QueryError converts the parse failure into a diagnostic for the response.
func (e *ParseError) QueryError() *QueryError {
	return &QueryError{
		Message:       "syntax error: " + e.describe(),
		Locations:     []Location{e.Span.Location()},
		Rule:          "Syntax",
		ResolverError: e,
	}
}
