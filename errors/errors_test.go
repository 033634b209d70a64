package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	cause := io.EOF

	t.Run("wrap error", func(t *testing.T) {
		err := Errorf("boom: %v", cause)
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "boom: EOF", err.Message)
	})

	t.Run("handles nil", func(t *testing.T) {
		var err *QueryError
		assert.False(t, errors.Is(err, cause))
		assert.Equal(t, "<nil>", err.Error())
	})

	t.Run("handle no arguments", func(t *testing.T) {
		err := Errorf("boom")
		assert.False(t, errors.Is(err, cause))
	})

	t.Run("handle non-error argument arguments", func(t *testing.T) {
		err := Errorf("boom: %v", "shaka")
		assert.False(t, errors.Is(err, cause))
	})
}

func TestQueryError(t *testing.T) {
	qe := &QueryError{
		Message:       "bad",
		Locations:     []Location{{Line: 1, Column: 3}, {Line: 2, Column: 1}},
		Rule:          "Syntax",
		ResolverError: io.EOF,
	}
	assert.Equal(t, "graphql: bad (line 1, column 3) (line 2, column 1)", qe.Error())

	located := qe.WithPath([]interface{}{"todos", 1, "title"})
	assert.Nil(t, qe.Path)
	assert.Equal(t, []interface{}{"todos", 1, "title"}, located.Path)

	b, err := json.Marshal(located)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"message": "bad",
		"locations": [{"line": 1, "column": 3}, {"line": 2, "column": 1}],
		"path": ["todos", 1, "title"]
	}`, string(b))

	assert.True(t, Location{Line: 1, Column: 9}.Before(Location{Line: 2, Column: 1}))
	assert.False(t, Location{Line: 2, Column: 1}.Before(Location{Line: 2, Column: 1}))
}

func TestLexerError(t *testing.T) {
	cases := map[string]struct {
		err      *LexerError
		expected string
	}{
		"with text": {
			err:      &LexerError{Kind: UnexpectedCharacter, Pos: Position{Line: 1, Column: 3, Offset: 2}, Text: "?"},
			expected: `unexpected character "?" at line 1, column 3`,
		},
		"without text": {
			err:      &LexerError{Kind: UnterminatedString, Pos: Position{Line: 2, Column: 5, Offset: 9}},
			expected: "unterminated string at line 2, column 5",
		},
		"invalid escape": {
			err:      &LexerError{Kind: InvalidEscape, Pos: Position{Line: 1, Column: 4}, Text: `\q`},
			expected: `invalid escape sequence "\\q" at line 1, column 4`,
		},
		"invalid number": {
			err:      &LexerError{Kind: InvalidNumber, Pos: Position{Line: 1, Column: 1}, Text: "007"},
			expected: `invalid number literal "007" at line 1, column 1`,
		},
	}
	for hint, c := range cases {
		t.Run(hint, func(t *testing.T) {
			assert.Equal(t, c.expected, c.err.Error())
		})
	}
}

func TestParseError(t *testing.T) {
	lexErr := &LexerError{Kind: InvalidEscape, Pos: Position{Line: 3, Column: 7, Offset: 20}, Text: `\x`}
	cases := map[string]struct {
		err      *ParseError
		message  string
		location Location
		unwrap   error
	}{
		"unexpected token": {
			err: &ParseError{
				Kind:    UnexpectedToken,
				Span:    Span{Start: Position{Line: 1, Column: 5, Offset: 4}, End: Position{Line: 1, Column: 6, Offset: 5}},
				Message: `unexpected "}"`,
			},
			message:  `syntax error: unexpected "}"`,
			location: Location{Line: 1, Column: 5},
		},
		"expected one of": {
			err: &ParseError{
				Kind:     ExpectedOneOf,
				Span:     Span{Start: Position{Line: 2, Column: 1, Offset: 10}},
				Message:  `unexpected "!"`,
				Expected: []string{"Name", "{"},
			},
			message:  `syntax error: unexpected "!", expected one of Name, {`,
			location: Location{Line: 2, Column: 1},
		},
		"lexer failure": {
			err: &ParseError{
				Kind:    LexerFailure,
				Span:    Span{Start: lexErr.Pos, End: lexErr.Pos},
				Message: lexErr.Error(),
				Lexer:   lexErr,
			},
			message:  `syntax error: invalid escape sequence "\\x" at line 3, column 7`,
			location: Location{Line: 3, Column: 7},
			unwrap:   lexErr,
		},
	}
	for hint, c := range cases {
		t.Run(hint, func(t *testing.T) {
			assert.Equal(t, c.message, c.err.Error())
			assert.Equal(t, c.unwrap, c.err.Unwrap())

			qe := c.err.QueryError()
			assert.Equal(t, c.message, qe.Message)
			assert.Equal(t, []Location{c.location}, qe.Locations)
			assert.Equal(t, "Syntax", qe.Rule)

			var pe *ParseError
			require.True(t, errors.As(qe, &pe))
			assert.Same(t, c.err, pe)
		})
	}

	t.Run("errors.As reaches the lexer error", func(t *testing.T) {
		pe := &ParseError{Kind: LexerFailure, Lexer: lexErr}
		var le *LexerError
		require.True(t, errors.As(pe.QueryError(), &le))
		assert.Equal(t, InvalidEscape, le.Kind)
	})

	assert.Equal(t, "depth exceeded", DepthExceeded.String())
	assert.Equal(t, "lexer error", LexerFailure.String())
}

func TestSchemaError(t *testing.T) {
	err := SchemaErrorf(DuplicateType, "Todo", "type %q is defined %d times", "Todo", 2)
	assert.Equal(t, DuplicateType, err.Kind)
	assert.Equal(t, "Todo", err.TypeName)
	assert.Equal(t, `graphql: schema: type "Todo" is defined 2 times`, err.Error())

	joined := errors.Join(
		SchemaErrorf(UnknownType, "Query", "unknown type %q", "Missing"),
		err,
	)
	var se *SchemaError
	require.True(t, errors.As(joined, &se))
	assert.Equal(t, UnknownType, se.Kind)
	assert.Contains(t, joined.Error(), `type "Todo" is defined 2 times`)
}

type codedError struct{ code string }

func (e codedError) Error() string { return "coded" }

func (e codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func TestFieldError(t *testing.T) {
	cause := fmt.Errorf("store: %w", io.ErrUnexpectedEOF)
	fe := NewFieldError("title must not be empty", map[string]interface{}{"code": "INVALID_INPUT"})
	fe.Cause = cause

	assert.Equal(t, "title must not be empty", fe.Error())
	assert.Equal(t, map[string]interface{}{"code": "INVALID_INPUT"}, fe.Extensions)
	assert.True(t, errors.Is(fe, io.ErrUnexpectedEOF))

	wrapped := fmt.Errorf("resolve: %w", fe)
	var got *FieldError
	require.True(t, errors.As(wrapped, &got))
	assert.Same(t, fe, got)

	var ex Extender = codedError{code: "FORBIDDEN"}
	assert.Equal(t, map[string]interface{}{"code": "FORBIDDEN"}, ex.Extensions())
	assert.Nil(t, NewFieldError("plain", nil).Unwrap())
}
