package common

import (
	"fmt"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
)

// DefaultMaxDepth bounds the nesting of selection sets and input values.
const DefaultMaxDepth = 256

type syntaxError struct {
	err *errors.ParseError
}

// Lexer is the parser's view of the token stream: one token of lookahead plus helpers
// that abort parsing with a syntax error when the input does not match.
type Lexer struct {
	sc       *Scanner
	next     Token
	prevEnd  errors.Position
	depth    int
	MaxDepth int
}

func NewLexer(s string) *Lexer {
	return &Lexer{sc: NewScanner(s), MaxDepth: DefaultMaxDepth}
}

// CatchSyntaxError runs f and converts a syntax error raised inside it into a
// ParseError. Other panics are propagated.
func (l *Lexer) CatchSyntaxError(f func()) (errRes *errors.ParseError) {
	defer func() {
		if err := recover(); err != nil {
			if err, ok := err.(syntaxError); ok {
				errRes = err.err
				return
			}
			panic(err)
		}
	}()

	f()
	return
}

func (l *Lexer) Peek() TokenKind {
	return l.next.Kind
}

func (l *Lexer) PeekToken() Token {
	return l.next
}

// PeekKeyword reports whether the next token is the name keyword.
func (l *Lexer) PeekKeyword(keyword string) bool {
	return l.next.Kind == Name && l.next.Value == keyword
}

// Advance moves to the next token, skipping whitespace, commas and comments.
func (l *Lexer) Advance() {
	l.prevEnd = l.next.Span.End
	tok, err := l.sc.Next()
	if err != nil {
		panic(syntaxError{&errors.ParseError{
			Kind:    errors.LexerFailure,
			Span:    errors.Span{Start: err.Pos, End: err.Pos},
			Message: err.Error(),
			Lexer:   err,
		}})
	}
	l.next = tok
}

func (l *Lexer) ConsumeName() ast.Name {
	if l.next.Kind != Name {
		l.SyntaxError(errors.ExpectedName, fmt.Sprintf("unexpected %s, expecting Name", l.next))
	}
	name := ast.Name{Value: l.next.Value, Span: l.next.Span}
	l.Advance()
	return name
}

func (l *Lexer) ConsumeKeyword(keyword string) {
	if !l.PeekKeyword(keyword) {
		l.SyntaxError(errors.UnexpectedToken, fmt.Sprintf("unexpected %s, expecting %q", l.next, keyword))
	}
	l.Advance()
}

func (l *Lexer) ConsumeToken(expected TokenKind) Token {
	if l.next.Kind != expected {
		l.SyntaxError(errors.UnexpectedToken, fmt.Sprintf("unexpected %s, expecting %q", l.next, expected))
	}
	tok := l.next
	l.Advance()
	return tok
}

// Skip consumes the next token if it has the given kind.
func (l *Lexer) Skip(kind TokenKind) bool {
	if l.next.Kind != kind {
		return false
	}
	l.Advance()
	return true
}

func (l *Lexer) SyntaxError(kind errors.ParseErrorKind, message string) {
	panic(syntaxError{&errors.ParseError{Kind: kind, Span: l.next.Span, Message: message}})
}

// ExpectedOneOf aborts with the set of tokens that would have been accepted.
func (l *Lexer) ExpectedOneOf(expected ...string) {
	panic(syntaxError{&errors.ParseError{
		Kind:     errors.ExpectedOneOf,
		Span:     l.next.Span,
		Message:  fmt.Sprintf("unexpected %s", l.next),
		Expected: expected,
	}})
}

// ErrorAt aborts with an error covering span.
func (l *Lexer) ErrorAt(kind errors.ParseErrorKind, span errors.Span, message string) {
	panic(syntaxError{&errors.ParseError{Kind: kind, Span: span, Message: message}})
}

// Pos is the start of the next token.
func (l *Lexer) Pos() errors.Position {
	return l.next.Span.Start
}

// SpanFrom covers the text from start to the end of the last consumed token.
func (l *Lexer) SpanFrom(start errors.Position) errors.Span {
	return errors.Span{Start: start, End: l.prevEnd}
}

// Enter and Leave track nesting so deeply nested input fails cleanly instead of
// exhausting the stack.
func (l *Lexer) Enter() {
	l.depth++
	if l.MaxDepth > 0 && l.depth > l.MaxDepth {
		l.SyntaxError(errors.DepthExceeded, fmt.Sprintf("document nesting exceeds the maximum depth of %d", l.MaxDepth))
	}
}

func (l *Lexer) Leave() {
	l.depth--
}
