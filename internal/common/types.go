package common

import (
	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
)

func ParseType(l *Lexer) ast.Type {
	start := l.Pos()
	t := parseNullType(l)
	if l.Skip(Bang) {
		return &ast.NonNullType{OfType: t, Span: l.SpanFrom(start)}
	}
	return t
}

func parseNullType(l *Lexer) ast.Type {
	start := l.Pos()
	if l.Skip(BracketL) {
		l.Enter()
		ofType := ParseType(l)
		l.Leave()
		l.ConsumeToken(BracketR)
		return &ast.ListType{OfType: ofType, Span: l.SpanFrom(start)}
	}

	name := l.ConsumeName()
	return &ast.NamedType{Name: name.Value, Span: name.Span}
}

// ParseTypeString parses a standalone type reference such as "[Int!]!".
func ParseTypeString(s string) (ast.Type, *errors.ParseError) {
	l := NewLexer(s)
	var t ast.Type
	err := l.CatchSyntaxError(func() {
		l.Advance()
		t = ParseType(l)
		if l.Peek() != EOF {
			l.SyntaxError(errors.UnexpectedToken, "unexpected "+l.PeekToken().String()+" after type")
		}
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

type Resolver func(name string) bool

// ResolveType checks that the named type at the core of t exists according to resolver.
//
// In the example below, ResolveType would be used to check if the resolving function
// knows the type Dimension:
//
//	query($d: Dimension) { ... }
func ResolveType(t ast.Type, resolver Resolver) *errors.QueryError {
	switch t := t.(type) {
	case *ast.ListType:
		return ResolveType(t.OfType, resolver)
	case *ast.NonNullType:
		return ResolveType(t.OfType, resolver)
	case *ast.NamedType:
		if !resolver(t.Name) {
			err := errors.Errorf("Unknown type %q.", t.Name)
			err.Rule = "KnownTypeNames"
			err.Locations = []errors.Location{t.Span.Location()}
			return err
		}
	}
	return nil
}
