package common

import (
	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
)

// ParseLiteral parses an input value. Variables are rejected when constOnly is set,
// as in default values.
func ParseLiteral(l *Lexer, constOnly bool) ast.InputValue {
	tok := l.PeekToken()
	start := tok.Span.Start
	switch tok.Kind {
	case Dollar:
		if constOnly {
			l.SyntaxError(errors.UnexpectedToken, "variable not allowed")
		}
		l.Advance()
		name := l.ConsumeName()
		return &ast.Variable{Name: name.Value, Span: l.SpanFrom(start)}

	case Int:
		l.Advance()
		return &ast.ScalarValue{Kind: ast.IntValue, Text: tok.Value, Span: tok.Span}
	case Float:
		l.Advance()
		return &ast.ScalarValue{Kind: ast.FloatValue, Text: tok.Value, Span: tok.Span}
	case String, BlockString:
		l.Advance()
		return &ast.ScalarValue{Kind: ast.StringValue, Text: tok.Value, Block: tok.Kind == BlockString, Span: tok.Span}

	case Name:
		l.Advance()
		switch tok.Value {
		case "null":
			return &ast.NullValue{Span: tok.Span}
		case "true", "false":
			return &ast.ScalarValue{Kind: ast.BooleanValue, Text: tok.Value, Span: tok.Span}
		}
		return &ast.EnumValue{Name: tok.Value, Span: tok.Span}

	case BracketL:
		l.Advance()
		l.Enter()
		list := []ast.InputValue{}
		for l.Peek() != BracketR {
			if l.Peek() == EOF {
				l.ExpectedOneOf("]", "value")
			}
			list = append(list, ParseLiteral(l, constOnly))
		}
		l.Leave()
		l.ConsumeToken(BracketR)
		return &ast.ListValue{Values: list, Span: l.SpanFrom(start)}

	case BraceL:
		l.Advance()
		l.Enter()
		fields := []*ast.ObjectField{}
		for l.Peek() != BraceR {
			fieldStart := l.Pos()
			name := l.ConsumeName()
			l.ConsumeToken(Colon)
			value := ParseLiteral(l, constOnly)
			fields = append(fields, &ast.ObjectField{Name: name, Value: value, Span: l.SpanFrom(fieldStart)})
		}
		l.Leave()
		l.ConsumeToken(BraceR)
		return &ast.ObjectValue{Fields: fields, Span: l.SpanFrom(start)}
	}

	l.ExpectedOneOf("$", "Int", "Float", "String", "Name", "[", "{")
	panic("unreachable")
}
