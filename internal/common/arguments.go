package common

import "github.com/graph-gophers/graphql-engine/ast"

func ParseArguments(l *Lexer, constOnly bool) ast.ArgumentList {
	var args ast.ArgumentList
	l.ConsumeToken(ParenL)
	if l.Peek() == ParenR {
		l.ExpectedOneOf("Name")
	}
	for l.Peek() != ParenR {
		start := l.Pos()
		name := l.ConsumeName()
		l.ConsumeToken(Colon)
		value := ParseLiteral(l, constOnly)
		args = append(args, &ast.Argument{Name: name, Value: value, Span: l.SpanFrom(start)})
	}
	l.ConsumeToken(ParenR)
	return args
}
