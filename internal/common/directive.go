package common

import "github.com/graph-gophers/graphql-engine/ast"

func ParseDirectives(l *Lexer, constOnly bool) ast.DirectiveList {
	var directives ast.DirectiveList
	for l.Peek() == At {
		start := l.Pos()
		l.ConsumeToken(At)
		d := &ast.Directive{}
		d.Name = l.ConsumeName()
		if l.Peek() == ParenL {
			d.Arguments = ParseArguments(l, constOnly)
		}
		d.Span = l.SpanFrom(start)
		directives = append(directives, d)
	}
	return directives
}
