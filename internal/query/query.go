package query

import (
	"fmt"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/internal/common"
)

// DefaultMaxDepth is the nesting limit used by Parse.
const DefaultMaxDepth = common.DefaultMaxDepth

// Parse parses an executable document using the default nesting limit.
func Parse(queryString string) (*ast.Document, *errors.ParseError) {
	return ParseWithMaxDepth(queryString, DefaultMaxDepth)
}

// ParseWithMaxDepth parses an executable document. Selection sets and input values
// nested deeper than maxDepth are rejected; zero disables the limit.
func ParseWithMaxDepth(queryString string, maxDepth int) (*ast.Document, *errors.ParseError) {
	l := common.NewLexer(queryString)
	l.MaxDepth = maxDepth

	var doc *ast.Document
	err := l.CatchSyntaxError(func() { doc = parseDocument(l) })
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func parseDocument(l *common.Lexer) *ast.Document {
	doc := &ast.Document{}
	l.Advance()
	start := l.Pos()
	for l.Peek() != common.EOF {
		if l.Peek() == common.BraceL {
			opStart := l.Pos()
			op := &ast.OperationDefinition{Type: ast.Query, Shorthand: true}
			op.Selections = parseSelectionSet(l, false)
			op.Span = l.SpanFrom(opStart)
			doc.Operations = append(doc.Operations, op)
			doc.Definitions = append(doc.Definitions, op)
			continue
		}

		defStart := l.Pos()
		if l.Peek() != common.Name {
			l.ExpectedOneOf("{", `"query"`, `"mutation"`, `"fragment"`)
		}
		switch x := l.PeekToken().Value; x {
		case "query", "mutation":
			l.Advance()
			op := parseOperation(l, ast.OperationType(x))
			op.Span = l.SpanFrom(defStart)
			doc.Operations = append(doc.Operations, op)
			doc.Definitions = append(doc.Definitions, op)

		case "fragment":
			l.Advance()
			frag := parseFragment(l)
			frag.Span = l.SpanFrom(defStart)
			doc.Fragments = append(doc.Fragments, frag)
			doc.Definitions = append(doc.Definitions, frag)

		default:
			l.ExpectedOneOf("{", `"query"`, `"mutation"`, `"fragment"`)
		}
	}
	doc.Span = l.SpanFrom(start)
	return doc
}

func parseOperation(l *common.Lexer, opType ast.OperationType) *ast.OperationDefinition {
	op := &ast.OperationDefinition{Type: opType}
	if l.Peek() == common.Name {
		op.Name = l.ConsumeName()
	}
	if l.Peek() == common.ParenL {
		l.ConsumeToken(common.ParenL)
		if l.Peek() == common.ParenR {
			l.ExpectedOneOf("$")
		}
		seen := make(map[string]bool)
		for l.Peek() != common.ParenR {
			v := parseVariableDefinition(l)
			if seen[v.Name.Value] {
				l.ErrorAt(errors.DuplicateVariable, v.Name.Span, fmt.Sprintf("variable %q is defined more than once", "$"+v.Name.Value))
			}
			seen[v.Name.Value] = true
			op.Vars = append(op.Vars, v)
		}
		l.ConsumeToken(common.ParenR)
	}
	op.Directives = common.ParseDirectives(l, false)
	op.Selections = parseSelectionSet(l, false)
	return op
}

func parseVariableDefinition(l *common.Lexer) *ast.VariableDefinition {
	start := l.Pos()
	v := &ast.VariableDefinition{}
	l.ConsumeToken(common.Dollar)
	v.Name = l.ConsumeName()
	l.ConsumeToken(common.Colon)
	v.Type = common.ParseType(l)
	if l.Skip(common.Equals) {
		v.Default = common.ParseLiteral(l, true)
	}
	v.Directives = common.ParseDirectives(l, true)
	v.Span = l.SpanFrom(start)
	return v
}

func parseFragment(l *common.Lexer) *ast.FragmentDefinition {
	f := &ast.FragmentDefinition{}
	if l.PeekKeyword("on") {
		l.SyntaxError(errors.ExpectedName, `unexpected "on", expecting fragment name`)
	}
	f.Name = l.ConsumeName()
	l.ConsumeKeyword("on")
	f.On = l.ConsumeName()
	f.Directives = common.ParseDirectives(l, false)
	if l.Peek() == common.EOF {
		l.SyntaxError(errors.UnterminatedFragment, fmt.Sprintf("fragment %q has no selection set", f.Name.Value))
	}
	f.Selections = parseSelectionSet(l, true)
	return f
}

func parseSelectionSet(l *common.Lexer, inFragment bool) []ast.Selection {
	sels := []ast.Selection{}
	l.ConsumeToken(common.BraceL)
	l.Enter()
	for l.Peek() != common.BraceR {
		if l.Peek() == common.EOF {
			if inFragment {
				l.SyntaxError(errors.UnterminatedFragment, "unexpected <EOF> inside fragment")
			}
			l.ExpectedOneOf("}", "Name", "...")
		}
		sels = append(sels, parseSelection(l, inFragment))
	}
	if len(sels) == 0 {
		l.ExpectedOneOf("Name", "...")
	}
	l.Leave()
	l.ConsumeToken(common.BraceR)
	return sels
}

func parseSelection(l *common.Lexer, inFragment bool) ast.Selection {
	if l.Peek() == common.Spread {
		return parseSpread(l, inFragment)
	}
	if l.Peek() != common.Name {
		l.ExpectedOneOf("Name", "...")
	}
	return parseFieldDef(l, inFragment)
}

func parseFieldDef(l *common.Lexer, inFragment bool) *ast.Field {
	start := l.Pos()
	f := &ast.Field{}
	f.Name = l.ConsumeName()
	if l.Skip(common.Colon) {
		f.Alias = f.Name
		f.Name = l.ConsumeName()
	}
	if l.Peek() == common.ParenL {
		f.Arguments = common.ParseArguments(l, false)
	}
	f.Directives = common.ParseDirectives(l, false)
	if l.Peek() == common.BraceL {
		f.Selections = parseSelectionSet(l, inFragment)
	}
	f.Span = l.SpanFrom(start)
	return f
}

func parseSpread(l *common.Lexer, inFragment bool) ast.Selection {
	start := l.Pos()
	l.ConsumeToken(common.Spread)

	if l.Peek() == common.Name && !l.PeekKeyword("on") {
		fs := &ast.FragmentSpread{Name: l.ConsumeName()}
		fs.Directives = common.ParseDirectives(l, false)
		fs.Span = l.SpanFrom(start)
		return fs
	}

	f := &ast.InlineFragment{}
	if l.PeekKeyword("on") {
		l.Advance()
		f.On = l.ConsumeName()
	}
	f.Directives = common.ParseDirectives(l, false)
	if l.Peek() != common.BraceL {
		l.ExpectedOneOf("{", "@", `"on"`)
	}
	f.Selections = parseSelectionSet(l, inFragment)
	f.Span = l.SpanFrom(start)
	return f
}
