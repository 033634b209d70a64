package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gqlast "github.com/vektah/gqlparser/v2/ast"
	gqlparser "github.com/vektah/gqlparser/v2/parser"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
)

var documents = []string{
	`{ hero { name } }`,
	`query HeroNameAndFriends($episode: Episode = JEDI, $withFriends: Boolean!) {
		hero(episode: $episode) {
			name
			friends @include(if: $withFriends) { name }
		}
	}`,
	`mutation CreateReview($ep: Episode!, $review: ReviewInput!) {
		createReview(episode: $ep, review: $review) { stars commentary }
	}`,
	`query { search(text: "an", first: -1, ratio: 1.5e3, tags: ["a", "b"], filter: {kind: DROID, ok: true, none: null}) {
		__typename
		... on Human { name height(unit: FOOT) }
		... on Droid { name primaryFunction }
		...Starship
	}}
	fragment Starship on Starship @defer { name length }`,
	`query Q { a: field, b: field(x: """block
	   string""") }`,
	`{ ... @skip(if: false) { x } }`,
}

func ignoreSpans() cmp.Option {
	return cmp.Options{
		cmp.FilterPath(func(p cmp.Path) bool {
			sf, ok := p.Last().(cmp.StructField)
			return ok && (sf.Name() == "Span" || sf.Name() == "Block" || sf.Name() == "Shorthand")
		}, cmp.Ignore()),
		cmpopts.EquateEmpty(),
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, src := range documents {
		doc, err := Parse(src)
		require.Nil(t, err, src)

		printed := ast.Print(doc)
		again, err := Parse(printed)
		require.Nil(t, err, printed)

		if diff := cmp.Diff(doc, again, ignoreSpans()); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s\nprinted:\n%s", diff, printed)
		}
	}
}

func TestParseAgreesWithGqlparser(t *testing.T) {
	for _, src := range documents {
		want, gqlErr := gqlparser.ParseQuery(&gqlast.Source{Input: src})
		require.NoError(t, gqlErr)

		doc, err := Parse(src)
		require.Nil(t, err)

		require.Len(t, doc.Operations, len(want.Operations))
		require.Len(t, doc.Fragments, len(want.Fragments))
		for i, op := range want.Operations {
			assert.Equal(t, op.Name, doc.Operations[i].Name.Value)
			assert.Equal(t, string(op.Operation), string(doc.Operations[i].Type))
			assert.Len(t, doc.Operations[i].Vars, len(op.VariableDefinitions))
			assert.Len(t, doc.Operations[i].Selections, len(op.SelectionSet))
		}
	}
}

func TestParseSpans(t *testing.T) {
	src := "query Q {\n  hero(id: 1) {\n    name\n  }\n}"
	doc, err := Parse(src)
	require.Nil(t, err)

	op := doc.Operations[0]
	assert.Equal(t, 0, op.Span.Start.Offset)
	assert.Equal(t, len(src), op.Span.End.Offset)

	hero := op.Selections[0].(*ast.Field)
	assert.Equal(t, "hero(id: 1) {\n    name\n  }", src[hero.Span.Start.Offset:hero.Span.End.Offset])
	assert.Equal(t, errors.Location{Line: 2, Column: 3}, hero.Name.Location())

	arg := hero.Arguments[0]
	assert.Equal(t, "id: 1", src[arg.Span.Start.Offset:arg.Span.End.Offset])

	name := hero.Selections[0].(*ast.Field)
	assert.Equal(t, errors.Location{Line: 3, Column: 5}, name.Span.Location())
}

func TestParseAlias(t *testing.T) {
	doc, err := Parse(`{ smallPic: profilePic(size: 64) }`)
	require.Nil(t, err)
	f := doc.Operations[0].Selections[0].(*ast.Field)
	assert.Equal(t, "profilePic", f.Name.Value)
	assert.Equal(t, "smallPic", f.Alias.Value)
	assert.Equal(t, "smallPic", f.ResponseKey())
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		src  string
		kind errors.ParseErrorKind
		line int
		col  int
	}{
		"missing brace":        {"{ hero { name }", errors.ExpectedOneOf, 1, 16},
		"bad definition":       {"type Query { a: Int }", errors.ExpectedOneOf, 1, 1},
		"subscription":         {"subscription { a }", errors.ExpectedOneOf, 1, 1},
		"empty selection set":  {"{ }", errors.ExpectedOneOf, 1, 3},
		"field without name":   {"{ hero(: 1) }", errors.ExpectedName, 1, 8},
		"unexpected token":     {"query Q($a Int) { a }", errors.UnexpectedToken, 1, 12},
		"unterminated fragment": {"fragment F on T { a { b }", errors.UnterminatedFragment, 1, 26},
		"fragment without body": {"fragment F on T", errors.UnterminatedFragment, 1, 16},
		"fragment named on":    {"fragment on on T { a }", errors.ExpectedName, 1, 10},
		"duplicate variable":   {"query($a: Int, $a: String) { f }", errors.DuplicateVariable, 1, 17},
		"variable in default":  {"query($a: Int = $b) { f }", errors.UnexpectedToken, 1, 17},
		"lexer failure":        {"{ a(x: \"open) }", errors.LexerFailure, 1, 8},
		"empty arguments":      {"{ a() }", errors.ExpectedOneOf, 1, 5},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(c.src)
			require.NotNil(t, err)
			assert.Equal(t, c.kind, err.Kind, err.Error())
			assert.Equal(t, c.line, err.Span.Start.Line, err.Error())
			assert.Equal(t, c.col, err.Span.Start.Column, err.Error())
		})
	}
}

func TestParseErrorWrapsLexerError(t *testing.T) {
	_, err := Parse(`{ a(x: "\q") }`)
	require.NotNil(t, err)
	require.NotNil(t, err.Lexer)
	assert.Equal(t, errors.InvalidEscape, err.Lexer.Kind)

	qe := err.QueryError()
	assert.Equal(t, []errors.Location{{Line: 1, Column: 9}}, qe.Locations)
	assert.Contains(t, qe.Message, "invalid escape sequence")
}

func TestParseRejectsInvalidUTF8(t *testing.T) {
	_, err := Parse("{ a(x: \"\xdf\") }")
	require.NotNil(t, err)
	assert.Equal(t, errors.LexerFailure, err.Kind)
	require.NotNil(t, err.Lexer)
	assert.Equal(t, errors.UnexpectedCharacter, err.Lexer.Kind)
	assert.Equal(t, []errors.Location{{Line: 1, Column: 9}}, err.QueryError().Locations)
}

func TestParseDepthLimit(t *testing.T) {
	deep := ""
	for i := 0; i < 20; i++ {
		deep += "{ a "
	}
	deep += "{ b }"
	for i := 0; i < 20; i++ {
		deep += " }"
	}

	_, err := ParseWithMaxDepth(deep, 10)
	require.NotNil(t, err)
	assert.Equal(t, errors.DepthExceeded, err.Kind)

	_, err = ParseWithMaxDepth(deep, 0)
	assert.Nil(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	doc, err := Parse("  # nothing here\n")
	require.Nil(t, err)
	assert.Empty(t, doc.Definitions)
}

func FuzzParseQuery(f *testing.F) {
	for _, src := range documents {
		f.Add(src)
	}
	f.Add(`{ a(x: "é😀") }`)
	f.Add(`{ a(b: [[[[{c: [1]}]]]]) }`)
	f.Add("{ a(x: \"\xdf\") }")
	f.Add("{ a(x: \"\"\"caf\xc3\xa9\"\"\") }")

	f.Fuzz(func(t *testing.T, queryStr string) {
		doc, err := Parse(queryStr)
		if err != nil {
			return
		}
		printed := ast.Print(doc)
		again, err := Parse(printed)
		if err != nil {
			t.Fatalf("printed document does not parse: %v\nprinted:\n%s", err, printed)
		}
		if diff := cmp.Diff(doc, again, ignoreSpans()); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s\nprinted:\n%s", diff, printed)
		}
	})
}
