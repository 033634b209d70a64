package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/internal/query"
	"github.com/graph-gophers/graphql-engine/internal/validation"
	"github.com/graph-gophers/graphql-engine/schema"
)

func field(name, typ string, args ...*schema.Argument) *schema.Field {
	return &schema.Field{Name: name, Type: schema.MustParseType(typ), Arguments: args}
}

func arg(name, typ string) *schema.Argument {
	return &schema.Argument{Name: name, Type: schema.MustParseType(typ)}
}

func characterFields(extra ...*schema.Field) schema.FieldList {
	return append(schema.FieldList{
		field("id", "ID!"),
		field("name", "String!"),
		field("friends", "[Character]"),
	}, extra...)
}

var starwars = schema.NewBuilder().Add(
	&schema.Object{Name: "Query", Fields: schema.FieldList{
		field("hero", "Character", arg("episode", "Episode")),
		field("human", "Human", arg("id", "ID!")),
		field("search", "[SearchResult]", arg("text", "String!"), arg("filter", "Filter")),
	}},
	&schema.Interface{Name: "Character", Fields: characterFields()},
	&schema.Object{Name: "Human", Interfaces: []string{"Character"}, Fields: characterFields(
		field("height", "Float", &schema.Argument{
			Name:    "unit",
			Type:    schema.MustParseType("Unit"),
			Default: &ast.EnumValue{Name: "METER"},
		}),
	)},
	&schema.Object{Name: "Droid", Interfaces: []string{"Character"}, Fields: characterFields(
		field("primaryFunction", "String"),
	)},
	&schema.Object{Name: "Starship", Fields: schema.FieldList{field("id", "ID!")}},
	&schema.Union{Name: "SearchResult", PossibleTypes: []string{"Human", "Droid"}},
	&schema.Enum{Name: "Episode", Values: []*schema.EnumValue{{Name: "NEWHOPE"}, {Name: "EMPIRE"}, {Name: "JEDI"}}},
	&schema.Enum{Name: "Unit", Values: []*schema.EnumValue{{Name: "METER"}, {Name: "FOOT"}}},
	&schema.InputObject{Name: "Filter", Fields: schema.ArgumentList{
		arg("text", "String!"),
		{Name: "limit", Type: schema.MustParseType("Int"), Default: &ast.ScalarValue{Kind: ast.IntValue, Text: "10"}},
	}},
).MustBuild()

func validate(t *testing.T, src string, opts validation.Options) []*errors.QueryError {
	t.Helper()
	doc, err := query.Parse(src)
	require.Nil(t, err)
	return validation.Validate(starwars, doc, opts)
}

func TestValidQuery(t *testing.T) {
	errs := validate(t, `
		query Hero($ep: Episode = JEDI, $unit: Unit) {
			hero(episode: $ep) {
				__typename
				id
				name
				...HumanFields
				... on Droid { primaryFunction }
				friends @include(if: true) { name }
			}
			search(text: "luke", filter: {text: "x"}) {
				... on Human { id }
				... on Droid { id }
			}
		}
		fragment HumanFields on Human { height(unit: $unit) }
	`, validation.Options{})
	assert.Empty(t, errs)
}

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  string
		query string
		want  []string
	}{
		{
			name:  "duplicate operation",
			rule:  "UniqueOperationNames",
			query: `query A { hero { id } } query A { hero { name } }`,
			want:  []string{`There can be only one operation named "A".`},
		},
		{
			name:  "anonymous among many",
			rule:  "LoneAnonymousOperation",
			query: `{ hero { id } } query B { hero { id } }`,
			want:  []string{"This anonymous operation must be the only defined operation."},
		},
		{
			name:  "unknown variable type",
			rule:  "KnownTypeNames",
			query: `query($x: Foo) { hero { id } }`,
			want:  []string{`Unknown type "Foo".`},
		},
		{
			name:  "unknown fragment type",
			rule:  "KnownTypeNames",
			query: `{ hero { ... on Wookie { id } } }`,
			want:  []string{`Unknown type "Wookie".`},
		},
		{
			name:  "fragment on enum",
			rule:  "FragmentsOnCompositeTypes",
			query: `{ hero { ...F } } fragment F on Episode { id }`,
			want:  []string{`Fragment "F" cannot condition on non composite type "Episode".`},
		},
		{
			name:  "output type variable",
			rule:  "VariablesAreInputTypes",
			query: `query($c: Character) { hero { id } }`,
			want:  []string{`Variable "$c" cannot be non-input type "Character".`},
		},
		{
			name:  "missing subselection",
			rule:  "ScalarLeafs",
			query: `{ hero }`,
			want:  []string{`Field "hero" of type "Character" must have a selection of subfields. Did you mean "hero { ... }"?`},
		},
		{
			name:  "selection on scalar",
			rule:  "ScalarLeafs",
			query: `{ hero { id { x } } }`,
			want:  []string{`Field "id" must not have a selection since type "ID!" has no subfields.`},
		},
		{
			name:  "unknown field",
			rule:  "FieldsOnCorrectType",
			query: `{ hero { nam } }`,
			want:  []string{`Cannot query field "nam" on type "Character". Did you mean "name"?`},
		},
		{
			name:  "duplicate fragment",
			rule:  "UniqueFragmentNames",
			query: `{ hero { ...F } } fragment F on Character { id } fragment F on Character { name }`,
			want:  []string{`There can be only one fragment named "F".`},
		},
		{
			name:  "undefined fragment",
			rule:  "KnownFragmentNames",
			query: `{ hero { ...Missing } }`,
			want:  []string{`Unknown fragment "Missing".`},
		},
		{
			name:  "unused fragment",
			rule:  "NoUnusedFragments",
			query: `{ hero { id } } fragment F on Character { id }`,
			want:  []string{`Fragment "F" is never used.`},
		},
		{
			name:  "impossible inline fragment",
			rule:  "PossibleFragmentSpreads",
			query: `{ hero { ... on Starship { id } } }`,
			want:  []string{`Fragment cannot be spread here as objects of type "Character" can never be of type "Starship".`},
		},
		{
			name:  "impossible spread",
			rule:  "PossibleFragmentSpreads",
			query: `{ hero { ...S } } fragment S on Starship { id }`,
			want:  []string{`Fragment "S" cannot be spread here as objects of type "Character" can never be of type "Starship".`},
		},
		{
			name:  "fragment cycle",
			rule:  "NoFragmentCycles",
			query: `{ hero { ...A } } fragment A on Character { ...B } fragment B on Character { ...A }`,
			want:  []string{`Cannot spread fragment "A" within itself via B.`},
		},
		{
			name:  "undefined variable",
			rule:  "NoUndefinedVariables",
			query: `query Q { hero(episode: $ep) { id } }`,
			want:  []string{`Variable "$ep" is not defined by operation "Q".`},
		},
		{
			name:  "undefined variable in fragment",
			rule:  "NoUndefinedVariables",
			query: `query Q { hero { ...H } } fragment H on Human { height(unit: $u) }`,
			want:  []string{`Variable "$u" is not defined by operation "Q".`},
		},
		{
			name:  "unused variable",
			rule:  "NoUnusedVariables",
			query: `query Q($ep: Episode) { hero { id } }`,
			want:  []string{`Variable "$ep" is never used in operation "Q".`},
		},
		{
			name:  "unknown directive",
			rule:  "KnownDirectives",
			query: `{ hero @unknown { id } }`,
			want:  []string{`Unknown directive "unknown".`},
		},
		{
			name:  "misplaced directive",
			rule:  "KnownDirectives",
			query: `query @skip(if: true) { hero { id } }`,
			want:  []string{`Directive "skip" may not be used on QUERY.`},
		},
		{
			name:  "repeated directive",
			rule:  "UniqueDirectivesPerLocation",
			query: `{ hero @skip(if: false) @skip(if: false) { id } }`,
			want:  []string{`The directive "skip" can only be used once at this location.`},
		},
		{
			name:  "unknown argument",
			rule:  "KnownArgumentNames",
			query: `{ hero(episod: JEDI) { id } }`,
			want:  []string{`Unknown argument "episod" on field "hero" of type "Query". Did you mean "episode"?`},
		},
		{
			name:  "duplicate argument",
			rule:  "UniqueArgumentNames",
			query: `{ human(id: 1, id: 2) { id } }`,
			want:  []string{`There can be only one argument named "id".`},
		},
		{
			name:  "wrong enum literal",
			rule:  "ArgumentsOfCorrectType",
			query: `{ hero(episode: PHANTOM) { id } }`,
			want:  []string{"Argument \"episode\" has invalid value PHANTOM.\nExpected type \"Episode\", found PHANTOM."},
		},
		{
			name:  "input object missing field",
			rule:  "ArgumentsOfCorrectType",
			query: `{ search(text: "x", filter: {limit: 2}) { __typename } }`,
			want:  []string{"Argument \"filter\" has invalid value {limit: 2}.\nIn field \"text\": Expected \"String!\", found null."},
		},
		{
			name:  "missing required argument",
			rule:  "ProvidedNonNullArguments",
			query: `{ human { id } }`,
			want:  []string{`Field "human" of type "Query" argument "id" of type "ID!" is required but not provided.`},
		},
		{
			name:  "missing directive argument",
			rule:  "ProvidedNonNullArguments",
			query: `{ hero @include { id } }`,
			want:  []string{`Directive "@include" argument "if" of type "Boolean!" is required but not provided.`},
		},
		{
			name:  "wrong default value",
			rule:  "DefaultValuesOfCorrectType",
			query: `query($e: Episode = 3) { hero(episode: $e) { id } }`,
			want:  []string{"Variable \"$e\" of type \"Episode\" has invalid default value 3.\nExpected type \"Episode\", found 3."},
		},
		{
			name:  "valid default value",
			rule:  "DefaultValuesOfCorrectType",
			query: `query($e: Episode = EMPIRE) { hero(episode: $e) { id } }`,
		},
		{
			name:  "nullable variable in non-null position",
			rule:  "VariablesInAllowedPosition",
			query: `query($id: ID) { human(id: $id) { id } }`,
			want:  []string{`Variable "$id" of type "ID" used in position expecting type "ID!".`},
		},
		{
			name:  "variable with default in non-null position",
			rule:  "VariablesInAllowedPosition",
			query: `query($id: ID = 1) { human(id: $id) { id } }`,
		},
		{
			name:  "differing arguments",
			rule:  "OverlappingFieldsCanBeMerged",
			query: `{ human(id: 1) { id } human(id: 2) { id } }`,
			want:  []string{`Fields "human" conflict because they have differing arguments. Use different aliases on the fields to fetch both if this was intentional.`},
		},
		{
			name:  "different fields",
			rule:  "OverlappingFieldsCanBeMerged",
			query: `{ hero { friends { x: id x: name } } }`,
			want:  []string{`Fields "x" conflict because they return conflicting types ID! and String!. Use different aliases on the fields to fetch both if this was intentional.`},
		},
		{
			name:  "different types on exclusive objects",
			rule:  "OverlappingFieldsCanBeMerged",
			query: `{ hero { ... on Human { v: height } ... on Droid { v: primaryFunction } } }`,
			want:  []string{`Fields "v" conflict because they return conflicting types Float and String. Use different aliases on the fields to fetch both if this was intentional.`},
		},
		{
			name:  "same name on exclusive objects",
			rule:  "OverlappingFieldsCanBeMerged",
			query: `{ hero { ... on Human { v: id } ... on Droid { v: name } } }`,
			want:  []string{`Fields "v" conflict because they return conflicting types ID! and String!. Use different aliases on the fields to fetch both if this was intentional.`},
		},
		{
			name:  "duplicate input field",
			rule:  "UniqueInputFieldNames",
			query: `{ search(text: "x", filter: {text: "a", text: "b"}) { __typename } }`,
			want:  []string{`There can be only one input field named "text".`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, err := range validate(t, tt.query, validation.Options{}) {
				if err.Rule == tt.rule {
					got = append(got, err.Message)
					assert.NotEmpty(t, err.Locations)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEveryViolationReported(t *testing.T) {
	errs := validate(t, `{ hero(episode: $ep) { ...Missing } }`, validation.Options{})
	require.Len(t, errs, 2)
	assert.Equal(t, "KnownFragmentNames", errs[0].Rule)
	assert.Equal(t, "NoUndefinedVariables", errs[1].Rule)
	assert.Equal(t, []errors.Location{{Line: 1, Column: 17}, {Line: 1, Column: 1}}, errs[1].Locations)
}

func TestErrorLocations(t *testing.T) {
	errs := validate(t, "query A { hero { id } }\nquery A { hero { id } }", validation.Options{})
	require.Len(t, errs, 1)
	assert.Equal(t, []errors.Location{{Line: 1, Column: 7}, {Line: 2, Column: 7}}, errs[0].Locations)
}

func TestUniqueVariableNames(t *testing.T) {
	// the parser rejects duplicate variables, so build the document directly
	op := &ast.OperationDefinition{
		Type: ast.Query,
		Vars: []*ast.VariableDefinition{
			{Name: ast.Name{Value: "a"}, Type: ast.Named("Int")},
			{Name: ast.Name{Value: "a"}, Type: ast.Named("Int")},
		},
		Selections: []ast.Selection{&ast.Field{Name: ast.Name{Value: "__typename"}}},
	}
	doc := &ast.Document{Definitions: []ast.Definition{op}, Operations: []*ast.OperationDefinition{op}}

	c := validation.NewContext(starwars, doc)
	for _, rule := range validation.Rules(validation.Options{}) {
		if rule.Name != "UniqueVariableNames" {
			continue
		}
		errs := rule.Run(c)
		require.Len(t, errs, 1)
		assert.Equal(t, `There can be only one variable named "a".`, errs[0].Message)
		return
	}
	t.Fatal("rule not found")
}

func TestDisableIntrospection(t *testing.T) {
	src := `{ __schema { queryType { name } } __type(name: "Human") { name } __typename }`
	assert.Empty(t, validate(t, src, validation.Options{}))

	errs := validate(t, src, validation.Options{DisableIntrospection: true})
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.Equal(t, "NoIntrospection", err.Rule)
	}
}

func TestMaxDepth(t *testing.T) {
	for name, src := range map[string]string{
		"fields":    `{ hero { friends { friends { name } } } }`,
		"fragments": `{ hero { ...F } } fragment F on Character { friends { ... on Human { friends { name } } } }`,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, validate(t, src, validation.Options{MaxDepth: 4}))

			errs := validate(t, src, validation.Options{MaxDepth: 3})
			require.Len(t, errs, 1)
			assert.Equal(t, "MaxDepthExceeded", errs[0].Rule)
			assert.Equal(t, `Field "name" has depth 4 that exceeds max depth 3`, errs[0].Message)
		})
	}
}

func TestMaxDepthSkipsOtherRules(t *testing.T) {
	errs := validate(t, `{ hero { friends { nope } } }`, validation.Options{MaxDepth: 2})
	require.Len(t, errs, 1)
	assert.Equal(t, "MaxDepthExceeded", errs[0].Rule)
}

func TestMaxDepthCyclicFragments(t *testing.T) {
	errs := validate(t, `{ hero { ...A } } fragment A on Character { ...B } fragment B on Character { ...A }`, validation.Options{MaxDepth: 5})
	for _, err := range errs {
		assert.NotEqual(t, "MaxDepthExceeded", err.Rule)
	}
}

func TestMaxComplexity(t *testing.T) {
	src := `{ hero { id name ...F } } fragment F on Character { friends { name } }`
	assert.Empty(t, validate(t, src, validation.Options{MaxComplexity: 5}))

	errs := validate(t, src, validation.Options{MaxComplexity: 3})
	require.Len(t, errs, 1)
	assert.Equal(t, "MaxComplexityExceeded", errs[0].Rule)
	assert.Equal(t, "The query exceeds the maximum complexity of 3. Actual complexity is 4.", errs[0].Message)
}

func TestConcurrentRulesMatchSequential(t *testing.T) {
	src := `
		query A($unused: Int, $id: ID) {
			hero(episod: JEDI) { nam ...Missing ... on Starship { id } }
			human(id: $id) { id { x } }
			other: human(id: 1) { id }
			search(text: "x", filter: {text: "a", text: "b"}) { __typename }
		}
		query A { hero { ...F } }
		fragment F on Character { ...F }
		fragment Unused on Human { id }
	`
	sequential := validate(t, src, validation.Options{})
	concurrent := validate(t, src, validation.Options{Concurrent: true})
	assert.NotEmpty(t, sequential)
	assert.Equal(t, sequential, concurrent)
}
