package schema

import (
	"github.com/graph-gophers/graphql-engine/ast"
)

var (
	SkipDirective = &Directive{
		Name:        "skip",
		Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
		Locations:   []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
		Arguments:   ArgumentList{{Name: "if", Description: "Skipped when true.", Type: MustParseType("Boolean!")}},
	}
	IncludeDirective = &Directive{
		Name:        "include",
		Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
		Locations:   []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
		Arguments:   ArgumentList{{Name: "if", Description: "Included when true.", Type: MustParseType("Boolean!")}},
	}
	DeprecatedDirective = &Directive{
		Name:        "deprecated",
		Description: "Marks an element of a GraphQL schema as no longer supported.",
		Locations:   []string{"FIELD_DEFINITION", "ENUM_VALUE"},
		Arguments: ArgumentList{{
			Name:        "reason",
			Description: "Explains why this element was deprecated.",
			Type:        MustParseType("String"),
			Default:     &ast.ScalarValue{Kind: ast.StringValue, Text: DefaultDeprecationReason},
		}},
	}
)

const DefaultDeprecationReason = "No longer supported"

// Meta fields available on every selection set (__typename) or on the query root only
// (__schema and __type).
var (
	TypenameField = &Field{Name: "__typename", Type: MustParseType("String!")}
	SchemaField   = &Field{Name: "__schema", Type: MustParseType("__Schema!")}
	TypeField     = &Field{
		Name:      "__type",
		Type:      MustParseType("__Type"),
		Arguments: ArgumentList{{Name: "name", Type: MustParseType("String!")}},
	}
)

func includeDeprecatedArg() ArgumentList {
	return ArgumentList{{
		Name:    "includeDeprecated",
		Type:    MustParseType("Boolean"),
		Default: &ast.ScalarValue{Kind: ast.BooleanValue, Text: "false"},
	}}
}

func metaField(name, typ string) *Field {
	return &Field{Name: name, Type: MustParseType(typ)}
}

func enumValues(names ...string) []*EnumValue {
	values := make([]*EnumValue, len(names))
	for i, n := range names {
		values[i] = &EnumValue{Name: n}
	}
	return values
}

// introspectionTypes declares the types served by the __schema and __type fields.
func introspectionTypes() []MetaType {
	return []MetaType{
		&Object{
			Name:        "__Schema",
			Description: "A GraphQL Schema defines the capabilities of a GraphQL server.",
			Fields: FieldList{
				metaField("description", "String"),
				metaField("types", "[__Type!]!"),
				metaField("queryType", "__Type!"),
				metaField("mutationType", "__Type"),
				metaField("subscriptionType", "__Type"),
				metaField("directives", "[__Directive!]!"),
			},
		},
		&Object{
			Name:        "__Type",
			Description: "The fundamental unit of any GraphQL Schema is the type.",
			Fields: FieldList{
				metaField("kind", "__TypeKind!"),
				metaField("name", "String"),
				metaField("description", "String"),
				{Name: "fields", Type: MustParseType("[__Field!]"), Arguments: includeDeprecatedArg()},
				metaField("interfaces", "[__Type!]"),
				metaField("possibleTypes", "[__Type!]"),
				{Name: "enumValues", Type: MustParseType("[__EnumValue!]"), Arguments: includeDeprecatedArg()},
				metaField("inputFields", "[__InputValue!]"),
				metaField("ofType", "__Type"),
				metaField("specifiedByURL", "String"),
			},
		},
		&Object{
			Name: "__Field",
			Fields: FieldList{
				metaField("name", "String!"),
				metaField("description", "String"),
				metaField("args", "[__InputValue!]!"),
				metaField("type", "__Type!"),
				metaField("isDeprecated", "Boolean!"),
				metaField("deprecationReason", "String"),
			},
		},
		&Object{
			Name: "__InputValue",
			Fields: FieldList{
				metaField("name", "String!"),
				metaField("description", "String"),
				metaField("type", "__Type!"),
				metaField("defaultValue", "String"),
			},
		},
		&Object{
			Name: "__EnumValue",
			Fields: FieldList{
				metaField("name", "String!"),
				metaField("description", "String"),
				metaField("isDeprecated", "Boolean!"),
				metaField("deprecationReason", "String"),
			},
		},
		&Object{
			Name: "__Directive",
			Fields: FieldList{
				metaField("name", "String!"),
				metaField("description", "String"),
				metaField("locations", "[__DirectiveLocation!]!"),
				metaField("args", "[__InputValue!]!"),
				metaField("isRepeatable", "Boolean!"),
			},
		},
		&Enum{
			Name:   "__TypeKind",
			Values: enumValues("SCALAR", "OBJECT", "INTERFACE", "UNION", "ENUM", "INPUT_OBJECT", "LIST", "NON_NULL"),
		},
		&Enum{
			Name: "__DirectiveLocation",
			Values: enumValues(
				"QUERY", "MUTATION", "SUBSCRIPTION", "FIELD", "FRAGMENT_DEFINITION", "FRAGMENT_SPREAD",
				"INLINE_FRAGMENT", "VARIABLE_DEFINITION", "SCHEMA", "SCALAR", "OBJECT", "FIELD_DEFINITION",
				"ARGUMENT_DEFINITION", "INTERFACE", "UNION", "ENUM", "ENUM_VALUE", "INPUT_OBJECT",
				"INPUT_FIELD_DEFINITION",
			),
		},
	}
}
