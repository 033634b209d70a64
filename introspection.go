package graphql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/graph-gophers/graphql-engine/introspection"
)

// Inspect allows inspection of the served schema.
func (e *Engine) Inspect() *introspection.Schema {
	return introspection.WrapSchema(e.schema)
}

// ToJSON encodes the schema in a JSON format used by tools like Relay. It fails when
// introspection is disabled.
func (e *Engine) ToJSON() ([]byte, error) {
	result := e.execute(context.Background(), &Request{Query: introspectionQuery})
	if len(result.Errors) != 0 {
		return nil, fmt.Errorf("introspection query failed: %w", result.Errors[0])
	}
	return json.MarshalIndent(result.Data, "", "\t")
}

var introspectionQuery = `
  query {
    __schema {
      queryType { name }
      mutationType { name }
      subscriptionType { name }
      types {
        ...FullType
      }
      directives {
        name
        description
        locations
        args {
          ...InputValue
        }
      }
    }
  }
  fragment FullType on __Type {
    kind
    name
    description
    fields(includeDeprecated: true) {
      name
      description
      args {
        ...InputValue
      }
      type {
        ...TypeRef
      }
      isDeprecated
      deprecationReason
    }
    inputFields {
      ...InputValue
    }
    interfaces {
      ...TypeRef
    }
    enumValues(includeDeprecated: true) {
      name
      description
      isDeprecated
      deprecationReason
    }
    possibleTypes {
      ...TypeRef
    }
  }
  fragment InputValue on __InputValue {
    name
    description
    type { ...TypeRef }
    defaultValue
  }
  fragment TypeRef on __Type {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
                ofType {
                  kind
                  name
                }
              }
            }
          }
        }
      }
    }
  }
`
