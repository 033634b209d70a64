package graphql

import (
	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/internal/query"
)

// ParseQuery parses a GraphQL query string and returns the AST root node. Syntax
// errors are reported as a QueryError carrying the error's location.
func ParseQuery(queryString string) (*ast.Document, *errors.QueryError) {
	doc, err := query.Parse(queryString)
	if err != nil {
		return nil, err.QueryError()
	}
	return doc, nil
}
