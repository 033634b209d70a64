package graphql_test

import (
	"context"
	"testing"

	graphql "github.com/graph-gophers/graphql-engine"
	"github.com/graph-gophers/graphql-engine/example/todos"
)

func FuzzEngineExecute(f *testing.F) {
	// Seed the fuzzing corpus with a variety of valid GraphQL queries.
	queries := []string{
		`{ todos { id } }`,
		`{ todos(status: OPEN, first: 1) { id title tags } }`,
		`{ todos { id owner { name todos { id } } } }`,
		`{ todo(id: "t1") { ... on Todo { title } __typename } }`,
		`{ node(id: "u1") { id ... on User { name } } }`,
		`{ search(text: "e") { ... on Todo { id } ... on User { id } } }`,
		`query Q($id: ID! = "t2") { todo(id: $id) { title @include(if: true) status @skip(if: true) } }`,
		`mutation { addTodo(input: {title: "x", tags: ["a"]}) { id } }`,
		`{ __type(name: "Todo") { fields { name } } }`,
		`{ todos(first: -1) { id } }`,
	}
	for _, q := range queries {
		f.Add(q)
	}

	f.Fuzz(func(t *testing.T, query string) {
		e := graphql.NewEngine(todos.Schema(),
			graphql.Root(&todos.Resolver{Store: todos.NewStore()}),
			graphql.MaxDepth(4),
		)

		// invalid documents fail before execution and must carry no data
		if errs := e.Validate(context.Background(), query); len(errs) > 0 {
			res := e.Execute(context.Background(), &graphql.Request{Query: query})
			if res.Data != nil {
				t.Errorf("Execute(%q) returned data for an invalid document", query)
			}
			return
		}

		res := e.Execute(context.Background(), &graphql.Request{Query: query})
		if res.Errors != nil {
			t.Logf("Execute(%q) returned errors: %v", query, res.Errors)
		}
		if res.Data == nil && len(res.Errors) == 0 {
			t.Errorf("Execute(%q) returned nil data and no errors", query)
		}
	})
}
