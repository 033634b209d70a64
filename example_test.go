package graphql_test

import (
	"context"
	"encoding/json"
	"os"

	graphql "github.com/graph-gophers/graphql-engine"
	"github.com/graph-gophers/graphql-engine/example/todos"
)

// Example demonstrates how to build an engine for a schema and execute a query against it.
func Example() {
	e := graphql.NewEngine(todos.Schema(),
		graphql.Root(&todos.Resolver{Store: todos.NewStore()}),
		graphql.MaxDepth(8),
	)
	defer e.Close()

	res := e.Execute(context.Background(), &graphql.Request{
		Query:     `query Todo($id: ID!) { todo(id: $id) { title owner { name } } }`,
		Variables: map[string]interface{}{"id": "t1"},
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	err := enc.Encode(res)
	if err != nil {
		panic(err)
	}

	// output:
	// {
	//   "data": {
	//     "todo": {
	//       "title": "write parser",
	//       "owner": {
	//         "name": "Ada"
	//       }
	//     }
	//   }
	// }
}
