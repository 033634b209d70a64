// Package gqltesting runs table-driven GraphQL test cases against an Engine.
package gqltesting

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/nsf/jsondiff"

	graphql "github.com/graph-gophers/graphql-engine"
	"github.com/graph-gophers/graphql-engine/errors"
)

// Test is a GraphQL test case to be used with RunTest(s).
type Test struct {
	Context       context.Context
	Engine        *graphql.Engine
	Query         string
	OperationName string
	Variables     map[string]interface{}
	// ExpectedResult is the JSON of the response data. Leave it empty when the
	// request is expected to fail without data.
	ExpectedResult string
	// ExpectedErrors are compared in order on their serialized form, so Rule and
	// ResolverError are ignored.
	ExpectedErrors []*errors.QueryError
}

// RunTests runs the given GraphQL test cases as subtests.
func RunTests(t *testing.T, tests []*Test) {
	t.Helper()
	if len(tests) == 1 {
		RunTest(t, tests[0])
		return
	}

	for i, test := range tests {
		t.Run(strconv.Itoa(i+1), func(t *testing.T) {
			t.Helper()
			RunTest(t, test)
		})
	}
}

// RunTest runs a single GraphQL test case.
func RunTest(t *testing.T, test *Test) {
	t.Helper()
	if test.Context == nil {
		test.Context = context.Background()
	}
	result := test.Engine.Execute(test.Context, &graphql.Request{
		Query:         test.Query,
		OperationName: test.OperationName,
		Variables:     test.Variables,
	})

	checkErrors(t, test.ExpectedErrors, result.Errors)

	if test.ExpectedResult == "" {
		if result.Data != nil {
			got, _ := json.Marshal(result.Data)
			t.Fatalf("got: %s, want: no data", got)
		}
		return
	}
	if result.Data == nil {
		t.Fatalf("got no data, want: %s", test.ExpectedResult)
	}

	got, err := json.Marshal(result.Data)
	if err != nil {
		t.Fatalf("marshal result: %s", err)
	}
	if ok, output := compare([]byte(test.ExpectedResult), got); !ok {
		t.Log("Did not get expected result:\n", output)
		t.Log("Got:", string(got))
		t.Fail()
	}
}

func compare(want, got []byte) (bool, string) {
	opts := jsondiff.Options{
		Added:   jsondiff.Tag{Begin: "+++", End: "+++"},
		Removed: jsondiff.Tag{Begin: "---", End: "---"},
		Changed: jsondiff.Tag{Begin: "|||", End: "|||"},
		Indent:  "    ",
	}
	diff, output := jsondiff.Compare(want, got, &opts)
	return diff == jsondiff.FullMatch, output
}

func checkErrors(t *testing.T, want, got []*errors.QueryError) {
	t.Helper()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	wantJSON, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal expected errors: %s", err)
	}
	gotJSON, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal errors: %s", err)
	}

	if ok, _ := compare(wantJSON, gotJSON); !ok {
		t.Log("unexpected error:")
		t.Log("  Got: \n", formatErrors(got))
		t.Log("  Want: \n", formatErrors(want))
		t.Fatal()
	}
}

func formatErrors(errs []*errors.QueryError) string {
	var errorStr string
	for _, err := range errs {
		if err == nil {
			errorStr = errorStr + "(nil)\n"
		} else {
			errorStr = errorStr + formatError(*err)
		}
	}
	return errorStr
}

func formatError(err errors.QueryError) string {
	return fmt.Sprintf(
		`%s
Path: %v
Rule: %s
Resolver: %s
Extensions: %+v
`,
		err.Error(),
		err.Path,
		err.Rule,
		err.ResolverError,
		err.Extensions)
}
