package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryFromStdin(t *testing.T) {
	out, err := run(t, `query ($id: ID!) { todo(id: $id) { title status } }`, "query", "--vars", `{"id":"t2"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"data":{"todo":{"title":"write executor","status":"OPEN"}}}`+"\n", out)
}

func TestQueryFromFileWithStrategies(t *testing.T) {
	file := filepath.Join(t.TempDir(), "q.graphql")
	require.NoError(t, os.WriteFile(file, []byte(`query Owners { todos { owner { name } } }`), 0o600))

	for _, strategy := range []string{"current-thread", "non-blocking", "spawner"} {
		out, err := run(t, "", "query", file, "--strategy", strategy, "--operation", "Owners")
		require.NoError(t, err, strategy)
		assert.Equal(t, `{"data":{"todos":[{"owner":{"name":"Ada"}},{"owner":{"name":"Ada"}},{"owner":{"name":"Grace"}}]}}`+"\n", out, strategy)
	}
}

func TestQueryErrors(t *testing.T) {
	out, err := run(t, `{ nope }`, "query")
	assert.EqualError(t, err, "query returned 1 error(s)")
	assert.Contains(t, out, `"errors"`)

	_, err = run(t, `{ todos { id } }`, "query", "--vars", "[")
	assert.Error(t, err)

	_, err = run(t, `{ todos { id } }`, "query", "--strategy", "threads")
	assert.EqualError(t, err, `unknown strategy "threads"`)
}

func TestConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gql.yaml")
	require.NoError(t, os.WriteFile(file, []byte("disable_introspection: true\n"), 0o600))

	_, err := run(t, "", "--config", file, "schema")
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	out, err := run(t, "", "schema")
	require.NoError(t, err)
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Contains(t, v, "__schema")
}
