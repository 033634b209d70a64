package relay_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphql "github.com/graph-gophers/graphql-engine"
	"github.com/graph-gophers/graphql-engine/example/todos"
	"github.com/graph-gophers/graphql-engine/relay"
)

func newHandler() *relay.Handler {
	e := graphql.NewEngine(todos.Schema(), graphql.Root(&todos.Resolver{Store: todos.NewStore()}))
	return &relay.Handler{Engine: e}
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestServeHTTP(t *testing.T) {
	h := newHandler()
	const want = `{"data":{"todo":{"title":"write parser"}}}`

	tests := []struct {
		name string
		req  func() *http.Request
	}{
		{"json", func() *http.Request {
			r := httptest.NewRequest("POST", "/some/path/here", strings.NewReader(`{"query":"query ($id: ID!) { todo(id: $id) { title } }", "operationName":"", "variables": {"id": "t1"}}`))
			r.Header.Set("Content-Type", "application/json; charset=utf-8")
			return r
		}},
		{"graphql", func() *http.Request {
			r := httptest.NewRequest("POST", "/", strings.NewReader(`{ todo(id: "t1") { title } }`))
			r.Header.Set("Content-Type", "application/graphql")
			return r
		}},
		{"get", func() *http.Request {
			q := url.Values{"query": {`query ($id: ID!) { todo(id: $id) { title } }`}, "variables": {`{"id":"t1"}`}}
			return httptest.NewRequest("GET", "/?"+q.Encode(), nil)
		}},
		{"form", func() *http.Request {
			form := url.Values{"query": {`{ todo(id: "t1") { title } }`}}
			r := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return r
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.req())
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, want, strings.TrimSpace(w.Body.String()))
		})
	}
}

func TestServeHTTPBatch(t *testing.T) {
	h := newHandler()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`[
		{"query": "{ todo(id: \"t1\") { title } }"},
		{"query": "{ todo(id: \"t2\") { title } }"}
	]`))
	r.Header.Set("Content-Type", "application/json")

	w := serve(h, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `[{"data":{"todo":{"title":"write parser"}}},{"data":{"todo":{"title":"write executor"}}}]`, strings.TrimSpace(w.Body.String()))
}

func TestServeHTTPErrors(t *testing.T) {
	h := newHandler()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{ todos(first: -1) { id } }`))
	r.Header.Set("Content-Type", "application/graphql")
	w := serve(h, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"data":{"todos":null}`)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"query": `))
	w = serve(h, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")

	w = serve(h, httptest.NewRequest("GET", "/?query=x&variables=[", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(h, httptest.NewRequest("DELETE", "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
}

func TestPretty(t *testing.T) {
	h := newHandler()
	h.Pretty = true
	w := serve(h, httptest.NewRequest("GET", "/?query="+url.QueryEscape(`{ todo(id: "t1") { title } }`), nil))
	assert.Equal(t, "{\n\t\"data\": {\n\t\t\"todo\": {\n\t\t\t\"title\": \"write parser\"\n\t\t}\n\t}\n}", w.Body.String())
}

func TestIDs(t *testing.T) {
	id := relay.MarshalID("Todo", map[string]string{"id": "t1"})
	assert.Equal(t, "Todo", relay.UnmarshalKind(id))

	var spec map[string]string
	require.NoError(t, relay.UnmarshalSpec(id, &spec))
	assert.Equal(t, map[string]string{"id": "t1"}, spec)

	assert.Equal(t, "", relay.UnmarshalKind("not base64!"))
	assert.Error(t, relay.UnmarshalSpec(relay.MarshalID("", 1)[:2], &spec))
}
