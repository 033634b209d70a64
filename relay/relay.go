// Package relay serves an Engine over HTTP and encodes Relay global object ids.
package relay

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	graphql "github.com/graph-gophers/graphql-engine"
	gqlerrors "github.com/graph-gophers/graphql-engine/errors"
)

func MarshalID(kind string, spec interface{}) string {
	d, err := json.Marshal(spec)
	if err != nil {
		panic(fmt.Errorf("relay.MarshalID: %s", err))
	}
	return base64.URLEncoding.EncodeToString(append([]byte(kind+":"), d...))
}

func UnmarshalKind(id string) string {
	s, err := base64.URLEncoding.DecodeString(id)
	if err != nil {
		return ""
	}
	i := strings.IndexByte(string(s), ':')
	if i == -1 {
		return ""
	}
	return string(s[:i])
}

func UnmarshalSpec(id string, v interface{}) error {
	s, err := base64.URLEncoding.DecodeString(id)
	if err != nil {
		return err
	}
	i := strings.IndexByte(string(s), ':')
	if i == -1 {
		return errors.New("invalid relay id")
	}
	return json.Unmarshal(s[i+1:], v)
}

const (
	ContentTypeJSON           = "application/json"
	ContentTypeGraphQL        = "application/graphql"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

// maxBodySize bounds the request bodies read by the handler.
const maxBodySize = 1 << 20

// Handler executes GraphQL requests sent as GET query parameters, or POSTed as JSON
// (one request or a batch), as a bare query or as a form. It answers 200 when the
// response carries no errors and 400 otherwise.
type Handler struct {
	Engine *graphql.Engine
	// Pretty indents the JSON responses.
	Pretty bool
}

// fromValues reads the query, operationName and variables parameters. Variables are
// a JSON encoded object.
func fromValues(values url.Values) (*graphql.Request, error) {
	req := &graphql.Request{
		Query:         values.Get("query"),
		OperationName: values.Get("operationName"),
	}
	if v := values.Get("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
			return nil, fmt.Errorf("variables must be a JSON object: %w", err)
		}
	}
	return req, nil
}

// ParseRequest decodes an HTTP request into a batch request.
func ParseRequest(r *http.Request) (*graphql.BatchRequest, error) {
	switch r.Method {
	case http.MethodGet:
		req, err := fromValues(r.URL.Query())
		if err != nil {
			return nil, err
		}
		return &graphql.BatchRequest{Single: req}, nil
	case http.MethodPost:
	default:
		return nil, fmt.Errorf("method %s not allowed", r.Method)
	}

	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	body := io.LimitReader(r.Body, maxBodySize)
	switch contentType {
	case ContentTypeGraphQL:
		b, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		return &graphql.BatchRequest{Single: &graphql.Request{
			Query:         string(b),
			OperationName: r.URL.Query().Get("operationName"),
		}}, nil

	case ContentTypeFormURLEncoded:
		r.Body = io.NopCloser(body)
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		req, err := fromValues(r.PostForm)
		if err != nil {
			return nil, err
		}
		return &graphql.BatchRequest{Single: req}, nil

	default:
		var batch graphql.BatchRequest
		if err := json.NewDecoder(body).Decode(&batch); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		return &batch, nil
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	batch, err := ParseRequest(r)
	if err != nil {
		code := http.StatusBadRequest
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			code = http.StatusMethodNotAllowed
			w.Header().Set("Allow", "GET, POST")
		}
		h.write(w, code, &graphql.Response{Errors: []*gqlerrors.QueryError{gqlerrors.Errorf("%s", err)}})
		return
	}

	response := h.Engine.ExecuteBatch(r.Context(), batch)
	code := http.StatusOK
	if !response.OK() {
		code = http.StatusBadRequest
	}
	h.write(w, code, response)
}

func (h *Handler) write(w http.ResponseWriter, code int, v interface{}) {
	var (
		responseJSON []byte
		err          error
	)
	if h.Pretty {
		responseJSON, err = json.MarshalIndent(v, "", "\t")
	} else {
		responseJSON, err = json.Marshal(v)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(code)
	_, _ = w.Write(responseJSON)
}
