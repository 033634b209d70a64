package graphql

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/value"
)

// Request is one operation to execute.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	// OperationContext is handed to every resolver of the request.
	OperationContext interface{} `json:"-"`
}

// Response is the result of a request. Data is nil when the request failed before any
// field was resolved; otherwise Data and Errors may both be set.
type Response struct {
	Data       *value.Object          `json:"data,omitempty"`
	Errors     []*errors.QueryError   `json:"errors,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// OK reports whether the request produced no errors.
func (r *Response) OK() bool {
	return len(r.Errors) == 0
}

// BatchRequest is either a single request or a list of requests, decoded from a JSON
// object or array respectively.
type BatchRequest struct {
	Single *Request
	Batch  []*Request
}

func (b *BatchRequest) IsBatch() bool {
	return b.Single == nil
}

func (b *BatchRequest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty request")
	}
	if data[0] == '[' {
		b.Single = nil
		if err := json.Unmarshal(data, &b.Batch); err != nil {
			return err
		}
		if len(b.Batch) == 0 {
			return fmt.Errorf("empty batch request")
		}
		for _, req := range b.Batch {
			if req == nil {
				return fmt.Errorf("null request in batch")
			}
		}
		return nil
	}
	b.Batch = nil
	b.Single = &Request{}
	return json.Unmarshal(data, b.Single)
}

func (b *BatchRequest) MarshalJSON() ([]byte, error) {
	if b.IsBatch() {
		return json.Marshal(b.Batch)
	}
	return json.Marshal(b.Single)
}

// BatchResponse mirrors the shape of the BatchRequest it answers.
type BatchResponse struct {
	Single *Response
	Batch  []*Response
}

// OK reports whether every response of the batch is OK.
func (b *BatchResponse) OK() bool {
	if b.Single != nil {
		return b.Single.OK()
	}
	for _, r := range b.Batch {
		if !r.OK() {
			return false
		}
	}
	return true
}

func (b *BatchResponse) MarshalJSON() ([]byte, error) {
	if b.Single != nil {
		return json.Marshal(b.Single)
	}
	return json.Marshal(b.Batch)
}
