package graphql

import (
	"context"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/internal/query"
	"github.com/graph-gophers/graphql-engine/internal/validation"
)

// LoggedOperation represents a summary of an operation suitable for concise
// telemetry, for example in a web server context.
type LoggedOperation struct {
	Name      string `json:",omitempty"`
	Type      ast.OperationType
	Variables map[string]string `json:",omitempty"`
	Fields    []LoggedField     `json:",omitempty"`
}

// LoggedField represents a summary of a top-level field. Arguments are rendered as
// they appear in the document.
type LoggedField struct {
	Name      string
	Alias     string            `json:",omitempty"`
	Arguments map[string]string `json:",omitempty"`
}

func logField(field *ast.Field) LoggedField {
	var loggedArgs map[string]string
	if len(field.Arguments) > 0 {
		loggedArgs = make(map[string]string, len(field.Arguments))
		for _, arg := range field.Arguments {
			loggedArgs[arg.Name.Value] = arg.Value.String()
		}
	}
	lf := LoggedField{
		Name:      field.Name.Value,
		Arguments: loggedArgs,
	}
	if field.Alias.Value != "" && field.Alias.Value != field.Name.Value {
		lf.Alias = field.Alias.Value
	}
	return lf
}

// logOperations summarizes every operation. Variables map to their default values;
// variables without a default are left out.
func logOperations(doc *ast.Document) []LoggedOperation {
	lops := make([]LoggedOperation, len(doc.Operations))
	for i, op := range doc.Operations {
		var args map[string]string
		for _, v := range op.Vars {
			if v.Default == nil {
				continue
			}
			if args == nil {
				args = make(map[string]string)
			}
			args[v.Name.Value] = v.Default.String()
		}

		fields := make([]LoggedField, 0, len(op.Selections))
		for _, sel := range op.Selections {
			if field, ok := sel.(*ast.Field); ok {
				fields = append(fields, logField(field))
			}
		}

		lops[i] = LoggedOperation{
			Name:      op.Name.Value,
			Type:      op.Type,
			Variables: args,
			Fields:    fields,
		}
	}
	return lops
}

// ValidateAndLog validates the query and simultaneously produces a loggable
// summary of the operations it contains.
func (e *Engine) ValidateAndLog(ctx context.Context, queryString string) ([]*errors.QueryError, []LoggedOperation) {
	doc, perr := query.ParseWithMaxDepth(queryString, e.maxParseDepth)
	if perr != nil {
		return []*errors.QueryError{perr.QueryError()}, nil
	}

	validationFinish := e.validationTracer.TraceValidation(ctx)
	errs := validation.Validate(e.schema, doc, e.validationOptions())
	validationFinish(errs)
	if len(errs) != 0 {
		return errs, []LoggedOperation{}
	}
	return nil, logOperations(doc)
}

// Validate parses and validates the query without executing it.
func (e *Engine) Validate(ctx context.Context, queryString string) []*errors.QueryError {
	errs, _ := e.ValidateAndLog(ctx, queryString)
	return errs
}
