package exec

import (
	"fmt"
	"reflect"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/schema"
)

// CoerceVariables checks the supplied variables against the operation's declarations
// and applies defaults. Every failing variable is reported.
func CoerceVariables(s *schema.Schema, op *ast.OperationDefinition, vars map[string]interface{}) (map[string]interface{}, []*errors.QueryError) {
	out := make(map[string]interface{}, len(op.Vars))
	var errs []*errors.QueryError
	for _, def := range op.Vars {
		name := def.Name.Value
		t := s.Meta(def.Type)
		if t == nil {
			errs = append(errs, variableError(def, "Variable %q has unknown type %q.", "$"+name, def.Type))
			continue
		}
		v, provided := vars[name]
		switch {
		case !provided && def.Default != nil:
			coerced, err := coerceLiteral(s, t, def.Default, nil)
			if err != nil {
				errs = append(errs, variableError(def, "Variable %q has invalid default value: %s", "$"+name, err))
				continue
			}
			out[name] = coerced
		case !provided:
			if !isNullable(t) {
				errs = append(errs, variableError(def, "Variable %q of required type %q was not provided.", "$"+name, def.Type))
			}
		case v == nil:
			if !isNullable(t) {
				errs = append(errs, variableError(def, "Variable %q of non-null type %q must not be null.", "$"+name, def.Type))
				continue
			}
			out[name] = nil
		default:
			coerced, err := coerceValue(s, t, v)
			if err != nil {
				errs = append(errs, variableError(def, "Variable %q got invalid value %v; %s", "$"+name, v, err))
				continue
			}
			out[name] = coerced
		}
	}
	return out, errs
}

func variableError(def *ast.VariableDefinition, format string, a ...interface{}) *errors.QueryError {
	err := errors.Errorf(format, a...)
	err.Locations = []errors.Location{def.Span.Location()}
	err.Rule = "VariableCoercion"
	return err
}

func isNullable(t schema.MetaType) bool {
	_, ok := t.(*schema.Nullable)
	return ok
}

// coerceValue coerces an input value supplied outside the document, such as a JSON
// decoded variable.
func coerceValue(s *schema.Schema, t schema.MetaType, v interface{}) (interface{}, error) {
	if n, ok := t.(*schema.Nullable); ok {
		if v == nil {
			return nil, nil
		}
		t = n.OfType
	} else if v == nil {
		return nil, fmt.Errorf("Expected non-null value, found null.")
	}

	switch t := t.(type) {
	case *schema.Scalar:
		return t.ParseValue(v)

	case *schema.Enum:
		name, ok := v.(string)
		if !ok || t.Value(name) == nil {
			return nil, fmt.Errorf("Value %v does not exist in %q enum.", v, t.Name)
		}
		return name, nil

	case *schema.InputObject:
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("Expected type %q to be an object.", t.Name)
		}
		for key := range m {
			if t.Fields.Get(key) == nil {
				return nil, fmt.Errorf("Field %q is not defined by type %q.", key, t.Name)
			}
		}
		out := make(map[string]interface{}, len(t.Fields))
		for _, f := range t.Fields {
			ft := s.Meta(f.Type)
			fv, present := m[f.Name]
			if !present {
				if err := inputDefault(s, out, f, ft); err != nil {
					return nil, err
				}
				continue
			}
			coerced, err := coerceValue(s, ft, fv)
			if err != nil {
				return nil, fmt.Errorf("In field %q: %s", f.Name, err)
			}
			out[f.Name] = coerced
		}
		return out, nil

	case *schema.List:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			item, err := coerceValue(s, t.OfType, v)
			if err != nil {
				return nil, err
			}
			return []interface{}{item}, nil
		}
		out := make([]interface{}, rv.Len())
		for i := range out {
			item, err := coerceValue(s, t.OfType, rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("In element #%d: %s", i, err)
			}
			out[i] = item
		}
		return out, nil
	}
	return nil, fmt.Errorf("Type %q is not an input type.", t.TypeName())
}

// coerceLiteral coerces a literal from the document. Variables are taken from vars,
// which holds coerced values. A variable missing from vars counts as null.
func coerceLiteral(s *schema.Schema, t schema.MetaType, lit ast.InputValue, vars map[string]interface{}) (interface{}, error) {
	if v, ok := lit.(*ast.Variable); ok {
		value := vars[v.Name]
		if value == nil && !isNullable(t) {
			return nil, fmt.Errorf("Variable %q of non-null type must not be null.", "$"+v.Name)
		}
		return value, nil
	}

	if n, ok := t.(*schema.Nullable); ok {
		if _, isNull := lit.(*ast.NullValue); isNull {
			return nil, nil
		}
		t = n.OfType
	} else if _, isNull := lit.(*ast.NullValue); isNull {
		return nil, fmt.Errorf("Expected non-null value, found null.")
	}

	switch t := t.(type) {
	case *schema.Scalar:
		return t.ParseLiteral(lit)

	case *schema.Enum:
		e, ok := lit.(*ast.EnumValue)
		if !ok || t.Value(e.Name) == nil {
			return nil, fmt.Errorf("Expected type %q, found %s.", t.Name, lit)
		}
		return e.Name, nil

	case *schema.InputObject:
		obj, ok := lit.(*ast.ObjectValue)
		if !ok {
			return nil, fmt.Errorf("Expected type %q, found %s.", t.Name, lit)
		}
		out := make(map[string]interface{}, len(t.Fields))
		for _, f := range t.Fields {
			ft := s.Meta(f.Type)
			fv, present := obj.Get(f.Name)
			if v, isVar := fv.(*ast.Variable); isVar {
				if _, ok := vars[v.Name]; !ok {
					present = false
				}
			}
			if !present {
				if err := inputDefault(s, out, f, ft); err != nil {
					return nil, err
				}
				continue
			}
			coerced, err := coerceLiteral(s, ft, fv, vars)
			if err != nil {
				return nil, fmt.Errorf("In field %q: %s", f.Name, err)
			}
			out[f.Name] = coerced
		}
		return out, nil

	case *schema.List:
		list, ok := lit.(*ast.ListValue)
		if !ok {
			item, err := coerceLiteral(s, t.OfType, lit, vars)
			if err != nil {
				return nil, err
			}
			return []interface{}{item}, nil
		}
		out := make([]interface{}, len(list.Values))
		for i, item := range list.Values {
			coerced, err := coerceLiteral(s, t.OfType, item, vars)
			if err != nil {
				return nil, fmt.Errorf("In element #%d: %s", i, err)
			}
			out[i] = coerced
		}
		return out, nil
	}
	return nil, fmt.Errorf("Type %q is not an input type.", t.TypeName())
}

// inputDefault fills in an absent input field or argument.
func inputDefault(s *schema.Schema, out map[string]interface{}, a *schema.Argument, t schema.MetaType) error {
	if a.Default != nil {
		v, err := coerceLiteral(s, t, a.Default, nil)
		if err != nil {
			return err
		}
		out[a.Name] = v
		return nil
	}
	if !isNullable(t) {
		return fmt.Errorf("Field %q of required type %q was not provided.", a.Name, a.Type)
	}
	return nil
}

// CoerceArguments coerces the arguments of a field or directive. Absent nullable
// arguments without a default are left out of the result.
func CoerceArguments(s *schema.Schema, decls schema.ArgumentList, args ast.ArgumentList, vars map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(decls))
	for _, decl := range decls {
		t := s.Meta(decl.Type)
		lit, present := args.Get(decl.Name)
		if v, isVar := lit.(*ast.Variable); isVar {
			if _, ok := vars[v.Name]; !ok {
				present = false
			}
		}
		if !present {
			if decl.Default != nil {
				v, err := coerceLiteral(s, t, decl.Default, nil)
				if err != nil {
					return nil, fmt.Errorf("Argument %q has invalid default value: %s", decl.Name, err)
				}
				out[decl.Name] = v
				continue
			}
			if !isNullable(t) {
				return nil, fmt.Errorf("Argument %q of required type %q was not provided.", decl.Name, decl.Type)
			}
			continue
		}
		v, err := coerceLiteral(s, t, lit, vars)
		if err != nil {
			return nil, fmt.Errorf("Argument %q has invalid value %s.\n%s", decl.Name, lit, err)
		}
		out[decl.Name] = v
	}
	return out, nil
}
