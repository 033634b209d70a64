package validation

import (
	"fmt"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/schema"
)

// validateValueType checks a literal against a type reference. Variables are
// accepted here; their types are checked by VariablesInAllowedPosition.
func (c *Context) validateValueType(v ast.InputValue, t ast.Type) (bool, string) {
	if _, ok := v.(*ast.Variable); ok {
		return true, ""
	}

	if nn, ok := t.(*ast.NonNullType); ok {
		if isNull(v) {
			return false, fmt.Sprintf("Expected %q, found null.", t)
		}
		t = nn.OfType
	}
	if isNull(v) {
		return true, ""
	}

	switch t := t.(type) {
	case *ast.ListType:
		list, ok := v.(*ast.ListValue)
		if !ok {
			return c.validateValueType(v, t.OfType) // single value instead of list
		}
		for i, entry := range list.Values {
			if ok, reason := c.validateValueType(entry, t.OfType); !ok {
				return false, fmt.Sprintf("In element #%d: %s", i, reason)
			}
		}
		return true, ""

	case *ast.NamedType:
		named, ok := c.Schema.Lookup(t.Name)
		if !ok {
			// reported by KnownTypeNames
			return true, ""
		}
		switch named := named.(type) {
		case *schema.Scalar:
			if hasVariable(v) {
				return true, ""
			}
			if _, err := named.ParseLiteral(v); err != nil {
				return false, fmt.Sprintf("Expected type %q, found %s.", named.Name, v)
			}
			return true, ""

		case *schema.Enum:
			if e, ok := v.(*ast.EnumValue); ok && named.Value(e.Name) != nil {
				return true, ""
			}
			return false, fmt.Sprintf("Expected type %q, found %s.", named.Name, v)

		case *schema.InputObject:
			obj, ok := v.(*ast.ObjectValue)
			if !ok {
				return false, fmt.Sprintf("Expected %q, found not an object.", t)
			}
			for _, f := range obj.Fields {
				name := f.Name.Value
				decl := named.Fields.Get(name)
				if decl == nil {
					return false, fmt.Sprintf("In field %q: Unknown field.", name)
				}
				if ok, reason := c.validateValueType(f.Value, decl.Type); !ok {
					return false, fmt.Sprintf("In field %q: %s", name, reason)
				}
			}
			for _, decl := range named.Fields {
				if _, found := obj.Get(decl.Name); !found && ast.IsNonNull(decl.Type) && decl.Default == nil {
					return false, fmt.Sprintf("In field %q: Expected %q, found null.", decl.Name, decl.Type)
				}
			}
			return true, ""
		}
	}

	return false, fmt.Sprintf("Expected type %q, found %s.", t, v)
}

func hasVariable(v ast.InputValue) bool {
	switch v := v.(type) {
	case *ast.Variable:
		return true
	case *ast.ListValue:
		for _, entry := range v.Values {
			if hasVariable(entry) {
				return true
			}
		}
	case *ast.ObjectValue:
		for _, f := range v.Fields {
			if hasVariable(f.Value) {
				return true
			}
		}
	}
	return false
}

func isNull(v ast.InputValue) bool {
	_, ok := v.(*ast.NullValue)
	return ok
}

// typeCanBeUsedAs reports whether a variable of type t fits a position of type as.
func typeCanBeUsedAs(t, as ast.Type) bool {
	nnT, okT := t.(*ast.NonNullType)
	if okT {
		t = nnT.OfType
	}

	if nnAs, ok := as.(*ast.NonNullType); ok {
		if !okT {
			return false // nullable can not be used as non-null
		}
		as = nnAs.OfType
	}

	switch as := as.(type) {
	case *ast.ListType:
		lT, ok := t.(*ast.ListType)
		return ok && typeCanBeUsedAs(lT.OfType, as.OfType)
	case *ast.NamedType:
		nT, ok := t.(*ast.NamedType)
		return ok && nT.Name == as.Name
	}
	return false
}

// typesCompatible reports whether two fields with the same response key may be
// merged: lists and non-nulls must line up and leaf types must be the same.
func (c *Context) typesCompatible(a, b ast.Type) bool {
	al, aIsList := a.(*ast.ListType)
	bl, bIsList := b.(*ast.ListType)
	if aIsList || bIsList {
		return aIsList && bIsList && c.typesCompatible(al.OfType, bl.OfType)
	}

	ann, aIsNN := a.(*ast.NonNullType)
	bnn, bIsNN := b.(*ast.NonNullType)
	if aIsNN || bIsNN {
		return aIsNN && bIsNN && c.typesCompatible(ann.OfType, bnn.OfType)
	}

	an, bn := ast.TypeName(a), ast.TypeName(b)
	if c.isLeaf(an) || c.isLeaf(bn) {
		return an == bn
	}
	return true
}

func (c *Context) isLeaf(name string) bool {
	t, ok := c.Schema.Lookup(name)
	return ok && schema.IsLeaf(t)
}
