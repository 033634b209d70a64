package validation

import (
	"fmt"
	"strings"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/schema"
)

// Context is a document annotated with schema information. It is built once and
// only read afterwards, which lets the rules share it.
type Context struct {
	Schema *schema.Schema
	Doc    *ast.Document

	fields     []*fieldInfo
	fieldMap   map[*ast.Field]*fieldInfo
	fragments  []*fragmentUse
	directives []*directiveUse
	calls      []*callInfo
	variables  []*variableUse

	// spreads lists the fragment spreads found in each definition's selections.
	spreads map[ast.Definition][]*ast.FragmentSpread
	// reachable lists the fragments an operation spreads, directly or not.
	reachable map[*ast.OperationDefinition][]*ast.FragmentDefinition
	usedFrags map[*ast.FragmentDefinition]bool
}

type fieldInfo struct {
	field  *ast.Field
	parent schema.MetaType // nil when the parent type is unknown
	def    *schema.Field   // nil when the parent has no such field
	owner  ast.Definition
}

// fragmentUse is an inline fragment or a fragment spread.
type fragmentUse struct {
	sel    ast.Selection
	parent schema.MetaType
	owner  ast.Definition
}

type directiveUse struct {
	list     ast.DirectiveList
	location string
	owner    ast.Definition
}

// callInfo is an argument list together with the declarations it is checked against.
type callInfo struct {
	args  ast.ArgumentList
	decls schema.ArgumentList
	known bool // false when the field or directive itself is unknown
	loc   errors.Location
	// what names the field or directive in messages.
	what  string
	owner ast.Definition
}

type variableUse struct {
	v *ast.Variable
	// expected is the type of the position the variable is used in, nil if unknown.
	expected ast.Type
	// hasDefault is set when the position declares a default value.
	hasDefault bool
	owner      ast.Definition
}

// NewContext annotates doc. Selections that can not be typed keep a nil type; the
// rules concerned report them.
func NewContext(s *schema.Schema, doc *ast.Document) *Context {
	c := &Context{
		Schema:    s,
		Doc:       doc,
		fieldMap:  make(map[*ast.Field]*fieldInfo),
		spreads:   make(map[ast.Definition][]*ast.FragmentSpread),
		reachable: make(map[*ast.OperationDefinition][]*ast.FragmentDefinition),
		usedFrags: make(map[*ast.FragmentDefinition]bool),
	}

	for _, def := range doc.Definitions {
		switch def := def.(type) {
		case *ast.OperationDefinition:
			c.addDirectives(def, strings.ToUpper(string(def.Type)), def.Directives)
			for _, v := range def.Vars {
				c.addDirectives(def, "VARIABLE_DEFINITION", v.Directives)
			}
			var root schema.MetaType
			if obj := s.RootType(def.Type); obj != nil {
				root = obj
			}
			c.addSelections(def, def.Selections, root)

		case *ast.FragmentDefinition:
			c.addDirectives(def, "FRAGMENT_DEFINITION", def.Directives)
			c.addSelections(def, def.Selections, c.composite(def.On.Value))
		}
	}

	for _, op := range doc.Operations {
		seen := make(map[*ast.FragmentDefinition]bool)
		c.markUsedFragments(op, seen)
		for _, frag := range doc.Fragments {
			if seen[frag] {
				c.reachable[op] = append(c.reachable[op], frag)
				c.usedFrags[frag] = true
			}
		}
	}
	return c
}

// composite returns the named type when it is an object, interface or union.
func (c *Context) composite(name string) schema.MetaType {
	t, ok := c.Schema.Lookup(name)
	if !ok || !schema.IsComposite(t) {
		return nil
	}
	return t
}

func (c *Context) addSelections(owner ast.Definition, sels []ast.Selection, parent schema.MetaType) {
	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			info := &fieldInfo{field: sel, parent: parent, owner: owner}
			if parent != nil {
				info.def = c.Schema.FieldOn(parent, sel.Name.Value)
			}
			c.fields = append(c.fields, info)
			c.fieldMap[sel] = info
			c.addDirectives(owner, "FIELD", sel.Directives)

			call := &callInfo{
				args:  sel.Arguments,
				loc:   sel.Span.Location(),
				what:  fmt.Sprintf("field %q", sel.Name.Value),
				owner: owner,
			}
			var child schema.MetaType
			if info.def != nil {
				call.decls = info.def.Arguments
				call.known = true
				call.what = fmt.Sprintf("field %q of type %q", sel.Name.Value, parent.TypeName())
				if t := c.Schema.Meta(info.def.Type); t != nil && schema.IsComposite(schema.Unwrap(t)) {
					child = schema.Unwrap(t)
				}
			}
			c.addCall(call)
			c.addSelections(owner, sel.Selections, child)

		case *ast.InlineFragment:
			c.fragments = append(c.fragments, &fragmentUse{sel: sel, parent: parent, owner: owner})
			c.addDirectives(owner, "INLINE_FRAGMENT", sel.Directives)
			t := parent
			if sel.On.Value != "" {
				t = c.composite(sel.On.Value)
			}
			c.addSelections(owner, sel.Selections, t)

		case *ast.FragmentSpread:
			c.fragments = append(c.fragments, &fragmentUse{sel: sel, parent: parent, owner: owner})
			c.addDirectives(owner, "FRAGMENT_SPREAD", sel.Directives)
			c.spreads[owner] = append(c.spreads[owner], sel)
		}
	}
}

func (c *Context) addDirectives(owner ast.Definition, location string, list ast.DirectiveList) {
	if len(list) == 0 {
		return
	}
	c.directives = append(c.directives, &directiveUse{list: list, location: location, owner: owner})
	for _, d := range list {
		call := &callInfo{
			args:  d.Arguments,
			loc:   d.Name.Location(),
			what:  fmt.Sprintf("directive %q", "@"+d.Name.Value),
			owner: owner,
		}
		if decl := c.Schema.Directive(d.Name.Value); decl != nil {
			call.decls = decl.Arguments
			call.known = true
		}
		c.addCall(call)
	}
}

func (c *Context) addCall(call *callInfo) {
	c.calls = append(c.calls, call)
	for _, arg := range call.args {
		var t ast.Type
		hasDefault := false
		if decl := call.decls.Get(arg.Name.Value); decl != nil {
			t = decl.Type
			hasDefault = decl.Default != nil
		}
		c.addVariables(call.owner, arg.Value, t, hasDefault)
	}
}

// addVariables records the variables used in v, which appears where a value of type
// t is expected.
func (c *Context) addVariables(owner ast.Definition, v ast.InputValue, t ast.Type, hasDefault bool) {
	switch v := v.(type) {
	case *ast.Variable:
		c.variables = append(c.variables, &variableUse{v: v, expected: t, hasDefault: hasDefault, owner: owner})

	case *ast.ListValue:
		var item ast.Type
		if l, ok := ast.Nullable(t).(*ast.ListType); ok {
			item = l.OfType
		}
		for _, entry := range v.Values {
			c.addVariables(owner, entry, item, false)
		}

	case *ast.ObjectValue:
		var in *schema.InputObject
		if t != nil {
			if named, ok := c.Schema.Lookup(ast.TypeName(t)); ok {
				in, _ = named.(*schema.InputObject)
			}
		}
		for _, f := range v.Fields {
			var ft ast.Type
			fieldDefault := false
			if in != nil {
				if decl := in.Fields.Get(f.Name.Value); decl != nil {
					ft = decl.Type
					fieldDefault = decl.Default != nil
				}
			}
			c.addVariables(owner, f.Value, ft, fieldDefault)
		}
	}
}

func (c *Context) markUsedFragments(owner ast.Definition, seen map[*ast.FragmentDefinition]bool) {
	for _, spread := range c.spreads[owner] {
		frag := c.Doc.Fragment(spread.Name.Value)
		if frag == nil || seen[frag] {
			continue
		}
		seen[frag] = true
		c.markUsedFragments(frag, seen)
	}
}

// operationsUsing returns the operations whose selections include owner.
func (c *Context) operationsUsing(owner ast.Definition) []*ast.OperationDefinition {
	if op, ok := owner.(*ast.OperationDefinition); ok {
		return []*ast.OperationDefinition{op}
	}
	var ops []*ast.OperationDefinition
	for _, op := range c.Doc.Operations {
		for _, frag := range c.reachable[op] {
			if ast.Definition(frag) == owner {
				ops = append(ops, op)
				break
			}
		}
	}
	return ops
}
