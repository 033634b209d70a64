package validation

import (
	"fmt"
	"strings"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/schema"
)

type nameSet map[string]errors.Location

func validateName(r *reporter, set nameSet, name ast.Name, kind string) {
	validateNameCustomMsg(r, set, name, func() string {
		return fmt.Sprintf("There can be only one %s named %q.", kind, name.Value)
	})
}

func validateNameCustomMsg(r *reporter, set nameSet, name ast.Name, msg func() string) {
	if loc, ok := set[name.Value]; ok {
		r.addErrMultiLoc([]errors.Location{loc, name.Location()}, msg())
		return
	}
	set[name.Value] = name.Location()
}

func uniqueOperationNames(c *Context, r *reporter) {
	names := make(nameSet)
	for _, op := range c.Doc.Operations {
		if op.Name.Value != "" {
			validateName(r, names, op.Name, "operation")
		}
	}
}

func loneAnonymousOperation(c *Context, r *reporter) {
	if len(c.Doc.Operations) < 2 {
		return
	}
	for _, op := range c.Doc.Operations {
		if op.Name.Value == "" {
			r.addErr(op.Span.Location(), "This anonymous operation must be the only defined operation.")
		}
	}
}

func knownTypeNames(c *Context, r *reporter) {
	check := func(name string, loc errors.Location) {
		if _, ok := c.Schema.Lookup(name); !ok {
			r.addErr(loc, "Unknown type %q.", name)
		}
	}
	for _, def := range c.Doc.Definitions {
		switch def := def.(type) {
		case *ast.OperationDefinition:
			for _, v := range def.Vars {
				named := innermost(v.Type)
				check(named.Name, named.Span.Location())
			}
		case *ast.FragmentDefinition:
			check(def.On.Value, def.On.Location())
		}
	}
	for _, use := range c.fragments {
		if frag, ok := use.sel.(*ast.InlineFragment); ok && frag.On.Value != "" {
			check(frag.On.Value, frag.On.Location())
		}
	}
}

func innermost(t ast.Type) *ast.NamedType {
	for {
		switch tt := t.(type) {
		case *ast.NamedType:
			return tt
		case *ast.ListType:
			t = tt.OfType
		case *ast.NonNullType:
			t = tt.OfType
		default:
			return &ast.NamedType{}
		}
	}
}

func fragmentsOnCompositeTypes(c *Context, r *reporter) {
	for _, frag := range c.Doc.Fragments {
		if t, ok := c.Schema.Lookup(frag.On.Value); ok && !schema.IsComposite(t) {
			r.addErr(frag.On.Location(), "Fragment %q cannot condition on non composite type %q.", frag.Name.Value, frag.On.Value)
		}
	}
	for _, use := range c.fragments {
		frag, ok := use.sel.(*ast.InlineFragment)
		if !ok || frag.On.Value == "" {
			continue
		}
		if t, ok := c.Schema.Lookup(frag.On.Value); ok && !schema.IsComposite(t) {
			r.addErr(frag.On.Location(), "Fragment cannot condition on non composite type %q.", frag.On.Value)
		}
	}
}

func variablesAreInputTypes(c *Context, r *reporter) {
	for _, op := range c.Doc.Operations {
		for _, v := range op.Vars {
			t, ok := c.Schema.Lookup(ast.TypeName(v.Type))
			if ok && !schema.IsInput(t) {
				r.addErr(v.Type.NodeSpan().Location(), "Variable %q cannot be non-input type %q.", "$"+v.Name.Value, v.Type)
			}
		}
	}
}

func scalarLeafs(c *Context, r *reporter) {
	for _, info := range c.fields {
		if info.def == nil {
			continue
		}
		t := c.Schema.Meta(info.def.Type)
		if t == nil {
			continue
		}
		name := info.field.Name.Value
		sub := schema.IsComposite(schema.Unwrap(t))
		if sub && len(info.field.Selections) == 0 {
			r.addErr(info.field.Span.Location(), "Field %q of type %q must have a selection of subfields. Did you mean \"%s { ... }\"?", name, info.def.Type, name)
		}
		if !sub && len(info.field.Selections) > 0 {
			r.addErr(info.field.Selections[0].NodeSpan().Location(), "Field %q must not have a selection since type %q has no subfields.", name, info.def.Type)
		}
	}
}

func fieldsOnCorrectType(c *Context, r *reporter) {
	for _, info := range c.fields {
		if info.parent == nil || info.def != nil {
			continue
		}
		name := info.field.Name.Value
		suggestion := makeSuggestion("Did you mean", schema.Fields(info.parent).Names(), name)
		r.addErr(info.field.Span.Location(), "Cannot query field %q on type %q.%s", name, info.parent.TypeName(), suggestion)
	}
}

func uniqueFragmentNames(c *Context, r *reporter) {
	names := make(nameSet)
	for _, frag := range c.Doc.Fragments {
		validateName(r, names, frag.Name, "fragment")
	}
}

func knownFragmentNames(c *Context, r *reporter) {
	for _, use := range c.fragments {
		if spread, ok := use.sel.(*ast.FragmentSpread); ok && c.Doc.Fragment(spread.Name.Value) == nil {
			r.addErr(spread.Name.Location(), "Unknown fragment %q.", spread.Name.Value)
		}
	}
}

func noUnusedFragments(c *Context, r *reporter) {
	for _, frag := range c.Doc.Fragments {
		if !c.usedFrags[frag] {
			r.addErr(frag.Span.Location(), "Fragment %q is never used.", frag.Name.Value)
		}
	}
}

func possibleFragmentSpreads(c *Context, r *reporter) {
	for _, use := range c.fragments {
		if use.parent == nil {
			continue
		}
		switch sel := use.sel.(type) {
		case *ast.InlineFragment:
			if sel.On.Value == "" {
				continue
			}
			if t := c.composite(sel.On.Value); t != nil && !c.compatible(use.parent, t) {
				r.addErr(sel.Span.Location(), "Fragment cannot be spread here as objects of type %q can never be of type %q.", use.parent.TypeName(), t.TypeName())
			}
		case *ast.FragmentSpread:
			frag := c.Doc.Fragment(sel.Name.Value)
			if frag == nil {
				continue
			}
			if t := c.composite(frag.On.Value); t != nil && !c.compatible(use.parent, t) {
				r.addErr(sel.Span.Location(), "Fragment %q cannot be spread here as objects of type %q can never be of type %q.", frag.Name.Value, use.parent.TypeName(), t.TypeName())
			}
		}
	}
}

func (c *Context) compatible(a, b schema.MetaType) bool {
	for _, pta := range c.Schema.PossibleTypes(a) {
		for _, ptb := range c.Schema.PossibleTypes(b) {
			if pta == ptb {
				return true
			}
		}
	}
	return false
}

func noFragmentCycles(c *Context, r *reporter) {
	visited := make(map[*ast.FragmentDefinition]bool)
	for _, frag := range c.Doc.Fragments {
		if !visited[frag] {
			visited[frag] = true
			detectFragmentCycle(c, r, frag, visited, nil, map[string]int{frag.Name.Value: 0})
		}
	}
}

func detectFragmentCycle(c *Context, r *reporter, owner *ast.FragmentDefinition, visited map[*ast.FragmentDefinition]bool, spreadPath []*ast.FragmentSpread, spreadPathIndex map[string]int) {
	for _, spread := range c.spreads[owner] {
		frag := c.Doc.Fragment(spread.Name.Value)
		if frag == nil {
			continue
		}

		path := append(spreadPath[:len(spreadPath):len(spreadPath)], spread)
		if i, ok := spreadPathIndex[frag.Name.Value]; ok {
			cyclePath := path[i:]
			via := ""
			if len(cyclePath) > 1 {
				names := make([]string, len(cyclePath)-1)
				for i, s := range cyclePath[:len(cyclePath)-1] {
					names[i] = s.Name.Value
				}
				via = " via " + strings.Join(names, ", ")
			}

			locs := make([]errors.Location, len(cyclePath))
			for i, s := range cyclePath {
				locs[i] = s.Span.Location()
			}
			r.addErrMultiLoc(locs, "Cannot spread fragment %q within itself%s.", frag.Name.Value, via)
			continue
		}

		if visited[frag] {
			continue
		}
		visited[frag] = true

		spreadPathIndex[frag.Name.Value] = len(path)
		detectFragmentCycle(c, r, frag, visited, path, spreadPathIndex)
		delete(spreadPathIndex, frag.Name.Value)
	}
}

func uniqueVariableNames(c *Context, r *reporter) {
	for _, op := range c.Doc.Operations {
		names := make(nameSet)
		for _, v := range op.Vars {
			validateName(r, names, v.Name, "variable")
		}
	}
}

func noUndefinedVariables(c *Context, r *reporter) {
	for _, use := range c.variables {
		for _, op := range c.operationsUsing(use.owner) {
			if op.Var(use.v.Name) != nil {
				continue
			}
			byOp := ""
			if op.Name.Value != "" {
				byOp = fmt.Sprintf(" by operation %q", op.Name.Value)
			}
			r.addErrMultiLoc([]errors.Location{use.v.Span.Location(), op.Span.Location()}, "Variable %q is not defined%s.", "$"+use.v.Name, byOp)
		}
	}
}

func noUnusedVariables(c *Context, r *reporter) {
	for _, op := range c.Doc.Operations {
		used := make(map[string]bool)
		owners := map[ast.Definition]bool{op: true}
		for _, frag := range c.reachable[op] {
			owners[frag] = true
		}
		for _, use := range c.variables {
			if owners[use.owner] {
				used[use.v.Name] = true
			}
		}
		for _, v := range op.Vars {
			if used[v.Name.Value] {
				continue
			}
			opSuffix := ""
			if op.Name.Value != "" {
				opSuffix = fmt.Sprintf(" in operation %q", op.Name.Value)
			}
			r.addErr(v.Span.Location(), "Variable %q is never used%s.", "$"+v.Name.Value, opSuffix)
		}
	}
}

func knownDirectives(c *Context, r *reporter) {
	for _, use := range c.directives {
		for _, d := range use.list {
			decl := c.Schema.Directive(d.Name.Value)
			if decl == nil {
				r.addErr(d.Name.Location(), "Unknown directive %q.", d.Name.Value)
				continue
			}
			locOK := false
			for _, allowed := range decl.Locations {
				if allowed == use.location {
					locOK = true
					break
				}
			}
			if !locOK {
				r.addErr(d.Name.Location(), "Directive %q may not be used on %s.", d.Name.Value, use.location)
			}
		}
	}
}

func uniqueDirectivesPerLocation(c *Context, r *reporter) {
	for _, use := range c.directives {
		names := make(nameSet)
		for _, d := range use.list {
			name := d.Name.Value
			validateNameCustomMsg(r, names, d.Name, func() string {
				return fmt.Sprintf("The directive %q can only be used once at this location.", name)
			})
		}
	}
}

func knownArgumentNames(c *Context, r *reporter) {
	for _, call := range c.calls {
		if !call.known {
			continue
		}
		for _, arg := range call.args {
			if call.decls.Get(arg.Name.Value) == nil {
				suggestion := makeSuggestion("Did you mean", call.decls.Names(), arg.Name.Value)
				r.addErr(arg.Name.Location(), "Unknown argument %q on %s.%s", arg.Name.Value, call.what, suggestion)
			}
		}
	}
}

func uniqueArgumentNames(c *Context, r *reporter) {
	for _, call := range c.calls {
		names := make(nameSet)
		for _, arg := range call.args {
			validateName(r, names, arg.Name, "argument")
		}
	}
}

func argumentsOfCorrectType(c *Context, r *reporter) {
	for _, call := range c.calls {
		for _, arg := range call.args {
			decl := call.decls.Get(arg.Name.Value)
			if decl == nil {
				continue
			}
			if ok, reason := c.validateValueType(arg.Value, decl.Type); !ok {
				r.addErr(arg.Value.NodeSpan().Location(), "Argument %q has invalid value %s.\n%s", decl.Name, arg.Value, reason)
			}
		}
	}
}

func providedNonNullArguments(c *Context, r *reporter) {
	for _, call := range c.calls {
		if !call.known {
			continue
		}
		for _, decl := range call.decls {
			if !ast.IsNonNull(decl.Type) || decl.Default != nil {
				continue
			}
			if v, ok := call.args.Get(decl.Name); !ok || isNull(v) {
				what := strings.ToUpper(call.what[:1]) + call.what[1:]
				r.addErr(call.loc, "%s argument %q of type %q is required but not provided.", what, decl.Name, decl.Type)
			}
		}
	}
}

func defaultValuesOfCorrectType(c *Context, r *reporter) {
	for _, op := range c.Doc.Operations {
		for _, v := range op.Vars {
			if v.Default == nil {
				continue
			}
			if _, ok := c.Schema.Lookup(ast.TypeName(v.Type)); !ok {
				continue
			}
			if ok, reason := c.validateValueType(v.Default, v.Type); !ok {
				r.addErr(v.Default.NodeSpan().Location(), "Variable %q of type %q has invalid default value %s.\n%s", "$"+v.Name.Value, v.Type, v.Default, reason)
			}
		}
	}
}

func variablesInAllowedPosition(c *Context, r *reporter) {
	for _, use := range c.variables {
		if use.expected == nil {
			continue
		}
		for _, op := range c.operationsUsing(use.owner) {
			def := op.Var(use.v.Name)
			if def == nil {
				continue
			}
			if _, ok := c.Schema.Lookup(ast.TypeName(def.Type)); !ok {
				continue
			}
			expected := use.expected
			if ast.IsNonNull(expected) && !ast.IsNonNull(def.Type) && (use.hasDefault || (def.Default != nil && !isNull(def.Default))) {
				expected = ast.Nullable(expected)
			}
			if !typeCanBeUsedAs(def.Type, expected) {
				r.addErrMultiLoc([]errors.Location{def.Span.Location(), use.v.Span.Location()}, "Variable %q of type %q used in position expecting type %q.", "$"+use.v.Name, def.Type, use.expected)
			}
		}
	}
}

func uniqueInputFieldNames(c *Context, r *reporter) {
	var walk func(v ast.InputValue)
	walk = func(v ast.InputValue) {
		switch v := v.(type) {
		case *ast.ObjectValue:
			names := make(nameSet)
			for _, f := range v.Fields {
				validateName(r, names, f.Name, "input field")
				walk(f.Value)
			}
		case *ast.ListValue:
			for _, entry := range v.Values {
				walk(entry)
			}
		}
	}
	for _, op := range c.Doc.Operations {
		for _, v := range op.Vars {
			if v.Default != nil {
				walk(v.Default)
			}
		}
	}
	for _, call := range c.calls {
		for _, arg := range call.args {
			walk(arg.Value)
		}
	}
}

func noIntrospection(c *Context, r *reporter) {
	for _, info := range c.fields {
		if info.def == schema.SchemaField || info.def == schema.TypeField {
			r.addErr(info.field.Span.Location(), "GraphQL introspection is not allowed, but the query contained %s", info.field.Name.Value)
		}
	}
}
