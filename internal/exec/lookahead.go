package exec

import (
	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/lookahead"
	"github.com/graph-gophers/graphql-engine/schema"
)

// lookAhead builds the look-ahead for a field about to be resolved.
func (e *Execution) lookAhead(f *fieldToExec, args map[string]interface{}) *lookahead.Selection {
	sel := &lookahead.Selection{Name: f.def.Name, Arguments: args}
	if alias := f.fields[0].Alias.Value; alias != "" {
		sel.Alias = alias
	}
	if t := schema.Unwrap(e.Schema.Meta(f.def.Type)); t != nil && schema.IsComposite(t) {
		sel.Children = e.lookAheadChildren(t, f.selections())
	}
	return sel
}

type lookAheadEntry struct {
	sel  *lookahead.Selection
	typ  schema.MetaType
	sels []ast.Selection
}

func (e *Execution) lookAheadChildren(parent schema.MetaType, sels []ast.Selection) []*lookahead.Selection {
	var entries []*lookAheadEntry
	byKey := make(map[string]*lookAheadEntry)
	e.collectLookAhead(parent, sels, nil, &entries, byKey, nil)

	children := make([]*lookahead.Selection, len(entries))
	for i, entry := range entries {
		if t := schema.Unwrap(entry.typ); t != nil && schema.IsComposite(t) {
			entry.sel.Children = e.lookAheadChildren(t, entry.sels)
		}
		children[i] = entry.sel
	}
	return children
}

// collectLookAhead walks a selection set on parent. types holds the object types the
// current branch is restricted to, nil meaning no restriction.
func (e *Execution) collectLookAhead(parent schema.MetaType, sels []ast.Selection, types []string, entries *[]*lookAheadEntry, byKey map[string]*lookAheadEntry, visited map[string]bool) {
	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			if e.skipByDirective(sel.Directives) {
				continue
			}
			key := sel.ResponseKey()
			if entry, ok := byKey[key]; ok {
				entry.sel.Types = unionTypes(entry.sel.Types, types)
				entry.sels = append(entry.sels, sel.Selections...)
				continue
			}
			def := e.Schema.FieldOn(parent, sel.Name.Value)
			if def == nil {
				continue
			}
			args, err := CoerceArguments(e.Schema, def.Arguments, sel.Arguments, e.Vars)
			if err != nil {
				args = nil
			}
			entry := &lookAheadEntry{
				sel:  &lookahead.Selection{Name: def.Name, Alias: sel.Alias.Value, Arguments: args, Types: types},
				typ:  e.Schema.Meta(def.Type),
				sels: append([]ast.Selection(nil), sel.Selections...),
			}
			byKey[key] = entry
			*entries = append(*entries, entry)

		case *ast.InlineFragment:
			if e.skipByDirective(sel.Directives) {
				continue
			}
			cond, restricted := e.narrow(parent, sel.On.Value, types)
			e.collectLookAhead(cond, sel.Selections, restricted, entries, byKey, visited)

		case *ast.FragmentSpread:
			if e.skipByDirective(sel.Directives) || visited[sel.Name.Value] {
				continue
			}
			frag := e.Doc.Fragment(sel.Name.Value)
			if frag == nil {
				continue
			}
			if visited == nil {
				visited = make(map[string]bool)
			}
			visited[sel.Name.Value] = true
			cond, restricted := e.narrow(parent, frag.On.Value, types)
			e.collectLookAhead(cond, frag.Selections, restricted, entries, byKey, visited)
			delete(visited, sel.Name.Value)
		}
	}
}

// narrow applies a fragment type condition to the current branch.
func (e *Execution) narrow(parent schema.MetaType, cond string, types []string) (schema.MetaType, []string) {
	if cond == "" || cond == parent.TypeName() {
		return parent, types
	}
	t, ok := e.Schema.Lookup(cond)
	if !ok {
		return parent, []string{}
	}
	possible := e.Schema.PossibleTypes(t)
	names := make([]string, 0, len(possible))
	for _, obj := range possible {
		if types == nil || contains(types, obj.Name) {
			names = append(names, obj.Name)
		}
	}
	return t, names
}

func unionTypes(a, b []string) []string {
	if a == nil || b == nil {
		return nil
	}
	out := append([]string(nil), a...)
	for _, t := range b {
		if !contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func contains(l []string, s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
