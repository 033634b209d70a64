package exec

import (
	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/schema"
)

// fieldToExec is one response key of a selection set together with every field node
// selected under that key.
type fieldToExec struct {
	key    string
	def    *schema.Field
	fields []*ast.Field
}

// selections returns the merged sub-selections of every field under the key.
func (f *fieldToExec) selections() []ast.Selection {
	if len(f.fields) == 1 {
		return f.fields[0].Selections
	}
	var sels []ast.Selection
	for _, field := range f.fields {
		sels = append(sels, field.Selections...)
	}
	return sels
}

// collectFields flattens a selection set for the concrete type obj. Skipped selections
// and fragments whose type condition does not apply to obj are left out.
func (e *Execution) collectFields(obj *schema.Object, sels []ast.Selection) []*fieldToExec {
	var fields []*fieldToExec
	fieldByKey := getFieldMap()
	defer putFieldMap(fieldByKey)
	e.collect(obj, sels, &fields, fieldByKey, nil)
	return fields
}

func (e *Execution) collect(obj *schema.Object, sels []ast.Selection, fields *[]*fieldToExec, fieldByKey map[string]*fieldToExec, visited map[string]bool) {
	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			if e.skipByDirective(sel.Directives) {
				continue
			}
			key := sel.ResponseKey()
			if f, ok := fieldByKey[key]; ok {
				f.fields = append(f.fields, sel)
				continue
			}
			def := e.Schema.FieldOn(obj, sel.Name.Value)
			if def == nil {
				// rejected by validation
				continue
			}
			f := &fieldToExec{key: key, def: def, fields: []*ast.Field{sel}}
			fieldByKey[key] = f
			*fields = append(*fields, f)

		case *ast.InlineFragment:
			if e.skipByDirective(sel.Directives) || !e.fragmentApplies(obj, sel.On.Value) {
				continue
			}
			e.collect(obj, sel.Selections, fields, fieldByKey, visited)

		case *ast.FragmentSpread:
			if e.skipByDirective(sel.Directives) {
				continue
			}
			name := sel.Name.Value
			if visited[name] {
				continue
			}
			frag := e.Doc.Fragment(name)
			if frag == nil || !e.fragmentApplies(obj, frag.On.Value) {
				continue
			}
			if visited == nil {
				visited = make(map[string]bool)
			}
			visited[name] = true
			e.collect(obj, frag.Selections, fields, fieldByKey, visited)
		}
	}
}

// fragmentApplies reports whether a fragment with the type condition cond applies to
// values of the object type obj. An empty condition always applies.
func (e *Execution) fragmentApplies(obj *schema.Object, cond string) bool {
	if cond == "" || cond == obj.Name {
		return true
	}
	t, ok := e.Schema.Lookup(cond)
	if !ok {
		return false
	}
	return schema.IsAbstract(t) && e.Schema.IsPossibleType(t, obj.Name)
}

func (e *Execution) skipByDirective(directives ast.DirectiveList) bool {
	if d := directives.Get("skip"); d != nil && e.directiveCondition(d) {
		return true
	}
	if d := directives.Get("include"); d != nil && !e.directiveCondition(d) {
		return true
	}
	return false
}

func (e *Execution) directiveCondition(d *ast.Directive) bool {
	lit, ok := d.Arguments.Get("if")
	if !ok {
		return false
	}
	v, err := coerceLiteral(e.Schema, schema.BooleanType, lit, e.Vars)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}
