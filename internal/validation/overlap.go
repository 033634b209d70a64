package validation

import (
	"fmt"
	"strings"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/schema"
)

type selectionPair struct{ a, b ast.Selection }

// overlap holds the state of one OverlappingFieldsCanBeMerged run.
type overlap struct {
	c         *Context
	r         *reporter
	validated map[selectionPair]struct{}
}

func overlappingFieldsCanBeMerged(c *Context, r *reporter) {
	o := &overlap{c: c, r: r, validated: make(map[selectionPair]struct{})}
	for _, def := range c.Doc.Definitions {
		switch def := def.(type) {
		case *ast.OperationDefinition:
			o.selectionSet(def.Selections)
		case *ast.FragmentDefinition:
			o.selectionSet(def.Selections)
		}
	}
}

// selectionSet checks every pair of sibling selections, then the nested sets.
func (o *overlap) selectionSet(sels []ast.Selection) {
	for i, a := range sels {
		for _, b := range sels[i+1:] {
			o.validateOverlap(a, b, nil, nil)
		}
	}
	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			o.selectionSet(sel.Selections)
		case *ast.InlineFragment:
			o.selectionSet(sel.Selections)
		}
	}
}

func (o *overlap) validateOverlap(a, b ast.Selection, reasons *[]string, locs *[]errors.Location) {
	if a == b {
		return
	}

	if _, ok := o.validated[selectionPair{a, b}]; ok {
		return
	}
	o.validated[selectionPair{a, b}] = struct{}{}
	o.validated[selectionPair{b, a}] = struct{}{}

	switch a := a.(type) {
	case *ast.Field:
		switch b := b.(type) {
		case *ast.Field:
			if b.Span.Location().Before(a.Span.Location()) {
				a, b = b, a
			}
			if reasons2, locs2 := o.validateFieldOverlap(a, b); len(reasons2) != 0 {
				locs2 = append(locs2, a.Span.Location(), b.Span.Location())
				if reasons == nil {
					o.r.addErrMultiLoc(locs2, "Fields %q conflict because %s. Use different aliases on the fields to fetch both if this was intentional.", a.ResponseKey(), strings.Join(reasons2, " and "))
					return
				}
				for _, r := range reasons2 {
					*reasons = append(*reasons, fmt.Sprintf("subfields %q conflict because %s", a.ResponseKey(), r))
				}
				*locs = append(*locs, locs2...)
			}

		case *ast.InlineFragment:
			for _, sel := range b.Selections {
				o.validateOverlap(a, sel, reasons, locs)
			}

		case *ast.FragmentSpread:
			if frag := o.c.Doc.Fragment(b.Name.Value); frag != nil {
				for _, sel := range frag.Selections {
					o.validateOverlap(a, sel, reasons, locs)
				}
			}
		}

	case *ast.InlineFragment:
		for _, sel := range a.Selections {
			o.validateOverlap(sel, b, reasons, locs)
		}

	case *ast.FragmentSpread:
		if frag := o.c.Doc.Fragment(a.Name.Value); frag != nil {
			for _, sel := range frag.Selections {
				o.validateOverlap(sel, b, reasons, locs)
			}
		}
	}
}

func (o *overlap) validateFieldOverlap(a, b *ast.Field) ([]string, []errors.Location) {
	if a.ResponseKey() != b.ResponseKey() {
		return nil, nil
	}

	ai, bi := o.c.fieldMap[a], o.c.fieldMap[b]
	if ai != nil && bi != nil && ai.def != nil && bi.def != nil {
		if !o.c.typesCompatible(ai.def.Type, bi.def.Type) {
			return []string{fmt.Sprintf("they return conflicting types %s and %s", ai.def.Type, bi.def.Type)}, nil
		}
	}

	// fields on two different object types never apply to the same value
	exclusive := false
	if ai != nil && bi != nil && ai.parent != bi.parent {
		_, aObj := ai.parent.(*schema.Object)
		_, bObj := bi.parent.(*schema.Object)
		exclusive = aObj && bObj
	}
	if !exclusive {
		if a.Name.Value != b.Name.Value {
			return []string{fmt.Sprintf("%s and %s are different fields", a.Name.Value, b.Name.Value)}, nil
		}

		if argumentsConflict(a.Arguments, b.Arguments) {
			return []string{"they have differing arguments"}, nil
		}
	}

	var reasons []string
	var locs []errors.Location
	for _, a2 := range a.Selections {
		for _, b2 := range b.Selections {
			o.validateOverlap(a2, b2, &reasons, &locs)
		}
	}
	return reasons, locs
}

func argumentsConflict(a, b ast.ArgumentList) bool {
	if len(a) != len(b) {
		return true
	}
	for _, argA := range a {
		valB, ok := b.Get(argA.Name.Value)
		if !ok || argA.Value.String() != valB.String() {
			return true
		}
	}
	return false
}
