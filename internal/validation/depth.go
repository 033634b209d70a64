package validation

import (
	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
)

// validateMaxDepth reports fields nested deeper than maxDepth. Top-level fields have
// depth 1; fragments do not add a level.
//
// The visited map is necessary to ensure that max depth validation does not get stuck in
// cyclical fragment spreads.
func validateMaxDepth(c *Context, r *reporter, maxDepth int, sels []ast.Selection, visited map[*ast.FragmentDefinition]struct{}, depth int) bool {
	exceeded := false
	if visited == nil {
		visited = map[*ast.FragmentDefinition]struct{}{}
	}

	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			if depth > maxDepth {
				exceeded = true
				r.addErr(sel.Span.Location(), "Field %q has depth %d that exceeds max depth %d", sel.Name.Value, depth, maxDepth)
				continue
			}
			exceeded = validateMaxDepth(c, r, maxDepth, sel.Selections, visited, depth+1) || exceeded

		case *ast.InlineFragment:
			exceeded = validateMaxDepth(c, r, maxDepth, sel.Selections, visited, depth) || exceeded

		case *ast.FragmentSpread:
			frag := c.Doc.Fragment(sel.Name.Value)
			if frag == nil {
				// reported by KnownFragmentNames
				continue
			}
			if _, ok := visited[frag]; ok {
				continue
			}
			visited[frag] = struct{}{}
			exceeded = validateMaxDepth(c, r, maxDepth, frag.Selections, visited, depth) || exceeded
			delete(visited, frag)
		}
	}
	return exceeded
}

// validateMaxComplexity counts every field an operation selects, fragments included.
// The first field pushing the count over the limit is reported.
func validateMaxComplexity(c *Context, r *reporter, maxComplexity int, op *ast.OperationDefinition) {
	e := &estimator{c: c, max: maxComplexity, visiting: make(map[*ast.FragmentDefinition]bool)}
	e.estimate(op.Selections)
	if e.complexity > maxComplexity {
		r.addErr(e.loc, "The query exceeds the maximum complexity of %d. Actual complexity is %d.", maxComplexity, e.complexity)
	}
}

type estimator struct {
	c          *Context
	max        int
	complexity int
	loc        errors.Location
	visiting   map[*ast.FragmentDefinition]bool
}

func (e *estimator) estimate(sels []ast.Selection) {
	for _, sel := range sels {
		if e.complexity > e.max {
			return
		}
		switch sel := sel.(type) {
		case *ast.Field:
			e.complexity++
			if e.complexity > e.max {
				e.loc = sel.Span.Location()
				return
			}
			e.estimate(sel.Selections)
		case *ast.InlineFragment:
			e.estimate(sel.Selections)
		case *ast.FragmentSpread:
			frag := e.c.Doc.Fragment(sel.Name.Value)
			if frag == nil || e.visiting[frag] {
				continue
			}
			e.visiting[frag] = true
			e.estimate(frag.Selections)
			delete(e.visiting, frag)
		}
	}
}
