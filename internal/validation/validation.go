// Package validation checks an executable document against a schema before it is run.
package validation

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/schema"
)

// Options tunes validation. Zero limits are turned off.
type Options struct {
	MaxDepth             int
	MaxComplexity        int
	DisableIntrospection bool
	// Concurrent runs the rules in parallel. The result is the same either way.
	Concurrent bool
}

// Rule is one independent check. Rules only read the annotated document, so any
// subset of them can run in any order.
type Rule struct {
	Name  string
	check func(c *Context, r *reporter)
}

// Run applies the rule on its own and returns what it found.
func (rule Rule) Run(c *Context) []*errors.QueryError {
	r := &reporter{rule: rule.Name}
	rule.check(c, r)
	return r.errs
}

type reporter struct {
	rule string
	errs []*errors.QueryError
}

func (r *reporter) addErr(loc errors.Location, format string, a ...interface{}) {
	r.addErrMultiLoc([]errors.Location{loc}, format, a...)
}

func (r *reporter) addErrMultiLoc(locs []errors.Location, format string, a ...interface{}) {
	r.errs = append(r.errs, &errors.QueryError{
		Message:   fmt.Sprintf(format, a...),
		Locations: locs,
		Rule:      r.rule,
	})
}

// Rules returns the rule catalog for opts in the order errors are reported.
func Rules(opts Options) []Rule {
	rules := []Rule{
		{"UniqueOperationNames", uniqueOperationNames},
		{"LoneAnonymousOperation", loneAnonymousOperation},
		{"KnownTypeNames", knownTypeNames},
		{"FragmentsOnCompositeTypes", fragmentsOnCompositeTypes},
		{"VariablesAreInputTypes", variablesAreInputTypes},
		{"ScalarLeafs", scalarLeafs},
		{"FieldsOnCorrectType", fieldsOnCorrectType},
		{"UniqueFragmentNames", uniqueFragmentNames},
		{"KnownFragmentNames", knownFragmentNames},
		{"NoUnusedFragments", noUnusedFragments},
		{"PossibleFragmentSpreads", possibleFragmentSpreads},
		{"NoFragmentCycles", noFragmentCycles},
		{"UniqueVariableNames", uniqueVariableNames},
		{"NoUndefinedVariables", noUndefinedVariables},
		{"NoUnusedVariables", noUnusedVariables},
		{"KnownDirectives", knownDirectives},
		{"UniqueDirectivesPerLocation", uniqueDirectivesPerLocation},
		{"KnownArgumentNames", knownArgumentNames},
		{"UniqueArgumentNames", uniqueArgumentNames},
		{"ArgumentsOfCorrectType", argumentsOfCorrectType},
		{"ProvidedNonNullArguments", providedNonNullArguments},
		{"DefaultValuesOfCorrectType", defaultValuesOfCorrectType},
		{"VariablesInAllowedPosition", variablesInAllowedPosition},
		{"OverlappingFieldsCanBeMerged", overlappingFieldsCanBeMerged},
		{"UniqueInputFieldNames", uniqueInputFieldNames},
	}
	if opts.DisableIntrospection {
		rules = append(rules, Rule{"NoIntrospection", noIntrospection})
	}
	return rules
}

// Validate reports every rule violation in doc. When an operation exceeds the depth
// or complexity limit only those errors are returned and no rule is run.
func Validate(s *schema.Schema, doc *ast.Document, opts Options) []*errors.QueryError {
	c := NewContext(s, doc)

	if errs := checkLimits(c, opts); len(errs) > 0 {
		return errs
	}

	rules := Rules(opts)
	results := make([][]*errors.QueryError, len(rules))
	if opts.Concurrent {
		var g errgroup.Group
		for i, rule := range rules {
			i, rule := i, rule
			g.Go(func() error {
				results[i] = rule.Run(c)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, rule := range rules {
			results[i] = rule.Run(c)
		}
	}

	var errs []*errors.QueryError
	for _, r := range results {
		errs = append(errs, r...)
	}
	return errs
}

func checkLimits(c *Context, opts Options) []*errors.QueryError {
	var errs []*errors.QueryError
	for _, op := range c.Doc.Operations {
		// Check if max depth is exceeded, if it's set. If max depth is exceeded,
		// don't continue to validate the document and exit early.
		if opts.MaxDepth > 0 {
			r := &reporter{rule: "MaxDepthExceeded"}
			validateMaxDepth(c, r, opts.MaxDepth, op.Selections, nil, 1)
			errs = append(errs, r.errs...)
		}
		if opts.MaxComplexity > 0 {
			r := &reporter{rule: "MaxComplexityExceeded"}
			validateMaxComplexity(c, r, opts.MaxComplexity, op)
			errs = append(errs, r.errs...)
		}
	}
	return errs
}
