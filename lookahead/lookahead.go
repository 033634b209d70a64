// Package lookahead describes the part of a query below the field being resolved, so a
// resolver can batch or prune the work its children will ask for.
package lookahead

import "strings"

// Selection is a field and its pending child selections. Fragment spreads and inline
// fragments are flattened and children selected more than once under the same response
// key are merged. A Selection is built per resolver call and must not be modified.
type Selection struct {
	Name  string
	Alias string
	// Arguments holds the coerced argument values, defaults included.
	Arguments map[string]interface{}
	Children  []*Selection
	// Types lists the object types this branch is reachable for. Nil means every type.
	Types []string
}

// ResponseKey returns the alias, or the field name when there is none.
func (s *Selection) ResponseKey() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// Child returns the child selected under the response key name, or failing that the
// first child selecting the field name.
func (s *Selection) Child(name string) *Selection {
	if s == nil {
		return nil
	}
	for _, c := range s.Children {
		if c.ResponseKey() == name {
			return c
		}
	}
	for _, c := range s.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *Selection) Arg(name string) (interface{}, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.Arguments[name]
	return v, ok
}

// Applies reports whether the branch is reachable when the parent resolves to the
// object type typeName.
func (s *Selection) Applies(typeName string) bool {
	if s == nil {
		return false
	}
	if s.Types == nil {
		return true
	}
	for _, t := range s.Types {
		if t == typeName {
			return true
		}
	}
	return false
}

// ChildrenFor returns the children reachable for the object type typeName.
func (s *Selection) ChildrenFor(typeName string) []*Selection {
	if s == nil {
		return nil
	}
	var out []*Selection
	for _, c := range s.Children {
		if c.Applies(typeName) {
			out = append(out, c)
		}
	}
	return out
}

// Paths returns the dot-delimited field name paths below s in depth-first order.
// Aliases are ignored, meta fields are left out and duplicates keep their first
// position.
func (s *Selection) Paths() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	collectPaths(&out, seen, "", s.Children)
	return out
}

func collectPaths(dst *[]string, seen map[string]struct{}, prefix string, sels []*Selection) {
	for _, sel := range sels {
		if strings.HasPrefix(sel.Name, "__") {
			continue
		}
		path := sel.Name
		if prefix != "" {
			path = prefix + "." + sel.Name
		}
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			*dst = append(*dst, path)
		}
		collectPaths(dst, seen, path, sel.Children)
	}
}
