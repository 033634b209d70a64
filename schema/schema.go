package schema

import (
	"sort"

	"github.com/graph-gophers/graphql-engine/ast"
)

// Schema is a built, immutable type registry. It is safe for concurrent use.
type Schema struct {
	types      []MetaType
	index      map[string]int
	directives map[string]*Directive
	dirOrder   []string
	query      string
	mutation   string
	possible   map[string]map[string]bool
}

// Lookup returns the named type.
func (s *Schema) Lookup(name string) (MetaType, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.types[i], true
}

// Meta resolves a type reference. References without a trailing "!" are wrapped in
// Nullable, list references in List. It returns nil if the named type is unknown.
func (s *Schema) Meta(t ast.Type) MetaType {
	switch t := t.(type) {
	case *ast.NonNullType:
		return s.nonNull(t.OfType)
	default:
		inner := s.nonNull(t)
		if inner == nil {
			return nil
		}
		return &Nullable{OfType: inner}
	}
}

func (s *Schema) nonNull(t ast.Type) MetaType {
	switch t := t.(type) {
	case *ast.NamedType:
		m, _ := s.Lookup(t.Name)
		return m
	case *ast.ListType:
		inner := s.Meta(t.OfType)
		if inner == nil {
			return nil
		}
		return &List{OfType: inner}
	case *ast.NonNullType:
		return s.nonNull(t.OfType)
	}
	return nil
}

// QueryType returns the query root.
func (s *Schema) QueryType() *Object {
	t, _ := s.Lookup(s.query)
	obj, _ := t.(*Object)
	return obj
}

// MutationType returns the mutation root, or nil if the schema has none.
func (s *Schema) MutationType() *Object {
	if s.mutation == "" {
		return nil
	}
	t, _ := s.Lookup(s.mutation)
	obj, _ := t.(*Object)
	return obj
}

// RootType returns the root object for an operation type.
func (s *Schema) RootType(op ast.OperationType) *Object {
	switch op {
	case ast.Query:
		return s.QueryType()
	case ast.Mutation:
		return s.MutationType()
	}
	return nil
}

// Types returns every registered type ordered by name.
func (s *Schema) Types() []MetaType {
	names := make([]string, 0, len(s.index))
	for name := range s.index {
		names = append(names, name)
	}
	sort.Strings(names)
	l := make([]MetaType, len(names))
	for i, name := range names {
		l[i] = s.types[s.index[name]]
	}
	return l
}

func (s *Schema) Directive(name string) *Directive {
	return s.directives[name]
}

// Directives returns the declared directives in declaration order.
func (s *Schema) Directives() []*Directive {
	l := make([]*Directive, len(s.dirOrder))
	for i, name := range s.dirOrder {
		l[i] = s.directives[name]
	}
	return l
}

// PossibleTypes returns the object types an abstract type may resolve to.
func (s *Schema) PossibleTypes(t MetaType) []*Object {
	var names []string
	switch t := t.(type) {
	case *Interface:
		names = t.PossibleTypes
	case *Union:
		names = t.PossibleTypes
	case *Object:
		return []*Object{t}
	}
	l := make([]*Object, 0, len(names))
	for _, name := range names {
		if obj, ok := s.types[s.index[name]].(*Object); ok {
			l = append(l, obj)
		}
	}
	return l
}

// IsPossibleType reports whether the object named concrete belongs to abstract. An
// object type is possible only for itself.
func (s *Schema) IsPossibleType(abstract MetaType, concrete string) bool {
	if obj, ok := abstract.(*Object); ok {
		return obj.Name == concrete
	}
	return s.possible[abstract.TypeName()][concrete]
}

// FieldOn looks up a field selectable on t, including the meta fields.
func (s *Schema) FieldOn(t MetaType, name string) *Field {
	switch name {
	case TypenameField.Name:
		if IsComposite(t) {
			return TypenameField
		}
		return nil
	case SchemaField.Name, TypeField.Name:
		if t.TypeName() != s.query {
			return nil
		}
		if name == SchemaField.Name {
			return SchemaField
		}
		return TypeField
	}
	return Fields(t).Get(name)
}
