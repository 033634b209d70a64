package schema

import (
	stderrors "errors"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/internal/common"
)

// Builder collects type declarations. The built-in scalars, directives and
// introspection types are declared up front.
type Builder struct {
	decls      map[string]MetaType
	order      []string
	directives map[string]*Directive
	dirOrder   []string
	query      string
	mutation   string
	errs       []error
}

func NewBuilder() *Builder {
	b := &Builder{
		decls:      make(map[string]MetaType),
		directives: make(map[string]*Directive),
		query:      "Query",
	}
	for _, s := range BuiltinScalars {
		b.Add(s)
	}
	b.Add(introspectionTypes()...)
	b.Directive(SkipDirective)
	b.Directive(IncludeDirective)
	b.Directive(DeprecatedDirective)
	return b
}

// Add declares named types. Declaring the same name twice is allowed only when both
// declarations have the same shape.
func (b *Builder) Add(types ...MetaType) *Builder {
	for _, t := range types {
		switch t.(type) {
		case *List, *Nullable, *Placeholder:
			b.errs = append(b.errs, errors.SchemaErrorf(errors.InvalidType, "", "only named types can be declared, got %s", t.Kind()))
			continue
		}
		name := t.TypeName()
		if name == "" {
			b.errs = append(b.errs, errors.SchemaErrorf(errors.InvalidType, "", "%s type declared without a name", t.Kind()))
			continue
		}
		if prev, ok := b.decls[name]; ok {
			if !sameShape(prev, t) {
				b.errs = append(b.errs, errors.SchemaErrorf(errors.DuplicateType, name, "%q defined more than once", name))
			}
			continue
		}
		b.decls[name] = t
		b.order = append(b.order, name)
	}
	return b
}

// Query sets the name of the query root type. It defaults to "Query".
func (b *Builder) Query(name string) *Builder {
	b.query = name
	return b
}

// Mutation sets the name of the mutation root type. There is none by default.
func (b *Builder) Mutation(name string) *Builder {
	b.mutation = name
	return b
}

func (b *Builder) Directive(d *Directive) *Builder {
	if _, ok := b.directives[d.Name]; ok {
		b.errs = append(b.errs, errors.SchemaErrorf(errors.DuplicateType, d.Name, "directive %q defined more than once", d.Name))
		return b
	}
	b.directives[d.Name] = d
	b.dirOrder = append(b.dirOrder, d.Name)
	return b
}

// Build registers the root types and every declared type, resolving forward references,
// and checks interfaces and unions. All problems found are returned together.
func (b *Builder) Build() (*Schema, error) {
	r := &registry{
		decls: b.decls,
		index: make(map[string]int),
		errs:  append([]error(nil), b.errs...),
	}

	r.registerRoot(b.query)
	if b.mutation != "" {
		r.registerRoot(b.mutation)
	}
	for _, name := range b.order {
		r.register(name)
	}

	dirs := make(map[string]*Directive, len(b.directives))
	for _, name := range b.dirOrder {
		d := b.directives[name]
		for _, arg := range d.Arguments {
			r.registerInputRef("@"+d.Name, arg.Type)
		}
		dirs[name] = d
	}

	possible := r.link()

	for _, t := range r.types {
		if p, ok := t.(*Placeholder); ok {
			r.errorf(errors.UnresolvedPlaceholder, p.Name, "type %q was never resolved", p.Name)
		}
	}
	if len(r.errs) > 0 {
		return nil, stderrors.Join(r.errs...)
	}

	return &Schema{
		types:      r.types,
		index:      r.index,
		directives: dirs,
		dirOrder:   append([]string(nil), b.dirOrder...),
		query:      b.query,
		mutation:   b.mutation,
		possible:   possible,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// MustParseType parses a type reference such as "[String!]!" and panics if it is
// malformed.
func MustParseType(s string) ast.Type {
	t, err := common.ParseTypeString(s)
	if err != nil {
		panic(err)
	}
	return t
}

// registry is the arena under construction: entries are indexed by name and refer to
// each other only by name.
type registry struct {
	decls map[string]MetaType
	types []MetaType
	index map[string]int
	errs  []error
}

func (r *registry) errorf(kind errors.SchemaErrorKind, typeName, format string, a ...interface{}) {
	r.errs = append(r.errs, errors.SchemaErrorf(kind, typeName, format, a...))
}

func (r *registry) registerRoot(name string) {
	t := r.register(name)
	if t == nil {
		r.errorf(errors.UnknownType, name, "root type %q is not declared", name)
		return
	}
	if _, ok := r.decls[name].(*Object); !ok {
		r.errorf(errors.NotAnObject, name, "root type %q is not an object", name)
	}
}

// register returns the entry for name. A type seen for the first time is entered as a
// Placeholder while the types it references are registered, so recursive references
// resolve to the placeholder instead of recursing forever.
func (r *registry) register(name string) MetaType {
	if i, ok := r.index[name]; ok {
		return r.types[i]
	}
	decl, ok := r.decls[name]
	if !ok {
		return nil
	}

	i := len(r.types)
	r.types = append(r.types, &Placeholder{Name: name})
	r.index[name] = i

	switch d := decl.(type) {
	case *Object:
		r.registerFields(name, d.Fields)
		for _, iface := range d.Interfaces {
			if r.register(iface) == nil {
				r.errorf(errors.UnknownType, name, "interface %q implemented by %q is not declared", iface, name)
			}
		}
		c := *d
		r.types[i] = &c
	case *Interface:
		r.registerFields(name, d.Fields)
		c := *d
		c.PossibleTypes = nil
		r.types[i] = &c
	case *Union:
		for _, member := range d.PossibleTypes {
			if r.register(member) == nil {
				r.errorf(errors.UndeclaredUnionMember, name, "union %q references undeclared member type %q", name, member)
			}
		}
		c := *d
		r.types[i] = &c
	case *InputObject:
		for _, f := range d.Fields {
			r.registerInputRef(name+"."+f.Name, f.Type)
		}
		c := *d
		r.types[i] = &c
	case *Enum:
		c := *d
		r.types[i] = &c
	case *Scalar:
		r.types[i] = d
	}
	return r.types[i]
}

func (r *registry) registerFields(owner string, fields FieldList) {
	for _, f := range fields {
		t := r.register(ast.TypeName(f.Type))
		if t == nil {
			r.errorf(errors.UnknownType, owner, "type %q of field %q.%s is not declared", ast.TypeName(f.Type), owner, f.Name)
		} else if _, ok := r.decls[ast.TypeName(f.Type)].(*InputObject); ok {
			r.errorf(errors.InvalidType, owner, "field %q.%s cannot have input type %q", owner, f.Name, ast.TypeName(f.Type))
		}
		for _, arg := range f.Arguments {
			r.registerInputRef(owner+"."+f.Name+"("+arg.Name+")", arg.Type)
		}
	}
}

func (r *registry) registerInputRef(where string, t ast.Type) {
	name := ast.TypeName(t)
	if r.register(name) == nil {
		r.errorf(errors.UnknownType, name, "type %q used by %s is not declared", name, where)
		return
	}
	if !IsInput(r.decls[name]) {
		r.errorf(errors.InvalidType, name, "%s cannot use non-input type %q", where, name)
	}
}

// link fills in the possible types of interfaces and checks implementations and union
// members. It returns the possible-type sets keyed by abstract type name.
func (r *registry) link() map[string]map[string]bool {
	possible := make(map[string]map[string]bool)
	for _, t := range r.types {
		switch t := t.(type) {
		case *Object:
			for _, name := range t.Interfaces {
				iface, ok := r.lookup(name).(*Interface)
				if !ok {
					if r.lookup(name) != nil {
						r.errorf(errors.InvalidType, t.Name, "type %q implemented by %q is not an interface", name, t.Name)
					}
					continue
				}
				r.checkImplementation(t, iface)
				iface.PossibleTypes = append(iface.PossibleTypes, t.Name)
				addPossible(possible, iface.Name, t.Name)
			}
		case *Union:
			for _, member := range t.PossibleTypes {
				m := r.lookup(member)
				if m == nil {
					continue
				}
				if _, ok := m.(*Object); !ok {
					r.errorf(errors.NotAnObject, t.Name, "union %q member %q is not an object type", t.Name, member)
					continue
				}
				addPossible(possible, t.Name, member)
			}
		}
	}
	return possible
}

func addPossible(possible map[string]map[string]bool, abstract, concrete string) {
	set, ok := possible[abstract]
	if !ok {
		set = make(map[string]bool)
		possible[abstract] = set
	}
	set[concrete] = true
}

func (r *registry) lookup(name string) MetaType {
	if i, ok := r.index[name]; ok {
		return r.types[i]
	}
	return nil
}

func (r *registry) checkImplementation(obj *Object, iface *Interface) {
	for _, want := range iface.Fields {
		got := obj.Fields.Get(want.Name)
		if got == nil {
			r.errorf(errors.MissingInterfaceField, obj.Name, "%q does not implement %q: missing field %q", obj.Name, iface.Name, want.Name)
			continue
		}
		if !r.isSubtype(got.Type, want.Type) {
			r.errorf(errors.MissingInterfaceField, obj.Name, "%q does not implement %q: field %q has type %s, expected %s",
				obj.Name, iface.Name, want.Name, got.Type, want.Type)
		}
		for _, arg := range want.Arguments {
			if got.Arguments.Get(arg.Name) == nil {
				r.errorf(errors.MissingInterfaceField, obj.Name, "%q does not implement %q: field %q is missing argument %q",
					obj.Name, iface.Name, want.Name, arg.Name)
			}
		}
	}
}

// isSubtype reports whether a field of type sub may stand in for a field of type super.
func (r *registry) isSubtype(sub, super ast.Type) bool {
	if nn, ok := super.(*ast.NonNullType); ok {
		subNN, ok := sub.(*ast.NonNullType)
		return ok && r.isSubtype(subNN.OfType, nn.OfType)
	}
	if nn, ok := sub.(*ast.NonNullType); ok {
		return r.isSubtype(nn.OfType, super)
	}
	if l, ok := super.(*ast.ListType); ok {
		subL, ok := sub.(*ast.ListType)
		return ok && r.isSubtype(subL.OfType, l.OfType)
	}
	if _, ok := sub.(*ast.ListType); ok {
		return false
	}
	subName, superName := ast.TypeName(sub), ast.TypeName(super)
	if subName == superName {
		return true
	}
	switch s := r.lookup(superName).(type) {
	case *Union:
		for _, m := range s.PossibleTypes {
			if m == subName {
				return true
			}
		}
	case *Interface:
		if obj, ok := r.lookup(subName).(*Object); ok {
			for _, i := range obj.Interfaces {
				if i == superName {
					return true
				}
			}
		}
	}
	return false
}

func sameShape(a, b MetaType) bool {
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *Object:
		b := b.(*Object)
		return sameFields(a.Fields, b.Fields) && sameNames(a.Interfaces, b.Interfaces)
	case *Interface:
		return sameFields(a.Fields, b.(*Interface).Fields)
	case *Union:
		return sameNames(a.PossibleTypes, b.(*Union).PossibleTypes)
	case *Enum:
		b := b.(*Enum)
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if a.Values[i].Name != b.Values[i].Name {
				return false
			}
		}
		return true
	case *InputObject:
		return sameArguments(a.Fields, b.(*InputObject).Fields)
	}
	return true
}

func sameFields(a, b FieldList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !ast.TypeEqual(a[i].Type, b[i].Type) || !sameArguments(a[i].Arguments, b[i].Arguments) {
			return false
		}
	}
	return true
}

func sameArguments(a, b ArgumentList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !ast.TypeEqual(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
