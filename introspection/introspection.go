// Package introspection serves the __schema and __type meta fields. Its types are
// resolved by method like any other resolver value.
package introspection

import (
	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/schema"
)

type Schema struct {
	schema *schema.Schema
}

// WrapSchema is only used internally.
func WrapSchema(s *schema.Schema) *Schema {
	return &Schema{s}
}

func (r *Schema) Description() *string {
	return nil
}

func (r *Schema) Types() []*Type {
	types := r.schema.Types()
	l := make([]*Type, len(types))
	for i, t := range types {
		l[i] = WrapType(r.schema, t)
	}
	return l
}

func (r *Schema) Directives() []*Directive {
	directives := r.schema.Directives()
	l := make([]*Directive, len(directives))
	for i, d := range directives {
		l[i] = &Directive{r.schema, d}
	}
	return l
}

func (r *Schema) QueryType() *Type {
	t := r.schema.QueryType()
	if t == nil {
		return nil
	}
	return WrapType(r.schema, t)
}

func (r *Schema) MutationType() *Type {
	t := r.schema.MutationType()
	if t == nil {
		return nil
	}
	return WrapType(r.schema, t)
}

func (r *Schema) SubscriptionType() *Type {
	return nil
}

// Type is a type reference: a named type or a list or non-null wrapper.
type Type struct {
	schema *schema.Schema
	ref    ast.Type
}

// WrapType is only used internally.
func WrapType(s *schema.Schema, t schema.MetaType) *Type {
	return &Type{s, ast.Named(t.TypeName())}
}

func (r *Type) named() schema.MetaType {
	named, ok := r.ref.(*ast.NamedType)
	if !ok {
		return nil
	}
	t, _ := r.schema.Lookup(named.Name)
	return t
}

func (r *Type) Kind() string {
	switch r.ref.(type) {
	case *ast.NonNullType:
		return "NON_NULL"
	case *ast.ListType:
		return "LIST"
	}
	if t := r.named(); t != nil {
		return t.Kind().String()
	}
	return ""
}

func (r *Type) Name() *string {
	if named, ok := r.ref.(*ast.NamedType); ok {
		name := named.Name
		return &name
	}
	return nil
}

func (r *Type) Description() *string {
	var desc string
	switch t := r.named().(type) {
	case *schema.Scalar:
		desc = t.Description
	case *schema.Object:
		desc = t.Description
	case *schema.Interface:
		desc = t.Description
	case *schema.Union:
		desc = t.Description
	case *schema.Enum:
		desc = t.Description
	case *schema.InputObject:
		desc = t.Description
	}
	if desc == "" {
		return nil
	}
	return &desc
}

func (r *Type) Fields(args struct{ IncludeDeprecated bool }) *[]*Field {
	t := r.named()
	if t == nil || !(t.Kind() == schema.KindObject || t.Kind() == schema.KindInterface) {
		return nil
	}

	l := []*Field{}
	for _, f := range schema.Fields(t) {
		if f.Deprecation == nil || args.IncludeDeprecated {
			l = append(l, &Field{r.schema, f})
		}
	}
	return &l
}

func (r *Type) Interfaces() *[]*Type {
	switch t := r.named().(type) {
	case *schema.Object:
		l := make([]*Type, 0, len(t.Interfaces))
		for _, name := range t.Interfaces {
			l = append(l, &Type{r.schema, ast.Named(name)})
		}
		return &l
	case *schema.Interface:
		l := []*Type{}
		return &l
	}
	return nil
}

func (r *Type) PossibleTypes() *[]*Type {
	t := r.named()
	if t == nil || !schema.IsAbstract(t) {
		return nil
	}
	possible := r.schema.PossibleTypes(t)
	l := make([]*Type, len(possible))
	for i, obj := range possible {
		l[i] = WrapType(r.schema, obj)
	}
	return &l
}

func (r *Type) EnumValues(args struct{ IncludeDeprecated bool }) *[]*EnumValue {
	t, ok := r.named().(*schema.Enum)
	if !ok {
		return nil
	}

	l := []*EnumValue{}
	for _, v := range t.Values {
		if v.Deprecation == nil || args.IncludeDeprecated {
			l = append(l, &EnumValue{v})
		}
	}
	return &l
}

func (r *Type) InputFields() *[]*InputValue {
	t, ok := r.named().(*schema.InputObject)
	if !ok {
		return nil
	}

	l := make([]*InputValue, len(t.Fields))
	for i, v := range t.Fields {
		l[i] = &InputValue{r.schema, v}
	}
	return &l
}

func (r *Type) OfType() *Type {
	switch t := r.ref.(type) {
	case *ast.ListType:
		return &Type{r.schema, t.OfType}
	case *ast.NonNullType:
		return &Type{r.schema, t.OfType}
	default:
		return nil
	}
}

func (r *Type) SpecifiedByURL() *string {
	return nil
}

type Field struct {
	schema *schema.Schema
	field  *schema.Field
}

func (r *Field) Name() string {
	return r.field.Name
}

func (r *Field) Description() *string {
	if r.field.Description == "" {
		return nil
	}
	return &r.field.Description
}

func (r *Field) Args() []*InputValue {
	l := make([]*InputValue, len(r.field.Arguments))
	for i, v := range r.field.Arguments {
		l[i] = &InputValue{r.schema, v}
	}
	return l
}

func (r *Field) Type() *Type {
	return &Type{r.schema, r.field.Type}
}

func (r *Field) IsDeprecated() bool {
	return r.field.Deprecation != nil
}

func (r *Field) DeprecationReason() *string {
	return deprecationReason(r.field.Deprecation)
}

func deprecationReason(d *schema.Deprecation) *string {
	if d == nil {
		return nil
	}
	reason := d.Reason
	if reason == "" {
		reason = schema.DefaultDeprecationReason
	}
	return &reason
}

type InputValue struct {
	schema *schema.Schema
	value  *schema.Argument
}

func (r *InputValue) Name() string {
	return r.value.Name
}

func (r *InputValue) Description() *string {
	if r.value.Description == "" {
		return nil
	}
	return &r.value.Description
}

func (r *InputValue) Type() *Type {
	return &Type{r.schema, r.value.Type}
}

func (r *InputValue) DefaultValue() *string {
	if r.value.Default == nil {
		return nil
	}
	s := r.value.Default.String()
	return &s
}

type EnumValue struct {
	value *schema.EnumValue
}

func (r *EnumValue) Name() string {
	return r.value.Name
}

func (r *EnumValue) Description() *string {
	if r.value.Description == "" {
		return nil
	}
	return &r.value.Description
}

func (r *EnumValue) IsDeprecated() bool {
	return r.value.Deprecation != nil
}

func (r *EnumValue) DeprecationReason() *string {
	return deprecationReason(r.value.Deprecation)
}

type Directive struct {
	schema    *schema.Schema
	directive *schema.Directive
}

func (r *Directive) Name() string {
	return r.directive.Name
}

func (r *Directive) Description() *string {
	if r.directive.Description == "" {
		return nil
	}
	return &r.directive.Description
}

func (r *Directive) Locations() []string {
	return r.directive.Locations
}

func (r *Directive) Args() []*InputValue {
	l := make([]*InputValue, len(r.directive.Arguments))
	for i, v := range r.directive.Arguments {
		l[i] = &InputValue{r.schema, v}
	}
	return l
}

func (r *Directive) IsRepeatable() bool {
	return false
}
