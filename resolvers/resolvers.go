package resolvers

import (
	"context"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/graph-gophers/graphql-engine/introspection"
	"github.com/graph-gophers/graphql-engine/lookahead"
	"github.com/graph-gophers/graphql-engine/schema"
)

// ResolveRequest describes the field a resolver is created for.
type ResolveRequest struct {
	// Context carries the request id and the field's look-ahead.
	Context context.Context
	// OperationContext is the per-request value supplied by the caller.
	OperationContext interface{}
	Schema           *schema.Schema
	// ParentType is the concrete object type of Parent.
	ParentType *schema.Object
	Parent     interface{}
	Field      *schema.Field
	Args       map[string]interface{}
	LookAhead  *lookahead.Selection
	Path       []interface{}
}

// Resolver produces a field's value. Returning a Task suspends the field until the
// execution strategy has driven the task to completion.
type Resolver func() (interface{}, error)

type ResolverFactoryFunc func(request *ResolveRequest) Resolver

type ResolverFactory interface {
	// CreateResolver returns nil when the factory cannot resolve the field.
	CreateResolver(request *ResolveRequest) Resolver
}

type dynamicResolverFactory struct{}

func (dynamicResolverFactory) CreateResolver(request *ResolveRequest) Resolver {
	if resolver := (&MetadataResolverFactory{}).CreateResolver(request); resolver != nil {
		return resolver
	}
	if resolver := (&MethodResolverFactory{}).CreateResolver(request); resolver != nil {
		return resolver
	}
	if resolver := (&FieldResolverFactory{}).CreateResolver(request); resolver != nil {
		return resolver
	}
	return (&MapResolverFactory{}).CreateResolver(request)
}

// DynamicResolverFactory resolves meta fields, then tries a method, a struct field and
// a map entry of the parent value, in that order.
func DynamicResolverFactory() ResolverFactory {
	return dynamicResolverFactory{}
}

type FuncResolverFactory struct {
	ResolverFactory ResolverFactoryFunc
}

func (f *FuncResolverFactory) CreateResolver(request *ResolveRequest) Resolver {
	return f.ResolverFactory(request)
}

// TypeResolverFactory dispatches on the name of the parent type.
type TypeResolverFactory map[string]ResolverFactoryFunc

func (f TypeResolverFactory) Set(typeName string, factory ResolverFactoryFunc) {
	f[typeName] = factory
}

func (f TypeResolverFactory) CreateResolver(request *ResolveRequest) Resolver {
	if request.ParentType == nil {
		return nil
	}
	factory := f[request.ParentType.Name]
	if factory == nil {
		return nil
	}
	return factory(request)
}

// ResolverFactoryList uses a list of other factories to resolve requests. The first
// factory that returns a resolver wins.
type ResolverFactoryList []ResolverFactory

func (l *ResolverFactoryList) Add(factory ResolverFactory) {
	*l = append(*l, factory)
}

func (l *ResolverFactoryList) CreateResolver(request *ResolveRequest) Resolver {
	for _, f := range *l {
		if resolver := f.CreateResolver(request); resolver != nil {
			return resolver
		}
	}
	return nil
}

// FieldResolverFactory resolves fields from exported struct fields of the parent
// value. A field matches by its graphql tag, its json tag, or case-insensitively by
// name.
type FieldResolverFactory struct{}

func (f *FieldResolverFactory) CreateResolver(request *ResolveRequest) Resolver {
	parent := dereference(reflect.ValueOf(request.Parent))
	if parent.Kind() != reflect.Struct {
		return nil
	}
	index := getChildField(parent.Type(), request.Field.Name)
	if index == nil {
		return nil
	}
	return func() (interface{}, error) {
		child, err := parent.FieldByIndexErr(index)
		if err != nil {
			// nil embedded pointer on the way to the field
			return nil, nil
		}
		return child.Interface(), nil
	}
}

func dereference(value reflect.Value) reflect.Value {
	for value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return reflect.Value{}
		}
		value = value.Elem()
	}
	return value
}

// MethodResolverFactory resolves fields by calling the method of the parent value whose
// name matches the field name, ignoring case and underscores. The method may take, in
// order, a context.Context, a *ResolveRequest and an arguments struct, and returns the
// value with an optional error.
type MethodResolverFactory struct{}

func (f *MethodResolverFactory) CreateResolver(request *ResolveRequest) Resolver {
	if request.Parent == nil {
		return nil
	}
	parent := reflect.ValueOf(request.Parent)
	childMethod := getChildMethod(parent.Type(), request.Field.Name)
	if childMethod == nil {
		return nil
	}

	return func() (interface{}, error) {
		var in []reflect.Value
		if childMethod.hasContext {
			in = append(in, reflect.ValueOf(request.Context))
		}
		if childMethod.hasRequest {
			in = append(in, reflect.ValueOf(request))
		}
		if childMethod.argumentsType != nil {
			args, err := decodeArguments(request.Args, childMethod.argumentsType)
			if err != nil {
				return nil, err
			}
			in = append(in, args)
		}
		result := parent.Method(childMethod.index).Call(in)
		if childMethod.hasError && !result[1].IsNil() {
			return nil, result[1].Interface().(error)
		}
		return result[0].Interface(), nil
	}
}

// decodeArguments builds a value of type t (a struct or pointer to struct) from the
// coerced arguments.
func decodeArguments(args map[string]interface{}, t reflect.Type) (reflect.Value, error) {
	ptr := t.Kind() == reflect.Ptr
	target := t
	if ptr {
		target = t.Elem()
	}
	out := reflect.New(target)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out.Interface(),
		TagName: "graphql",
		Squash:  true,
	})
	if err != nil {
		return reflect.Value{}, err
	}
	if err := decoder.Decode(args); err != nil {
		return reflect.Value{}, err
	}
	if ptr {
		return out, nil
	}
	return out.Elem(), nil
}

// MapResolverFactory resolves fields using entries in a map with string keys. A
// missing entry resolves to null.
type MapResolverFactory struct{}

func (f *MapResolverFactory) CreateResolver(request *ResolveRequest) Resolver {
	parent := dereference(reflect.ValueOf(request.Parent))
	if parent.Kind() != reflect.Map || parent.Type().Key().Kind() != reflect.String {
		return nil
	}
	return func() (interface{}, error) {
		v := parent.MapIndex(reflect.ValueOf(request.Field.Name).Convert(parent.Type().Key()))
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil
	}
}

// MetadataResolverFactory resolves __typename, __schema and __type.
type MetadataResolverFactory struct{}

func (f *MetadataResolverFactory) CreateResolver(request *ResolveRequest) Resolver {
	switch request.Field.Name {
	case "__typename":
		return func() (interface{}, error) {
			return request.ParentType.Name, nil
		}

	case "__schema":
		return func() (interface{}, error) {
			return introspection.WrapSchema(request.Schema), nil
		}

	case "__type":
		return func() (interface{}, error) {
			name, _ := request.Args["name"].(string)
			t, ok := request.Schema.Lookup(name)
			if !ok {
				return nil, nil
			}
			return introspection.WrapType(request.Schema, t), nil
		}
	}
	return nil
}
