package resolvers

import (
	"reflect"

	"github.com/graph-gophers/graphql-engine/internal/common"
	"github.com/graph-gophers/graphql-engine/schema"
)

var castMethodCache common.Cache[typeAndName, int]

// TryCastFunction calls the To<Type>() (T, bool) method of parent, if it has one.
func TryCastFunction(parent interface{}, toType string) (interface{}, bool) {
	if parent == nil {
		return nil, false
	}
	parentValue := reflect.ValueOf(parent)
	key := typeAndName{t: parentValue.Type(), name: toType}
	methodIndex := castMethodCache.GetOrElseUpdate(key, func() int {
		needle := normalizeName("To" + toType)
		for i := 0; i < key.t.NumMethod(); i++ {
			method := key.t.Method(i)
			if normalizeName(method.Name) != needle {
				continue
			}
			mt := method.Type
			in := mt.NumIn()
			if key.t.Kind() != reflect.Interface {
				in-- // receiver
			}
			if in != 0 || mt.NumOut() != 2 || mt.Out(1).Kind() != reflect.Bool {
				continue
			}
			return i
		}
		return -1
	})
	if methodIndex == -1 {
		return nil, false
	}
	out := parentValue.Method(methodIndex).Call(nil)
	return out[0].Interface(), out[1].Bool()
}

// ResolveType finds the object type a value of the abstract type belongs to. It tries
// a To<Type> cast method for each possible type, then a "__typename" entry of a map,
// then the name of the value's Go type. The returned value is what the cast method
// produced, or v itself.
func ResolveType(s *schema.Schema, abstract schema.MetaType, v interface{}) (*schema.Object, interface{}, bool) {
	possible := s.PossibleTypes(abstract)
	for _, obj := range possible {
		if cast, ok := TryCastFunction(v, obj.Name); ok {
			return obj, cast, true
		}
	}

	name := ""
	rv := dereference(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			if tn := rv.MapIndex(reflect.ValueOf("__typename").Convert(rv.Type().Key())); tn.IsValid() {
				name, _ = tn.Interface().(string)
			}
		}
	case reflect.Struct:
		name = rv.Type().Name()
	}
	if name == "" {
		return nil, nil, false
	}
	for _, obj := range possible {
		if obj.Name == name {
			return obj, v, true
		}
	}
	return nil, nil, false
}
