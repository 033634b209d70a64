package resolvers

import (
	"context"
	"reflect"
	"strings"

	"github.com/graph-gophers/graphql-engine/internal/common"
)

type typeAndName struct {
	t    reflect.Type
	name string
}

var (
	childMethodTypeCache common.Cache[typeAndName, *methodInfo]
	childFieldCache      common.Cache[typeAndName, []int]
)

type methodInfo struct {
	index         int
	hasContext    bool
	hasRequest    bool
	argumentsType reflect.Type
	hasError      bool
}

func getChildMethod(parentType reflect.Type, fieldName string) *methodInfo {
	key := typeAndName{t: parentType, name: fieldName}
	return childMethodTypeCache.GetOrElseUpdate(key, func() *methodInfo {
		return typeMethods(parentType)[normalizeName(fieldName)]
	})
}

func getChildField(parentType reflect.Type, fieldName string) []int {
	key := typeAndName{t: parentType, name: fieldName}
	return childFieldCache.GetOrElseUpdate(key, func() []int {
		return structField(parentType, fieldName)
	})
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	requestType = reflect.TypeOf((*ResolveRequest)(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

func typeMethods(t reflect.Type) map[string]*methodInfo {
	methods := map[string]*methodInfo{}
	for i := 0; i < t.NumMethod(); i++ {
		typeMethod := t.Method(i)
		info := methodInfo{index: i}

		in := make([]reflect.Type, typeMethod.Type.NumIn())
		for j := range in {
			in[j] = typeMethod.Type.In(j)
		}
		if t.Kind() != reflect.Interface {
			in = in[1:] // first parameter is receiver
		}

		info.hasContext = len(in) > 0 && in[0] == contextType
		if info.hasContext {
			in = in[1:]
		}

		info.hasRequest = len(in) > 0 && in[0] == requestType
		if info.hasRequest {
			in = in[1:]
		}

		if len(in) > 0 && (in[0].Kind() == reflect.Struct || (in[0].Kind() == reflect.Ptr && in[0].Elem().Kind() == reflect.Struct)) {
			info.argumentsType = in[0]
			in = in[1:]
		}

		if len(in) > 0 {
			continue
		}

		switch typeMethod.Type.NumOut() {
		case 1:
		case 2:
			if typeMethod.Type.Out(1) != errorType {
				continue
			}
			info.hasError = true
		default:
			continue
		}
		methods[normalizeName(typeMethod.Name)] = &info
	}
	return methods
}

// structField finds the exported field for a schema field name: an exact graphql tag,
// then an exact json tag, then a case-insensitive name match.
func structField(t reflect.Type, fieldName string) []int {
	var byName []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tagName(f.Tag.Get("graphql")) == fieldName {
			return f.Index
		}
		if tagName(f.Tag.Get("json")) == fieldName {
			return f.Index
		}
		if byName == nil && normalizeName(f.Name) == normalizeName(fieldName) {
			byName = f.Index
		}
	}
	return byName
}

func tagName(tag string) string {
	if i := strings.IndexByte(tag, ','); i >= 0 {
		return tag[:i]
	}
	return tag
}
