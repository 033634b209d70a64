package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/graph-gophers/graphql-engine/ast"
)

// Built-in scalar types. They are declared by every Builder.
var (
	IntType = &Scalar{
		Name:         "Int",
		Description:  "The `Int` scalar type represents non-fractional signed whole numeric values. Int can represent values between -(2^31) and 2^31 - 1.",
		Serialize:    serializeInt,
		ParseValue:   serializeInt,
		ParseLiteral: parseIntLiteral,
	}
	FloatType = &Scalar{
		Name:         "Float",
		Description:  "The `Float` scalar type represents signed double-precision fractional values as specified by IEEE 754.",
		Serialize:    serializeFloat,
		ParseValue:   serializeFloat,
		ParseLiteral: parseFloatLiteral,
	}
	StringType = &Scalar{
		Name:         "String",
		Description:  "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
		Serialize:    serializeString,
		ParseValue:   parseStringValue,
		ParseLiteral: parseStringLiteral,
	}
	BooleanType = &Scalar{
		Name:         "Boolean",
		Description:  "The `Boolean` scalar type represents `true` or `false`.",
		Serialize:    serializeBoolean,
		ParseValue:   serializeBoolean,
		ParseLiteral: parseBooleanLiteral,
	}
	IDType = &Scalar{
		Name:         "ID",
		Description:  "The `ID` scalar type represents a unique identifier, often used to refetch an object or as key for a cache.",
		Serialize:    serializeID,
		ParseValue:   serializeID,
		ParseLiteral: parseIDLiteral,
	}
)

// BuiltinScalars lists the scalars every schema declares.
var BuiltinScalars = []*Scalar{IntType, FloatType, StringType, BooleanType, IDType}

func serializeInt(v interface{}) (interface{}, error) {
	var n float64
	switch v := v.(type) {
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %s", v)
		}
		n = float64(i)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i := rv.Int()
			if i < math.MinInt32 || i > math.MaxInt32 {
				return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", i)
			}
			return int32(i), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u := rv.Uint()
			if u > math.MaxInt32 {
				return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", u)
			}
			return int32(u), nil
		case reflect.Float32, reflect.Float64:
			n = rv.Float()
		default:
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", v)
		}
	}
	if n != math.Trunc(n) || math.IsInf(n, 0) {
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", v)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %v", v)
	}
	return int32(n), nil
}

func parseIntLiteral(v ast.InputValue) (interface{}, error) {
	lit, ok := v.(*ast.ScalarValue)
	if !ok || lit.Kind != ast.IntValue {
		return nil, fmt.Errorf("Int cannot represent non-integer value: %s", v)
	}
	i, err := strconv.ParseInt(lit.Text, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %s", lit.Text)
	}
	return int32(i), nil
}

func serializeFloat(v interface{}) (interface{}, error) {
	var f float64
	switch v := v.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %s", v)
		}
		f = parsed
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		default:
			return nil, fmt.Errorf("Float cannot represent non numeric value: %v", v)
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("Float cannot represent non numeric value: %v", v)
	}
	return f, nil
}

func parseFloatLiteral(v ast.InputValue) (interface{}, error) {
	lit, ok := v.(*ast.ScalarValue)
	if !ok || (lit.Kind != ast.IntValue && lit.Kind != ast.FloatValue) {
		return nil, fmt.Errorf("Float cannot represent non numeric value: %s", v)
	}
	f, err := strconv.ParseFloat(lit.Text, 64)
	if err != nil || math.IsInf(f, 0) {
		return nil, fmt.Errorf("Float cannot represent non numeric value: %s", lit.Text)
	}
	return f, nil
}

func serializeString(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return nil, fmt.Errorf("String cannot represent value: %v", v)
}

func parseStringValue(v interface{}) (interface{}, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return nil, fmt.Errorf("String cannot represent a non string value: %v", v)
}

func parseStringLiteral(v ast.InputValue) (interface{}, error) {
	lit, ok := v.(*ast.ScalarValue)
	if !ok || lit.Kind != ast.StringValue {
		return nil, fmt.Errorf("String cannot represent a non string value: %s", v)
	}
	return lit.Text, nil
}

func serializeBoolean(v interface{}) (interface{}, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), nil
	}
	return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", v)
}

func parseBooleanLiteral(v ast.InputValue) (interface{}, error) {
	lit, ok := v.(*ast.ScalarValue)
	if !ok || lit.Kind != ast.BooleanValue {
		return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %s", v)
	}
	return lit.Text == "true", nil
}

func serializeID(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		if _, err := v.Int64(); err != nil {
			return nil, fmt.Errorf("ID cannot represent value: %s", v)
		}
		return v.String(), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}
	}
	return nil, fmt.Errorf("ID cannot represent value: %v", v)
}

func parseIDLiteral(v ast.InputValue) (interface{}, error) {
	lit, ok := v.(*ast.ScalarValue)
	if !ok || (lit.Kind != ast.StringValue && lit.Kind != ast.IntValue) {
		return nil, fmt.Errorf("ID cannot represent a non-string and non-integer value: %s", v)
	}
	return lit.Text, nil
}
