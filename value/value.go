// Package value is the executor's output: a tree of Null, Scalar, List and Object
// nodes. Objects keep their fields in selection order.
package value

import (
	"bytes"
	"encoding/json"
)

// Value is one of Null, Scalar, List or *Object.
type Value interface {
	json.Marshaler
	isValue()
}

type Null struct{}

// Scalar holds a serialized leaf: a string, bool, int32 or float64, or whatever a
// custom scalar serializes to.
type Scalar struct {
	V interface{}
}

type List []Value

type Field struct {
	Name  string
	Value Value
}

type Object struct {
	Fields []Field
}

func (Null) isValue()    {}
func (Scalar) isValue()  {}
func (List) isValue()    {}
func (*Object) isValue() {}

func NewObject(size int) *Object {
	return &Object{Fields: make([]Field, 0, size)}
}

// Set appends the field, or replaces the value of an existing field with that name.
func (o *Object) Set(name string, v Value) {
	for i := range o.Fields {
		if o.Fields[i].Name == name {
			o.Fields[i].Value = v
			return
		}
	}
	o.Fields = append(o.Fields, Field{Name: name, Value: v})
}

func (o *Object) Get(name string) (Value, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (o *Object) Len() int {
	return len(o.Fields)
}

// IsNull reports whether v is Null or a nil Value.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(&buf, item); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeValue(&buf, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// ToInterface converts v into maps, slices and scalars. Field order is lost.
func ToInterface(v Value) interface{} {
	switch v := v.(type) {
	case Scalar:
		return v.V
	case List:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = ToInterface(item)
		}
		return out
	case *Object:
		if v == nil {
			return nil
		}
		out := make(map[string]interface{}, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name] = ToInterface(f.Value)
		}
		return out
	}
	return nil
}
