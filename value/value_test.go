package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalKeepsFieldOrder(t *testing.T) {
	obj := NewObject(3)
	obj.Set("zeta", Scalar{V: int32(1)})
	obj.Set("alpha", List{Scalar{V: "a"}, Null{}, Scalar{V: true}})
	nested := NewObject(1)
	nested.Set("x", Scalar{V: 1.5})
	obj.Set("mid", nested)

	b, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":["a",null,true],"mid":{"x":1.5}}`, string(b))
}

func TestSetReplaces(t *testing.T) {
	obj := NewObject(1)
	obj.Set("a", Scalar{V: "first"})
	obj.Set("a", Null{})
	assert.Equal(t, 1, obj.Len())
	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.True(t, IsNull(v))
}

func TestToInterface(t *testing.T) {
	obj := NewObject(2)
	obj.Set("n", Null{})
	obj.Set("l", List{Scalar{V: int32(2)}})
	assert.Equal(t, map[string]interface{}{
		"n": nil,
		"l": []interface{}{int32(2)},
	}, ToInterface(obj))
}
