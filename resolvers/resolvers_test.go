package resolvers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/graphql-engine/introspection"
	"github.com/graph-gophers/graphql-engine/resolvers"
	"github.com/graph-gophers/graphql-engine/schema"
)

type episode string

type human struct {
	ID       string
	FullName string `graphql:"name"`
	Mass     float64 `json:"mass,omitempty"`
	Friends  []string
}

func (h *human) Height(args struct {
	Unit  string
	Scale *float64
}) (float64, error) {
	if args.Unit == "FOOT" {
		return 5.8, nil
	}
	if args.Unit != "METER" {
		return 0, errors.New("bad unit")
	}
	if args.Scale != nil {
		return 1.77 * *args.Scale, nil
	}
	return 1.77, nil
}

func (h *human) Appears_In(ctx context.Context) []episode {
	return []episode{"NEWHOPE"}
}

func (h *human) Request(req *resolvers.ResolveRequest) string {
	return req.ParentType.Name + "." + req.Field.Name
}

type droid struct{ Name string }

type character struct{ v interface{} }

func (c character) ToHuman() (*human, bool) {
	h, ok := c.v.(*human)
	return h, ok
}

func (c character) ToDroid() (*droid, bool) {
	d, ok := c.v.(*droid)
	return d, ok
}

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	b := schema.NewBuilder()
	b.Add(
		&schema.Object{Name: "Query", Fields: schema.FieldList{
			{Name: "hero", Type: schema.MustParseType("Character")},
		}},
		&schema.Interface{Name: "Character", Fields: schema.FieldList{
			{Name: "name", Type: schema.MustParseType("String")},
		}},
		&schema.Object{Name: "Human", Interfaces: []string{"Character"}, Fields: schema.FieldList{
			{Name: "name", Type: schema.MustParseType("String")},
		}},
		&schema.Object{Name: "Droid", Interfaces: []string{"Character"}, Fields: schema.FieldList{
			{Name: "name", Type: schema.MustParseType("String")},
		}},
	)
	s, err := b.Build()
	require.NoError(t, err)
	return s
}

func request(parent interface{}, field string, args map[string]interface{}) *resolvers.ResolveRequest {
	return &resolvers.ResolveRequest{
		Context:    context.Background(),
		ParentType: &schema.Object{Name: "Human"},
		Parent:     parent,
		Field:      &schema.Field{Name: field},
		Args:       args,
	}
}

func resolve(t *testing.T, f resolvers.ResolverFactory, req *resolvers.ResolveRequest) (interface{}, error) {
	t.Helper()
	r := f.CreateResolver(req)
	require.NotNil(t, r, "no resolver for %s", req.Field.Name)
	return r()
}

func TestMethodResolverDecodesArguments(t *testing.T) {
	f := &resolvers.MethodResolverFactory{}
	h := &human{}

	v, err := resolve(t, f, request(h, "height", map[string]interface{}{"unit": "METER"}))
	require.NoError(t, err)
	assert.Equal(t, 1.77, v)

	v, err = resolve(t, f, request(h, "height", map[string]interface{}{"unit": "METER", "scale": 2.0}))
	require.NoError(t, err)
	assert.Equal(t, 3.54, v)

	_, err = resolve(t, f, request(h, "height", map[string]interface{}{"unit": "PARSEC"}))
	assert.EqualError(t, err, "bad unit")
}

func TestMethodResolverNames(t *testing.T) {
	f := &resolvers.MethodResolverFactory{}
	h := &human{}

	v, err := resolve(t, f, request(h, "appearsIn", nil))
	require.NoError(t, err)
	assert.Equal(t, []episode{"NEWHOPE"}, v)

	v, err = resolve(t, f, request(h, "request", nil))
	require.NoError(t, err)
	assert.Equal(t, "Human.request", v)

	assert.Nil(t, f.CreateResolver(request(h, "unknown", nil)))
	assert.Nil(t, f.CreateResolver(request(nil, "height", nil)))
}

func TestFieldResolverTags(t *testing.T) {
	f := &resolvers.FieldResolverFactory{}
	h := &human{ID: "1000", FullName: "Luke", Mass: 77, Friends: []string{"1002"}}

	for field, want := range map[string]interface{}{
		"id":      "1000",
		"name":    "Luke",
		"mass":    77.0,
		"friends": []string{"1002"},
	} {
		v, err := resolve(t, f, request(h, field, nil))
		require.NoError(t, err)
		assert.Equal(t, want, v, field)
	}
	assert.Nil(t, f.CreateResolver(request(h, "fullname2", nil)))
	assert.Nil(t, f.CreateResolver(request("not a struct", "id", nil)))
}

func TestMapResolver(t *testing.T) {
	f := &resolvers.MapResolverFactory{}
	parent := map[string]interface{}{"name": "R2-D2"}

	v, err := resolve(t, f, request(parent, "name", nil))
	require.NoError(t, err)
	assert.Equal(t, "R2-D2", v)

	v, err = resolve(t, f, request(parent, "missing", nil))
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Nil(t, f.CreateResolver(request(map[int]string{}, "name", nil)))
}

func TestTypeResolverFactoryAndList(t *testing.T) {
	types := resolvers.TypeResolverFactory{}
	types.Set("Human", func(req *resolvers.ResolveRequest) resolvers.Resolver {
		return func() (interface{}, error) { return "from type factory", nil }
	})
	list := &resolvers.ResolverFactoryList{}
	list.Add(&resolvers.MapResolverFactory{})
	list.Add(types)

	v, err := resolve(t, list, request(&human{}, "anything", nil))
	require.NoError(t, err)
	assert.Equal(t, "from type factory", v)

	req := request(&human{}, "anything", nil)
	req.ParentType = &schema.Object{Name: "Droid"}
	assert.Nil(t, list.CreateResolver(req))
}

func TestDynamicResolverFactoryOrder(t *testing.T) {
	f := resolvers.DynamicResolverFactory()
	s := testSchema(t)

	req := request(&human{FullName: "Luke"}, "__typename", nil)
	req.Field = schema.TypenameField
	v, err := resolve(t, f, req)
	require.NoError(t, err)
	assert.Equal(t, "Human", v)

	req = request(nil, "__schema", nil)
	req.Field = schema.SchemaField
	req.Schema = s
	v, err = resolve(t, f, req)
	require.NoError(t, err)
	assert.IsType(t, &introspection.Schema{}, v)

	req = request(nil, "__type", map[string]interface{}{"name": "Nope"})
	req.Field = schema.TypeField
	req.Schema = s
	v, err = resolve(t, f, req)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = resolve(t, f, request(&human{FullName: "Luke"}, "name", nil))
	require.NoError(t, err)
	assert.Equal(t, "Luke", v)
}

func TestResolveType(t *testing.T) {
	s := testSchema(t)
	character, _ := s.Lookup("Character")

	obj, cast, ok := resolvers.ResolveType(s, character, character2(&droid{Name: "R2"}))
	require.True(t, ok)
	assert.Equal(t, "Droid", obj.Name)
	assert.Equal(t, &droid{Name: "R2"}, cast)

	obj, _, ok = resolvers.ResolveType(s, character, map[string]interface{}{"__typename": "Human"})
	require.True(t, ok)
	assert.Equal(t, "Human", obj.Name)

	type Droid struct{}
	obj, _, ok = resolvers.ResolveType(s, character, &Droid{})
	require.True(t, ok)
	assert.Equal(t, "Droid", obj.Name)

	_, _, ok = resolvers.ResolveType(s, character, 42)
	assert.False(t, ok)
}

func character2(v interface{}) character { return character{v} }

func TestTryCastFunction(t *testing.T) {
	v, ok := resolvers.TryCastFunction(character{&human{ID: "1"}}, "Human")
	require.True(t, ok)
	assert.Equal(t, "1", v.(*human).ID)

	_, ok = resolvers.TryCastFunction(character{&human{}}, "Droid")
	assert.False(t, ok)
	_, ok = resolvers.TryCastFunction(character{&human{}}, "Starship")
	assert.False(t, ok)
	_, ok = resolvers.TryCastFunction(nil, "Human")
	assert.False(t, ok)
}
