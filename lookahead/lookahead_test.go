package lookahead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sample() *Selection {
	return &Selection{
		Name:      "search",
		Arguments: map[string]interface{}{"text": "r2"},
		Children: []*Selection{
			{Name: "__typename"},
			{Name: "name"},
			{Name: "friends", Alias: "pals", Children: []*Selection{{Name: "name"}}},
			{Name: "primaryFunction", Types: []string{"Droid"}},
			{Name: "height", Types: []string{"Human"}, Arguments: map[string]interface{}{"unit": "METER"}},
		},
	}
}

func TestChildLookup(t *testing.T) {
	s := sample()
	assert.Equal(t, "friends", s.Child("pals").Name)
	assert.Equal(t, "pals", s.Child("friends").Alias)
	assert.Nil(t, s.Child("missing"))
	assert.Nil(t, (*Selection)(nil).Child("x"))

	v, ok := s.Arg("text")
	assert.True(t, ok)
	assert.Equal(t, "r2", v)
	_, ok = s.Arg("nope")
	assert.False(t, ok)
}

func TestApplies(t *testing.T) {
	s := sample()
	assert.True(t, s.Child("name").Applies("Droid"))
	assert.True(t, s.Child("primaryFunction").Applies("Droid"))
	assert.False(t, s.Child("primaryFunction").Applies("Human"))

	var names []string
	for _, c := range s.ChildrenFor("Human") {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"__typename", "name", "friends", "height"}, names)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, []string{"name", "friends", "friends.name", "primaryFunction", "height"}, sample().Paths())
	assert.Nil(t, (*Selection)(nil).Paths())
}
