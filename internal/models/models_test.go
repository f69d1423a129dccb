package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{Null, "null"},
		{Bool, "bool"},
		{Number, "number"},
		{String, "string"},
		{Array, "array"},
		{Object, "object"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestValueAccessors(t *testing.T) {
	obj := NewObject(
		Member{Key: "name", Value: NewString("Ada")},
		Member{Key: "age", Value: NewNumber(36)},
	)

	assert.Equal(t, Object, obj.Kind())
	assert.True(t, obj.IsContainer())
	assert.Equal(t, 2, obj.Len())

	name, ok := obj.Find("name")
	require.True(t, ok)
	assert.Equal(t, "Ada", name.StringVal())

	_, ok = obj.Find("missing")
	assert.False(t, ok)

	arr := NewArray(NewBool(true), NewNull())
	assert.Equal(t, 2, arr.Len())
	first, ok := arr.At(0)
	require.True(t, ok)
	assert.True(t, first.BoolVal())
	_, ok = arr.At(2)
	assert.False(t, ok)
	_, ok = arr.At(-1)
	assert.False(t, ok)

	assert.Equal(t, 0, NewString("x").Len())
	assert.False(t, NewNumber(1).IsContainer())
}

func TestEqual(t *testing.T) {
	a := NewObject(
		Member{Key: "x", Value: NewNumber(1)},
		Member{Key: "y", Value: NewArray(NewString("a"), NewNull())},
	)
	b := NewObject(
		Member{Key: "x", Value: NewNumber(1)},
		Member{Key: "y", Value: NewArray(NewString("a"), NewNull())},
	)
	assert.True(t, Equal(a, b))

	// Same members, different order
	c := NewObject(
		Member{Key: "y", Value: NewArray(NewString("a"), NewNull())},
		Member{Key: "x", Value: NewNumber(1)},
	)
	assert.False(t, Equal(a, c))

	assert.False(t, Equal(NewNumber(1), NewString("1")))
	assert.False(t, Equal(NewNumber(1), NewNumber(2)))
	assert.True(t, Equal(NewNull(), NewNull()))
	assert.False(t, Equal(NewArray(NewNumber(1)), NewArray()))
}

func TestEncodeJSONPreservesMemberOrder(t *testing.T) {
	v := NewObject(
		Member{Key: "zulu", Value: NewNumber(1)},
		Member{Key: "alpha", Value: NewObject(Member{Key: "b", Value: NewBool(false)})},
		Member{Key: "list", Value: NewArray(NewNumber(1.5), NewString("x\"y"))},
	)
	assert.Equal(t, `{"zulu":1,"alpha":{"b":false},"list":[1.5,"x\"y"]}`, v.EncodeJSON())
}

func TestEncodeNumber(t *testing.T) {
	assert.Equal(t, "1", EncodeNumber(1.0))
	assert.Equal(t, "1.5", EncodeNumber(1.5))
	assert.Equal(t, "-3", EncodeNumber(-3))
}

func TestToAnyFromAnyRoundTrip(t *testing.T) {
	v := NewObject(
		Member{Key: "a", Value: NewArray(NewNumber(1), NewString("s"), NewNull())},
		Member{Key: "b", Value: NewBool(true)},
	)

	raw := v.ToAny()
	back, err := FromAny(raw)
	require.NoError(t, err)
	// FromAny sorts map keys alphabetically, which matches this input.
	assert.True(t, Equal(v, back))
}

func TestFromAnyRejectsUnknownTypes(t *testing.T) {
	_, err := FromAny(struct{}{})
	assert.Error(t, err)
}
