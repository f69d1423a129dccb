package parser

import (
	"os"
	"path/filepath"
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsift/fieldsift/internal/errors"
	"github.com/fieldsift/fieldsift/internal/models"
)

func TestParseString_SimpleObject(t *testing.T) {
	v, err := ParseString(`{"name": "John", "age": 30, "tags": ["a", "b"], "ok": true, "gone": null}`)
	require.NoError(t, err)

	require.Equal(t, models.Object, v.Kind())
	require.Equal(t, 5, v.Len())

	name, ok := v.Find("name")
	require.True(t, ok)
	assert.Equal(t, "John", name.StringVal())

	age, ok := v.Find("age")
	require.True(t, ok)
	assert.Equal(t, models.Number, age.Kind())
	assert.Equal(t, 30.0, age.NumberVal())

	tags, ok := v.Find("tags")
	require.True(t, ok)
	require.Equal(t, models.Array, tags.Kind())
	require.Equal(t, 2, tags.Len())

	gone, ok := v.Find("gone")
	require.True(t, ok)
	assert.Equal(t, models.Null, gone.Kind())
}

func TestParseString_PreservesKeyOrder(t *testing.T) {
	v, err := ParseString(`{"zebra": 1, "apple": 2, "mango": 3}`)
	require.NoError(t, err)

	keys := make([]string, 0, 3)
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, keys)
}

func TestParseString_PrimitiveRoots(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  models.Kind
	}{
		{"string", `"hello"`, models.String},
		{"number", `42.5`, models.Number},
		{"bool", `false`, models.Bool},
		{"null", `null`, models.Null},
		{"empty array", `[]`, models.Array},
		{"empty object", `{}`, models.Object},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestParseString_NumbersAreDoubles(t *testing.T) {
	v, err := ParseString(`[1, 2.5, -3, 1e3]`)
	require.NoError(t, err)
	items := v.Items()
	require.Len(t, items, 4)
	assert.Equal(t, 1.0, items[0].NumberVal())
	assert.Equal(t, 2.5, items[1].NumberVal())
	assert.Equal(t, -3.0, items[2].NumberVal())
	assert.Equal(t, 1000.0, items[3].NumberVal())
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
	}{
		{"empty", "", errors.ErrEmptyInput},
		{"whitespace", "   \n\t", errors.ErrEmptyInput},
		{"trailing value", `{"a":1} {"b":2}`, errors.ErrMultipleJSON},
		{"bad syntax", `{"a":`, errors.ErrInvalidJSON},
		{"trailing comma", `{"a": 1,}`, errors.ErrInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.sentinel), "expected %v, got %v", tt.sentinel, err)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok": true}`), 0644))
	v, err := ParseFile(path)
	require.NoError(t, err)
	ok, found := v.Find("ok")
	require.True(t, found)
	assert.True(t, ok.BoolVal())

	_, err = ParseFile(filepath.Join(dir, "missing.json"))
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = ParseFile(empty)
	assert.True(t, stderrors.Is(err, errors.ErrFileEmpty))

	_, err = ParseFile("  ")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidFilePath))
}
