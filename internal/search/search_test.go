package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsift/fieldsift/internal/parser"
	"github.com/fieldsift/fieldsift/internal/pathing"
)

const searchDoc = `{
	"name": "Widget",
	"price": 19.99,
	"tags": ["new", "sale"],
	"nested": {"name": "inner"}
}`

func TestMatcher_Substring(t *testing.T) {
	m := NewMatcher("WIDGET", false)
	assert.False(t, m.IsRegex())
	assert.True(t, m.MatchText(`"name": "Widget"`))
	assert.False(t, m.MatchText(`"price": 19.99`))
}

func TestMatcher_Regex(t *testing.T) {
	m := NewMatcher(`^"pri`, true)
	require.True(t, m.IsRegex())
	assert.True(t, m.MatchText(`"price": 19.99`))
	assert.False(t, m.MatchText(`"name": "price tag"`))
}

func TestMatcher_RegexIsCaseInsensitive(t *testing.T) {
	m := NewMatcher("widget", true)
	require.True(t, m.IsRegex())
	assert.True(t, m.MatchText("WIDGET"))
}

func TestMatcher_InvalidRegexFallsBackToSubstring(t *testing.T) {
	m := NewMatcher("widget[", true)
	assert.False(t, m.IsRegex())
	assert.True(t, m.MatchText(`label: "widget["`))
	assert.False(t, m.MatchText("widget"))
}

func TestFind_MatchesKeysAndValues(t *testing.T) {
	root, err := parser.ParseString(searchDoc)
	require.NoError(t, err)

	matches := Find(root, NewMatcher("name", false))

	var paths []string
	for _, m := range matches {
		paths = append(paths, pathing.Encode(m.Path))
	}
	// Depth-first, document order: the root summary never matches, both
	// "name" members do, nested after its parent.
	assert.Equal(t, []string{`["name"]`, `["nested","name"]`}, paths)
}

func TestFind_ArrayElementsAreUnlabeled(t *testing.T) {
	root, err := parser.ParseString(searchDoc)
	require.NoError(t, err)

	matches := Find(root, NewMatcher("sale", false))
	require.Len(t, matches, 1)
	assert.Equal(t, `["tags",1]`, pathing.Encode(matches[0].Path))
	assert.Equal(t, "1", matches[0].DisplayKey)
}

func TestFind_ContainerSummariesAreSearchable(t *testing.T) {
	root, err := parser.ParseString(searchDoc)
	require.NoError(t, err)

	matches := Find(root, NewMatcher("[2 items]", false))
	require.Len(t, matches, 1)
	assert.Equal(t, `["tags"]`, pathing.Encode(matches[0].Path))
}

func TestDisplayText(t *testing.T) {
	root, err := parser.ParseString(searchDoc)
	require.NoError(t, err)

	name, ok := root.Find("name")
	require.True(t, ok)
	assert.Equal(t, `"name": "Widget"`, DisplayText("name", true, name))

	tags, ok := root.Find("tags")
	require.True(t, ok)
	assert.Equal(t, `"tags": [2 items]`, DisplayText("tags", true, tags))
	assert.Equal(t, "[2 items]", DisplayText("0", false, tags))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"string", `"hi"`, `"hi"`},
		{"number", `19.99`, "19.99"},
		{"bool", `true`, "true"},
		{"null", `null`, "null"},
		{"array", `[1,2,3]`, "[3 items]"},
		{"object", `{"a":1}`, "{1 keys}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parser.ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatValue(v))
		})
	}
}
