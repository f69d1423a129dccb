// Package search matches a user query against the display text of every
// node in a document. Regex mode degrades silently to substring matching
// when the query does not compile.
package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fieldsift/fieldsift/internal/models"
	"github.com/fieldsift/fieldsift/internal/pathing"
)

// Match is one matching node: its path and the key label the renderer
// would show for it.
type Match struct {
	Path       pathing.Path
	DisplayKey string
}

// Matcher tests node display text against a query.
type Matcher struct {
	query string
	re    *regexp.Regexp
}

// NewMatcher builds a matcher. With regexMode the query is compiled as a
// case-insensitive pattern; a compile failure is swallowed and the
// matcher falls back to plain case-insensitive substring matching.
func NewMatcher(query string, regexMode bool) *Matcher {
	m := &Matcher{query: strings.ToLower(query)}
	if regexMode {
		if re, err := regexp.Compile("(?i)" + query); err == nil {
			m.re = re
		}
	}
	return m
}

// IsRegex reports whether the matcher runs in compiled-pattern mode.
func (m *Matcher) IsRegex() bool { return m.re != nil }

// MatchText tests a single piece of display text.
func (m *Matcher) MatchText(text string) bool {
	if m.re != nil {
		return m.re.MatchString(text)
	}
	return strings.Contains(strings.ToLower(text), m.query)
}

// Find walks the document depth-first, in member and element order, and
// returns every node whose display text matches.
func Find(root *models.Value, m *Matcher) []Match {
	var out []Match
	var walk func(n *models.Value, p pathing.Path, key string, labeled bool)
	walk = func(n *models.Value, p pathing.Path, key string, labeled bool) {
		if m.MatchText(DisplayText(key, labeled, n)) {
			out = append(out, Match{Path: p.Clone(), DisplayKey: key})
		}
		switch n.Kind() {
		case models.Array:
			for i, item := range n.Items() {
				walk(item, p.Child(pathing.IndexStep(i)), strconv.Itoa(i), false)
			}
		case models.Object:
			for _, member := range n.Members() {
				walk(member.Value, p.Child(pathing.KeyStep(member.Key)), member.Key, true)
			}
		}
	}
	walk(root, pathing.Path{}, "", false)
	return out
}

// DisplayText builds the same text the renderer shows for a node: a
// quoted key prefix when the node is labeled, then the formatted value.
func DisplayText(key string, labeled bool, v *models.Value) string {
	if labeled {
		return models.EncodeString(key) + ": " + FormatValue(v)
	}
	return FormatValue(v)
}

// FormatValue renders a value the way the tree renderer summarizes it:
// primitives in canonical JSON form, containers as a size summary.
func FormatValue(v *models.Value) string {
	switch v.Kind() {
	case models.Array:
		return fmt.Sprintf("[%d items]", v.Len())
	case models.Object:
		return fmt.Sprintf("{%d keys}", v.Len())
	default:
		return v.EncodeJSON()
	}
}
