// Package pathing models addresses inside a JSON document: raw paths of
// keys and indices, their canonical form, and the compacted segment view
// that selection identity is derived from.
package pathing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fieldsift/fieldsift/internal/models"
)

// Step is one hop of a path: either an object key or an array index.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeyStep returns a step addressing an object member.
func KeyStep(key string) Step { return Step{Key: key} }

// IndexStep returns a step addressing an array element.
func IndexStep(index int) Step { return Step{Index: index, IsIndex: true} }

// String renders the step for diagnostics.
func (s Step) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path is an ordered sequence of steps. The empty path is the document
// root.
type Path []Step

// Equal reports element-wise equality of two paths.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Child returns a new path extended by one step.
func (p Path) Child(step Step) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, step)
}

// Normalize returns the canonical form of a path. Key steps whose text
// round-trips exactly through base-10 integer parsing become index steps;
// everything else is left alone. Paths may arrive as raw steps or as
// decimal strings from collaborators, and canonicalization makes the two
// comparable. Normalize is idempotent.
func Normalize(p Path) Path {
	out := make(Path, len(p))
	for i, step := range p {
		if step.IsIndex {
			out[i] = step
			continue
		}
		if n, err := strconv.ParseInt(step.Key, 10, 64); err == nil && strconv.FormatInt(n, 10) == step.Key {
			out[i] = IndexStep(int(n))
			continue
		}
		out[i] = step
	}
	return out
}

// SegmentTag labels how a segment addresses the document.
type SegmentTag string

const (
	TagKey          SegmentTag = "key"
	TagArrayElement SegmentTag = "arrayElement"
)

// Segment is the compacted structural view of a path step: a key, tagged
// arrayElement when the step that follows it is an index. Concrete index
// values are dropped on purpose so that one segment list describes every
// parallel position across array elements.
type Segment struct {
	Name string
	Tag  SegmentTag
}

// Segments compacts a path into its segment list. Index steps themselves
// produce no segment.
func Segments(p Path) []Segment {
	var segs []Segment
	for i, step := range p {
		if step.IsIndex {
			continue
		}
		tag := TagKey
		if i+1 < len(p) && p[i+1].IsIndex {
			tag = TagArrayElement
		}
		segs = append(segs, Segment{Name: step.Key, Tag: tag})
	}
	return segs
}

// SelectionKey derives the identity a selection is registered under.
// Non-empty segment lists join as "name:tag" with ">"; because segments
// discard indices, paths that differ only in index values at the same
// structural position share one key. Selecting the root directly falls
// back to the structural encoding of the full path.
func SelectionKey(segs []Segment, p Path) string {
	if len(segs) == 0 {
		return Encode(p)
	}
	parts := make([]string, len(segs))
	for i, seg := range segs {
		parts[i] = seg.Name + ":" + string(seg.Tag)
	}
	return strings.Join(parts, ">")
}

// KeyFor is the one-call form of SelectionKey over a raw path: normalize,
// segment, derive.
func KeyFor(p Path) string {
	norm := Normalize(p)
	return SelectionKey(Segments(norm), norm)
}

// Encode renders a path as a compact JSON array, e.g. ["items",0,"v"].
// This is the string form used as diff map keys and bookmark payloads.
func Encode(p Path) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, step := range p {
		if i > 0 {
			sb.WriteByte(',')
		}
		if step.IsIndex {
			sb.WriteString(strconv.Itoa(step.Index))
		} else {
			sb.WriteString(models.EncodeString(step.Key))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// Decode parses the Encode form back into a normalized path.
func Decode(encoded string) (Path, error) {
	var raw []any
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return nil, fmt.Errorf("invalid encoded path %q: %w", encoded, err)
	}
	p := make(Path, 0, len(raw))
	for _, step := range raw {
		switch s := step.(type) {
		case string:
			p = append(p, KeyStep(s))
		case float64:
			p = append(p, IndexStep(int(s)))
		default:
			return nil, fmt.Errorf("invalid path step %v in %q", step, encoded)
		}
	}
	return Normalize(p), nil
}

// ParseDotted parses a human-written accessor such as "items[0].v" into a
// normalized path. Bare numeric components address array elements.
func ParseDotted(expr string) (Path, error) {
	var p Path
	if strings.TrimSpace(expr) == "" {
		return p, nil
	}
	for _, part := range strings.Split(expr, ".") {
		for part != "" {
			open := strings.IndexByte(part, '[')
			if open == -1 {
				p = append(p, KeyStep(part))
				break
			}
			if open > 0 {
				p = append(p, KeyStep(part[:open]))
			}
			close := strings.IndexByte(part[open:], ']')
			if close == -1 {
				return nil, fmt.Errorf("unterminated index in %q", expr)
			}
			idxText := part[open+1 : open+close]
			n, err := strconv.Atoi(idxText)
			if err != nil {
				return nil, fmt.Errorf("invalid index %q in %q", idxText, expr)
			}
			p = append(p, IndexStep(n))
			part = part[open+close+1:]
		}
	}
	return Normalize(p), nil
}

// Accessor renders a path as a readable accessor rooted at column, e.g.
// "data.items[0].v". Used by the clipboard/export collaborator.
func Accessor(column string, p Path) string {
	var sb strings.Builder
	sb.WriteString(column)
	for _, step := range p {
		if step.IsIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(step.Index))
			sb.WriteByte(']')
		} else {
			sb.WriteByte('.')
			sb.WriteString(step.Key)
		}
	}
	return sb.String()
}

// Resolve walks a normalized path against a value. It is total: a step
// that does not fit the value it lands on reports ok == false rather than
// failing.
func Resolve(root *models.Value, p Path) (*models.Value, bool) {
	current := root
	for _, step := range p {
		if current == nil {
			return nil, false
		}
		if step.IsIndex {
			next, ok := current.At(step.Index)
			if !ok {
				return nil, false
			}
			current = next
			continue
		}
		next, ok := current.Find(step.Key)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}
