// Package selection owns the set of fields marked for extraction: field
// name generation, toggle and subtree-select semantics, and renames.
// Selections are identified by their structural selection key, so paths
// that differ only in array indices collapse onto one selection.
package selection

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/fieldsift/fieldsift/internal/models"
	"github.com/fieldsift/fieldsift/internal/pathing"
	"github.com/fieldsift/fieldsift/internal/traverse"
)

// FieldSelection pairs a generated output field name with the canonical
// path it was selected at.
type FieldSelection struct {
	Key       string
	FieldName string
	Path      pathing.Path
}

// Registry holds selections in insertion order.
type Registry struct {
	order []string
	byKey map[string]*FieldSelection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*FieldSelection)}
}

// Len returns the number of selections.
func (r *Registry) Len() int { return len(r.order) }

// Has reports whether a selection exists for the given key.
func (r *Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// Snapshot returns the selections as an independent slice in insertion
// order. Callers may hold a snapshot across later registry mutations.
func (r *Registry) Snapshot() []FieldSelection {
	out := make([]FieldSelection, 0, len(r.order))
	for _, key := range r.order {
		sel := r.byKey[key]
		out = append(out, FieldSelection{Key: sel.Key, FieldName: sel.FieldName, Path: sel.Path.Clone()})
	}
	return out
}

// KeySet returns the set of selection keys, for renderers that highlight
// selected nodes.
func (r *Registry) KeySet() map[string]struct{} {
	out := make(map[string]struct{}, len(r.order))
	for _, key := range r.order {
		out[key] = struct{}{}
	}
	return out
}

// Reset drops every selection. Called on each new parse.
func (r *Registry) Reset() {
	r.order = nil
	r.byKey = make(map[string]*FieldSelection)
}

// Toggle is the sole mutator for single values: selecting an unselected
// path inserts a selection with a fresh unique field name, and selecting
// a path whose key is already registered removes that selection, even
// when the registered path differs in its array indices.
// It returns the selection key and whether the call added a selection.
func (r *Registry) Toggle(p pathing.Path) (key string, added bool) {
	norm := pathing.Normalize(p)
	segs := pathing.Segments(norm)
	key = pathing.SelectionKey(segs, norm)

	if r.Has(key) {
		r.remove(key)
		return key, false
	}

	base := GenerateFieldName(segs, norm)
	r.insert(&FieldSelection{
		Key:       key,
		FieldName: r.ensureUnique(base),
		Path:      norm,
	})
	return key, true
}

// SelectSubtree bulk-toggles every leaf under value, which must be the
// value located at p. If every leaf's selection key is already present
// the whole set is removed; otherwise every absent one is added and
// present ones are left untouched. Exactly one of the returned counts is
// non-zero.
func (r *Registry) SelectSubtree(p pathing.Path, value *models.Value) (added, removed int) {
	leaves := traverse.LeafPaths(value, pathing.Normalize(p))

	keys := make([]string, len(leaves))
	allPresent := true
	for i, leaf := range leaves {
		keys[i] = pathing.KeyFor(leaf)
		if !r.Has(keys[i]) {
			allPresent = false
		}
	}

	if allPresent {
		// Parallel leaves share keys, so deduplicate while removing.
		for _, key := range keys {
			if r.Has(key) {
				r.remove(key)
				removed++
			}
		}
		return 0, removed
	}

	for i, leaf := range leaves {
		if r.Has(keys[i]) {
			continue
		}
		norm := pathing.Normalize(leaf)
		segs := pathing.Segments(norm)
		r.insert(&FieldSelection{
			Key:       keys[i],
			FieldName: r.ensureUnique(GenerateFieldName(segs, norm)),
			Path:      norm,
		})
		added++
	}
	return added, 0
}

// Rename overwrites the field name of an existing selection. The new name
// is sanitized but deliberately not checked for uniqueness: two
// selections may share a name after a manual rename, and code generators
// pass that through as-is.
func (r *Registry) Rename(key, newName string) bool {
	sel, ok := r.byKey[key]
	if !ok {
		return false
	}
	sel.FieldName = SanitizeFieldName(newName)
	return true
}

func (r *Registry) insert(sel *FieldSelection) {
	r.byKey[sel.Key] = sel
	r.order = append(r.order, sel.Key)
}

func (r *Registry) remove(key string) {
	delete(r.byKey, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// ensureUnique returns base unless it is already assigned as a field
// name, in which case _2, _3, ... suffixes are tried. Only assigned field
// names count; raw document keys never do.
func (r *Registry) ensureUnique(base string) string {
	used := make(map[string]struct{}, len(r.order))
	for _, key := range r.order {
		used[r.byKey[key].FieldName] = struct{}{}
	}
	if _, taken := used[base]; !taken {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}

// SanitizeFieldName reduces arbitrary text to a safe lowercase
// identifier. The stages run in order: trim, whitespace to underscores,
// strip anything outside [0-9A-Za-z_], collapse underscore runs, strip
// leading underscores, lowercase. The ordering is observable: whitespace
// followed only by stripped characters leaves a trailing underscore.
// Empty results become "value" and a leading digit gains a "field_"
// prefix.
func SanitizeFieldName(raw string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsSpace(r):
			sb.WriteByte('_')
		case r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			sb.WriteRune(r)
		}
	}

	name := sb.String()
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	name = strings.TrimLeft(name, "_")
	name = strings.ToLower(name)

	if name == "" {
		return "value"
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "field_" + name
	}
	return name
}

// GenerateFieldName derives a field name from the compacted segments,
// falling back to the raw path for root-level selections. The last
// key-tagged segment wins; failing that the last arrayElement segment
// contributes a "_value" suffix; failing that the final raw step decides.
func GenerateFieldName(segs []pathing.Segment, fallback pathing.Path) string {
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].Tag == pathing.TagKey && segs[i].Name != "" {
			return SanitizeFieldName(segs[i].Name)
		}
	}
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].Tag == pathing.TagArrayElement {
			return SanitizeFieldName(segs[i].Name + "_value")
		}
	}
	if len(fallback) == 0 {
		return "value"
	}
	last := fallback[len(fallback)-1]
	if last.IsIndex {
		return SanitizeFieldName("value_" + strconv.Itoa(last.Index))
	}
	return SanitizeFieldName(last.Key)
}
