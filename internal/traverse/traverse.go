// Package traverse walks the canonical value tree: container counting for
// size classification, expansion planning, leaf enumeration, and document
// statistics. Every walk is depth-first and preserves member and element
// order.
package traverse

import (
	"github.com/fieldsift/fieldsift/internal/models"
	"github.com/fieldsift/fieldsift/internal/pathing"
)

// Size classification thresholds. The container count is estimated with a
// capped walk so huge documents never pay for a full count here.
const (
	CountCap = 1000

	smallContainerLimit  = 60
	mediumContainerLimit = 400

	smallExpandDepth  = 8
	mediumExpandDepth = 2
	largeExpandDepth  = 1
)

// SizeClass buckets a document by how many containers it holds.
type SizeClass int

const (
	SizeSmall SizeClass = iota
	SizeMedium
	SizeLarge
)

// String returns the lowercase name of the size class.
func (s SizeClass) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	default:
		return "unknown"
	}
}

// CountContainers counts object and array nodes depth-first, stopping as
// soon as the running count reaches cap. The result is always
// min(actual container count, cap).
func CountContainers(v *models.Value, cap int) int {
	count := 0
	var walk func(n *models.Value)
	walk = func(n *models.Value) {
		if count >= cap || !n.IsContainer() {
			return
		}
		count++
		if count >= cap {
			return
		}
		switch n.Kind() {
		case models.Array:
			for _, item := range n.Items() {
				walk(item)
				if count >= cap {
					return
				}
			}
		case models.Object:
			for _, m := range n.Members() {
				walk(m.Value)
				if count >= cap {
					return
				}
			}
		}
	}
	walk(v)
	return count
}

// ExpandableToDepth enumerates every container path whose distance from
// the root is at most depth, in traversal order. A container sitting at
// exactly depth is included but not descended into.
func ExpandableToDepth(v *models.Value, depth int) []pathing.Path {
	var out []pathing.Path
	var walk func(n *models.Value, p pathing.Path, d int)
	walk = func(n *models.Value, p pathing.Path, d int) {
		if !n.IsContainer() || d > depth {
			return
		}
		out = append(out, p.Clone())
		if d == depth {
			return
		}
		switch n.Kind() {
		case models.Array:
			for i, item := range n.Items() {
				walk(item, p.Child(pathing.IndexStep(i)), d+1)
			}
		case models.Object:
			for _, m := range n.Members() {
				walk(m.Value, p.Child(pathing.KeyStep(m.Key)), d+1)
			}
		}
	}
	walk(v, pathing.Path{}, 0)
	return out
}

// LeafPaths enumerates every path under v that terminates in a primitive,
// prefixed with base. A primitive v yields base itself.
func LeafPaths(v *models.Value, base pathing.Path) []pathing.Path {
	var out []pathing.Path
	var walk func(n *models.Value, p pathing.Path)
	walk = func(n *models.Value, p pathing.Path) {
		switch n.Kind() {
		case models.Array:
			for i, item := range n.Items() {
				walk(item, p.Child(pathing.IndexStep(i)))
			}
		case models.Object:
			for _, m := range n.Members() {
				walk(m.Value, p.Child(pathing.KeyStep(m.Key)))
			}
		default:
			out = append(out, p.Clone())
		}
	}
	walk(v, base.Clone())
	return out
}

// Stats aggregates one full traversal of a document.
type Stats struct {
	TotalNodes int
	KeyCount   int
	MaxDepth   int
	Kinds      map[models.Kind]int
	ByteSize   int
}

// ComputeStats walks the whole tree once, with no cap.
func ComputeStats(v *models.Value) Stats {
	stats := Stats{Kinds: make(map[models.Kind]int)}
	var walk func(n *models.Value, depth int)
	walk = func(n *models.Value, depth int) {
		stats.TotalNodes++
		stats.Kinds[n.Kind()]++
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		switch n.Kind() {
		case models.Array:
			for _, item := range n.Items() {
				walk(item, depth+1)
			}
		case models.Object:
			stats.KeyCount += len(n.Members())
			for _, m := range n.Members() {
				walk(m.Value, depth+1)
			}
		}
	}
	walk(v, 0)
	stats.ByteSize = len(v.EncodeJSON())
	return stats
}

// ClassifySize buckets the document using the capped container count.
func ClassifySize(v *models.Value) SizeClass {
	count := CountContainers(v, CountCap)
	switch {
	case count <= smallContainerLimit:
		return SizeSmall
	case count <= mediumContainerLimit:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// ExpandDepth maps a size class to the depth the initial expansion plan
// opens.
func ExpandDepth(class SizeClass) int {
	switch class {
	case SizeSmall:
		return smallExpandDepth
	case SizeMedium:
		return mediumExpandDepth
	default:
		return largeExpandDepth
	}
}

// Plan computes the initial expansion set for a freshly parsed document:
// the encoded paths of every container open at the class-derived depth.
// A document with no containers still gets the root entry so the set is
// never empty.
func Plan(v *models.Value) map[string]struct{} {
	depth := ExpandDepth(ClassifySize(v))
	paths := ExpandableToDepth(v, depth)
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[pathing.Encode(p)] = struct{}{}
	}
	if len(set) == 0 {
		set[pathing.Encode(pathing.Path{})] = struct{}{}
	}
	return set
}
