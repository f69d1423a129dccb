// Package diff structurally compares two canonical JSON values and
// reports, per path, whether a value was added, removed, or modified.
package diff

import (
	"github.com/fieldsift/fieldsift/internal/models"
	"github.com/fieldsift/fieldsift/internal/pathing"
)

// Status labels the change detected at a path.
type Status string

const (
	StatusAdded    Status = "added"
	StatusRemoved  Status = "removed"
	StatusModified Status = "modified"
)

// Compute returns a fresh map from encoded path to change status. Only
// paths with a detected difference appear; a container whose contents
// differ gets no entry of its own unless its variant tag changed. The
// function is total over well-formed values and visits every node of the
// larger tree.
func Compute(a, b *models.Value) map[string]Status {
	result := make(map[string]Status)
	compare(a, b, pathing.Path{}, result)
	return result
}

func compare(a, b *models.Value, p pathing.Path, result map[string]Status) {
	if a.Kind() != b.Kind() {
		// A tag change is terminal; children are not compared.
		result[pathing.Encode(p)] = StatusModified
		return
	}

	switch a.Kind() {
	case models.Array:
		alen, blen := len(a.Items()), len(b.Items())
		max := alen
		if blen > max {
			max = blen
		}
		for i := 0; i < max; i++ {
			child := p.Child(pathing.IndexStep(i))
			switch {
			case i >= alen:
				result[pathing.Encode(child)] = StatusAdded
			case i >= blen:
				result[pathing.Encode(child)] = StatusRemoved
			default:
				compare(a.Items()[i], b.Items()[i], child, result)
			}
		}
	case models.Object:
		seen := make(map[string]struct{}, len(a.Members()))
		for _, m := range a.Members() {
			seen[m.Key] = struct{}{}
			child := p.Child(pathing.KeyStep(m.Key))
			if other, ok := b.Find(m.Key); ok {
				compare(m.Value, other, child, result)
			} else {
				result[pathing.Encode(child)] = StatusRemoved
			}
		}
		for _, m := range b.Members() {
			if _, ok := seen[m.Key]; ok {
				continue
			}
			result[pathing.Encode(p.Child(pathing.KeyStep(m.Key)))] = StatusAdded
		}
	default:
		if !models.Equal(a, b) {
			result[pathing.Encode(p)] = StatusModified
		}
	}
}
