// Package order implements the fractional order keys that position items
// within a lane. Keys are plain float64s spaced BaseSpacing apart when
// healthy; inserting between two neighbors takes their midpoint, so a
// single move never rewrites sibling rows. Compact restores the integral
// spacing once gaps have collapsed.
package order

import (
	"github.com/google/uuid"

	"github.com/workboards/workboards/internal/domain"
)

const (
	// BaseSpacing is the healthy gap between adjacent keys and the key
	// assigned to the first item of an empty lane.
	BaseSpacing = 1000.0

	// minGap is the smallest neighbor gap still considered safe for
	// further midpoint insertion. Halving a BaseSpacing slot reaches it
	// after ~30 consecutive same-point inserts, far from float64
	// precision loss.
	minGap = 1e-6
)

// KeyBetween returns a key strictly between prev and next. A nil prev means
// "insert at the head", a nil next means "append at the tail", and both nil
// means the lane is empty. Deterministic for equal inputs.
func KeyBetween(prev, next *float64) float64 {
	switch {
	case prev == nil && next == nil:
		return BaseSpacing
	case next == nil:
		return *prev + BaseSpacing
	case prev == nil:
		return *next - BaseSpacing
	default:
		return (*prev + *next) / 2
	}
}

// NeedsCompaction reports whether candidate sits in a collapsed gap: closer
// than minGap to either neighbor, so further midpoint insertion risks
// producing a key equal to a neighbor.
func NeedsCompaction(prev, next *float64, candidate float64) bool {
	if prev != nil && candidate-*prev < minGap {
		return true
	}
	if next != nil && *next-candidate < minGap {
		return true
	}
	return false
}

// Rebase is one key reassignment produced by Compact.
type Rebase struct {
	ItemID uuid.UUID
	Key    float64
}

// Compact renormalizes a lane to BaseSpacing, 2*BaseSpacing, ... in the
// given order, returning only the entries whose key actually changed.
// Relative order is never altered, and a second run over the result is
// always empty.
func Compact(items []*domain.Item) []Rebase {
	var changed []Rebase
	for i, it := range items {
		key := BaseSpacing * float64(i+1)
		if it.Order != key {
			changed = append(changed, Rebase{ItemID: it.ID, Key: key})
		}
	}
	return changed
}

// Tail returns the last key of a lane listing, or nil for an empty lane.
// Convenience for append-at-end callers of KeyBetween.
func Tail(items []*domain.Item) *float64 {
	if len(items) == 0 {
		return nil
	}
	key := items[len(items)-1].Order
	return &key
}

// Neighbors locates the keys bracketing candidate within a lane listing
// sorted by key. Either side is nil when candidate lands at an edge.
func Neighbors(items []*domain.Item, candidate float64) (prev, next *float64) {
	for _, it := range items {
		key := it.Order
		if key < candidate {
			k := key
			prev = &k
		}
		if key > candidate {
			k := key
			next = &k
			break
		}
	}
	return prev, next
}
