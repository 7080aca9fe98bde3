package geo

import (
	"sort"
	"strings"
)

const DefaultRadiusKm = 10.0

// Located is anything with an optional position and a display name.
type Located interface {
	Position() (Point, bool)
	DisplayName() string
}

type Ranked[T Located] struct {
	Item       T
	DistanceKm float64
}

// WithinRadius keeps the items with known coordinates whose unrounded distance
// from origin is at most radiusKm, nearest first. Equal distances are ordered
// by name.
func WithinRadius[T Located](items []T, origin Point, radiusKm float64) []Ranked[T] {
	out := make([]Ranked[T], 0, len(items))
	for _, it := range items {
		pos, ok := it.Position()
		if !ok {
			continue
		}
		d := Haversine(origin, pos)
		if d > radiusKm {
			continue
		}
		out = append(out, Ranked[T]{Item: it, DistanceKm: d})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return strings.Compare(out[i].Item.DisplayName(), out[j].Item.DisplayName()) < 0
	})
	return out
}
