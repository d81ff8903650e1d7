package octaindex

import (
	"github.com/golang/geo/r3"
)

// Cell is anything the graph primitives can walk: a comparable value
// with a position and up to 14 lattice neighbors of its own type.
type Cell[T any] interface {
	comparable
	Neighbors() NeighborSet[T]
	Position() r3.Vector
}

// bfsLayers walks outward from center for k hops and calls visit for
// every newly reached cell with its hop distance.
func bfsLayers[T Cell[T]](center T, k int, visit func(c T, hop int)) {
	if k < 0 {
		return
	}
	seen := map[T]struct{}{center: {}}
	frontier := []T{center}
	visit(center, 0)

	for hop := 1; hop <= k && len(frontier) > 0; hop++ {
		var next []T
		for _, c := range frontier {
			for _, n := range c.Neighbors().All() {
				if _, ok := seen[n]; ok {
					continue
				}
				seen[n] = struct{}{}
				next = append(next, n)
				visit(n, hop)
			}
		}
		frontier = next
	}
}

// KRing returns every cell within k neighbor hops of center, center
// first and then in breadth first order. Each cell appears once.
// A negative k yields nil.
func KRing[T Cell[T]](center T, k int) []T {
	var out []T
	bfsLayers(center, k, func(c T, _ int) {
		out = append(out, c)
	})
	return out
}

// KShell returns the cells exactly k hops from center, in breadth first
// order. KShell(c, 0) is [c].
func KShell[T Cell[T]](center T, k int) []T {
	var out []T
	bfsLayers(center, k, func(c T, hop int) {
		if hop == k {
			out = append(out, c)
		}
	})
	return out
}
