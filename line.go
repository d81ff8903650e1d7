package octaindex

import "fmt"

// maxTraceDepth bounds the bisection between two samples. Past it the
// remaining gap is closed by greedy neighbor steps.
const maxTraceDepth = 40

// TraceLine returns the lattice cells visited by the segment from a to b,
// both endpoints included. Consecutive cells are neighbors.
func TraceLine(a, b LatticeCoord) []LatticeCoord {
	if a == b {
		return []LatticeCoord{a}
	}

	pa, pb := a.Position(), b.Position()
	at := func(t float64) LatticeCoord {
		p := pa.Add(pb.Sub(pa).Mul(t))
		c, err := NearestLatticeCoord(p)
		if err != nil {
			// only reachable through rounding at the int32 edge
			return a
		}
		return c
	}

	out := []LatticeCoord{a}
	var walk func(ta, tb float64, ca, cb LatticeCoord, depth int)
	walk = func(ta, tb float64, ca, cb LatticeCoord, depth int) {
		switch {
		case ca == cb:
			return
		case IsNeighbor(ca, cb):
			out = append(out, cb)
			return
		case depth == maxTraceDepth:
			out = append(out, greedySteps(ca, cb)...)
			return
		}
		tm := (ta + tb) / 2
		cm := at(tm)
		walk(ta, tm, ca, cm, depth+1)
		walk(tm, tb, cm, cb, depth+1)
	}
	walk(0, 1, a, b, 0)

	return out
}

// greedySteps walks from a to b taking the neighbor closest to b each
// time. The returned slice excludes a and ends with b.
func greedySteps(a, b LatticeCoord) []LatticeCoord {
	var out []LatticeCoord
	target := b.Position()
	for cur := a; cur != b; {
		best, bestDist := cur, cur.Position().Sub(target).Norm2()
		for _, n := range cur.Neighbors().All() {
			if d := n.Position().Sub(target).Norm2(); d < bestDist {
				best, bestDist = n, d
			}
		}
		if best == cur {
			break
		}
		cur = best
		out = append(out, cur)
	}
	return out
}

// TraceRoute is TraceLine over Route64 cells. The tier of a is kept. It
// fails if the walk leaves the Route64 coordinate range.
func TraceRoute(a, b Route64) ([]Route64, error) {
	coords := TraceLine(a.Coord(), b.Coord())
	out := make([]Route64, len(coords))
	for i, c := range coords {
		r, err := RouteFromCoord(a.Tier(), c)
		if err != nil {
			return nil, fmt.Errorf("tracing %v to %v: %w", a.Coord(), b.Coord(), err)
		}
		out[i] = r
	}
	return out, nil
}
