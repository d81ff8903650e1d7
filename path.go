package octaindex

import (
	"container/heap"
	"math"
	"slices"
)

// CostFunc prices moves for AStar. Cost returns the edge cost between
// two neighbors; +Inf marks the edge as impassable. Heuristic must not
// overestimate the remaining cost for AStar to return optimal paths.
type CostFunc[T any] interface {
	Cost(from, to T) float64
	Heuristic(from, goal T) float64
}

// EuclideanCost charges the straight line distance between cell centers.
type EuclideanCost[T Cell[T]] struct{}

func (EuclideanCost[T]) Cost(from, to T) float64 {
	return from.Position().Distance(to.Position())
}

func (EuclideanCost[T]) Heuristic(from, goal T) float64 {
	return from.Position().Distance(goal.Position())
}

// BlockedCost is EuclideanCost with impassable cells.
type BlockedCost[T Cell[T]] struct {
	Blocked func(T) bool
}

func (b BlockedCost[T]) Cost(from, to T) float64 {
	if b.Blocked != nil && b.Blocked(to) {
		return math.Inf(1)
	}
	return from.Position().Distance(to.Position())
}

func (BlockedCost[T]) Heuristic(from, goal T) float64 {
	return from.Position().Distance(goal.Position())
}

// Path is a sequence of neighboring cells from start to goal.
type Path[T any] struct {
	Cells []T
	Cost  float64
}

func (p Path[T]) Len() int {
	return len(p.Cells)
}

// DefaultMaxExpansions bounds AStar on the unbounded lattice.
const DefaultMaxExpansions = 1 << 20

type astarConfig struct {
	maxExpansions int
}

// AStarOption is a functional option for AStar.
type AStarOption = func(config *astarConfig)

// WithMaxExpansions stops the search after n cells have been expanded.
func WithMaxExpansions(n int) AStarOption {
	return func(config *astarConfig) {
		config.maxExpansions = n
	}
}

type openEntry[T any] struct {
	cell T
	g, f float64
	seq  uint64
}

// openSet is a min-heap on f. Equal f values pop in insertion order.
type openSet[T any] []openEntry[T]

func (s openSet[T]) Len() int { return len(s) }

func (s openSet[T]) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	return s[i].seq < s[j].seq
}

func (s openSet[T]) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s *openSet[T]) Push(x any) { *s = append(*s, x.(openEntry[T])) } //nolint:forcetypeassert

func (s *openSet[T]) Pop() any {
	old := *s
	n := len(old)
	e := old[n-1]
	*s = old[:n-1]
	return e
}

// AStar searches the neighbor graph for the cheapest path from start to
// goal. It reports false when the frontier is exhausted or the expansion
// limit is hit before reaching goal.
func AStar[T Cell[T]](start, goal T, cost CostFunc[T], options ...AStarOption) (Path[T], bool) {
	config := &astarConfig{maxExpansions: DefaultMaxExpansions}
	for _, o := range options {
		o(config)
	}

	if start == goal {
		return Path[T]{Cells: []T{start}}, true
	}

	var (
		open     openSet[T]
		seq      uint64
		expanded int
	)
	gScore := map[T]float64{start: 0}
	cameFrom := map[T]T{}
	closed := map[T]struct{}{}

	heap.Push(&open, openEntry[T]{cell: start, f: cost.Heuristic(start, goal), seq: seq})

	for open.Len() > 0 {
		cur := heap.Pop(&open).(openEntry[T]) //nolint:forcetypeassert
		if _, done := closed[cur.cell]; done {
			continue
		}
		if cur.cell == goal {
			return Path[T]{Cells: reconstruct(cameFrom, start, goal), Cost: cur.g}, true
		}
		closed[cur.cell] = struct{}{}

		expanded++
		if config.maxExpansions > 0 && expanded > config.maxExpansions {
			return Path[T]{}, false
		}

		for _, n := range cur.cell.Neighbors().All() {
			if _, done := closed[n]; done {
				continue
			}
			edge := cost.Cost(cur.cell, n)
			if math.IsInf(edge, 1) || math.IsNaN(edge) {
				continue
			}
			g := cur.g + edge
			if old, ok := gScore[n]; ok && g >= old {
				continue
			}
			gScore[n] = g
			cameFrom[n] = cur.cell
			seq++
			heap.Push(&open, openEntry[T]{cell: n, g: g, f: g + cost.Heuristic(n, goal), seq: seq})
		}
	}

	return Path[T]{}, false
}

func reconstruct[T comparable](cameFrom map[T]T, start, goal T) []T {
	path := []T{goal}
	for c := goal; c != start; {
		c = cameFrom[c]
		path = append(path, c)
	}
	slices.Reverse(path)
	return path
}
