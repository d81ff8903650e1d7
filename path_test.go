package octaindex

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dijkstraCost turns AStar into Dijkstra for reference results.
type dijkstraCost struct {
	EuclideanCost[LatticeCoord]
}

func (dijkstraCost) Heuristic(LatticeCoord, LatticeCoord) float64 { return 0 }

func TestAStarKnownPaths(t *testing.T) {
	t.Parallel()

	o := MustLatticeCoord(0, 0, 0)
	tests := []struct {
		name  string
		goal  LatticeCoord
		cells int
		cost  float64
	}{
		{name: "same cell", goal: o, cells: 1, cost: 0},
		{name: "diagonal neighbor", goal: MustLatticeCoord(1, 1, 1), cells: 2, cost: math.Sqrt(3)},
		{name: "two axis steps", goal: MustLatticeCoord(4, 0, 0), cells: 3, cost: 4},
		{name: "two diagonals", goal: MustLatticeCoord(2, 2, 2), cells: 3, cost: 2 * math.Sqrt(3)},
		{name: "zig zag", goal: MustLatticeCoord(2, 2, 0), cells: 3, cost: 2 * math.Sqrt(3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, ok := AStar(o, tc.goal, EuclideanCost[LatticeCoord]{})
			require.True(t, ok)
			assert.Equal(t, tc.cells, p.Len())
			assert.InDelta(t, tc.cost, p.Cost, 1e-9)
			assert.Equal(t, o, p.Cells[0])
			assert.Equal(t, tc.goal, p.Cells[len(p.Cells)-1])
			for i := 1; i < len(p.Cells); i++ {
				assert.True(t, IsNeighbor(p.Cells[i-1], p.Cells[i]))
			}
		})
	}
}

func TestAStarMatchesDijkstra(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(9, 10))
	o := MustLatticeCoord(0, 0, 0)
	for range 25 {
		v := int32(rng.IntN(9) - 4)
		goal := MustLatticeCoord(2*v, 2*int32(rng.IntN(7)-3), 2*int32(rng.IntN(5)-2))
		if rng.IntN(2) == 1 {
			goal = MustLatticeCoord(goal.X()+1, goal.Y()+1, goal.Z()-1)
		}

		fast, ok := AStar(o, goal, EuclideanCost[LatticeCoord]{})
		require.True(t, ok)
		ref, ok := AStar(o, goal, dijkstraCost{})
		require.True(t, ok)
		assert.InDelta(t, ref.Cost, fast.Cost, 1e-9, "goal %s", goal)
	}
}

func TestAStarBlocked(t *testing.T) {
	t.Parallel()

	o := MustLatticeCoord(0, 0, 0)
	goal := MustLatticeCoord(2, 2, 0)
	blocked := map[LatticeCoord]bool{
		MustLatticeCoord(1, 1, 1):  true,
		MustLatticeCoord(1, 1, -1): true,
	}
	cost := BlockedCost[LatticeCoord]{Blocked: func(c LatticeCoord) bool { return blocked[c] }}

	p, ok := AStar(o, goal, cost)
	require.True(t, ok)
	assert.InDelta(t, 4, p.Cost, 1e-9)
	for _, c := range p.Cells {
		assert.False(t, blocked[c])
	}
}

func TestAStarNoPath(t *testing.T) {
	t.Parallel()

	o := MustLatticeCoord(0, 0, 0)
	goal := MustLatticeCoord(6, 0, 0)

	// walled in goal
	walled := BlockedCost[LatticeCoord]{Blocked: func(c LatticeCoord) bool { return c == goal }}
	_, ok := AStar(o, goal, walled, WithMaxExpansions(500))
	assert.False(t, ok)

	// bounded region exhausts the frontier
	id, err := NewIndex64(0, 0, 0, 0, 0, 0)
	require.NoError(t, err)
	far, err := NewIndex64(0, 0, 0, 3, 3, 3)
	require.NoError(t, err)
	box := BlockedCost[Index64]{Blocked: func(c Index64) bool {
		x, y, z := c.DecodeCoords()
		return max(x, y, z) > 2
	}}
	_, ok = AStar(id, far, box)
	assert.False(t, ok)
}
