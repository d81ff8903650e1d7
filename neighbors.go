package octaindex

import (
	"iter"
	"math"
)

// NeighborCount is the number of nearest neighbors of a BCC lattice point.
const NeighborCount = 14

// Direction names one of the 14 BCC neighbor offsets.
type Direction uint8

// Neighbor directions in table order: the 8 cube diagonals first, then
// the 6 axis steps.
const (
	DirPPP  Direction = iota // (+1,+1,+1)
	DirPPN                   // (+1,+1,-1)
	DirPNP                   // (+1,-1,+1)
	DirPNN                   // (+1,-1,-1)
	DirNPP                   // (-1,+1,+1)
	DirNPN                   // (-1,+1,-1)
	DirNNP                   // (-1,-1,+1)
	DirNNN                   // (-1,-1,-1)
	DirPosX                  // (+2,0,0)
	DirNegX                  // (-2,0,0)
	DirPosY                  // (0,+2,0)
	DirNegY                  // (0,-2,0)
	DirPosZ                  // (0,0,+2)
	DirNegZ                  // (0,0,-2)
)

var directionOffsets = [NeighborCount][3]int64{
	{1, 1, 1},
	{1, 1, -1},
	{1, -1, 1},
	{1, -1, -1},
	{-1, 1, 1},
	{-1, 1, -1},
	{-1, -1, 1},
	{-1, -1, -1},
	{2, 0, 0},
	{-2, 0, 0},
	{0, 2, 0},
	{0, -2, 0},
	{0, 0, 2},
	{0, 0, -2},
}

var directionNames = [NeighborCount]string{
	"+++", "++-", "+-+", "+--", "-++", "-+-", "--+", "---",
	"+X", "-X", "+Y", "-Y", "+Z", "-Z",
}

// Directions lists all neighbor directions in table order.
var Directions = [NeighborCount]Direction{
	DirPPP, DirPPN, DirPNP, DirPNN, DirNPP, DirNPN, DirNNP, DirNNN,
	DirPosX, DirNegX, DirPosY, DirNegY, DirPosZ, DirNegZ,
}

// Offset returns the lattice step of d.
func (d Direction) Offset() (dx, dy, dz int32) {
	o := directionOffsets[d]
	return int32(o[0]), int32(o[1]), int32(o[2]) //nolint:gosec
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	if d.IsDiagonal() {
		return DirNNN - d
	}
	return d ^ 1
}

// IsDiagonal reports whether d is one of the 8 cube diagonals at
// distance sqrt(3). Axis steps have distance 2.
func (d Direction) IsDiagonal() bool {
	return d < DirPosX
}

// Length returns the Euclidean length of the step.
func (d Direction) Length() float64 {
	if d.IsDiagonal() {
		return math.Sqrt(3)
	}
	return 2
}

func (d Direction) String() string {
	if int(d) >= NeighborCount {
		return "invalid"
	}
	return directionNames[d]
}

// NeighborSet is a fixed capacity set of up to 14 neighbors. Neighbors
// that would fall outside the range of their identifier are left out, so
// Len may be less than NeighborCount near the domain boundary.
type NeighborSet[T any] struct {
	items [NeighborCount]T
	dirs  [NeighborCount]Direction
	n     uint8
}

func (s *NeighborSet[T]) add(d Direction, v T) {
	s.items[s.n] = v
	s.dirs[s.n] = d
	s.n++
}

// Len returns the number of neighbors in the set.
func (s NeighborSet[T]) Len() int {
	return int(s.n)
}

// At returns the i-th neighbor. It panics if i is out of range.
func (s NeighborSet[T]) At(i int) T {
	if i >= int(s.n) {
		panic("octaindex: neighbor index out of range")
	}
	return s.items[i]
}

// DirectionAt returns the direction of the i-th neighbor.
func (s NeighborSet[T]) DirectionAt(i int) Direction {
	if i >= int(s.n) {
		panic("octaindex: neighbor index out of range")
	}
	return s.dirs[i]
}

// Get returns the neighbor in direction d, if it is in range.
func (s NeighborSet[T]) Get(d Direction) (T, bool) {
	for i := range int(s.n) {
		if s.dirs[i] == d {
			return s.items[i], true
		}
	}
	var zero T
	return zero, false
}

// All iterates over the neighbors in table order.
func (s NeighborSet[T]) All() iter.Seq2[Direction, T] {
	return func(yield func(Direction, T) bool) {
		for i := range int(s.n) {
			if !yield(s.dirs[i], s.items[i]) {
				return
			}
		}
	}
}

// Slice copies the neighbors into a new slice.
func (s NeighborSet[T]) Slice() []T {
	out := make([]T, s.n)
	copy(out, s.items[:s.n])
	return out
}

// collectNeighbors applies the offset table to (x, y, z) and keeps every
// result whose coordinates lie within [lo, hi].
func collectNeighbors[T any](x, y, z, lo, hi int64, build func(x, y, z int64) T) NeighborSet[T] {
	var s NeighborSet[T]
	for d, o := range directionOffsets {
		nx, ny, nz := x+o[0], y+o[1], z+o[2]
		if nx < lo || nx > hi || ny < lo || ny > hi || nz < lo || nz > hi {
			continue
		}
		s.add(Direction(d), build(nx, ny, nz)) //nolint:gosec
	}
	return s
}

// Neighbors returns the 14 nearest lattice points, minus any that
// overflow int32.
func (c LatticeCoord) Neighbors() NeighborSet[LatticeCoord] {
	return collectNeighbors(int64(c.x), int64(c.y), int64(c.z), math.MinInt32, math.MaxInt32,
		func(x, y, z int64) LatticeCoord {
			return LatticeCoord{x: int32(x), y: int32(y), z: int32(z)} //nolint:gosec
		})
}

// IsNeighbor reports whether a and b are one lattice step apart.
func IsNeighbor(a, b LatticeCoord) bool {
	dx := absInt64(int64(a.x) - int64(b.x))
	dy := absInt64(int64(a.y) - int64(b.y))
	dz := absInt64(int64(a.z) - int64(b.z))
	switch {
	case dx == 1 && dy == 1 && dz == 1:
		return true
	case dx+dy+dz == 2 && (dx == 2 || dy == 2 || dz == 2):
		return true
	default:
		return false
	}
}
