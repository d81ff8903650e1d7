package octaindex

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Parity of a BCC lattice point. Every valid point has all coordinates
// even or all coordinates odd.
type Parity uint8

const (
	ParityEven Parity = iota
	ParityOdd
)

func (p Parity) String() string {
	if p == ParityOdd {
		return "odd"
	}
	return "even"
}

// Opposite returns the other parity class.
func (p Parity) Opposite() Parity {
	return p ^ 1
}

// ChildCount is the number of children of a cell under 2:1 BCC refinement.
const ChildCount = 8

// childOffsets are the coset representatives of 2·BCC in BCC. Child i of p
// is 2p + childOffsets[i].
var childOffsets = [ChildCount][3]int64{
	{0, 0, 0},
	{2, 0, 0},
	{0, 2, 0},
	{0, 0, 2},
	{1, 1, 1},
	{3, 1, 1},
	{1, 3, 1},
	{1, 1, 3},
}

// LatticeCoord is a validated point of the BCC lattice.
type LatticeCoord struct {
	x, y, z int32
}

// NewLatticeCoord validates (x, y, z) against the BCC parity rule.
func NewLatticeCoord(x, y, z int32) (LatticeCoord, error) {
	if !IsLatticePoint(int64(x), int64(y), int64(z)) {
		return LatticeCoord{}, &ParityError{X: int64(x), Y: int64(y), Z: int64(z)}
	}
	return LatticeCoord{x: x, y: y, z: z}, nil
}

// MustLatticeCoord is like NewLatticeCoord but panics on invalid input.
// Intended for constants and tests.
func MustLatticeCoord(x, y, z int32) LatticeCoord {
	c, err := NewLatticeCoord(x, y, z)
	if err != nil {
		panic(err)
	}
	return c
}

// IsLatticePoint reports whether x, y and z share the same parity.
func IsLatticePoint(x, y, z int64) bool {
	return x&1 == y&1 && y&1 == z&1
}

func checkParity(x, y, z int64) error {
	if !IsLatticePoint(x, y, z) {
		return &ParityError{X: x, Y: y, Z: z}
	}
	return nil
}

func (c LatticeCoord) X() int32 { return c.x }
func (c LatticeCoord) Y() int32 { return c.y }
func (c LatticeCoord) Z() int32 { return c.z }

// Parity returns the parity class of the point.
func (c LatticeCoord) Parity() Parity {
	return Parity(c.x & 1)
}

// Position returns the point in Cartesian space.
func (c LatticeCoord) Position() r3.Vector {
	return r3.Vector{X: float64(c.x), Y: float64(c.y), Z: float64(c.z)}
}

// DistanceTo returns the Euclidean distance to other.
func (c LatticeCoord) DistanceTo(other LatticeCoord) float64 {
	dx := float64(int64(c.x) - int64(other.x))
	dy := float64(int64(c.y) - int64(other.y))
	dz := float64(int64(c.z) - int64(other.z))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// ManhattanDistanceTo returns the L1 distance to other.
func (c LatticeCoord) ManhattanDistanceTo(other LatticeCoord) int64 {
	return absInt64(int64(c.x)-int64(other.x)) +
		absInt64(int64(c.y)-int64(other.y)) +
		absInt64(int64(c.z)-int64(other.z))
}

func (c LatticeCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.x, c.y, c.z)
}

// Parent returns the unique coarser cell containing c under 2:1
// refinement. It inverts Children exactly.
func (c LatticeCoord) Parent() LatticeCoord {
	x, y, z := int64(c.x), int64(c.y), int64(c.z)
	if x&1 != 0 {
		x, y, z = x-1, y-1, z-1
	}
	hx, hy, hz := x>>1, y>>1, z>>1

	// at most one half-coordinate disagrees with the other two
	px, py, pz := hx&1, hy&1, hz&1
	switch {
	case px == py && py == pz:
	case py == pz:
		hx--
	case px == pz:
		hy--
	default:
		hz--
	}

	return LatticeCoord{x: int32(hx), y: int32(hy), z: int32(hz)} //nolint:gosec
}

// Children returns the 8 finer cells whose parent is c. It fails with a
// RangeError if a child does not fit into int32.
func (c LatticeCoord) Children() ([ChildCount]LatticeCoord, error) {
	var out [ChildCount]LatticeCoord
	for i, off := range childOffsets {
		x := 2*int64(c.x) + off[0]
		y := 2*int64(c.y) + off[1]
		z := 2*int64(c.z) + off[2]
		if err := checkRange3(x, y, z, math.MinInt32, math.MaxInt32); err != nil {
			return out, err
		}
		out[i] = LatticeCoord{x: int32(x), y: int32(y), z: int32(z)} //nolint:gosec
	}
	return out, nil
}

// NearestLatticeCoord returns the lattice point whose Voronoi cell
// contains p. The BCC lattice is the union of the all-even and the
// all-odd cubic sublattices, so the nearest point is the closer of the
// two per-sublattice roundings. Ties resolve to the even point.
func NearestLatticeCoord(p r3.Vector) (LatticeCoord, error) {
	even := r3.Vector{X: roundEven(p.X), Y: roundEven(p.Y), Z: roundEven(p.Z)}
	odd := r3.Vector{X: roundOdd(p.X), Y: roundOdd(p.Y), Z: roundOdd(p.Z)}

	best := even
	if p.Sub(odd).Norm2() < p.Sub(even).Norm2() {
		best = odd
	}

	for _, v := range [3]float64{best.X, best.Y, best.Z} {
		if v < math.MinInt32 || v > math.MaxInt32 || math.IsNaN(v) {
			return LatticeCoord{}, &RangeError{Axis: "position", Value: int64(v), Min: math.MinInt32, Max: math.MaxInt32}
		}
	}

	return LatticeCoord{x: int32(best.X), y: int32(best.Y), z: int32(best.Z)}, nil
}

func roundEven(v float64) float64 {
	return 2 * math.Floor(v/2+0.5)
}

func roundOdd(v float64) float64 {
	return 2*math.Floor(v/2) + 1
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
