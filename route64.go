package octaindex

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/geo/r3"
)

const (
	route64CoordBits = 20
	route64Bias      = 1 << (route64CoordBits - 1)

	// MinRouteCoord and MaxRouteCoord bound each Route64 axis.
	MinRouteCoord = -route64Bias
	MaxRouteCoord = route64Bias - 1

	route64CodeMask = 1<<(3*route64CoordBits) - 1
)

// Route64 is a 64-bit identifier over signed BCC coordinates, used as the
// primary cell key for routing:
//
//	63..62 header (0b01)
//	61..60 tier
//	59..0  Morton interleave of x+2^19, y+2^19, z+2^19 (20 bits each)
//
// The offset encoding keeps raw values in Z-order across the origin.
type Route64 uint64

// NewRoute64 validates tier, range and parity before packing.
func NewRoute64(tier uint8, x, y, z int32) (Route64, error) {
	if err := checkField("tier", uint64(tier), MaxTier); err != nil {
		return 0, err
	}
	if err := checkRange3(int64(x), int64(y), int64(z), MinRouteCoord, MaxRouteCoord); err != nil {
		return 0, err
	}
	if err := checkParity(int64(x), int64(y), int64(z)); err != nil {
		return 0, err
	}
	return packRoute64(tier, int64(x), int64(y), int64(z)), nil
}

// RouteFromCoord packs a lattice coordinate.
func RouteFromCoord(tier uint8, c LatticeCoord) (Route64, error) {
	return NewRoute64(tier, c.x, c.y, c.z)
}

func packRoute64(tier uint8, x, y, z int64) Route64 {
	code := interleave3x21(uint64(x+route64Bias), uint64(y+route64Bias), uint64(z+route64Bias)) //nolint:gosec
	return Route64(headerRoute64<<headerShift | uint64(tier)<<tierShift | code&route64CodeMask)
}

// Route64FromRaw validates header and parity of a raw value.
func Route64FromRaw(raw uint64) (Route64, error) {
	r := Route64(raw)
	if h := raw >> headerShift; h != headerRoute64 {
		return 0, &DecodeError{Input: fmt.Sprintf("%#016x", raw), Reason: fmt.Sprintf("header %02b is not Route64", h)}
	}
	x, y, z := r.coords()
	if err := checkParity(x, y, z); err != nil {
		return 0, &DecodeError{Input: fmt.Sprintf("%#016x", raw), Reason: "invalid coordinates", cause: err}
	}
	return r, nil
}

func (r Route64) coords() (x, y, z int64) {
	ux, uy, uz := deinterleave3x21(uint64(r) & route64CodeMask)
	return int64(ux) - route64Bias, int64(uy) - route64Bias, int64(uz) - route64Bias //nolint:gosec
}

func (r Route64) Raw() uint64 { return uint64(r) }

func (r Route64) Tier() uint8 { return uint8(uint64(r) >> tierShift & 0x3) } //nolint:gosec

func (r Route64) X() int32 { return r.Coord().x }
func (r Route64) Y() int32 { return r.Coord().y }
func (r Route64) Z() int32 { return r.Coord().z }

// Coord returns the lattice coordinate of the cell.
func (r Route64) Coord() LatticeCoord {
	x, y, z := r.coords()
	return LatticeCoord{x: int32(x), y: int32(y), z: int32(z)} //nolint:gosec
}

func (r Route64) Position() r3.Vector {
	return r.Coord().Position()
}

// Neighbors returns the BCC neighbors that stay inside the 20-bit range.
func (r Route64) Neighbors() NeighborSet[Route64] {
	x, y, z := r.coords()
	tier := r.Tier()
	return collectNeighbors(x, y, z, MinRouteCoord, MaxRouteCoord,
		func(x, y, z int64) Route64 {
			return packRoute64(tier, x, y, z)
		})
}

func (r Route64) MarshalText() ([]byte, error) {
	s, err := encodeBech32m(HRPRoute64, binary.BigEndian.AppendUint64(nil, uint64(r)))
	if err != nil {
		return nil, fmt.Errorf("encoding route64: %w", err)
	}
	return []byte(s), nil
}

func (r *Route64) UnmarshalText(text []byte) error {
	v, err := ParseRoute64(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (r Route64) String() string {
	b, err := r.MarshalText()
	if err != nil {
		return fmt.Sprintf("route64(%#016x)", uint64(r))
	}
	return string(b)
}

// ParseRoute64 decodes the Bech32m text form of a Route64.
func ParseRoute64(s string) (Route64, error) {
	b, err := decodeBech32m(HRPRoute64, s, 8)
	if err != nil {
		return 0, err
	}
	return Route64FromRaw(binary.BigEndian.Uint64(b))
}
