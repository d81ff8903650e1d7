package octaindex

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

const (
	// MaxGalacticLOD is the finest level of detail of a Galactic128.
	MaxGalacticLOD = 63
	// MaxAttrUsr is the largest user attribute nibble.
	MaxAttrUsr = 15

	galacticFormatVersion = 1
)

// Galactic128 is a 128-bit identifier for multi-scale addressing. The
// high word holds the metadata and x, the low word y and z:
//
//	127..120 scale mantissa
//	119..118 scale tier
//	117..112 lod
//	111..104 frame
//	103..100 format version (1)
//	 99..96  user attributes
//	 95..64  x
//	 63..32  y
//	 31..0   z
type Galactic128 struct {
	hi, lo uint64
}

// NewGalactic128 validates field widths and lattice parity.
func NewGalactic128(frame, scaleMant, scaleTier, lod, attrUsr uint8, x, y, z int32) (Galactic128, error) {
	if err := checkField("scale tier", uint64(scaleTier), MaxTier); err != nil {
		return Galactic128{}, err
	}
	if err := checkField("lod", uint64(lod), MaxGalacticLOD); err != nil {
		return Galactic128{}, err
	}
	if err := checkField("attr usr", uint64(attrUsr), MaxAttrUsr); err != nil {
		return Galactic128{}, err
	}
	if err := checkParity(int64(x), int64(y), int64(z)); err != nil {
		return Galactic128{}, err
	}
	return packGalactic128(frame, scaleMant, scaleTier, lod, attrUsr, x, y, z), nil
}

func packGalactic128(frame, scaleMant, scaleTier, lod, attrUsr uint8, x, y, z int32) Galactic128 {
	hi := uint64(scaleMant)<<56 |
		uint64(scaleTier)<<54 |
		uint64(lod)<<48 |
		uint64(frame)<<40 |
		galacticFormatVersion<<36 |
		uint64(attrUsr)<<32 |
		uint64(uint32(x))
	lo := uint64(uint32(y))<<32 | uint64(uint32(z))
	return Galactic128{hi: hi, lo: lo}
}

// Galactic128FromRaw validates format version and parity of a raw value.
func Galactic128FromRaw(hi, lo uint64) (Galactic128, error) {
	g := Galactic128{hi: hi, lo: lo}
	input := fmt.Sprintf("%016x%016x", hi, lo)
	if v := hi >> 36 & 0xf; v != galacticFormatVersion {
		return Galactic128{}, &DecodeError{Input: input, Reason: fmt.Sprintf("unsupported format version %d", v)}
	}
	if err := checkParity(int64(g.X()), int64(g.Y()), int64(g.Z())); err != nil {
		return Galactic128{}, &DecodeError{Input: input, Reason: "invalid coordinates", cause: err}
	}
	return g, nil
}

// Raw returns the high and low words.
func (g Galactic128) Raw() (hi, lo uint64) { return g.hi, g.lo }

func (g Galactic128) ScaleMant() uint8 { return uint8(g.hi >> 56) }         //nolint:gosec
func (g Galactic128) ScaleTier() uint8 { return uint8(g.hi >> 54 & 0x3) }   //nolint:gosec
func (g Galactic128) LOD() uint8       { return uint8(g.hi >> 48 & 0x3f) }  //nolint:gosec
func (g Galactic128) Frame() uint8     { return uint8(g.hi >> 40) }         //nolint:gosec
func (g Galactic128) AttrUsr() uint8   { return uint8(g.hi >> 32 & 0xf) }   //nolint:gosec
func (g Galactic128) X() int32         { return int32(uint32(g.hi)) }       //nolint:gosec
func (g Galactic128) Y() int32         { return int32(uint32(g.lo >> 32)) } //nolint:gosec
func (g Galactic128) Z() int32         { return int32(uint32(g.lo)) }       //nolint:gosec

func (g Galactic128) Coord() LatticeCoord {
	return LatticeCoord{x: g.X(), y: g.Y(), z: g.Z()}
}

func (g Galactic128) Position() r3.Vector {
	return g.Coord().Position()
}

// Neighbors keeps every metadata field and skips neighbors that
// overflow int32.
func (g Galactic128) Neighbors() NeighborSet[Galactic128] {
	return collectNeighbors(int64(g.X()), int64(g.Y()), int64(g.Z()), math.MinInt32, math.MaxInt32,
		func(x, y, z int64) Galactic128 {
			return packGalactic128(g.Frame(), g.ScaleMant(), g.ScaleTier(), g.LOD(), g.AttrUsr(),
				int32(x), int32(y), int32(z)) //nolint:gosec
		})
}

// Bytes returns the big endian 16 byte form.
func (g Galactic128) Bytes() [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], g.hi)
	binary.BigEndian.PutUint64(b[8:], g.lo)
	return b
}

func (g Galactic128) MarshalText() ([]byte, error) {
	b := g.Bytes()
	s, err := encodeBech32m(HRPGalactic128, b[:])
	if err != nil {
		return nil, fmt.Errorf("encoding galactic128: %w", err)
	}
	return []byte(s), nil
}

func (g *Galactic128) UnmarshalText(text []byte) error {
	v, err := ParseGalactic128(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

func (g Galactic128) String() string {
	b, err := g.MarshalText()
	if err != nil {
		return fmt.Sprintf("galactic128(%016x%016x)", g.hi, g.lo)
	}
	return string(b)
}

func ParseGalactic128(s string) (Galactic128, error) {
	b, err := decodeBech32m(HRPGalactic128, s, 16)
	if err != nil {
		return Galactic128{}, err
	}
	return Galactic128FromRaw(binary.BigEndian.Uint64(b[:8]), binary.BigEndian.Uint64(b[8:]))
}
