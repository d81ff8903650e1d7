package octaindex

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/geo/r3"
)

const (
	// MinCellCoord and MaxCellCoord bound each CellID axis (24-bit signed).
	MinCellCoord = -1 << 23
	MaxCellCoord = 1<<23 - 1
	// MaxResolution is the finest CellID resolution.
	MaxResolution = 255
	// MaxExponent and MaxFlags are the largest 4-bit field values.
	MaxExponent = 15
	MaxFlags    = 15

	crc8Poly = 0x07
)

// CellID is a checksummed 128-bit cell identifier. lo holds bits 0..63
// and hi bits 64..127:
//
//	  7..0   frame
//	 15..8   resolution
//	 19..16  exponent
//	 23..20  flags
//	 47..24  reserved
//	 71..48  x (24-bit signed)
//	 95..72  y (24-bit signed)
//	119..96  z (24-bit signed)
//	127..120 CRC-8 of bytes 0..14 in little endian order
type CellID struct {
	hi, lo uint64
}

// NewCellID validates every field and the lattice parity of (x, y, z).
func NewCellID(frame, resolution uint8, x, y, z int32, exponent, flags uint8) (CellID, error) {
	if err := checkField("exponent", uint64(exponent), MaxExponent); err != nil {
		return CellID{}, err
	}
	if err := checkField("flags", uint64(flags), MaxFlags); err != nil {
		return CellID{}, err
	}
	if err := checkRange3(int64(x), int64(y), int64(z), MinCellCoord, MaxCellCoord); err != nil {
		return CellID{}, err
	}
	if err := checkParity(int64(x), int64(y), int64(z)); err != nil {
		return CellID{}, err
	}
	return packCellID(frame, resolution, exponent, flags, x, y, z), nil
}

// CellIDFromCoord builds a CellID with zero exponent and flags.
func CellIDFromCoord(frame, resolution uint8, c LatticeCoord) (CellID, error) {
	return NewCellID(frame, resolution, c.x, c.y, c.z, 0, 0)
}

func packCellID(frame, resolution, exponent, flags uint8, x, y, z int32) CellID {
	ux := uint64(uint32(x)) & 0xffffff
	uy := uint64(uint32(y)) & 0xffffff
	uz := uint64(uint32(z)) & 0xffffff

	lo := uint64(frame) |
		uint64(resolution)<<8 |
		uint64(exponent)<<16 |
		uint64(flags)<<20 |
		ux<<48
	hi := ux>>16 | uy<<8 | uz<<32

	c := CellID{hi: hi, lo: lo}
	c.hi |= uint64(c.checksum()) << 56
	return c
}

// checksum computes the CRC-8 over the 15 low bytes.
func (c CellID) checksum() uint8 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], c.lo)
	binary.LittleEndian.PutUint64(b[8:], c.hi)
	return crc8(b[:15])
}

func crc8(data []byte) uint8 {
	var crc uint8
	for _, v := range data {
		crc ^= v
		for range 8 {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ crc8Poly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// CellIDFromBytes decodes the big endian form, verifying the checksum
// and the lattice parity.
func CellIDFromBytes(b [16]byte) (CellID, error) {
	c := CellID{hi: binary.BigEndian.Uint64(b[:8]), lo: binary.BigEndian.Uint64(b[8:])}
	if got, want := c.Checksum(), c.checksum(); got != want {
		return CellID{}, &DecodeError{Input: fmt.Sprintf("%x", b), Reason: fmt.Sprintf("checksum mismatch: got %#02x, want %#02x", got, want)}
	}
	if err := checkParity(int64(c.X()), int64(c.Y()), int64(c.Z())); err != nil {
		return CellID{}, &DecodeError{Input: fmt.Sprintf("%x", b), Reason: "invalid coordinates", cause: err}
	}
	return c, nil
}

// Bytes returns the big endian 16 byte form.
func (c CellID) Bytes() [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], c.hi)
	binary.BigEndian.PutUint64(b[8:], c.lo)
	return b
}

// Raw returns the high and low words.
func (c CellID) Raw() (hi, lo uint64) { return c.hi, c.lo }

func (c CellID) Frame() uint8      { return uint8(c.lo) }             //nolint:gosec
func (c CellID) Resolution() uint8 { return uint8(c.lo >> 8) }        //nolint:gosec
func (c CellID) Exponent() uint8   { return uint8(c.lo >> 16 & 0xf) } //nolint:gosec
func (c CellID) Flags() uint8      { return uint8(c.lo >> 20 & 0xf) } //nolint:gosec
func (c CellID) Checksum() uint8   { return uint8(c.hi >> 56) }       //nolint:gosec

func (c CellID) X() int32 { return signExtend24((c.lo>>48 | c.hi<<16) & 0xffffff) }
func (c CellID) Y() int32 { return signExtend24(c.hi >> 8 & 0xffffff) }
func (c CellID) Z() int32 { return signExtend24(c.hi >> 32 & 0xffffff) }

func signExtend24(v uint64) int32 {
	return int32(uint32(v)<<8) >> 8 //nolint:gosec
}

// Coord returns the lattice coordinate of the cell.
func (c CellID) Coord() LatticeCoord {
	return LatticeCoord{x: c.X(), y: c.Y(), z: c.Z()}
}

func (c CellID) Position() r3.Vector {
	return c.Coord().Position()
}

func (c CellID) withCoord(resolution uint8, x, y, z int64) CellID {
	return packCellID(c.Frame(), resolution, c.Exponent(), c.Flags(), int32(x), int32(y), int32(z)) //nolint:gosec
}

// Neighbors returns the BCC neighbors that fit in 24 bits.
func (c CellID) Neighbors() NeighborSet[CellID] {
	res := c.Resolution()
	return collectNeighbors(int64(c.X()), int64(c.Y()), int64(c.Z()), MinCellCoord, MaxCellCoord,
		func(x, y, z int64) CellID {
			return c.withCoord(res, x, y, z)
		})
}

// Parent returns the enclosing cell one resolution coarser.
func (c CellID) Parent() (CellID, error) {
	res := c.Resolution()
	if res == 0 {
		return CellID{}, ErrNoParent
	}
	p := c.Coord().Parent()
	return c.withCoord(res-1, int64(p.x), int64(p.y), int64(p.z)), nil
}

// Children returns the 8 cells one resolution finer. It fails at the
// finest resolution and when a child would not fit in 24 bits.
func (c CellID) Children() ([ChildCount]CellID, error) {
	var out [ChildCount]CellID
	res := c.Resolution()
	if res == MaxResolution {
		return out, ErrNoChildren
	}
	coords, err := c.Coord().Children()
	if err != nil {
		return out, err
	}
	for i, k := range coords {
		if err := checkRange3(int64(k.x), int64(k.y), int64(k.z), MinCellCoord, MaxCellCoord); err != nil {
			return out, fmt.Errorf("child %d: %w", i, err)
		}
		out[i] = c.withCoord(res+1, int64(k.x), int64(k.y), int64(k.z))
	}
	return out, nil
}

func (c CellID) MarshalText() ([]byte, error) {
	b := c.Bytes()
	s, err := encodeBech32m(HRPCellID, b[:])
	if err != nil {
		return nil, fmt.Errorf("encoding cell id: %w", err)
	}
	return []byte(s), nil
}

func (c *CellID) UnmarshalText(text []byte) error {
	v, err := ParseCellID(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c CellID) String() string {
	b, err := c.MarshalText()
	if err != nil {
		return fmt.Sprintf("cellid(%016x%016x)", c.hi, c.lo)
	}
	return string(b)
}

// ParseCellID decodes the Bech32m text form of a CellID.
func ParseCellID(s string) (CellID, error) {
	b, err := decodeBech32m(HRPCellID, s, 16)
	if err != nil {
		return CellID{}, err
	}
	return CellIDFromBytes([16]byte(b))
}
