package octaindex

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/geo/r3"
)

// Hilbert64 shares the Index64 layout with header 0b11 and a Hilbert code
// in the low 48 bits. Sorting by Raw keeps spatially close cells closer
// together than Morton order does.
type Hilbert64 uint64

// NewHilbert64 packs a Hilbert keyed identifier.
func NewHilbert64(frame, tier, lod uint8, x, y, z uint16) (Hilbert64, error) {
	if err := checkTierLOD(tier, lod); err != nil {
		return 0, err
	}
	return Hilbert64(packKey64(headerHilbert64, frame, tier, lod, FastHilbertEncode(x, y, z))), nil
}

// Hilbert64FromRaw validates the header of a raw value.
func Hilbert64FromRaw(raw uint64) (Hilbert64, error) {
	if h := key64(raw).header(); h != headerHilbert64 {
		return 0, &DecodeError{Input: fmt.Sprintf("%#016x", raw), Reason: fmt.Sprintf("header %02b is not Hilbert64", h)}
	}
	return Hilbert64(raw), nil
}

func (h Hilbert64) Raw() uint64     { return uint64(h) }
func (h Hilbert64) Frame() uint8    { return key64(h).frame() }
func (h Hilbert64) Tier() uint8     { return key64(h).tier() }
func (h Hilbert64) LOD() uint8      { return key64(h).lod() }
func (h Hilbert64) Hilbert() uint64 { return key64(h).code() }

func (h Hilbert64) DecodeCoords() (x, y, z uint16) {
	return FastHilbertDecode(h.Hilbert())
}

func (h Hilbert64) Point() Point16 {
	x, y, z := h.DecodeCoords()
	return Point16{X: x, Y: y, Z: z}
}

func (h Hilbert64) Position() r3.Vector {
	return h.Point().Position()
}

func (h Hilbert64) withCoords(x, y, z uint16) Hilbert64 {
	return Hilbert64(packKey64(headerHilbert64, h.Frame(), h.Tier(), h.LOD(), FastHilbertEncode(x, y, z)))
}

func (h Hilbert64) Neighbors() NeighborSet[Hilbert64] {
	x, y, z := h.DecodeCoords()
	return neighbors16(x, y, z, h.withCoords)
}

func (h Hilbert64) Parent() (Hilbert64, error) {
	p, err := key64(h).parent()
	return Hilbert64(p), err
}

func (h Hilbert64) Children() ([ChildCount]Hilbert64, error) {
	var out [ChildCount]Hilbert64
	c, err := key64(h).children()
	if err != nil {
		return out, err
	}
	for n, k := range c {
		out[n] = Hilbert64(k)
	}
	return out, nil
}

// ToIndex64 re-keys the cell by its Morton code.
func (h Hilbert64) ToIndex64() Index64 {
	x, y, z := h.DecodeCoords()
	return Index64(packKey64(headerIndex64, h.Frame(), h.Tier(), h.LOD(), MortonEncode(x, y, z)))
}

func (h Hilbert64) MarshalText() ([]byte, error) {
	s, err := encodeBech32m(HRPHilbert64, key64(h).bytes())
	if err != nil {
		return nil, fmt.Errorf("encoding hilbert64: %w", err)
	}
	return []byte(s), nil
}

func (h *Hilbert64) UnmarshalText(text []byte) error {
	v, err := ParseHilbert64(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func (h Hilbert64) String() string {
	b, err := h.MarshalText()
	if err != nil {
		return fmt.Sprintf("hilbert64(%#016x)", uint64(h))
	}
	return string(b)
}

func ParseHilbert64(s string) (Hilbert64, error) {
	b, err := decodeBech32m(HRPHilbert64, s, 8)
	if err != nil {
		return 0, err
	}
	return Hilbert64FromRaw(binary.BigEndian.Uint64(b))
}
