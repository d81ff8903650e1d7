package octaindex

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/geo/r3"
)

// Shared layout of the 64-bit identifiers.
const (
	headerShift = 62
	tierShift   = 60
	frameShift  = 52
	lodShift    = 48

	headerRoute64   = 0b01
	headerIndex64   = 0b10
	headerHilbert64 = 0b11

	// MaxTier is the largest scale tier of the 64-bit identifiers.
	MaxTier = 3
	// MaxLOD is the finest level of detail of Index64 and Hilbert64.
	MaxLOD = 15
)

func checkTierLOD(tier, lod uint8) error {
	if err := checkField("tier", uint64(tier), MaxTier); err != nil {
		return err
	}
	return checkField("lod", uint64(lod), MaxLOD)
}

func packKey64(header uint64, frame, tier, lod uint8, code uint64) uint64 {
	return header<<headerShift |
		uint64(tier)<<tierShift |
		uint64(frame)<<frameShift |
		uint64(lod)<<lodShift |
		code&MaxMortonCode
}

// key64 is the decoded form of an Index64 or Hilbert64.
type key64 uint64

func (k key64) header() uint64 { return uint64(k) >> headerShift }
func (k key64) tier() uint8    { return uint8(uint64(k) >> tierShift & 0x3) }   //nolint:gosec
func (k key64) frame() uint8   { return uint8(uint64(k) >> frameShift & 0xff) } //nolint:gosec
func (k key64) lod() uint8     { return uint8(uint64(k) >> lodShift & 0xf) }    //nolint:gosec
func (k key64) code() uint64   { return uint64(k) & MaxMortonCode }

// parent drops the finest octant of the code.
func (k key64) parent() (key64, error) {
	lod := k.lod()
	if lod == 0 {
		return 0, ErrNoParent
	}
	return key64(packKey64(k.header(), k.frame(), k.tier(), lod-1, k.code()>>3)), nil
}

func (k key64) children() ([ChildCount]key64, error) {
	var out [ChildCount]key64
	lod := k.lod()
	if lod >= MaxLOD {
		return out, ErrNoChildren
	}
	base := k.code() << 3
	for i := range out {
		out[i] = key64(packKey64(k.header(), k.frame(), k.tier(), lod+1, base|uint64(i)))
	}
	return out, nil
}

func (k key64) bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// Point16 is an unsigned coordinate triple as stored in 48-bit codes.
type Point16 struct {
	X, Y, Z uint16
}

func (p Point16) Position() r3.Vector {
	return r3.Vector{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}

func neighbors16[T any](x, y, z uint16, build func(x, y, z uint16) T) NeighborSet[T] {
	return collectNeighbors(int64(x), int64(y), int64(z), 0, 0xffff,
		func(x, y, z int64) T {
			return build(uint16(x), uint16(y), uint16(z)) //nolint:gosec
		})
}

// Index64 is a 64-bit Morton keyed cell identifier:
//
//	63..62 header (0b10)
//	61..60 tier
//	59..52 frame
//	51..48 lod
//	47..0  Morton code of (x, y, z)
type Index64 uint64

// NewIndex64 packs a Morton keyed identifier. Fields that exceed their
// bit width are rejected with a FieldError.
func NewIndex64(frame, tier, lod uint8, x, y, z uint16) (Index64, error) {
	if err := checkTierLOD(tier, lod); err != nil {
		return 0, err
	}
	return Index64(packKey64(headerIndex64, frame, tier, lod, MortonEncode(x, y, z))), nil
}

// Index64FromRaw validates the header of a raw value.
func Index64FromRaw(raw uint64) (Index64, error) {
	if h := key64(raw).header(); h != headerIndex64 {
		return 0, &DecodeError{Input: fmt.Sprintf("%#016x", raw), Reason: fmt.Sprintf("header %02b is not Index64", h)}
	}
	return Index64(raw), nil
}

func (i Index64) Raw() uint64    { return uint64(i) }
func (i Index64) Frame() uint8   { return key64(i).frame() }
func (i Index64) Tier() uint8    { return key64(i).tier() }
func (i Index64) LOD() uint8     { return key64(i).lod() }
func (i Index64) Morton() uint64 { return key64(i).code() }

// DecodeCoords returns the coordinates packed into the Morton code.
func (i Index64) DecodeCoords() (x, y, z uint16) {
	return MortonDecode(i.Morton())
}

func (i Index64) Point() Point16 {
	x, y, z := i.DecodeCoords()
	return Point16{X: x, Y: y, Z: z}
}

func (i Index64) Position() r3.Vector {
	return i.Point().Position()
}

// withCoords re-keys i at (x, y, z), keeping frame, tier and lod.
func (i Index64) withCoords(x, y, z uint16) Index64 {
	return Index64(packKey64(headerIndex64, i.Frame(), i.Tier(), i.LOD(), MortonEncode(x, y, z)))
}

// Neighbors applies the BCC offset table to the decoded coordinates.
// Neighbors outside [0, 65535] are skipped.
func (i Index64) Neighbors() NeighborSet[Index64] {
	x, y, z := i.DecodeCoords()
	return neighbors16(x, y, z, i.withCoords)
}

// Parent returns the enclosing octree cell one level coarser.
func (i Index64) Parent() (Index64, error) {
	p, err := key64(i).parent()
	return Index64(p), err
}

// Children returns the 8 octree cells one level finer.
func (i Index64) Children() ([ChildCount]Index64, error) {
	var out [ChildCount]Index64
	c, err := key64(i).children()
	if err != nil {
		return out, err
	}
	for n, k := range c {
		out[n] = Index64(k)
	}
	return out, nil
}

// ToHilbert64 re-keys the cell by its Hilbert code.
func (i Index64) ToHilbert64() Hilbert64 {
	x, y, z := i.DecodeCoords()
	return Hilbert64(packKey64(headerHilbert64, i.Frame(), i.Tier(), i.LOD(), FastHilbertEncode(x, y, z)))
}

func (i Index64) MarshalText() ([]byte, error) {
	s, err := encodeBech32m(HRPIndex64, key64(i).bytes())
	if err != nil {
		return nil, fmt.Errorf("encoding index64: %w", err)
	}
	return []byte(s), nil
}

func (i *Index64) UnmarshalText(text []byte) error {
	v, err := ParseIndex64(string(text))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

func (i Index64) String() string {
	b, err := i.MarshalText()
	if err != nil {
		return fmt.Sprintf("index64(%#016x)", uint64(i))
	}
	return string(b)
}

// ParseIndex64 decodes the Bech32m text form of an Index64.
func ParseIndex64(s string) (Index64, error) {
	b, err := decodeBech32m(HRPIndex64, s, 8)
	if err != nil {
		return 0, err
	}
	return Index64FromRaw(binary.BigEndian.Uint64(b))
}
