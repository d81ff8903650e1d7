package octaindex

const (
	// MortonBits is the width of a 3D Morton code over 16-bit axes.
	MortonBits = 48
	// MaxMortonCode is the largest valid 48-bit Morton code.
	MaxMortonCode uint64 = 1<<MortonBits - 1
)

// MortonEncode interleaves x, y and z into a 48-bit Z-order code. Bit 3i
// of the result is bit i of x, bit 3i+1 is bit i of y and bit 3i+2 is
// bit i of z.
func MortonEncode(x, y, z uint16) uint64 {
	return active.mortonEncode(x, y, z)
}

// MortonDecode is the inverse of MortonEncode. Bits above 47 are ignored.
func MortonDecode(code uint64) (x, y, z uint16) {
	return active.mortonDecode(code & MaxMortonCode)
}

// splitBy3 spreads the low 21 bits of v so that bit i lands on bit 3i.
func splitBy3(v uint64) uint64 {
	v &= 0x1fffff
	v = (v | v<<32) & 0x1f00000000ffff
	v = (v | v<<16) & 0x1f0000ff0000ff
	v = (v | v<<8) & 0x100f00f00f00f00f
	v = (v | v<<4) & 0x10c30c30c30c30c3
	v = (v | v<<2) & 0x1249249249249249
	return v
}

// compactBy3 is the inverse of splitBy3.
func compactBy3(v uint64) uint64 {
	v &= 0x1249249249249249
	v = (v ^ (v >> 2)) & 0x10c30c30c30c30c3
	v = (v ^ (v >> 4)) & 0x100f00f00f00f00f
	v = (v ^ (v >> 8)) & 0x1f0000ff0000ff
	v = (v ^ (v >> 16)) & 0x1f00000000ffff
	v = (v ^ (v >> 32)) & 0x1fffff
	return v
}

func mortonEncodeSplit(x, y, z uint16) uint64 {
	return splitBy3(uint64(x)) | splitBy3(uint64(y))<<1 | splitBy3(uint64(z))<<2
}

func mortonDecodeSplit(code uint64) (x, y, z uint16) {
	return uint16(compactBy3(code)), uint16(compactBy3(code >> 1)), uint16(compactBy3(code >> 2)) //nolint:gosec
}

// interleave3x21 interleaves three 21-bit values into a 63-bit code.
func interleave3x21(x, y, z uint64) uint64 {
	return splitBy3(x) | splitBy3(y)<<1 | splitBy3(z)<<2
}

func deinterleave3x21(code uint64) (x, y, z uint64) {
	return compactBy3(code), compactBy3(code >> 1), compactBy3(code >> 2)
}

// mortonEncodeTable maps a byte to its bits spread onto every third bit.
var mortonEncodeTable = buildMortonEncodeTable()

// mortonDecodeTable maps 12 interleaved bits (4 levels) to packed
// x|y<<4|z<<8 nibbles.
var mortonDecodeTable = buildMortonDecodeTable()

func buildMortonEncodeTable() [256]uint64 {
	var t [256]uint64
	for i := range t {
		var v uint64
		for j := range 8 {
			if i&(1<<j) != 0 {
				v |= 1 << (3 * j)
			}
		}
		t[i] = v
	}
	return t
}

func buildMortonDecodeTable() [4096]uint16 {
	var t [4096]uint16
	for i := range t {
		var x, y, z uint16
		for j := range 4 {
			x |= uint16(i>>(3*j)&1) << j   //nolint:gosec
			y |= uint16(i>>(3*j+1)&1) << j //nolint:gosec
			z |= uint16(i>>(3*j+2)&1) << j //nolint:gosec
		}
		t[i] = x | y<<4 | z<<8
	}
	return t
}

func mortonEncodeLUT(x, y, z uint16) uint64 {
	lo := mortonEncodeTable[x&0xff] |
		mortonEncodeTable[y&0xff]<<1 |
		mortonEncodeTable[z&0xff]<<2
	hi := mortonEncodeTable[x>>8] |
		mortonEncodeTable[y>>8]<<1 |
		mortonEncodeTable[z>>8]<<2
	return lo | hi<<24
}

func mortonDecodeLUT(code uint64) (x, y, z uint16) {
	for i := range 4 {
		e := mortonDecodeTable[(code>>(12*i))&0xfff]
		shift := 4 * i
		x |= (e & 0xf) << shift
		y |= (e >> 4 & 0xf) << shift
		z |= (e >> 8 & 0xf) << shift
	}
	return x, y, z
}
