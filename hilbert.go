package octaindex

// HilbertLevels is the number of octree levels covered by a 48-bit
// Hilbert code over 16-bit axes.
const HilbertLevels = 16

// MaxHilbertCode is the largest valid 48-bit Hilbert code.
const MaxHilbertCode = MaxMortonCode

// Entry point and intra-subcube direction per Hilbert digit. Together
// with the running (entry, direction) state they orient each octant so
// that consecutive digits stay face adjacent.
var (
	hilbertEntry     = [8]uint8{0, 0, 0, 3, 3, 6, 6, 5}
	hilbertDirection = [8]uint8{0, 1, 1, 2, 2, 1, 1, 0}
)

func rotr3(b, r uint8) uint8 {
	r %= 3
	return (b>>r | b<<(3-r)) & 7
}

func rotl3(b, r uint8) uint8 {
	r %= 3
	return (b<<r | b>>(3-r)) & 7
}

func grayCode(i uint8) uint8 {
	return i ^ i>>1
}

func grayCodeInverse(g uint8) uint8 {
	g ^= g >> 1
	g ^= g >> 2
	return g
}

// hilbertStep maps the octant bits l (bit0 x, bit1 y, bit2 z) of one
// level to its Hilbert digit and advances the state.
func hilbertStep(e, d, l uint8) (w, ne, nd uint8) {
	w = grayCodeInverse(rotr3(l^e, d+1))
	ne = e ^ rotl3(hilbertEntry[w], d+1)
	nd = (d + hilbertDirection[w] + 1) % 3
	return w, ne, nd
}

// hilbertStepInverse maps one Hilbert digit back to its octant bits.
func hilbertStepInverse(e, d, w uint8) (l, ne, nd uint8) {
	l = rotl3(grayCode(w), d+1) ^ e
	ne = e ^ rotl3(hilbertEntry[w], d+1)
	nd = (d + hilbertDirection[w] + 1) % 3
	return l, ne, nd
}

// HilbertEncode maps (x, y, z) to its position along a 3D Hilbert curve
// of order 16. This is the reference implementation; FastHilbertEncode
// returns identical codes.
func HilbertEncode(x, y, z uint16) uint64 {
	var (
		code uint64
		e, d uint8
	)
	for i := HilbertLevels - 1; i >= 0; i-- {
		l := uint8(x>>i&1 | (y>>i&1)<<1 | (z>>i&1)<<2) //nolint:gosec
		var w uint8
		w, e, d = hilbertStep(e, d, l)
		code = code<<3 | uint64(w)
	}
	return code
}

// HilbertDecode is the inverse of HilbertEncode. Bits above 47 are ignored.
func HilbertDecode(code uint64) (x, y, z uint16) {
	var e, d uint8
	for i := HilbertLevels - 1; i >= 0; i-- {
		w := uint8(code >> (3 * i) & 7) //nolint:gosec
		var l uint8
		l, e, d = hilbertStepInverse(e, d, w)
		x |= uint16(l&1) << i
		y |= uint16(l>>1&1) << i
		z |= uint16(l>>2&1) << i
	}
	return x, y, z
}
