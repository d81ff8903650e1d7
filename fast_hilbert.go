package octaindex

// hilbertStates is the number of (entry, direction) pairs. Only 12 are
// reachable from the initial state but the table covers all of them.
const hilbertStates = 8 * 3

// Each entry packs the 3-bit output in the low bits and the next state
// above them: out | next<<3.
var (
	hilbertEncodeLUT = buildHilbertLUT(hilbertStep)
	hilbertDecodeLUT = buildHilbertLUT(hilbertStepInverse)
)

func buildHilbertLUT(step func(e, d, in uint8) (out, ne, nd uint8)) [hilbertStates][8]uint8 {
	var t [hilbertStates][8]uint8
	for e := range uint8(8) {
		for d := range uint8(3) {
			for in := range uint8(8) {
				out, ne, nd := step(e, d, in)
				t[e*3+d][in] = out | (ne*3+nd)<<3
			}
		}
	}
	return t
}

// FastHilbertEncode is a table driven HilbertEncode.
func FastHilbertEncode(x, y, z uint16) uint64 {
	var (
		code  uint64
		state uint8
	)
	for i := HilbertLevels - 1; i >= 0; i-- {
		// row index: 3 bits = [z_i] [y_i] [x_i]
		l := x>>i&1 | (y>>i&1)<<1 | (z>>i&1)<<2
		v := hilbertEncodeLUT[state][l]
		code = code<<3 | uint64(v&7)
		state = v >> 3
	}
	return code
}

// FastHilbertDecode is a table driven HilbertDecode.
func FastHilbertDecode(code uint64) (x, y, z uint16) {
	var state uint8
	for i := HilbertLevels - 1; i >= 0; i-- {
		v := hilbertDecodeLUT[state][code>>(3*i)&7]
		x = x<<1 | uint16(v&1)
		y = y<<1 | uint16(v>>1&1)
		z = z<<1 | uint16(v>>2&1)
		state = v >> 3
	}
	return x, y, z
}
