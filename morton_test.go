package octaindex

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMortonKnownValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		x, y, z uint16
		code    uint64
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 1},
		{0, 1, 0, 2},
		{0, 0, 1, 4},
		{1, 1, 1, 7},
		{2, 0, 0, 8},
		{3, 5, 6, 0b110_101_011},
		{0xffff, 0xffff, 0xffff, MaxMortonCode},
	}
	for _, tc := range tests {
		for _, k := range kernels {
			assert.Equal(t, tc.code, k.mortonEncode(tc.x, tc.y, tc.z), "%s encode %v", k.kernel, tc)
			x, y, z := k.mortonDecode(tc.code)
			assert.Equal(t, [3]uint16{tc.x, tc.y, tc.z}, [3]uint16{x, y, z}, "%s decode %v", k.kernel, tc)
		}
	}
}

func TestMortonKernelsAgree(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	for range 100_000 {
		x, y, z := uint16(rng.Uint32()), uint16(rng.Uint32()), uint16(rng.Uint32()) //nolint:gosec
		lut := mortonEncodeLUT(x, y, z)
		require.Equal(t, lut, mortonEncodeSplit(x, y, z))
		require.LessOrEqual(t, lut, uint64(MaxMortonCode))

		code := rng.Uint64() & MaxMortonCode
		lx, ly, lz := mortonDecodeLUT(code)
		sx, sy, sz := mortonDecodeSplit(code)
		require.Equal(t, [3]uint16{lx, ly, lz}, [3]uint16{sx, sy, sz})
		require.Equal(t, code, MortonEncode(lx, ly, lz))
	}
}

func TestInterleave3x21(t *testing.T) {
	t.Parallel()

	const max21 = 1<<21 - 1
	for _, v := range [][3]uint64{{0, 0, 0}, {max21, 0, 0}, {0, max21, 0}, {max21, max21, max21}, {12345, 678910, 1 << 20}} {
		code := interleave3x21(v[0], v[1], v[2])
		x, y, z := deinterleave3x21(code)
		assert.Equal(t, v, [3]uint64{x, y, z})
	}
	assert.Equal(t, uint64(1<<63-1), interleave3x21(max21, max21, max21))
}

func TestMortonLocality(t *testing.T) {
	t.Parallel()

	// the 8 points of a 2x2x2 block are consecutive codes
	base := MortonEncode(4, 6, 2)
	for dx := range uint16(2) {
		for dy := range uint16(2) {
			for dz := range uint16(2) {
				c := MortonEncode(4+dx, 6+dy, 2+dz)
				assert.Less(t, c-base, uint64(8))
			}
		}
	}
}
