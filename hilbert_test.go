package octaindex

import (
	"math/bits"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHilbertKnownValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		x, y, z uint16
		code    uint64
	}{
		{name: "origin", code: 0},
		{name: "(0,1,1)", x: 0, y: 1, z: 1, code: 2},
		{name: "(1,0,1)", x: 1, y: 0, z: 1, code: 4},
		{name: "(1,2,3)", x: 1, y: 2, z: 3, code: 36},
		{name: "(0,0,2)", x: 0, y: 0, z: 2, code: 60},
		{name: "(2,0,0)", x: 2, y: 0, z: 0, code: 8},
		{name: "max corner", x: 0xffff, y: 0xffff, z: 0xffff, code: 189883912860363},
		{name: "last code", x: 0xffff, y: 0, z: 0, code: MaxHilbertCode},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.code, HilbertEncode(tc.x, tc.y, tc.z))
			assert.Equal(t, tc.code, FastHilbertEncode(tc.x, tc.y, tc.z))

			x, y, z := HilbertDecode(tc.code)
			assert.Equal(t, [3]uint16{tc.x, tc.y, tc.z}, [3]uint16{x, y, z})
			x, y, z = FastHilbertDecode(tc.code)
			assert.Equal(t, [3]uint16{tc.x, tc.y, tc.z}, [3]uint16{x, y, z})
		})
	}
}

func TestHilbertRoundtripRandom(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 4))
	for range 50_000 {
		x, y, z := uint16(rng.Uint32()), uint16(rng.Uint32()), uint16(rng.Uint32()) //nolint:gosec
		code := HilbertEncode(x, y, z)
		require.Equal(t, code, FastHilbertEncode(x, y, z))
		require.LessOrEqual(t, code, MaxHilbertCode)

		gx, gy, gz := FastHilbertDecode(code)
		require.Equal(t, [3]uint16{x, y, z}, [3]uint16{gx, gy, gz})
	}
}

// Consecutive codes must be face-adjacent cells of the cubic grid.
func TestHilbertAdjacency(t *testing.T) {
	t.Parallel()

	step := func(code uint64) int {
		ax, ay, az := FastHilbertDecode(code)
		bx, by, bz := FastHilbertDecode(code + 1)
		return absDiff(ax, bx) + absDiff(ay, by) + absDiff(az, bz)
	}

	for code := range uint64(1 << 15) {
		require.Equal(t, 1, step(code), "code %d", code)
	}

	rng := rand.New(rand.NewPCG(5, 6))
	for range 20_000 {
		code := rng.Uint64() % MaxHilbertCode
		require.Equal(t, 1, step(code), "code %d", code)
	}
}

func TestHilbertPrefixIsOctant(t *testing.T) {
	t.Parallel()

	// the first 8 codes fill the unit cube
	var seen [8]bool
	for code := range uint64(8) {
		x, y, z := FastHilbertDecode(code)
		require.LessOrEqual(t, max(x, y, z), uint16(1))
		seen[x|y<<1|z<<2] = true
	}
	assert.Equal(t, [8]bool{true, true, true, true, true, true, true, true}, seen)
}

func TestHilbertReachableStates(t *testing.T) {
	t.Parallel()

	reached := map[uint8]bool{0: true}
	frontier := []uint8{0}
	for len(frontier) > 0 {
		s := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, v := range hilbertEncodeLUT[s] {
			if next := v >> 3; !reached[next] {
				reached[next] = true
				frontier = append(frontier, next)
			}
		}
	}
	assert.Len(t, reached, 12)
}

func TestGrayCode(t *testing.T) {
	t.Parallel()

	for i := range uint8(8) {
		assert.Equal(t, i, grayCodeInverse(grayCode(i)))
		if i > 0 {
			assert.Equal(t, 1, bits.OnesCount8(grayCode(i)^grayCode(i-1)))
		}
	}
	for b := range uint8(8) {
		for r := range uint8(3) {
			assert.Equal(t, b, rotl3(rotr3(b, r), r))
		}
	}
}

func absDiff(a, b uint16) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
