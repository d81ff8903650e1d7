package octaindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKRingSizes(t *testing.T) {
	t.Parallel()

	center := MustLatticeCoord(1, -3, 5)
	ringSizes := []int{1, 15, 65, 175, 369}
	shellSizes := []int{1, 14, 50, 110, 194}

	for k := range ringSizes {
		ring := KRing(center, k)
		assert.Len(t, ring, ringSizes[k], "k=%d", k)
		assert.Equal(t, center, ring[0])
		assert.Len(t, KShell(center, k), shellSizes[k], "k=%d", k)
	}
	assert.Nil(t, KRing(center, -1))
	assert.Nil(t, KShell(center, -1))
	assert.Equal(t, []LatticeCoord{center}, KShell(center, 0))
}

func TestKShellIsRingDifference(t *testing.T) {
	t.Parallel()

	center := MustLatticeCoord(0, 0, 0)
	for k := 1; k <= 4; k++ {
		inner := map[LatticeCoord]bool{}
		for _, c := range KRing(center, k-1) {
			inner[c] = true
		}
		outer := KRing(center, k)
		var diff []LatticeCoord
		for _, c := range outer {
			if !inner[c] {
				diff = append(diff, c)
			}
		}
		assert.ElementsMatch(t, diff, KShell(center, k), "k=%d", k)

		// monotone: every inner cell is in the larger ring
		for c := range inner {
			assert.Contains(t, outer, c)
		}
	}
}

func TestKRingUnique(t *testing.T) {
	t.Parallel()

	r, err := NewRoute64(1, 10, 10, 10)
	require.NoError(t, err)
	ring := KRing(r, 3)
	seen := map[Route64]bool{}
	for _, c := range ring {
		require.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
		assert.Equal(t, uint8(1), c.Tier())
	}
	assert.Len(t, ring, 175)
}

func TestKRingAtBoundary(t *testing.T) {
	t.Parallel()

	id, err := NewIndex64(0, 0, 4, 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, KRing(id, 1), 5)
}
