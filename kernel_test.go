package octaindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKernel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Kernel
		ok   bool
	}{
		{in: "lut", want: KernelLUT, ok: true},
		{in: " LUT ", want: KernelLUT, ok: true},
		{in: "split", want: KernelSplit, ok: true},
		{in: "bmi2", want: KernelSplit, ok: true},
		{in: "neon", want: KernelSplit, ok: true},
		{in: "avx512", want: KernelLUT, ok: false},
		{in: "", want: KernelLUT, ok: false},
	}
	for _, tc := range tests {
		got, ok := ParseKernel(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
	assert.Equal(t, "unknown", Kernel(9).String())
}

// Not parallel: swaps the package level kernel.
func TestKernelOverride(t *testing.T) {
	prevActive, prevOverride := active, hasOverride
	t.Cleanup(func() { active, hasOverride = prevActive, prevOverride })

	t.Setenv(KernelEnv, "lut")
	initKernel()
	assert.Equal(t, KernelLUT, ActiveKernel())
	assert.True(t, KernelOverridden())
	assert.Equal(t, uint64(7), MortonEncode(1, 1, 1))

	t.Setenv(KernelEnv, "split")
	initKernel()
	assert.Equal(t, KernelSplit, ActiveKernel())

	t.Setenv(KernelEnv, "bogus")
	hasOverride = false
	initKernel()
	assert.False(t, KernelOverridden())
	assert.Equal(t, selectKernel(), ActiveKernel())
}

func TestSelectKernel(t *testing.T) {
	prevBMI2, prevASIMD := hasBMI2, hasASIMD
	t.Cleanup(func() { hasBMI2, hasASIMD = prevBMI2, prevASIMD })

	hasBMI2, hasASIMD = false, false
	assert.Equal(t, KernelLUT, selectKernel())
	hasBMI2 = true
	assert.Equal(t, KernelSplit, selectKernel())
	hasBMI2, hasASIMD = false, true
	assert.Equal(t, KernelSplit, selectKernel())
}
