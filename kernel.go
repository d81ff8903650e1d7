package octaindex

import (
	"os"
	"strings"
)

// Kernel identifies a Morton codec implementation. All kernels produce
// bit-identical results.
type Kernel uint8

const (
	// KernelLUT uses byte-wide lookup tables.
	KernelLUT Kernel = iota
	// KernelSplit uses branchless split-by-3 magic masks.
	KernelSplit
)

// KernelEnv names the environment variable that overrides kernel selection.
const KernelEnv = "OCTAINDEX_KERNEL"

func (k Kernel) String() string {
	switch k {
	case KernelLUT:
		return "lut"
	case KernelSplit:
		return "split"
	default:
		return "unknown"
	}
}

// ParseKernel parses a kernel name as accepted by OCTAINDEX_KERNEL.
func ParseKernel(s string) (Kernel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lut":
		return KernelLUT, true
	case "split", "bmi2", "neon":
		return KernelSplit, true
	default:
		return KernelLUT, false
	}
}

type codec struct {
	kernel       Kernel
	mortonEncode func(x, y, z uint16) uint64
	mortonDecode func(code uint64) (x, y, z uint16)
}

var kernels = [...]codec{
	KernelLUT:   {kernel: KernelLUT, mortonEncode: mortonEncodeLUT, mortonDecode: mortonDecodeLUT},
	KernelSplit: {kernel: KernelSplit, mortonEncode: mortonEncodeSplit, mortonDecode: mortonDecodeSplit},
}

// Set once from the platform init; read-only afterwards.
var (
	active      = &kernels[KernelSplit]
	hasOverride bool

	hasBMI2  bool // x86-64
	hasASIMD bool // arm64
)

// initKernel runs from the platform-specific init after feature detection.
func initKernel() {
	if override := os.Getenv(KernelEnv); override != "" {
		if k, ok := ParseKernel(override); ok {
			hasOverride = true
			active = &kernels[k]
			return
		}
	}
	active = &kernels[selectKernel()]
}

// selectKernel prefers the split kernel where the CPU has fast variable
// shifts (BMI2, ASIMD) and falls back to the byte tables elsewhere.
func selectKernel() Kernel {
	if hasBMI2 || hasASIMD {
		return KernelSplit
	}
	return KernelLUT
}

// ActiveKernel returns the Morton kernel selected at init.
func ActiveKernel() Kernel {
	return active.kernel
}

// KernelOverridden reports whether OCTAINDEX_KERNEL selected the kernel.
func KernelOverridden() bool {
	return hasOverride
}
