//go:build amd64

package octaindex

import "golang.org/x/sys/cpu"

func init() {
	hasBMI2 = cpu.X86.HasBMI2
	initKernel()
}
