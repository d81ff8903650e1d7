//go:build arm64

package octaindex

import "golang.org/x/sys/cpu"

func init() {
	hasASIMD = cpu.ARM64.HasASIMD
	initKernel()
}
