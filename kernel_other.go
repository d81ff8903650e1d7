//go:build !amd64 && !arm64

package octaindex

func init() {
	initKernel()
}
