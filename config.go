package octaindex

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	DefaultBlockSize         = 1024
	DefaultParallelThreshold = 64 * 1024
)

// EngineConfig holds customization options for an Engine.
type EngineConfig struct {
	// workers bounds the goroutines of the parallel strategy.
	workers int
	// blockSize is the window of the blocked strategy and the smallest
	// parallel chunk. Batches below it run sequentially.
	blockSize int
	// parallelThreshold is the batch size from which work fans out.
	parallelThreshold int
	logger            *zap.Logger
	registerer        prometheus.Registerer
}

// EngineOption is a functional option for configuring an Engine.
type EngineOption = func(config *EngineConfig)

// WithWorkers sets the number of parallel workers. Values below 1 are
// treated as 1.
func WithWorkers(n int) EngineOption {
	return func(config *EngineConfig) {
		config.workers = max(n, 1)
	}
}

// WithBlockSize sets the blocked strategy window.
func WithBlockSize(n int) EngineOption {
	return func(config *EngineConfig) {
		config.blockSize = max(n, 1)
	}
}

// WithParallelThreshold sets the batch size from which the engine fans
// out across workers.
func WithParallelThreshold(n int) EngineOption {
	return func(config *EngineConfig) {
		config.parallelThreshold = max(n, 1)
	}
}

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(config *EngineConfig) {
		config.logger = logger
	}
}

// WithRegisterer registers the batch metrics on reg.
func WithRegisterer(reg prometheus.Registerer) EngineOption {
	return func(config *EngineConfig) {
		config.registerer = reg
	}
}

func defaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		workers:           runtime.GOMAXPROCS(0),
		blockSize:         DefaultBlockSize,
		parallelThreshold: DefaultParallelThreshold,
	}
}
