package octaindex

import (
	"go.uber.org/zap"
)

// Point32 is a signed coordinate triple.
type Point32 struct {
	X, Y, Z int32
}

// Engine applies codec and neighbor operations to whole arrays. Results
// always match the scalar functions element for element, whichever
// internal strategy runs. An Engine is safe for concurrent use.
type Engine struct {
	config  *EngineConfig
	logger  *zap.Logger
	metrics *batchMetrics
}

// NewEngine builds an Engine, applying the given options over the
// defaults.
func NewEngine(options ...EngineOption) *Engine {
	config := defaultEngineConfig()
	for _, o := range options {
		o(config)
	}

	e := &Engine{
		config:  config,
		logger:  orNop(config.logger).Named("engine"),
		metrics: newBatchMetrics(config.registerer),
	}
	e.logger.Debug("engine ready",
		zap.Int("workers", config.workers),
		zap.Int("block_size", config.blockSize),
		zap.Int("parallel_threshold", config.parallelThreshold),
		zap.Stringer("kernel", ActiveKernel()),
	)
	return e
}

func (e *Engine) MortonEncode(points []Point16) []uint64 {
	return mapBatch(e, "morton_encode", points, func(p Point16) uint64 {
		return MortonEncode(p.X, p.Y, p.Z)
	})
}

func (e *Engine) MortonDecode(codes []uint64) []Point16 {
	return mapBatch(e, "morton_decode", codes, func(c uint64) Point16 {
		x, y, z := MortonDecode(c)
		return Point16{X: x, Y: y, Z: z}
	})
}

func (e *Engine) HilbertEncode(points []Point16) []uint64 {
	return mapBatch(e, "hilbert_encode", points, func(p Point16) uint64 {
		return FastHilbertEncode(p.X, p.Y, p.Z)
	})
}

func (e *Engine) HilbertDecode(codes []uint64) []Point16 {
	return mapBatch(e, "hilbert_decode", codes, func(c uint64) Point16 {
		x, y, z := FastHilbertDecode(c)
		return Point16{X: x, Y: y, Z: z}
	})
}

// NewIndex64s packs every point with shared frame, tier and lod.
func (e *Engine) NewIndex64s(frame, tier, lod uint8, points []Point16) BatchResult[Index64] {
	return tryBatch(e, "index64_new", points, func(p Point16) (Index64, error) {
		return NewIndex64(frame, tier, lod, p.X, p.Y, p.Z)
	})
}

func (e *Engine) NewHilbert64s(frame, tier, lod uint8, points []Point16) BatchResult[Hilbert64] {
	return tryBatch(e, "hilbert64_new", points, func(p Point16) (Hilbert64, error) {
		return NewHilbert64(frame, tier, lod, p.X, p.Y, p.Z)
	})
}

// NewRoute64s validates and packs every point. Invalid points are
// reported per index.
func (e *Engine) NewRoute64s(tier uint8, points []Point32) BatchResult[Route64] {
	return tryBatch(e, "route64_new", points, func(p Point32) (Route64, error) {
		return NewRoute64(tier, p.X, p.Y, p.Z)
	})
}

func (e *Engine) DecodeIndex64s(ids []Index64) []Point16 {
	return mapBatch(e, "index64_decode", ids, Index64.Point)
}

func (e *Engine) Index64sToHilbert64(ids []Index64) []Hilbert64 {
	return mapBatch(e, "index64_to_hilbert64", ids, Index64.ToHilbert64)
}

func (e *Engine) Hilbert64sToIndex64(ids []Hilbert64) []Index64 {
	return mapBatch(e, "hilbert64_to_index64", ids, Hilbert64.ToIndex64)
}

// Route64Neighbors computes the neighbor set of every route.
func (e *Engine) Route64Neighbors(routes []Route64) []NeighborSet[Route64] {
	return mapBatch(e, "route64_neighbors", routes, Route64.Neighbors)
}

// ParseCellIDs decodes Bech32m cell ids. Malformed strings are reported
// per index.
func (e *Engine) ParseCellIDs(texts []string) BatchResult[CellID] {
	return tryBatch(e, "cellid_parse", texts, ParseCellID)
}
