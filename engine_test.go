package octaindex

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func engineStrategies() map[strategy][]EngineOption {
	return map[strategy][]EngineOption{
		strategySequential: {WithBlockSize(1 << 20)},
		strategyBlocked:    {WithBlockSize(64), WithParallelThreshold(1 << 20)},
		strategyParallel:   {WithBlockSize(64), WithParallelThreshold(128), WithWorkers(4)},
	}
}

func randomPoints(n int, seed uint64) []Point16 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]Point16, n)
	for i := range out {
		out[i] = Point16{X: uint16(rng.Uint32()), Y: uint16(rng.Uint32()), Z: uint16(rng.Uint32())} //nolint:gosec
	}
	return out
}

func TestEngineStrategyFor(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithBlockSize(10), WithParallelThreshold(100), WithWorkers(4))
	assert.Equal(t, strategySequential, e.strategyFor(0))
	assert.Equal(t, strategySequential, e.strategyFor(9))
	assert.Equal(t, strategyBlocked, e.strategyFor(10))
	assert.Equal(t, strategyBlocked, e.strategyFor(99))
	assert.Equal(t, strategyParallel, e.strategyFor(100))

	single := NewEngine(WithBlockSize(10), WithParallelThreshold(100), WithWorkers(0))
	assert.Equal(t, strategyBlocked, single.strategyFor(1000))
}

func TestEngineMatchesScalar(t *testing.T) {
	t.Parallel()

	const n = 1000
	points := randomPoints(n, 21)

	for s, options := range engineStrategies() {
		t.Run(s.String(), func(t *testing.T) {
			t.Parallel()
			e := NewEngine(options...)
			require.Equal(t, s, e.strategyFor(n))

			morton := e.MortonEncode(points)
			hilbert := e.HilbertEncode(points)
			for i, p := range points {
				require.Equal(t, MortonEncode(p.X, p.Y, p.Z), morton[i])
				require.Equal(t, HilbertEncode(p.X, p.Y, p.Z), hilbert[i])
			}
			assert.Equal(t, points, e.MortonDecode(morton))
			assert.Equal(t, points, e.HilbertDecode(hilbert))

			ids := e.NewIndex64s(3, 1, 9, points)
			require.True(t, ids.OK())
			require.NoError(t, ids.Err())
			assert.Equal(t, points, e.DecodeIndex64s(ids.Items))

			hs := e.Index64sToHilbert64(ids.Items)
			for i, h := range hs {
				require.Equal(t, ids.Items[i].ToHilbert64(), h)
			}
			assert.Equal(t, ids.Items, e.Hilbert64sToIndex64(hs))

			direct := e.NewHilbert64s(3, 1, 9, points)
			require.True(t, direct.OK())
			assert.Equal(t, hs, direct.Items)
		})
	}
}

func TestEngineRoute64Batch(t *testing.T) {
	t.Parallel()

	const n = 700
	rng := rand.New(rand.NewPCG(31, 32))
	points := make([]Point32, n)
	for i := range points {
		x := int32(rng.IntN(2000) - 1000)
		points[i] = Point32{X: x, Y: x + 2*int32(rng.IntN(50)), Z: x - 2*int32(rng.IntN(50))}
	}
	// every 7th point breaks parity, every 11th leaves the range
	for i := 0; i < n; i += 7 {
		points[i].Y++
	}
	for i := 5; i < n; i += 11 {
		points[i].X = MaxRouteCoord + 1
	}

	for s, options := range engineStrategies() {
		t.Run(s.String(), func(t *testing.T) {
			t.Parallel()
			e := NewEngine(options...)
			res := e.NewRoute64s(1, points)

			for i, p := range points {
				want, wantErr := NewRoute64(1, p.X, p.Y, p.Z)
				if wantErr != nil {
					require.True(t, res.Failed(i), "index %d", i)
					assert.Zero(t, res.Items[i])
					continue
				}
				require.False(t, res.Failed(i), "index %d", i)
				require.Equal(t, want, res.Items[i])
			}
			require.False(t, res.OK())
			require.ErrorIs(t, res.Err(), ErrParityViolation)
			require.ErrorIs(t, res.Err(), ErrOutOfRange)
			for i := 1; i < len(res.Errors); i++ {
				require.Less(t, res.Errors[i-1].Index, res.Errors[i].Index)
			}

			var valid []Route64
			for i, r := range res.Items {
				if !res.Failed(i) {
					valid = append(valid, r)
				}
			}
			sets := e.Route64Neighbors(valid)
			for i, r := range valid {
				require.Equal(t, r.Neighbors(), sets[i])
			}
		})
	}
}

func TestEngineParseCellIDs(t *testing.T) {
	t.Parallel()

	c, err := NewCellID(1, 2, 3, 5, 7, 0, 0)
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	e := NewEngine(WithLogger(zap.New(core)))
	res := e.ParseCellIDs([]string{c.String(), "bogus", c.String()})

	assert.Equal(t, []CellID{c, {}, c}, res.Items)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	require.ErrorIs(t, res.Err(), ErrDecode)
	assert.True(t, strings.HasPrefix(res.Errors[0].Error(), "element 1: "))

	entries := logs.FilterMessage("batch elements rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cellid_parse", entries[0].ContextMap()["op"])
}

func TestEngineMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	e := NewEngine(WithRegisterer(reg), WithBlockSize(4), WithParallelThreshold(1<<20))

	e.MortonEncode(randomPoints(10, 41))
	_ = e.NewRoute64s(0, []Point32{{0, 0, 0}, {1, 0, 0}})

	assert.InDelta(t, 10, testutil.ToFloat64(e.metrics.elements.WithLabelValues("morton_encode", "blocked")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(e.metrics.elements.WithLabelValues("route64_new", "sequential")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(e.metrics.failures.WithLabelValues("route64_new")), 0)

	n, err := testutil.GatherAndCount(reg, "octaindex_batch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEngineEmptyInput(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	assert.Empty(t, e.MortonEncode(nil))
	res := e.NewRoute64s(0, nil)
	assert.True(t, res.OK())
	assert.NoError(t, res.Err())
}
