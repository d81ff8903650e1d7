package octaindex

import (
	"strconv"
	"sync"

	"github.com/brunomvsouza/singleflight"
	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
)

const (
	DefaultRistrettoNumCounters = 10 * 500 * 1024
	// DefaultRistrettoMaxCost bounds the cache by the number of cached
	// cells across all rings.
	DefaultRistrettoMaxCost     = 4 * 1024 * 1024
	DefaultRistrettoBufferItems = 64
)

// keyBufPool provides a shared buffer pool with 64-byte pre-allocated buffers
var keyBufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 64)
		return &buf
	},
}

// buildCacheKey joins parts with ':' using a pooled buffer.
func buildCacheKey(prefix string, parts ...uint64) string {
	bufPtr, _ := keyBufPool.Get().(*[]byte) //nolint:errcheck
	buf := (*bufPtr)[:0]
	defer func() {
		*bufPtr = buf
		keyBufPool.Put(bufPtr)
	}()

	buf = append(buf, prefix...)
	for _, p := range parts {
		buf = append(buf, ':')
		buf = strconv.AppendUint(buf, p, 10)
	}
	return string(buf)
}

// RingCacheOption is a functional option for configuring a RingCache.
type RingCacheOption = func(config *ringCacheConfig)

type ringCacheConfig struct {
	ristretto *ristretto.Config[string, []Route64]
	logger    *zap.Logger
}

// WithRingCacheMaxCost bounds the total number of cached cells.
func WithRingCacheMaxCost(maxCost int64) RingCacheOption {
	return func(config *ringCacheConfig) {
		config.ristretto.MaxCost = maxCost
	}
}

// WithRingCacheLogger sets the cache logger.
func WithRingCacheLogger(logger *zap.Logger) RingCacheOption {
	return func(config *ringCacheConfig) {
		config.logger = logger
	}
}

// RingCache memoizes KRing results for Route64 cells. Concurrent misses
// on the same (cell, k) compute the ring once. It is safe for concurrent
// use.
type RingCache struct {
	cache  *ristretto.Cache[string, []Route64]
	group  singleflight.Group[string, []Route64]
	logger *zap.Logger
}

// NewRingCache builds a RingCache.
func NewRingCache(options ...RingCacheOption) (*RingCache, error) {
	config := &ringCacheConfig{
		ristretto: &ristretto.Config[string, []Route64]{
			NumCounters: DefaultRistrettoNumCounters,
			MaxCost:     DefaultRistrettoMaxCost,
			BufferItems: DefaultRistrettoBufferItems,
		},
	}
	for _, o := range options {
		o(config)
	}

	cache, err := ristretto.NewCache(config.ristretto)
	if err != nil {
		return nil, err
	}

	return &RingCache{
		cache:  cache,
		logger: orNop(config.logger).Named("ringcache"),
	}, nil
}

// KRing returns KRing(center, k), served from the cache when possible.
// The returned slice is a copy owned by the caller.
func (rc *RingCache) KRing(center Route64, k int) []Route64 {
	if k < 0 {
		return nil
	}
	key := buildCacheKey("ring", center.Raw(), uint64(k))

	if ring, ok := rc.cache.Get(key); ok {
		return cloneRoutes(ring)
	}

	ring, _, shared := rc.group.Do(key, func() ([]Route64, error) {
		ring := KRing(center, k)
		// NOTE: ristretto is eventually consistent, a failed Set only
		// costs a recomputation
		_ = rc.cache.Set(key, ring, int64(len(ring)))
		return ring, nil
	})
	logCacheMiss(rc.logger, "ring", shared,
		zap.Stringer("center", center),
		zap.Int("k", k),
	)
	return cloneRoutes(ring)
}

// Wait blocks until pending writes are visible to Get.
func (rc *RingCache) Wait() {
	rc.cache.Wait()
}

func (rc *RingCache) Clear() {
	rc.cache.Clear()
}

func (rc *RingCache) Close() {
	rc.cache.Close()
}

func cloneRoutes(in []Route64) []Route64 {
	out := make([]Route64, len(in))
	copy(out, in)
	return out
}
