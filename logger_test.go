package octaindex

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("debug", false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger("error", true)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger("loud", false)
	require.Error(t, err)

	assert.NotNil(t, orNop(nil))
}

func TestLogHelpers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	logBatchDone(logger, "morton_encode", strategyBlocked, 42, time.Millisecond)
	logBatchRejected(logger, "new_route64", []ElementError{
		{Index: 3, Err: errors.New("boom")},
		{Index: 7, Err: errors.New("bang")},
	})
	logCacheMiss(logger, "ring", true, zap.Int("k", 2))

	entries := logs.All()
	require.Len(t, entries, 3)

	done := entries[0].ContextMap()
	assert.Equal(t, "batch done", entries[0].Message)
	assert.Equal(t, "morton_encode", done["op"])
	assert.Equal(t, strategyBlocked.String(), done["strategy"])
	assert.Equal(t, int64(42), done["n"])

	rejected := entries[1].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(2), rejected["failed"])
	assert.Equal(t, int64(3), rejected["first"])
	assert.Equal(t, "boom", rejected["error"])

	miss := entries[2].ContextMap()
	assert.Equal(t, "cache miss", entries[2].Message)
	assert.Equal(t, "ring", miss["cache"])
	assert.Equal(t, true, miss["shared"])
	assert.Equal(t, int64(2), miss["k"])
}

func TestRingCacheLogsMiss(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	rc, err := NewRingCache(WithRingCacheLogger(zap.New(core)))
	require.NoError(t, err)
	t.Cleanup(rc.Close)

	center, err := NewRoute64(0, 0, 0, 0)
	require.NoError(t, err)
	rc.KRing(center, 1)

	entries := logs.FilterMessage("cache miss").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ring", entries[0].ContextMap()["cache"])
}
