package octaindex

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLoggerConfig returns the default logger config: console encoding to
// stderr, ISO8601 timestamps, no stacktraces.
func NewLoggerConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger builds a named logger at the given level ("debug", "info",
// "warn", "error"). jsonOutput switches the encoder to JSON.
func NewLogger(level string, jsonOutput bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	cfg := NewLoggerConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if jsonOutput {
		cfg.Encoding = "json"
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("octaindex"), nil
}

// orNop substitutes a no-op logger for nil.
func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// logBatchDone records a finished batch.
func logBatchDone(logger *zap.Logger, op string, s strategy, n int, took time.Duration) {
	logger.Debug("batch done",
		zap.String("op", op),
		zap.Stringer("strategy", s),
		zap.Int("n", n),
		zap.Duration("took", took),
	)
}

// logBatchRejected records the failed elements of a batch. errs must not
// be empty.
func logBatchRejected(logger *zap.Logger, op string, errs []ElementError) {
	logger.Warn("batch elements rejected",
		zap.String("op", op),
		zap.Int("failed", len(errs)),
		zap.Int("first", errs[0].Index),
		zap.Error(errs[0].Err),
	)
}

// logCacheMiss records a cache fill. shared is set when the value came
// from a concurrent caller's load.
func logCacheMiss(logger *zap.Logger, cache string, shared bool, fields ...zap.Field) {
	logger.Debug("cache miss",
		append([]zap.Field{zap.String("cache", cache), zap.Bool("shared", shared)}, fields...)...,
	)
}
