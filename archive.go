package octaindex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"
)

// DefaultDirectoryCacheEntries bounds the directory cache of an Archive by
// the number of cached directory entries.
const DefaultDirectoryCacheEntries = 1 << 20

// ArchiveConfig holds customization options for an Archive.
type ArchiveConfig struct {
	// decompress unpacks directories and metadata.
	decompress   DecompressFunc
	logger       *zap.Logger
	cacheEntries int64
}

// ArchiveOption is a functional option for configuring an Archive.
type ArchiveOption = func(config *ArchiveConfig)

// WithCustomDecompressFunc sets a custom decompression function.
func WithCustomDecompressFunc(decompressFn DecompressFunc) ArchiveOption {
	return func(config *ArchiveConfig) {
		config.decompress = decompressFn
	}
}

func WithArchiveLogger(logger *zap.Logger) ArchiveOption {
	return func(config *ArchiveConfig) {
		config.logger = logger
	}
}

// WithDirectoryCacheEntries bounds the directory cache.
func WithDirectoryCacheEntries(n int64) ArchiveOption {
	return func(config *ArchiveConfig) {
		config.cacheEntries = max(n, 1)
	}
}

// Archive provides read access to a cell archive. Directory loads are
// cached and concurrent loads of one directory are deduplicated. It is
// safe for concurrent use.
type Archive struct {
	reader     RangeReader
	header     *ArchiveHeader
	meta       *ArchiveMetadata
	config     *ArchiveConfig
	repository *Repository
	logger     *zap.Logger
}

// OpenArchive opens the archive at location, a local path, file:// or
// s3://bucket/key URI, and loads its header and metadata.
func OpenArchive(ctx context.Context, location string, options ...ArchiveOption) (*Archive, error) {
	reader, err := NewRangeReader(ctx, location)
	if err != nil {
		return nil, err
	}

	a, err := OpenArchiveReader(ctx, reader, options...)
	if err != nil {
		if c, ok := reader.(io.Closer); ok {
			err = errors.Join(err, c.Close())
		}
		return nil, err
	}
	a.logger.Info("archive opened",
		zap.String("location", location),
		zap.Uint64("cells", a.header.CellCount),
		zap.Stringer("key_kind", a.header.KeyKind),
	)
	return a, nil
}

// OpenArchiveReader opens an archive over an existing RangeReader.
func OpenArchiveReader(ctx context.Context, reader RangeReader, options ...ArchiveOption) (*Archive, error) {
	config := &ArchiveConfig{
		decompress:   Decompress,
		cacheEntries: DefaultDirectoryCacheEntries,
	}
	for _, o := range options {
		o(config)
	}
	logger := orNop(config.logger).Named("archive")

	a := &Archive{
		reader: reader,
		header: &ArchiveHeader{},
		meta:   &ArchiveMetadata{},
		config: config,
		logger: logger,
	}

	if err := a.header.ReadFrom(ctx, a.reader); err != nil {
		return nil, err
	}

	if err := a.meta.ReadFrom(ctx, *a.header, a.reader, a.config.decompress); err != nil {
		return nil, err
	}

	repo, err := NewRepository(config.cacheEntries, logger)
	if err != nil {
		return nil, err
	}
	a.repository = repo

	return a, nil
}

// Contains reports whether cell is stored in the archive. Cells of another
// frame, tier or lod are never contained.
func (a *Archive) Contains(ctx context.Context, cell Hilbert64) (bool, error) {
	if cell.Frame() != a.header.Frame || cell.Tier() != a.header.Tier || cell.LOD() != a.header.LOD {
		return false, nil
	}
	code := a.header.KeyKind.keyOf(cell)
	ok, err := a.repository.Contains(ctx, *a.header, a.reader, a.config.decompress, code)
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", cell, err)
	}
	return ok, nil
}

// Cells streams every stored cell in key order.
func (a *Archive) Cells(ctx context.Context) iter.Seq2[Hilbert64, error] {
	h := *a.header
	return func(yield func(Hilbert64, error) bool) {
		for code, err := range a.repository.Codes(ctx, h, a.reader, a.config.decompress) {
			if err != nil {
				yield(0, err)
				return
			}
			if !yield(h.KeyKind.cellOf(h.Frame, h.Tier, h.LOD, code), nil) {
				return
			}
		}
	}
}

// Header returns a copy of the current header.
func (a *Archive) Header() ArchiveHeader {
	return *a.header
}

// Metadata returns a copy of the archive metadata.
func (a *Archive) Metadata() ArchiveMetadata {
	return *a.meta
}

// Close releases the directory cache and the underlying reader.
func (a *Archive) Close() error {
	a.repository.Close()
	if c, ok := a.reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
