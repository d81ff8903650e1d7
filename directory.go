package octaindex

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"sort"

	"github.com/brunomvsouza/singleflight"
	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
)

// maxDirectoryDepth bounds root to leaf descent.
const maxDirectoryDepth = 3

// Entry is one directory row. With RunLength > 0 it covers the codes
// [Start, Start+RunLength). With RunLength == 0 it points at the leaf
// directory of Size bytes at LeafDirectoryOffset+Offset whose first code
// is Start.
type Entry struct {
	Start     uint64 `json:"start"`
	Offset    uint64 `json:"offset"`
	Size      uint64 `json:"size"`
	RunLength uint32 `json:"run_length"`
}

func (e Entry) String() string {
	jsonBytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return `{"error": "failed to marshal entry"}`
	}
	return string(jsonBytes)
}

// IsLeaf reports whether e points at a leaf directory.
func (e Entry) IsLeaf() bool {
	return e.RunLength == 0
}

// NewDirectory reads, decompresses and decodes the directory at ranger.
func NewDirectory(
	ctx context.Context,
	header ArchiveHeader,
	reader RangeReader,
	ranger Ranger,
	decompress DecompressFunc,
) (*Directory, error) {
	data, err := reader.ReadRange(ctx, ranger)
	if err != nil {
		return nil, fmt.Errorf("reading directory from source: %w", err)
	}

	raw, err := decompressBytes(data, header.InternalCompression, decompress)
	if err != nil {
		return nil, fmt.Errorf("decompressing directory: %w", err)
	}

	dir := &Directory{}
	if err := dir.deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("deserializing directory: %w", err)
	}
	dir.key = buildCacheKey(header.Etag, ranger.Offset(), ranger.Size())

	return dir, nil
}

// Directory is a decoded, sorted list of entries.
type Directory struct {
	key     string
	entries []Entry
}

func (d *Directory) Key() string {
	return d.key
}

func (d *Directory) Size() uint64 {
	return uint64(len(d.entries))
}

func (d *Directory) IterEntries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, v := range d.entries {
			if !yield(v) {
				return
			}
		}
	}
}

// FindCell returns the entry that covers code, or the leaf pointer that
// may contain it.
func (d *Directory) FindCell(code uint64) (Entry, bool) {
	// first entry whose start is past code
	i := sort.Search(len(d.entries), func(i int) bool {
		return d.entries[i].Start > code
	})
	if i == 0 {
		return Entry{}, false
	}

	e := d.entries[i-1]
	if e.IsLeaf() || code < e.Start+uint64(e.RunLength) {
		return e, true
	}
	return Entry{}, false
}

func (d *Directory) deserialize(r io.Reader) error {
	br := bufio.NewReader(r)
	countEntries, err := binary.ReadUvarint(br)
	if err != nil {
		return fmt.Errorf("reading directory entries count: %w", err)
	}

	d.entries = make([]Entry, countEntries)

	var lastStart uint64
	for i := range d.entries {
		delta, err := binary.ReadUvarint(br)
		if err != nil {
			return fmt.Errorf("reading start delta at %d: %w", i, err)
		}
		d.entries[i].Start = lastStart + delta
		lastStart = d.entries[i].Start
	}

	for i := range d.entries {
		runLength, err := binary.ReadUvarint(br)
		if err != nil {
			return fmt.Errorf("reading runLength at %d: %w", i, err)
		}
		d.entries[i].RunLength = uint32(runLength) //nolint:gosec
	}

	for i := range d.entries {
		size, err := binary.ReadUvarint(br)
		if err != nil {
			return fmt.Errorf("reading length at %d: %w", i, err)
		}
		d.entries[i].Size = size
	}

	for i := range d.entries {
		offset, err := binary.ReadUvarint(br)
		if err != nil {
			return fmt.Errorf("reading offset at %d: %w", i, err)
		}
		if offset == 0 && i > 0 {
			d.entries[i].Offset = d.entries[i-1].Offset + d.entries[i-1].Size
		} else {
			d.entries[i].Offset = offset - 1
		}
	}

	return nil
}

// serializeEntries is the inverse of Directory.deserialize. An offset
// that directly follows the previous entry is written as 0.
func serializeEntries(entries []Entry) []byte {
	buf := binary.AppendUvarint(nil, uint64(len(entries)))

	var lastStart uint64
	for _, e := range entries {
		buf = binary.AppendUvarint(buf, e.Start-lastStart)
		lastStart = e.Start
	}
	for _, e := range entries {
		buf = binary.AppendUvarint(buf, uint64(e.RunLength))
	}
	for _, e := range entries {
		buf = binary.AppendUvarint(buf, e.Size)
	}
	for i, e := range entries {
		if i > 0 && e.Offset == entries[i-1].Offset+entries[i-1].Size {
			buf = binary.AppendUvarint(buf, 0)
			continue
		}
		buf = binary.AppendUvarint(buf, e.Offset+1)
	}
	return buf
}

// Repository caches decoded directories across lookups. Concurrent
// misses on one directory read it once.
type Repository struct {
	cache  *ristretto.Cache[string, *Directory]
	group  singleflight.Group[string, *Directory]
	logger *zap.Logger
}

// NewRepository builds a Repository holding up to maxEntries directory
// entries.
func NewRepository(maxEntries int64, logger *zap.Logger) (*Repository, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *Directory]{
		NumCounters: DefaultRistrettoNumCounters,
		MaxCost:     maxEntries,
		BufferItems: DefaultRistrettoBufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &Repository{
		cache:  cache,
		logger: orNop(logger),
	}, nil
}

func (d *Repository) DirectoryAt(
	ctx context.Context,
	header ArchiveHeader,
	reader RangeReader,
	ranger Ranger,
	decompress DecompressFunc,
) (*Directory, error) {
	key := buildCacheKey(header.Etag, ranger.Offset(), ranger.Size())
	if dir, ok := d.cache.Get(key); ok {
		return dir, nil
	}

	dir, err, shared := d.group.Do(key, func() (*Directory, error) {
		dir, err := NewDirectory(ctx, header, reader, ranger, decompress)
		if err != nil {
			return nil, err
		}
		// NOTE: even if it fails once, eventually it succeeds
		// ristretto is eventually consistent
		_ = d.cache.Set(key, dir, max(int64(dir.Size()), 1))
		return dir, nil
	})
	if err != nil {
		return nil, err
	}
	logCacheMiss(d.logger, "directory", shared,
		zap.String("key", key),
		zap.Uint64("entries", dir.Size()),
	)
	return dir, nil
}

// Contains reports whether code is stored in the archive.
func (d *Repository) Contains(
	ctx context.Context,
	header ArchiveHeader,
	reader RangeReader,
	decompress DecompressFunc,
	code uint64,
) (bool, error) {
	dO := header.RootOffset
	dS := header.RootLength
	for range maxDirectoryDepth {
		dir, err := d.DirectoryAt(ctx, header, reader, NewRange(dO, dS), decompress)
		if err != nil {
			return false, err
		}
		entry, ok := dir.FindCell(code)
		if !ok {
			return false, nil
		}
		if !entry.IsLeaf() {
			return true, nil
		}
		dO = header.LeafDirectoryOffset + entry.Offset
		dS = entry.Size
	}
	return false, fmt.Errorf("%w: maximum directory depth exceeded", ErrInvalidArchive)
}

// Codes walks every stored code in ascending order.
func (d *Repository) Codes(
	ctx context.Context,
	header ArchiveHeader,
	reader RangeReader,
	decompress DecompressFunc,
) iter.Seq2[uint64, error] {
	return func(yield func(uint64, error) bool) {
		d.walk(ctx, header, reader, decompress, NewRange(header.RootOffset, header.RootLength), 0, yield)
	}
}

func (d *Repository) walk(
	ctx context.Context,
	header ArchiveHeader,
	reader RangeReader,
	decompress DecompressFunc,
	ranger Ranger,
	depth int,
	yield func(uint64, error) bool,
) bool {
	if depth >= maxDirectoryDepth {
		yield(0, fmt.Errorf("%w: maximum directory depth exceeded", ErrInvalidArchive))
		return false
	}
	dir, err := d.DirectoryAt(ctx, header, reader, ranger, decompress)
	if err != nil {
		yield(0, err)
		return false
	}
	for e := range dir.IterEntries() {
		if err := ctx.Err(); err != nil {
			yield(0, err)
			return false
		}
		if e.IsLeaf() {
			leaf := NewRange(header.LeafDirectoryOffset+e.Offset, e.Size)
			if !d.walk(ctx, header, reader, decompress, leaf, depth+1, yield) {
				return false
			}
			continue
		}
		for c := e.Start; c < e.Start+uint64(e.RunLength); c++ {
			if !yield(c, nil) {
				return false
			}
		}
	}
	return true
}

func (d *Repository) Flush() {
	d.cache.Clear()
}

func (d *Repository) Close() {
	d.cache.Close()
}
