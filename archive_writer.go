package octaindex

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/samber/lo"
)

const (
	// DefaultMaxRootEntries is the root directory size above which
	// entries move to leaf directories.
	DefaultMaxRootEntries = 4096
	minLeafEntries        = 256
)

type writerConfig struct {
	compression    Compression
	keyKind        KeyKind
	metadata       ArchiveMetadata
	maxRootEntries int
}

// WriterOption is a functional option for WriteArchive.
type WriterOption = func(config *writerConfig)

// WithWriterCompression sets the codec of directories and metadata.
func WithWriterCompression(c Compression) WriterOption {
	return func(config *writerConfig) {
		config.compression = c
	}
}

// WithKeyKind selects the code the archive is sorted by.
func WithKeyKind(k KeyKind) WriterOption {
	return func(config *writerConfig) {
		config.keyKind = k
	}
}

func WithMetadata(m ArchiveMetadata) WriterOption {
	return func(config *writerConfig) {
		config.metadata = m
	}
}

// WithMaxRootEntries sets the root directory size limit.
func WithMaxRootEntries(n int) WriterOption {
	return func(config *writerConfig) {
		config.maxRootEntries = max(n, 1)
	}
}

// WriteArchive writes cells as an archive to w. Cells are deduplicated
// and sorted by key; they must share frame, tier and lod.
func WriteArchive(w io.Writer, cells []Hilbert64, options ...WriterOption) (ArchiveHeader, error) {
	config := &writerConfig{
		compression:    CompressionGZIP,
		keyKind:        KeyKindHilbert,
		maxRootEntries: DefaultMaxRootEntries,
	}
	for _, o := range options {
		o(config)
	}
	if config.keyKind != KeyKindHilbert && config.keyKind != KeyKindMorton {
		return ArchiveHeader{}, fmt.Errorf("unsupported key kind %v", config.keyKind)
	}

	header := ArchiveHeader{
		Version:             ArchiveVersion,
		Clustered:           true,
		InternalCompression: config.compression,
		KeyKind:             config.keyKind,
	}
	if len(cells) > 0 {
		first := cells[0]
		if odd, found := lo.Find(cells, func(c Hilbert64) bool {
			return c.Frame() != first.Frame() || c.Tier() != first.Tier() || c.LOD() != first.LOD()
		}); found {
			return ArchiveHeader{}, fmt.Errorf("cell %s does not share frame, tier and lod with %s", odd, first)
		}
		header.Frame, header.Tier, header.LOD = first.Frame(), first.Tier(), first.LOD()
	}

	keys := lo.Uniq(lo.Map(cells, func(c Hilbert64, _ int) uint64 {
		return config.keyKind.keyOf(c)
	}))
	slices.Sort(keys)

	entries := buildRuns(keys)
	header.CellCount = uint64(len(keys))
	header.EntryCount = uint64(len(entries))

	root, leaves, err := buildDirectories(entries, config)
	if err != nil {
		return ArchiveHeader{}, err
	}

	metaJSON, err := json.Marshal(config.metadata)
	if err != nil {
		return ArchiveHeader{}, fmt.Errorf("marshalling metadata: %w", err)
	}
	meta, err := Compress(metaJSON, config.compression)
	if err != nil {
		return ArchiveHeader{}, fmt.Errorf("compressing metadata: %w", err)
	}

	header.RootOffset = HeaderSizeBytes
	header.RootLength = uint64(len(root))
	header.MetadataOffset = header.RootOffset + header.RootLength
	header.MetadataLength = uint64(len(meta))
	header.LeafDirectoryOffset = header.MetadataOffset + header.MetadataLength
	header.LeafDirectoryLength = uint64(len(leaves))

	for _, section := range [][]byte{header.serialize(), root, meta, leaves} {
		if _, err := w.Write(section); err != nil {
			return ArchiveHeader{}, fmt.Errorf("writing archive: %w", err)
		}
	}
	return header, nil
}

// buildRuns collapses sorted, unique keys into runs of consecutive codes.
func buildRuns(keys []uint64) []Entry {
	var entries []Entry
	for _, k := range keys {
		if n := len(entries); n > 0 {
			last := &entries[n-1]
			if k == last.Start+uint64(last.RunLength) && last.RunLength < math.MaxUint32 {
				last.RunLength++
				continue
			}
		}
		entries = append(entries, Entry{Start: k, RunLength: 1})
	}
	return entries
}

// buildDirectories returns the compressed root directory and the
// concatenated compressed leaf directories.
func buildDirectories(entries []Entry, config *writerConfig) (root, leaves []byte, err error) {
	if len(entries) <= config.maxRootEntries {
		root, err = Compress(serializeEntries(entries), config.compression)
		return root, nil, err
	}

	leafSize := max(minLeafEntries, (len(entries)+config.maxRootEntries-1)/config.maxRootEntries)
	chunks := lo.Chunk(entries, leafSize)
	pointers := make([]Entry, 0, len(chunks))
	for _, chunk := range chunks {
		leaf, err := Compress(serializeEntries(chunk), config.compression)
		if err != nil {
			return nil, nil, err
		}
		pointers = append(pointers, Entry{
			Start:  chunk[0].Start,
			Offset: uint64(len(leaves)),
			Size:   uint64(len(leaf)),
		})
		leaves = append(leaves, leaf...)
	}

	root, err = Compress(serializeEntries(pointers), config.compression)
	return root, leaves, err
}
