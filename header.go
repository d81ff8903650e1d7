package octaindex

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/segmentio/ksuid"
)

const (
	HeaderOffset    = 0
	HeaderSizeBytes = 80

	archiveMagic   = "OCTAIDX"
	ArchiveVersion = 1
)

// ErrInvalidArchive is returned for data that is not a readable archive.
var ErrInvalidArchive = errors.New("invalid archive")

// ArchiveHeader is the fixed size prelude of a cell archive. All integers
// are little endian.
type ArchiveHeader struct {
	// Etag tags one opened instance of an archive in cache keys. It is
	// not persisted.
	Etag                string      `json:"etag"`
	Version             uint8       `json:"version"`
	RootOffset          uint64      `json:"root_offset"`
	RootLength          uint64      `json:"root_length"`
	MetadataOffset      uint64      `json:"metadata_offset"`
	MetadataLength      uint64      `json:"metadata_length"`
	LeafDirectoryOffset uint64      `json:"leaf_directory_offset"`
	LeafDirectoryLength uint64      `json:"leaf_directory_length"`
	CellCount           uint64      `json:"cell_count"`
	EntryCount          uint64      `json:"entry_count"`
	Clustered           bool        `json:"clustered"`
	InternalCompression Compression `json:"internal_compression"`
	KeyKind             KeyKind     `json:"key_kind"`
	Frame               uint8       `json:"frame"`
	Tier                uint8       `json:"tier"`
	LOD                 uint8       `json:"lod"`
}

// NewHeader reads and decodes a header from r.
func NewHeader(r io.Reader) (*ArchiveHeader, error) {
	h := &ArchiveHeader{}
	d := make([]byte, HeaderSizeBytes)
	if _, err := io.ReadFull(r, d); err != nil {
		return h, fmt.Errorf("reading header: %w", err)
	}
	if err := h.deserialize(d); err != nil {
		return h, err
	}
	return h, nil
}

// ReadFrom loads the header through r and assigns a fresh etag.
func (h *ArchiveHeader) ReadFrom(ctx context.Context, r RangeReader) error {
	b, err := r.ReadRange(ctx, NewRange(HeaderOffset, HeaderSizeBytes))
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	newHeader, err := NewHeader(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if newHeader.Etag == "" {
		newHeader.Etag = ksuid.New().String()
	}

	*h = *newHeader
	return nil
}

func (h ArchiveHeader) String() string {
	jsonBytes, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return `{"error": "failed to marshal ArchiveHeader"}`
	}
	return string(jsonBytes)
}

func (h *ArchiveHeader) serialize() []byte {
	d := make([]byte, HeaderSizeBytes)

	// 1) magic & version
	copy(d[0:7], archiveMagic)
	d[7] = ArchiveVersion

	// 2) sections
	binary.LittleEndian.PutUint64(d[8:16], h.RootOffset)
	binary.LittleEndian.PutUint64(d[16:24], h.RootLength)
	binary.LittleEndian.PutUint64(d[24:32], h.MetadataOffset)
	binary.LittleEndian.PutUint64(d[32:40], h.MetadataLength)
	binary.LittleEndian.PutUint64(d[40:48], h.LeafDirectoryOffset)
	binary.LittleEndian.PutUint64(d[48:56], h.LeafDirectoryLength)
	binary.LittleEndian.PutUint64(d[56:64], h.CellCount)
	binary.LittleEndian.PutUint64(d[64:72], h.EntryCount)

	// 3) flags & enums
	if h.Clustered {
		d[72] = 0x1
	}
	d[73] = byte(h.InternalCompression)
	d[74] = byte(h.KeyKind)

	// 4) cell key metadata, 78..79 reserved
	d[75] = h.Frame
	d[76] = h.Tier
	d[77] = h.LOD

	return d
}

func (h *ArchiveHeader) deserialize(d []byte) error {
	if len(d) < HeaderSizeBytes {
		return fmt.Errorf("%w: header is %d bytes, want %d", ErrInvalidArchive, len(d), HeaderSizeBytes)
	}
	if string(d[0:7]) != archiveMagic {
		return fmt.Errorf("%w: magic number not detected", ErrInvalidArchive)
	}
	if d[7] != ArchiveVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidArchive, d[7])
	}
	h.Version = d[7]

	h.RootOffset = binary.LittleEndian.Uint64(d[8:16])
	h.RootLength = binary.LittleEndian.Uint64(d[16:24])
	h.MetadataOffset = binary.LittleEndian.Uint64(d[24:32])
	h.MetadataLength = binary.LittleEndian.Uint64(d[32:40])
	h.LeafDirectoryOffset = binary.LittleEndian.Uint64(d[40:48])
	h.LeafDirectoryLength = binary.LittleEndian.Uint64(d[48:56])
	h.CellCount = binary.LittleEndian.Uint64(d[56:64])
	h.EntryCount = binary.LittleEndian.Uint64(d[64:72])

	h.Clustered = d[72] == 0x1
	h.InternalCompression = Compression(d[73])
	h.KeyKind = KeyKind(d[74])
	if h.KeyKind != KeyKindHilbert && h.KeyKind != KeyKindMorton {
		return fmt.Errorf("%w: unknown key kind %d", ErrInvalidArchive, d[74])
	}

	h.Frame = d[75]
	h.Tier = d[76]
	h.LOD = d[77]
	if err := checkTierLOD(h.Tier, h.LOD); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}

	return nil
}
