package octaindex

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeUvarint(buf *bytes.Buffer, val uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], val)
	buf.Write(tmp[:n])
}

func TestDirectoryDeserialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		dataFunc      func() []byte
		expectErr     bool
		expectEntries []Entry
	}{
		{
			name: "multiple entries with offset propagation",
			dataFunc: func() []byte {
				buf := &bytes.Buffer{}
				writeUvarint(buf, 2) // count

				writeUvarint(buf, 3) // start deltas
				writeUvarint(buf, 1)

				writeUvarint(buf, 0) // run lengths: leaf pointer, then run
				writeUvarint(buf, 1)

				writeUvarint(buf, 100) // sizes
				writeUvarint(buf, 50)

				writeUvarint(buf, 500) // offsets are stored +1, 0 propagates
				writeUvarint(buf, 0)

				return buf.Bytes()
			},
			expectEntries: []Entry{
				{Start: 3, RunLength: 0, Size: 100, Offset: 499},
				{Start: 4, RunLength: 1, Size: 50, Offset: 599},
			},
		},
		{
			name: "truncated multi-entry",
			dataFunc: func() []byte {
				buf := &bytes.Buffer{}
				writeUvarint(buf, 2)
				writeUvarint(buf, 3)
				return buf.Bytes()
			},
			expectErr: true,
		},
		{
			name:          "empty directory",
			dataFunc:      func() []byte { return []byte{0} },
			expectEntries: []Entry{},
		},
		{
			name:      "no data",
			dataFunc:  func() []byte { return nil },
			expectErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := &Directory{}
			err := d.deserialize(bufio.NewReader(bytes.NewReader(tc.dataFunc())))
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectEntries, d.entries)
		})
	}
}

func TestSerializeEntriesRoundtrip(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Start: 0, Offset: 0, Size: 10},
		{Start: 40, Offset: 10, Size: 12},
		{Start: 90, Offset: 100, Size: 7},
		{Start: 120, RunLength: 5},
	}
	d := &Directory{}
	require.NoError(t, d.deserialize(bytes.NewReader(serializeEntries(entries))))
	assert.Equal(t, entries, d.entries)
}

func TestDirectoryFindCell(t *testing.T) {
	t.Parallel()

	d := &Directory{entries: []Entry{
		{Start: 10, RunLength: 3},
		{Start: 20, RunLength: 1},
		{Start: 100, Size: 8},
	}}

	tests := []struct {
		code  uint64
		found bool
		start uint64
	}{
		{code: 9, found: false},
		{code: 10, found: true, start: 10},
		{code: 12, found: true, start: 10},
		{code: 13, found: false},
		{code: 20, found: true, start: 20},
		{code: 21, found: false},
		{code: 100, found: true, start: 100},
		{code: 1 << 40, found: true, start: 100},
	}
	for _, tc := range tests {
		e, ok := d.FindCell(tc.code)
		assert.Equal(t, tc.found, ok, "code %d", tc.code)
		if ok {
			assert.Equal(t, tc.start, e.Start, "code %d", tc.code)
		}
	}
}

type countingReader struct {
	RangeReader
	mu    sync.Mutex
	reads int
}

func (c *countingReader) ReadRange(ctx context.Context, ranger Ranger) ([]byte, error) {
	c.mu.Lock()
	c.reads++
	c.mu.Unlock()
	return c.RangeReader.ReadRange(ctx, ranger)
}

func TestRepositoryCachesDirectories(t *testing.T) {
	t.Parallel()

	root, err := Compress(serializeEntries([]Entry{{Start: 5, RunLength: 4}}), CompressionGZIP)
	require.NoError(t, err)
	reader := &countingReader{RangeReader: NewBytesRangeReader(root)}
	header := ArchiveHeader{
		Etag:                "etag",
		RootLength:          uint64(len(root)),
		InternalCompression: CompressionGZIP,
	}

	repo, err := NewRepository(1024, nil)
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	ok, err := repo.Contains(context.Background(), header, reader, Decompress, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	repo.cache.Wait()

	ok, err = repo.Contains(context.Background(), header, reader, Decompress, 9)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, reader.reads)

	var codes []uint64
	for c, err := range repo.Codes(context.Background(), header, reader, Decompress) {
		require.NoError(t, err)
		codes = append(codes, c)
	}
	assert.Equal(t, []uint64{5, 6, 7, 8}, codes)
}

func TestBuildCacheKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc123:10:512", buildCacheKey("abc123", 10, 512))
	assert.Equal(t, ":0", buildCacheKey("", 0))
	assert.Equal(t, "ring", buildCacheKey("ring"))
}
