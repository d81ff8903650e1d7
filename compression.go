package octaindex

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression enumerates the codecs of archive sections.
// The zero value is CompressionUnknown.
type Compression uint8

const (
	// CompressionUnknown indicates the codec is not recognized.
	CompressionUnknown Compression = iota
	// CompressionNone indicates the payload is uncompressed.
	CompressionNone
	// CompressionGZIP indicates the payload is gzip-compressed.
	CompressionGZIP
	// CompressionZstd indicates the payload is Zstandard-compressed.
	CompressionZstd
)

var compressionOptions = map[Compression]string{
	CompressionUnknown: "unknown",
	CompressionNone:    "none",
	CompressionGZIP:    "gzip",
	CompressionZstd:    "zstd",
}

func (c Compression) String() string {
	str, ok := compressionOptions[c]
	if !ok {
		return compressionOptions[CompressionUnknown]
	}
	return str
}

// MarshalJSON marshals the Compression as a JSON string (e.g. "gzip").
func (c Compression) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// ParseCompression maps a codec name back to its Compression.
func ParseCompression(s string) (Compression, error) {
	for c, name := range compressionOptions {
		if name == s && c != CompressionUnknown {
			return c, nil
		}
	}
	return CompressionUnknown, fmt.Errorf("unsupported compression %q", s)
}

// DecompressFunc wraps r with the decompressor for compression. The
// returned io.ReadCloser must be closed by the caller and closes r.
type DecompressFunc = func(r io.ReadCloser, compression Compression) (io.ReadCloser, error)

// gzPool stores reusable *gzip.Reader instances to reduce allocations.
var gzPool = sync.Pool{New: func() any { return new(gzip.Reader) }}

// readCloser pairs a decompressing Reader with the Closer that releases
// it and the underlying source.
type readCloser struct {
	io.Reader
	io.Closer
}

// closeFunc adapts a func() error to io.Closer.
type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// NewGZIPReadCloser returns a pooled gzip reader over rc. Closing it
// returns the reader to the pool and closes rc.
func NewGZIPReadCloser(rc io.ReadCloser) (io.ReadCloser, error) {
	zr, _ := gzPool.Get().(*gzip.Reader) //nolint:errcheck
	if err := zr.Reset(rc); err != nil {
		gzPool.Put(zr)
		_ = rc.Close() //nolint:errcheck // ensure underlying is closed on init failure
		return nil, err
	}
	return readCloser{
		Reader: zr,
		Closer: closeFunc(func() error {
			cerr := zr.Close()
			gzPool.Put(zr)
			return errors.Join(cerr, rc.Close())
		}),
	}, nil
}

// NewZstdReadCloser returns a zstd decoder over rc. Closing it releases
// the decoder and closes rc.
func NewZstdReadCloser(rc io.ReadCloser) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(rc, zstd.WithDecoderConcurrency(1))
	if err != nil {
		_ = rc.Close() //nolint:errcheck
		return nil, err
	}
	return readCloser{
		Reader: dec,
		Closer: closeFunc(func() error {
			dec.Close()
			return rc.Close()
		}),
	}, nil
}

// Decompress wraps r with a decompressor based on the provided Compression.
// CompressionNone and CompressionUnknown return r unchanged.
func Decompress(r io.ReadCloser, compression Compression) (io.ReadCloser, error) {
	switch compression {
	case CompressionNone, CompressionUnknown:
		return r, nil
	case CompressionGZIP:
		gr, err := NewGZIPReadCloser(r)
		if err != nil {
			return nil, fmt.Errorf("gzip.NewReader: %w", err)
		}
		return gr, nil
	case CompressionZstd:
		zr, err := NewZstdReadCloser(r)
		if err != nil {
			return nil, fmt.Errorf("zstd.NewReader: %w", err)
		}
		return zr, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %v", compression)
	}
}

// decompressBytes runs data through decompress and reads it fully.
func decompressBytes(data []byte, compression Compression, decompress DecompressFunc) (out []byte, err error) {
	rc, err := decompress(io.NopCloser(bytes.NewReader(data)), compression)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing decompression reader: %w", cerr)
		}
	}()
	return io.ReadAll(rc)
}

// Compress encodes data with the given codec.
func Compress(data []byte, compression Compression) ([]byte, error) {
	var buf bytes.Buffer
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionGZIP:
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("gzip write: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("gzip close: %w", err)
		}
	case CompressionZstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("zstd.NewWriter: %w", err)
		}
		if _, err := zw.Write(data); err != nil {
			_ = zw.Close() //nolint:errcheck
			return nil, fmt.Errorf("zstd write: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("zstd close: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported compression: %v", compression)
	}
	return buf.Bytes(), nil
}
