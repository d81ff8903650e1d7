package octaindex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	indexOffset = 0
	indexSize   = 1
)

type Sizer interface {
	Size() uint64
}

type Offsetter interface {
	Offset() uint64
}

type Ranger interface {
	Offsetter
	Sizer
	Validate() error
}

// Range is an (offset, size) byte window.
type Range [2]uint64

func (r Range) Offset() uint64 {
	return r[indexOffset]
}

func (r Range) Size() uint64 {
	return r[indexSize]
}

func (r Range) Validate() error {
	if r.Size() == 0 {
		return errors.New("invalid range. size must be a positive integer")
	}
	return nil
}

// HTTPRange renders r as an inclusive HTTP Range header value.
func (r Range) HTTPRange() string {
	return fmt.Sprintf("bytes=%d-%d", r.Offset(), r.Offset()+r.Size()-1)
}

func NewRange(offset, size uint64) Range {
	var r Range
	r[indexOffset] = offset
	r[indexSize] = size
	return r
}

// RangeReader reads byte windows of an archive.
type RangeReader interface {
	ReadRange(ctx context.Context, ranger Ranger) ([]byte, error)
}

// NewRangeReader opens a reader for a file path, file:// URI or
// s3://bucket/key URI.
func NewRangeReader(ctx context.Context, location string) (RangeReader, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme() {
	case FileScheme:
		return NewFileRangeReader(loc.Path())
	case S3Scheme:
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		return NewS3RangeReader(s3.NewFromConfig(cfg), loc.Bucket(), loc.Key())
	default:
		return nil, fmt.Errorf("unsupported archive scheme %s", loc.Scheme())
	}
}

func NewFileRangeReader(path string) (*FileRangeReader, error) {
	filePath := filepath.Clean(path)
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file at path %s: %w", path, err)
	}

	return &FileRangeReader{file: f}, nil
}

// FileRangeReader reads ranges from a local file.
type FileRangeReader struct {
	file *os.File
}

func (f *FileRangeReader) ReadRange(ctx context.Context, ranger Ranger) ([]byte, error) {
	return readAtRange(ctx, f.file, ranger)
}

func (f *FileRangeReader) Close() error {
	return f.file.Close()
}

// BytesRangeReader reads ranges from an in-memory archive.
type BytesRangeReader struct {
	data []byte
}

func NewBytesRangeReader(data []byte) *BytesRangeReader {
	return &BytesRangeReader{data: data}
}

func (b *BytesRangeReader) ReadRange(ctx context.Context, ranger Ranger) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ranger.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranger: %w", err)
	}
	start := ranger.Offset()
	if start >= uint64(len(b.data)) {
		return nil, fmt.Errorf("range %d+%d: %w", start, ranger.Size(), io.EOF)
	}
	end := min(start+ranger.Size(), uint64(len(b.data)))
	out := make([]byte, ranger.Size())
	copy(out, b.data[start:end])
	return out, nil
}

func readAtRange(ctx context.Context, r io.ReaderAt, ranger Ranger) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ranger.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranger: %w", err)
	}

	buf := make([]byte, ranger.Size())
	_, err := r.ReadAt(buf, int64(ranger.Offset())) //nolint:gosec
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}

	return buf, nil
}

// S3API is the subset of the S3 client used for range reads.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3RangeReader reads ranges of one object with ranged GetObject calls.
type S3RangeReader struct {
	client S3API
	bucket string
	key    string
}

func NewS3RangeReader(client S3API, bucket, key string) (*S3RangeReader, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 reader needs bucket and key, got %q and %q", bucket, key)
	}
	return &S3RangeReader{client: client, bucket: bucket, key: key}, nil
}

func (s *S3RangeReader) ReadRange(ctx context.Context, ranger Ranger) ([]byte, error) {
	if err := ranger.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranger: %w", err)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(NewRange(ranger.Offset(), ranger.Size()).HTTPRange()),
	})
	if err != nil {
		return nil, fmt.Errorf("getting s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer func() {
		_ = out.Body.Close() //nolint:errcheck
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3 body: %w", err)
	}
	return data, nil
}
