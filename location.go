package octaindex

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

var errEmptyLocation = errors.New("empty archive location")

// Scheme is the storage backend an archive is read from.
type Scheme uint8

const (
	UnknownScheme Scheme = iota
	FileScheme
	S3Scheme
)

func (s Scheme) String() string {
	switch s {
	case FileScheme:
		return "file"
	case S3Scheme:
		return "s3"
	default:
		return "unknown"
	}
}

// Location names one archive: a local file or a single S3 object.
type Location struct {
	scheme Scheme
	path   string
	bucket string
	key    string
}

func (l Location) Scheme() Scheme { return l.scheme }

// Path is the cleaned local file path. Empty for S3 locations.
func (l Location) Path() string { return l.path }

func (l Location) Bucket() string { return l.bucket }

// Key is the object key without a leading slash.
func (l Location) Key() string { return l.key }

func (l Location) String() string {
	if l.scheme == S3Scheme {
		return "s3://" + l.bucket + "/" + l.key
	}
	return l.path
}

// ParseLocation accepts a bare file path, a file:// URI or an
// s3://bucket/key URI.
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, errEmptyLocation
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return Location{scheme: FileScheme, path: filepath.Clean(raw)}, nil
	}

	switch strings.ToLower(scheme) {
	case "file":
		u, err := url.Parse(raw)
		if err != nil {
			return Location{}, fmt.Errorf("parsing archive location %q: %w", raw, err)
		}
		p := filepath.FromSlash(filepath.Join(u.Host, u.Path))
		if p == "" || p == "." {
			return Location{}, errEmptyLocation
		}
		return Location{scheme: FileScheme, path: p}, nil
	case "s3":
		bucket, key, _ := strings.Cut(rest, "/")
		key = strings.TrimLeft(key, "/")
		switch {
		case bucket == "":
			return Location{}, fmt.Errorf("archive location %q: missing bucket", raw)
		case key == "":
			return Location{}, fmt.Errorf("archive location %q: missing object key", raw)
		}
		return Location{scheme: S3Scheme, bucket: bucket, key: key}, nil
	default:
		return Location{}, fmt.Errorf("archive location %q: unsupported scheme %q", raw, scheme)
	}
}
