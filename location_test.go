package octaindex

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "file", FileScheme.String())
	assert.Equal(t, "s3", S3Scheme.String())
	assert.Equal(t, "unknown", UnknownScheme.String())
	assert.Equal(t, "unknown", Scheme(9).String())
}

func TestParseLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		want      Location
		canonical string
		expectErr bool
	}{
		{name: "empty input", input: "  ", expectErr: true},
		{
			name:      "absolute path",
			input:     "/data/cells.oidx",
			want:      Location{scheme: FileScheme, path: filepath.FromSlash("/data/cells.oidx")},
			canonical: filepath.FromSlash("/data/cells.oidx"),
		},
		{
			name:      "relative path is cleaned",
			input:     "./data/../data/cells.oidx",
			want:      Location{scheme: FileScheme, path: filepath.FromSlash("data/cells.oidx")},
			canonical: filepath.FromSlash("data/cells.oidx"),
		},
		{
			name:      "file uri",
			input:     "file:///data/cells.oidx",
			want:      Location{scheme: FileScheme, path: filepath.FromSlash("/data/cells.oidx")},
			canonical: filepath.FromSlash("/data/cells.oidx"),
		},
		{
			name:      "file uri with escapes",
			input:     "file:///data/my%20cells.oidx",
			want:      Location{scheme: FileScheme, path: filepath.FromSlash("/data/my cells.oidx")},
			canonical: filepath.FromSlash("/data/my cells.oidx"),
		},
		{name: "file uri without path", input: "file://", expectErr: true},
		{
			name:      "s3 object",
			input:     "s3://my-bucket/archives/cells.oidx",
			want:      Location{scheme: S3Scheme, bucket: "my-bucket", key: "archives/cells.oidx"},
			canonical: "s3://my-bucket/archives/cells.oidx",
		},
		{
			name:      "upper case scheme",
			input:     "S3://my-bucket//cells.oidx",
			want:      Location{scheme: S3Scheme, bucket: "my-bucket", key: "cells.oidx"},
			canonical: "s3://my-bucket/cells.oidx",
		},
		{name: "s3 without bucket", input: "s3:///cells.oidx", expectErr: true},
		{name: "s3 without key", input: "s3://my-bucket/", expectErr: true},
		{name: "unsupported scheme", input: "ftp://host/cells.oidx", expectErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			loc, err := ParseLocation(tc.input)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, loc)
			assert.Equal(t, tc.canonical, loc.String())
		})
	}
}
