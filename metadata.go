package octaindex

import (
	"context"
	"encoding/json"
	"fmt"
)

// ArchiveMetadata is the JSON document stored next to the directories.
type ArchiveMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Attribution string `json:"attribution"`
	Version     string `json:"version"`
	// Frame is the registered name of the archive's reference frame.
	Frame string `json:"frame,omitempty"`
}

func (m *ArchiveMetadata) ReadFrom(
	ctx context.Context,
	header ArchiveHeader,
	r RangeReader,
	decompress DecompressFunc,
) error {
	if header.MetadataLength == 0 {
		*m = ArchiveMetadata{}
		return nil
	}

	data, err := r.ReadRange(
		ctx,
		NewRange(header.MetadataOffset, header.MetadataLength),
	)
	if err != nil {
		return fmt.Errorf("reading metadata range: %w", err)
	}

	jsonData, err := decompressBytes(data, header.InternalCompression, decompress)
	if err != nil {
		return fmt.Errorf("decompressing metadata: %w", err)
	}

	if err := json.Unmarshal(jsonData, m); err != nil {
		return fmt.Errorf("unmarshalling metadata: %w", err)
	}

	return nil
}

func (m ArchiveMetadata) String() string {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return `{"error": "failed to marshal ArchiveMetadata"}`
	}
	return string(jsonBytes)
}
