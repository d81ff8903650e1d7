package octaindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

var (
	// ErrFrameConflict is returned when a frame id is re-registered with a
	// different descriptor.
	ErrFrameConflict = errors.New("frame conflict")
	// ErrUnknownFrame is returned by Lookup for unregistered ids.
	ErrUnknownFrame = errors.New("unknown frame")
)

// FrameDescriptor describes the reference frame behind a frame id.
type FrameDescriptor struct {
	Name        string  `json:"name"`
	Datum       string  `json:"datum"`
	Description string  `json:"description"`
	RightHanded bool    `json:"right_handed"`
	BaseUnit    float64 `json:"base_unit"`
}

// Fingerprint hashes every field of the descriptor.
func (d FrameDescriptor) Fingerprint() uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(d.Name)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(d.Datum)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(d.Description)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.FormatBool(d.RightHanded))
	_, _ = h.WriteString(strconv.FormatFloat(d.BaseUnit, 'g', -1, 64))
	return h.Sum64()
}

func (d FrameDescriptor) String() string {
	jsonBytes, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return `{"error": "failed to marshal FrameDescriptor"}`
	}
	return string(jsonBytes)
}

// Frame pairs an id with its descriptor.
type Frame struct {
	ID         uint8
	Descriptor FrameDescriptor
}

type registeredFrame struct {
	desc        FrameDescriptor
	fingerprint uint64
}

// FrameRegistry maps the 8-bit frame ids carried by identifiers to their
// descriptors. It is safe for concurrent use.
type FrameRegistry struct {
	mu     sync.RWMutex
	frames map[uint8]registeredFrame
	logger *zap.Logger
}

// NewFrameRegistry returns an empty registry. A nil logger discards
// output.
func NewFrameRegistry(logger *zap.Logger) *FrameRegistry {
	return &FrameRegistry{
		frames: make(map[uint8]registeredFrame),
		logger: orNop(logger).Named("frames"),
	}
}

// Register binds id to desc. Registering an identical descriptor again
// is a no-op; a different one fails with ErrFrameConflict.
func (r *FrameRegistry) Register(id uint8, desc FrameDescriptor) error {
	fp := desc.Fingerprint()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.frames[id]; ok {
		if existing.fingerprint == fp {
			return nil
		}
		return fmt.Errorf("registering frame %d as %q: %w: already %q", id, desc.Name, ErrFrameConflict, existing.desc.Name)
	}

	r.frames[id] = registeredFrame{desc: desc, fingerprint: fp}
	r.logger.Debug("frame registered",
		zap.Uint8("id", id),
		zap.String("name", desc.Name),
		zap.String("datum", desc.Datum),
	)
	return nil
}

// Lookup returns the descriptor of id.
func (r *FrameRegistry) Lookup(id uint8) (FrameDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.frames[id]
	if !ok {
		return FrameDescriptor{}, fmt.Errorf("frame %d: %w", id, ErrUnknownFrame)
	}
	return f.desc, nil
}

// List returns all registered frames sorted by id.
func (r *FrameRegistry) List() []Frame {
	r.mu.RLock()
	out := make([]Frame, 0, len(r.frames))
	for id, f := range r.frames {
		out = append(out, Frame{ID: id, Descriptor: f.desc})
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Frame) int {
		return int(a.ID) - int(b.ID)
	})
	return out
}

// FrameECEF is the Earth-centred Earth-fixed frame on WGS-84, frame id 0.
var FrameECEF = FrameDescriptor{
	Name:        "ECEF",
	Datum:       "WGS-84",
	Description: "Earth-centered, Earth-fixed",
	RightHanded: true,
	BaseUnit:    1.0,
}

// DefaultFrames is the process wide registry, pre-populated with frame 0.
var DefaultFrames = newDefaultFrames()

func newDefaultFrames() *FrameRegistry {
	r := NewFrameRegistry(nil)
	if err := r.Register(0, FrameECEF); err != nil {
		panic(err)
	}
	return r
}
