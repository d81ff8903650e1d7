package octaindex

import (
	"encoding/json"
)

// KeyKind names the 48-bit code an archive is sorted by.
type KeyKind uint8

const (
	KeyKindUnknown KeyKind = iota
	// KeyKindHilbert stores Hilbert64 codes.
	KeyKindHilbert
	// KeyKindMorton stores Index64 Morton codes.
	KeyKindMorton
)

var keyKindOptions = map[KeyKind]string{
	KeyKindUnknown: "unknown",
	KeyKindHilbert: "hilbert",
	KeyKindMorton:  "morton",
}

func (k KeyKind) String() string {
	str, ok := keyKindOptions[k]
	if !ok {
		return keyKindOptions[KeyKindUnknown]
	}
	return str
}

func (k KeyKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// HRP returns the Bech32m prefix of identifiers keyed by k.
func (k KeyKind) HRP() string {
	switch k {
	case KeyKindHilbert:
		return HRPHilbert64
	case KeyKindMorton:
		return HRPIndex64
	default:
		return ""
	}
}

// keyOf extracts the archive key of h.
func (k KeyKind) keyOf(h Hilbert64) uint64 {
	if k == KeyKindMorton {
		return h.ToIndex64().Morton()
	}
	return h.Hilbert()
}

// cellOf rebuilds the cell stored under code.
func (k KeyKind) cellOf(frame, tier, lod uint8, code uint64) Hilbert64 {
	if k == KeyKindMorton {
		return Index64(packKey64(headerIndex64, frame, tier, lod, code)).ToHilbert64()
	}
	return Hilbert64(packKey64(headerHilbert64, frame, tier, lod, code))
}
