package octaindex

import (
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Human readable prefixes of the Bech32m text form of each identifier.
const (
	HRPIndex64     = "i3d"
	HRPHilbert64   = "h3d"
	HRPRoute64     = "r3d"
	HRPGalactic128 = "g3d"
	HRPCellID      = "cx3d"
)

func encodeBech32m(hrp string, payload []byte) (string, error) {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.EncodeM(hrp, data)
}

// decodeBech32m checks the prefix, checksum variant and payload size of s.
func decodeBech32m(hrp, s string, size int) ([]byte, error) {
	got, data, version, err := bech32.DecodeGeneric(s)
	if err != nil {
		return nil, &DecodeError{Input: s, Reason: "invalid bech32m", cause: err}
	}
	if version != bech32.VersionM {
		return nil, &DecodeError{Input: s, Reason: "checksum is not bech32m"}
	}
	if got != hrp {
		return nil, &DecodeError{Input: s, Reason: "unexpected prefix " + got + ", want " + hrp}
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, &DecodeError{Input: s, Reason: "invalid padding", cause: err}
	}
	if len(payload) != size {
		return nil, &DecodeError{Input: s, Reason: "unexpected payload length"}
	}
	return payload, nil
}

// ParseIdentifier decodes the Bech32m text of any identifier type and
// returns an Index64, Hilbert64, Route64, Galactic128 or CellID.
func ParseIdentifier(s string) (any, error) {
	hrp, _, _, err := bech32.DecodeGeneric(s)
	if err != nil {
		return nil, &DecodeError{Input: s, Reason: "invalid bech32m", cause: err}
	}
	switch hrp {
	case HRPIndex64:
		return identifier(ParseIndex64(s))
	case HRPHilbert64:
		return identifier(ParseHilbert64(s))
	case HRPRoute64:
		return identifier(ParseRoute64(s))
	case HRPGalactic128:
		return identifier(ParseGalactic128(s))
	case HRPCellID:
		return identifier(ParseCellID(s))
	default:
		return nil, &DecodeError{Input: s, Reason: "unknown prefix " + hrp}
	}
}

// identifier boxes a parsed value, keeping the interface nil on error.
func identifier[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
