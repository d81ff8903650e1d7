package octaindex

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidField is returned when a packed field exceeds its bit budget.
	ErrInvalidField = errors.New("invalid field")
	// ErrParityViolation is returned when coordinates are not a BCC lattice point.
	ErrParityViolation = errors.New("parity violation")
	// ErrOutOfRange is returned when a coordinate does not fit the encoding width.
	ErrOutOfRange = errors.New("coordinate out of range")
	// ErrDecode is returned for malformed raw or textual identifiers.
	ErrDecode = errors.New("decode error")
	// ErrNoParent is returned by Parent at the coarsest resolution.
	ErrNoParent = errors.New("no parent: already at coarsest resolution")
	// ErrNoChildren is returned by Children at the finest resolution.
	ErrNoChildren = errors.New("no children: already at finest resolution")
)

// FieldError reports a packed field whose value exceeds its bit budget.
type FieldError struct {
	Field string
	Value uint64
	Max   uint64
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %d exceeds maximum %d", e.Field, e.Value, e.Max)
}

func (e *FieldError) Unwrap() error { return ErrInvalidField }

// ParityError reports coordinates that do not share a common parity.
type ParityError struct {
	X, Y, Z int64
}

func (e *ParityError) Error() string {
	return fmt.Sprintf("parity violation: (%d, %d, %d) must be all even or all odd", e.X, e.Y, e.Z)
}

func (e *ParityError) Unwrap() error { return ErrParityViolation }

// RangeError reports a coordinate outside the representable domain.
type RangeError struct {
	Axis  string
	Value int64
	Min   int64
	Max   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("coordinate out of range: %s=%d not in [%d, %d]", e.Axis, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// DecodeError reports a malformed identifier. The underlying cause, if
// any, is available through errors.Unwrap; errors.Is(err, ErrDecode)
// always holds.
type DecodeError struct {
	Input  string
	Reason string
	cause  error
}

func (e *DecodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("decoding %q: %s: %v", e.Input, e.Reason, e.cause)
	}
	return fmt.Sprintf("decoding %q: %s", e.Input, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.cause }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func checkField(field string, value, maxValue uint64) error {
	if value > maxValue {
		return &FieldError{Field: field, Value: value, Max: maxValue}
	}
	return nil
}

func checkRange(axis string, v, lo, hi int64) error {
	if v < lo || v > hi {
		return &RangeError{Axis: axis, Value: v, Min: lo, Max: hi}
	}
	return nil
}

func checkRange3(x, y, z, lo, hi int64) error {
	if err := checkRange("x", x, lo, hi); err != nil {
		return err
	}
	if err := checkRange("y", y, lo, hi); err != nil {
		return err
	}
	return checkRange("z", z, lo, hi)
}
