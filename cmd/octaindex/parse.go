package main

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
)

func parseInt32s(args []string) ([]int32, error) {
	out := make([]int32, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", a, err)
		}
		out = append(out, int32(v))
	}
	return out, nil
}

func parseUint16s(args []string) ([]uint16, error) {
	out := make([]uint16, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseUint(a, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", a, err)
		}
		out = append(out, uint16(v))
	}
	return out, nil
}

func parseUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", s, err)
	}
	return uint8(v), nil
}

// stringsOf renders identifiers with their String method.
func stringsOf[T fmt.Stringer](items []T) []string {
	return lo.Map(items, func(item T, _ int) string {
		return item.String()
	})
}
