package octaindex

import (
	"testing"
)

var (
	benchX uint16 = 40123
	benchY uint16 = 1207
	benchZ uint16 = 65000
)

func BenchmarkMortonEncodeLUT(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = mortonEncodeLUT(benchX, benchY, benchZ)
	}
}

func BenchmarkMortonEncodeSplit(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = mortonEncodeSplit(benchX, benchY, benchZ)
	}
}

func BenchmarkMortonDecodeLUT(b *testing.B) {
	code := MortonEncode(benchX, benchY, benchZ)
	b.ReportAllocs()
	for b.Loop() {
		_, _, _ = mortonDecodeLUT(code)
	}
}

func BenchmarkMortonDecodeSplit(b *testing.B) {
	code := MortonEncode(benchX, benchY, benchZ)
	b.ReportAllocs()
	for b.Loop() {
		_, _, _ = mortonDecodeSplit(code)
	}
}

func BenchmarkHilbertEncode(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = HilbertEncode(benchX, benchY, benchZ)
	}
}

func BenchmarkFastHilbertEncode(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = FastHilbertEncode(benchX, benchY, benchZ)
	}
}

func BenchmarkHilbertDecode(b *testing.B) {
	code := HilbertEncode(benchX, benchY, benchZ)
	b.ReportAllocs()
	for b.Loop() {
		_, _, _ = HilbertDecode(code)
	}
}

func BenchmarkFastHilbertDecode(b *testing.B) {
	code := FastHilbertEncode(benchX, benchY, benchZ)
	b.ReportAllocs()
	for b.Loop() {
		_, _, _ = FastHilbertDecode(code)
	}
}

func BenchmarkRoute64Neighbors(b *testing.B) {
	r, err := NewRoute64(0, 101, -33, 7)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Neighbors()
	}
}

func BenchmarkCellIDString(b *testing.B) {
	c, err := NewCellID(1, 12, 101, -33, 7, 0, 0)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = c.String()
	}
}

func BenchmarkKRing3(b *testing.B) {
	r, err := NewRoute64(0, 0, 0, 0)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = KRing(r, 3)
	}
}

func BenchmarkEngineMortonEncode(b *testing.B) {
	points := randomPoints(1<<17, 51)
	for name, options := range map[string][]EngineOption{
		"blocked":  {WithParallelThreshold(1 << 30)},
		"parallel": nil,
	} {
		b.Run(name, func(b *testing.B) {
			e := NewEngine(options...)
			b.ReportAllocs()
			for b.Loop() {
				_ = e.MortonEncode(points)
			}
		})
	}
}
