package transform

import (
	"testing"
)

func BenchmarkCalculate(b *testing.B) {
	cfg := portraitCropConfig()
	cfg.SensorOrientation = 90

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Calculate(cfg)
	}
}

func BenchmarkTransformFlat(b *testing.B) {
	st := Calculate(portraitCropConfig())
	coords := make([]float64, 66)
	for i := range coords {
		coords[i] = float64(i) * 7
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		TransformFlat(st.Matrix, coords)
	}
}
