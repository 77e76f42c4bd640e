package mapper

import (
	"testing"

	"github.com/pose-ml/go-overlay/geometry"
)

func BenchmarkNormalizedToPixel(b *testing.B) {
	cfg := portraitCropConfig()
	cfg.SensorOrientation = 90
	m := New(cfg)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.NormalizedToPixel(0.5, 0.5)
	}
}

func BenchmarkBatchNormalizedToPixel(b *testing.B) {
	m := New(portraitCropConfig())

	pts := make([]geometry.Point, 33)
	for i := range pts {
		pts[i] = geometry.Pt(float64(i)/33, float64(32-i)/33)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.BatchNormalizedToPixel(pts)
	}
}

func BenchmarkMapFlat(b *testing.B) {
	m := New(portraitCropConfig())

	coords := make([]float64, 66)
	for i := range coords {
		coords[i] = float64(i) / 66
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.MapFlat(coords)
	}
}
