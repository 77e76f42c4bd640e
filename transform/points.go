package transform

import (
	"github.com/pose-ml/go-overlay/geometry"
	"github.com/pose-ml/go-overlay/internal/logging"
)

// TransformPoint applies a matrix to a single point.
func TransformPoint(m geometry.Matrix, p geometry.Point) geometry.Point {
	return m.TransformPoint(p)
}

// TransformPoints applies a matrix to every point, returning a new slice.
func TransformPoints(m geometry.Matrix, pts []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = m.TransformPoint(p)
	}
	return out
}

// TransformFlat applies a matrix in place to a flat coordinate array laid
// out as x0,y0,x1,y1,... . This is the throughput path: one bounds check
// free loop, no per-point allocation. Odd trailing elements are ignored.
func TransformFlat(m geometry.Matrix, coords []float64) {
	a, b, c := m.A, m.B, m.C
	d, e, f := m.D, m.E, m.F
	for i := 0; i+1 < len(coords); i += 2 {
		x, y := coords[i], coords[i+1]
		coords[i] = a*x + b*y + c
		coords[i+1] = d*x + e*y + f
	}
}

// Invert returns the inverse of a matrix. A non-invertible matrix yields
// the identity and false; the failure is recorded on the pipeline logger
// rather than surfaced as an error, keeping the per-frame boundary
// exception-free.
func Invert(m geometry.Matrix) (geometry.Matrix, bool) {
	inv, ok := m.Invert()
	if !ok {
		logging.Logger().Warn("transform: matrix not invertible, using identity",
			"determinant", m.Determinant())
	}
	return inv, ok
}
