package transform

import (
	"github.com/pose-ml/go-overlay/geometry"
)

// DefaultTolerancePixels is the round-trip distance tolerance used by the
// accuracy harness when no explicit tolerance is given.
const DefaultTolerancePixels = 2.0

// roundTripPassRatio is the minimum fraction of test points that must
// round-trip within tolerance.
const roundTripPassRatio = 0.95

// RoundTripResult aggregates a forward/inverse round-trip validation run.
type RoundTripResult struct {
	// MaxError is the largest Euclidean distance between an input point
	// and its forward-then-inverse image, in pixels.
	MaxError float64 `json:"maxError"`
	// MeanError is the average round-trip distance, in pixels.
	MeanError float64 `json:"meanError"`
	// AccuracyRatio is 1 minus the fraction of points exceeding the
	// tolerance.
	AccuracyRatio float64 `json:"accuracyRatio"`
	// PointCount is the number of points tested.
	PointCount int `json:"pointCount"`
	// Passed reports MaxError <= tolerance and AccuracyRatio >= 0.95.
	Passed bool `json:"passed"`
}

// ValidateRoundTrip applies forward then inverse to every test point and
// measures the Euclidean distance back to the original. It is the runtime
// accuracy contract of the pipeline, not just a test helper: the mapper's
// telemetry and the benchmark harness both feed it.
func ValidateRoundTrip(forward, inverse geometry.Matrix, testPoints []geometry.Point, toleranceInPixels float64) RoundTripResult {
	if len(testPoints) == 0 {
		return RoundTripResult{Passed: false}
	}

	var sum float64
	var maxErr float64
	exceeded := 0
	for _, p := range testPoints {
		rt := inverse.TransformPoint(forward.TransformPoint(p))
		d := rt.DistanceTo(p)
		sum += d
		if d > maxErr {
			maxErr = d
		}
		if d > toleranceInPixels {
			exceeded++
		}
	}

	n := len(testPoints)
	ratio := 1 - float64(exceeded)/float64(n)
	return RoundTripResult{
		MaxError:      maxErr,
		MeanError:     sum / float64(n),
		AccuracyRatio: ratio,
		PointCount:    n,
		Passed:        maxErr <= toleranceInPixels && ratio >= roundTripPassRatio,
	}
}

// GenerateTestPoints produces the deterministic validation fixture for a
// source size: the four corners, the center, and a density x density
// regular grid over the full frame. The validator and the benchmark
// harness both consume this fixture so they operate on identical,
// reproducible inputs.
func GenerateTestPoints(sourceSize geometry.Size, density int) []geometry.Point {
	if !sourceSize.IsValid() {
		return nil
	}
	w, h := sourceSize.W(), sourceSize.H()

	pts := make([]geometry.Point, 0, 5+density*density)
	pts = append(pts,
		geometry.Pt(0, 0),
		geometry.Pt(w, 0),
		geometry.Pt(0, h),
		geometry.Pt(w, h),
		geometry.Pt(w/2, h/2),
	)
	if density < 2 {
		return pts
	}
	for iy := 0; iy < density; iy++ {
		y := h * float64(iy) / float64(density-1)
		for ix := 0; ix < density; ix++ {
			x := w * float64(ix) / float64(density-1)
			pts = append(pts, geometry.Pt(x, y))
		}
	}
	return pts
}
