package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/geometry"
)

func TestGenerateTestPoints(t *testing.T) {
	pts := GenerateTestPoints(geometry.Sz(640, 480), 10)
	assert.Len(t, pts, 5+10*10)

	// Fixture opens with corners and center, in a fixed order.
	assert.Equal(t, geometry.Pt(0, 0), pts[0])
	assert.Equal(t, geometry.Pt(640, 0), pts[1])
	assert.Equal(t, geometry.Pt(0, 480), pts[2])
	assert.Equal(t, geometry.Pt(640, 480), pts[3])
	assert.Equal(t, geometry.Pt(320, 240), pts[4])

	// Grid spans the full frame.
	assert.Equal(t, geometry.Pt(0, 0), pts[5])
	assert.Equal(t, geometry.Pt(640, 480), pts[len(pts)-1])
}

func TestGenerateTestPointsDeterministic(t *testing.T) {
	a := GenerateTestPoints(geometry.Sz(1280, 720), 7)
	b := GenerateTestPoints(geometry.Sz(1280, 720), 7)
	assert.Equal(t, a, b)
}

func TestGenerateTestPointsEdgeCases(t *testing.T) {
	assert.Nil(t, GenerateTestPoints(geometry.Sz(0, 480), 10))
	assert.Len(t, GenerateTestPoints(geometry.Sz(640, 480), 1), 5)
	assert.Len(t, GenerateTestPoints(geometry.Sz(640, 480), 0), 5)
}

// The round-trip contract must hold for every fit mode and standard
// rotation: at least 95% of grid points within tolerance, maximum error
// never beyond twice the tolerance.
func TestRoundTripAllModes(t *testing.T) {
	source := geometry.Sz(640, 480)
	points := GenerateTestPoints(source, 15)

	for _, fit := range aspect.Modes {
		for _, rot := range []int{0, 90, 180, 270} {
			cfg := Config{
				SourceSize:        source,
				TargetSize:        geometry.Sz(1080, 1920),
				SensorOrientation: rot,
				FitMode:           fit,
				MirrorMode:        MirrorNone,
			}
			st := Calculate(cfg)
			require.True(t, st.Valid, "fit=%s rot=%d", fit, rot)

			inv, ok := Invert(st.Matrix)
			require.True(t, ok, "fit=%s rot=%d", fit, rot)

			rt := ValidateRoundTrip(st.Matrix, inv, points, DefaultTolerancePixels)
			assert.True(t, rt.Passed, "fit=%s rot=%d maxErr=%v", fit, rot, rt.MaxError)
			assert.GreaterOrEqual(t, rt.AccuracyRatio, 0.95, "fit=%s rot=%d", fit, rot)
			assert.LessOrEqual(t, rt.MaxError, 2*DefaultTolerancePixels, "fit=%s rot=%d", fit, rot)
		}
	}
}

func TestValidateRoundTripFailure(t *testing.T) {
	// A deliberately wrong inverse produces large errors and a failed run.
	forward := geometry.Scale(4, 4)
	wrongInverse := geometry.Scale(0.5, 0.5)
	points := GenerateTestPoints(geometry.Sz(640, 480), 5)

	rt := ValidateRoundTrip(forward, wrongInverse, points, DefaultTolerancePixels)
	assert.False(t, rt.Passed)
	assert.Less(t, rt.AccuracyRatio, 0.95)
	assert.Greater(t, rt.MaxError, DefaultTolerancePixels)
}

func TestValidateRoundTripEmpty(t *testing.T) {
	rt := ValidateRoundTrip(geometry.Identity(), geometry.Identity(), nil, 1)
	assert.False(t, rt.Passed)
	assert.Zero(t, rt.PointCount)
}
