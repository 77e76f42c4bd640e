// Package rotation computes and caches rotation transforms for a display
// view, plus the angle arithmetic shared across the pipeline: angle
// normalization, shortest-path deltas, and sensor/display rotation
// reconciliation.
package rotation

import (
	"math"

	"github.com/pkg/errors"

	"github.com/pose-ml/go-overlay/geometry"
	"github.com/pose-ml/go-overlay/internal/logging"
)

// NormalizeAngle maps an angle in degrees onto [0, 360).
func NormalizeAngle(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// Delta returns the signed shortest-path rotation from one angle to
// another, in degrees within [-180, 180]. Delta(0, 270) is -90: rotating
// 90 degrees backwards is shorter than 270 forwards.
func Delta(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

// DisplayRotation returns the compensation angle for a sensor mounted at
// sensorRotation degrees on a device currently rotated to deviceRotation
// degrees.
func DisplayRotation(sensorRotation, deviceRotation int) int {
	return ((sensorRotation-deviceRotation)%360 + 360) % 360
}

// IsRightAngle reports whether the angle is a multiple of 90 degrees.
// Arbitrary angles are supported by the general rotation math but are
// outside the standard camera orientation contract, so callers flag them.
func IsRightAngle(deg float64) bool {
	return math.Mod(NormalizeAngle(deg), 90) == 0
}

// PostRotationSize returns the frame extent occupied by a view's content
// after rotating by the given angle: swapped for 90/270, unchanged
// otherwise.
func PostRotationSize(deg float64, view geometry.Size) geometry.Size {
	switch NormalizeAngle(deg) {
	case 90, 270:
		return view.Swapped()
	}
	return view
}

// AboutCenter builds the transform rotating a view's content by the given
// angle, mapping the pre-rotation frame onto the post-rotation frame with
// both centered on the same pivot:
//
//	M = T(postCenter) * R(angle) * T(-preCenter)
//
// For 90/270 the post-rotation frame has swapped dimensions, so the
// translation back out of the pivot uses the swapped center. This is the
// analytic form of the right-angle re-centering; no empirical offset is
// involved, and it holds for arbitrary angles with an unswapped frame.
func AboutCenter(deg float64, view geometry.Size) geometry.Matrix {
	pre := view.Center()
	post := PostRotationSize(deg, view).Center()
	m := geometry.Translate(post.X, post.Y)
	m = m.Multiply(geometry.RotateDegrees(deg))
	return m.Multiply(geometry.Translate(-pre.X, -pre.Y))
}

// Engine caches a rotation-about-center transform for one angle and view
// size. It is a single-writer object: SetRotation rebuilds the cache,
// RotatePoint and RotatePoints apply it. The zero value is unusable; use
// NewEngine.
type Engine struct {
	angle   float64
	view    geometry.Size
	forward geometry.Matrix
	inverse geometry.Matrix
}

// NewEngine returns an engine holding the identity rotation.
func NewEngine() *Engine {
	return &Engine{forward: geometry.Identity(), inverse: geometry.Identity()}
}

// SetRotation normalizes the angle to [0, 360) and rebuilds the cached
// rotation-about-center transform for the view. A degenerate view size
// resets the cache to identity and returns an error.
func (e *Engine) SetRotation(angleDegrees float64, view geometry.Size) error {
	a := NormalizeAngle(angleDegrees)
	if !view.IsValid() {
		e.angle = a
		e.view = view
		e.forward = geometry.Identity()
		e.inverse = geometry.Identity()
		return errors.Errorf("rotation: degenerate view size %dx%d", view.Width, view.Height)
	}
	if !IsRightAngle(a) {
		logging.Logger().Warn("non-standard rotation angle", "degrees", a)
	}

	e.angle = a
	e.view = view
	e.forward = AboutCenter(a, view)
	inv, ok := e.forward.Invert()
	if !ok {
		// Cannot happen for pure rotation+translation, but keep the
		// identity fallback contract anyway.
		logging.Logger().Warn("rotation matrix not invertible", "degrees", a)
		inv = geometry.Identity()
	}
	e.inverse = inv
	return nil
}

// Angle returns the cached angle in [0, 360).
func (e *Engine) Angle() float64 { return e.angle }

// Matrix returns the cached forward transform.
func (e *Engine) Matrix() geometry.Matrix { return e.forward }

// Inverse returns the cached inverse transform.
func (e *Engine) Inverse() geometry.Matrix { return e.inverse }

// RotatePoint applies the cached transform to a single point.
func (e *Engine) RotatePoint(p geometry.Point) geometry.Point {
	return e.forward.TransformPoint(p)
}

// RotatePoints applies the cached transform to every point, returning a new
// slice. The result is numerically identical to repeated RotatePoint calls.
func (e *Engine) RotatePoints(pts []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = e.forward.TransformPoint(p)
	}
	return out
}

// UnrotatePoint applies the cached inverse transform to a single point.
func (e *Engine) UnrotatePoint(p geometry.Point) geometry.Point {
	return e.inverse.TransformPoint(p)
}
