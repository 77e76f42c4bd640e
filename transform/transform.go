package transform

import (
	"math"

	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/geometry"
	"github.com/pose-ml/go-overlay/internal/logging"
	"github.com/pose-ml/go-overlay/rotation"
)

// EffectiveRotation returns the net content rotation in degrees within
// [0, 360). A front-facing sensor is mirrored relative to the display, so
// its orientation adds to the display rotation; a back-facing sensor
// subtracts it.
func EffectiveRotation(sensorOrientation, displayRotation int, frontFacing bool) int {
	if frontFacing {
		return ((sensorOrientation+displayRotation)%360 + 360) % 360
	}
	return ((sensorOrientation-displayRotation)%360 + 360) % 360
}

// Calculate turns a Config into a State. It never panics and never returns
// an error: any internal failure (degenerate size, unknown fit mode,
// non-finite scale) yields an invalid identity State and a warning on the
// pipeline logger.
//
// The matrix is composed in a fixed order: translate the source center to
// the origin, rotate by the effective rotation, mirror, scale, translate to
// the fitted target position. Mirroring before scaling keeps mirror and
// scale axis-aligned regardless of aspect ratio.
func Calculate(cfg Config) State {
	log := logging.Logger()

	if !cfg.SourceSize.IsValid() || !cfg.TargetSize.IsValid() {
		log.Warn("transform: degenerate size",
			"source", cfg.SourceSize, "target", cfg.TargetSize)
		return InvalidState()
	}

	eff := float64(EffectiveRotation(cfg.SensorOrientation, cfg.DisplayRotation, cfg.FrontFacing))
	if !rotation.IsRightAngle(eff) {
		log.Warn("transform: non-standard effective rotation", "degrees", eff)
	}

	// For right-angle rotations the upright content has the post-rotation
	// extent, so the fit policy is resolved against that extent.
	rotated := rotation.PostRotationSize(eff, cfg.SourceSize)
	placement, err := aspect.Resolve(cfg.TargetSize, rotated, cfg.FitMode)
	if err != nil {
		log.Warn("transform: aspect resolve failed", "error", err)
		return InvalidState()
	}
	if !scaleUsable(placement.ScaleX) || !scaleUsable(placement.ScaleY) {
		log.Warn("transform: non-positive scale",
			"scaleX", placement.ScaleX, "scaleY", placement.ScaleY)
		return InvalidState()
	}

	mirrorX, mirrorY := cfg.Mirrored()

	// Fixed composition order, innermost first.
	srcCenter := cfg.SourceSize.Center()
	m := geometry.Translate(
		placement.OffsetX+placement.ScaleX*rotated.W()/2,
		placement.OffsetY+placement.ScaleY*rotated.H()/2,
	)
	m = m.Multiply(geometry.Scale(placement.ScaleX, placement.ScaleY))
	m = m.Multiply(geometry.Scale(mirrorSign(mirrorX), mirrorSign(mirrorY)))
	m = m.Multiply(geometry.RotateDegrees(eff))
	m = m.Multiply(geometry.Translate(-srcCenter.X, -srcCenter.Y))

	if !m.IsFinite() {
		log.Warn("transform: non-finite matrix")
		return InvalidState()
	}

	st := State{
		Matrix:            m,
		RotationDegrees:   rotation.NormalizeAngle(float64(cfg.DisplayRotation)),
		EffectiveRotation: eff,
		ScaleX:            placement.ScaleX,
		ScaleY:            placement.ScaleY,
		TranslateX:        placement.OffsetX,
		TranslateY:        placement.OffsetY,
		Valid:             true,
	}

	if cfg.FitMode == aspect.FitCenterCrop {
		crop := cropRect(cfg.TargetSize, rotated, placement, eff)
		st.Crop = &crop
	}
	return st
}

func scaleUsable(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}

func mirrorSign(mirrored bool) float64 {
	if mirrored {
		return -1
	}
	return 1
}

// cropRect computes the normalized sub-rectangle of the source rendered
// under center-crop. The visible region is derived in the rotated frame and
// mapped back to the original source orientation; right-angle rotation of a
// centered region just swaps its extents.
func cropRect(target, rotated geometry.Size, p aspect.Placement, eff float64) geometry.Rect {
	region := p.VisibleSourceRegion(target, rotated)
	switch eff {
	case 90, 270:
		return geometry.Rect{X: region.Y, Y: region.X, Width: region.Height, Height: region.Width}
	}
	return region
}
