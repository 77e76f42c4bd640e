// Package transform derives the complete display transform for one camera
// configuration: the affine matrix mapping source pixels to view pixels
// under rotation, mirroring, and aspect-ratio fitting, plus the inversion
// and round-trip validation utilities built around it.
package transform

import (
	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/geometry"
)

// MirrorMode controls reflection of the source content, primarily so a
// front-facing camera preview matches the user's mirror expectation.
type MirrorMode string

const (
	// MirrorNone applies no reflection.
	MirrorNone MirrorMode = "none"
	// MirrorHorizontal reflects about the vertical center line.
	MirrorHorizontal MirrorMode = "horizontal"
	// MirrorVertical reflects about the horizontal center line.
	MirrorVertical MirrorMode = "vertical"
	// MirrorAuto reflects horizontally iff the source is front-facing.
	MirrorAuto MirrorMode = "auto"
)

// Config is the immutable input bundle for one transform derivation. A new
// Config is created whenever view size, source size, rotation, fit mode, or
// camera facing changes; derivation is event-driven, never per-frame.
type Config struct {
	// SourceSize is the camera frame size in pixels, in sensor
	// orientation.
	SourceSize geometry.Size `json:"sourceSize" yaml:"sourceSize"`
	// TargetSize is the display view size in pixels.
	TargetSize geometry.Size `json:"targetSize" yaml:"targetSize"`
	// SensorOrientation is the camera sensor mounting angle in degrees.
	SensorOrientation int `json:"sensorOrientation" yaml:"sensorOrientation"`
	// DisplayRotation is the current device display rotation in degrees.
	DisplayRotation int `json:"displayRotation" yaml:"displayRotation"`
	// FrontFacing reports whether the source is a front-facing camera.
	FrontFacing bool `json:"frontFacing" yaml:"frontFacing"`
	// FitMode is the aspect-ratio fitting policy.
	FitMode aspect.FitMode `json:"fitMode" yaml:"fitMode"`
	// MirrorMode is the reflection policy.
	MirrorMode MirrorMode `json:"mirrorMode" yaml:"mirrorMode"`
}

// Mirrored resolves the mirror policy against the camera facing: Auto
// mirrors horizontally iff the source is front-facing.
func (c Config) Mirrored() (mirrorX, mirrorY bool) {
	switch c.MirrorMode {
	case MirrorHorizontal:
		return true, false
	case MirrorVertical:
		return false, true
	case MirrorAuto:
		return c.FrontFacing, false
	}
	return false, false
}
