// Package camera models the configuration metadata delivered by the
// camera-session collaborator: frame size, sensor mounting orientation,
// display rotation, and facing. It is delivered on configuration change,
// never per frame, and feeds transform derivation.
package camera

import (
	"github.com/pkg/errors"

	"github.com/pose-ml/go-overlay/geometry"
)

// Facing identifies which way the camera points.
type Facing string

const (
	// FacingBack is the world-facing camera.
	FacingBack Facing = "back"
	// FacingFront is the user-facing camera; its preview is conventionally
	// mirrored.
	FacingFront Facing = "front"
)

// IsValid reports whether the facing is one of the defined values.
func (f Facing) IsValid() bool {
	return f == FacingBack || f == FacingFront
}

// Front reports whether the facing is the user-facing camera.
func (f Facing) Front() bool { return f == FacingFront }

// Orientations are the sensor mounting angles camera stacks report.
var Orientations = []int{0, 90, 180, 270}

// ValidOrientation reports whether the angle is a standard sensor
// orientation.
func ValidOrientation(deg int) bool {
	switch deg {
	case 0, 90, 180, 270:
		return true
	}
	return false
}

// Settings is the camera-session metadata bundle consumed by the transform
// pipeline.
type Settings struct {
	// SourceSize is the frame size in sensor orientation.
	SourceSize geometry.Size `json:"sourceSize" yaml:"sourceSize"`
	// SensorOrientation is the sensor mounting angle in degrees.
	SensorOrientation int `json:"sensorOrientation" yaml:"sensorOrientation"`
	// DisplayRotation is the current device display rotation in degrees.
	DisplayRotation int `json:"displayRotation" yaml:"displayRotation"`
	// Facing is the camera direction.
	Facing Facing `json:"facing" yaml:"facing"`
}

// DefaultSettings returns a back-facing 720p configuration, the common
// baseline for pose preview sessions.
func DefaultSettings() Settings {
	return Settings{
		SourceSize:        geometry.Sz(1280, 720),
		SensorOrientation: 90,
		Facing:            FacingBack,
	}
}

// Validate checks the bundle for values the transform pipeline cannot
// derive a state from.
func (s Settings) Validate() error {
	if !s.SourceSize.IsValid() {
		return errors.Errorf("camera: degenerate source size %dx%d",
			s.SourceSize.Width, s.SourceSize.Height)
	}
	if !ValidOrientation(s.SensorOrientation) {
		return errors.Errorf("camera: sensor orientation %d not in %v",
			s.SensorOrientation, Orientations)
	}
	if !s.Facing.IsValid() {
		return errors.Errorf("camera: unknown facing %q", s.Facing)
	}
	return nil
}
