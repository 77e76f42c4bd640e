package transform

import "github.com/pose-ml/go-overlay/geometry"

// State is the derived, immutable output of Calculate. Once built it is
// never mutated; configuration changes produce a fresh State that readers
// adopt wholesale, so a reader can never observe a partially updated
// scale/rotation pair.
type State struct {
	// Matrix maps source pixel coordinates to view pixel coordinates.
	Matrix geometry.Matrix `json:"matrix"`
	// RotationDegrees is the requested display rotation, normalized.
	RotationDegrees float64 `json:"rotationDegrees"`
	// EffectiveRotation is the net content rotation in [0, 360) after
	// reconciling sensor orientation, display rotation, and facing.
	EffectiveRotation float64 `json:"effectiveRotation"`
	// ScaleX and ScaleY are the resolved fit scale factors. Strictly
	// positive for any valid state.
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	// TranslateX and TranslateY are the resolved centering offsets.
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	// Crop is the normalized sub-rectangle of the source actually
	// rendered. Only meaningful for center-crop; nil for other modes.
	Crop *geometry.Rect `json:"crop,omitempty"`
	// Valid reports whether the state is usable. An invalid state
	// carries an identity matrix and is treated as a pass-through.
	Valid bool `json:"valid"`
}

// InvalidState returns the explicit fallback state: identity matrix,
// invalid flag. Per-frame callers degrade to pass-through behavior rather
// than receiving an error.
func InvalidState() State {
	return State{Matrix: geometry.Identity()}
}
