// Package aspect resolves how a source frame is fitted into a display view:
// the scale factors and centering offsets implied by a fit policy, and the
// portion of the source that remains visible after cropping.
package aspect

import (
	"github.com/pkg/errors"

	"github.com/pose-ml/go-overlay/geometry"
)

// FitMode is the policy for reconciling source and view aspect ratios.
type FitMode string

const (
	// FitFill stretches each axis independently to cover the view. The
	// two scale factors differ whenever the aspect ratios differ.
	FitFill FitMode = "fill"
	// FitCenterCrop scales uniformly by the larger view/source ratio, so
	// the view is covered and the overflow axis is cropped.
	FitCenterCrop FitMode = "center-crop"
	// FitCenterInside scales uniformly by the smaller view/source ratio,
	// so the whole source is visible and the slack axis is letterboxed.
	FitCenterInside FitMode = "center-inside"
)

// Modes lists every fit mode, in a stable order for test and benchmark
// matrices.
var Modes = []FitMode{FitFill, FitCenterCrop, FitCenterInside}

// IsValid reports whether the mode is one of the defined policies.
func (m FitMode) IsValid() bool {
	switch m {
	case FitFill, FitCenterCrop, FitCenterInside:
		return true
	}
	return false
}

// ErrDegenerateSize marks a resolve attempt against a zero or negative
// dimension.
var ErrDegenerateSize = errors.New("aspect: degenerate size")

// ErrUnknownFitMode marks an unrecognized fit policy.
var ErrUnknownFitMode = errors.New("aspect: unknown fit mode")

// Placement holds the resolved scale factors and centering offsets mapping
// source pixels into view pixels:
//
//	viewX = srcX*ScaleX + OffsetX
//	viewY = srcY*ScaleY + OffsetY
//
// Negative offsets indicate cropping (center-crop overflow); positive
// offsets indicate letterbox bars (center-inside slack).
type Placement struct {
	ScaleX  float64 `json:"scaleX"`
	ScaleY  float64 `json:"scaleY"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Resolve computes the placement of a source frame inside a view for the
// given fit mode. Both sizes must be non-degenerate.
func Resolve(view, source geometry.Size, mode FitMode) (Placement, error) {
	if !view.IsValid() {
		return Placement{}, errors.Wrapf(ErrDegenerateSize, "view %dx%d", view.Width, view.Height)
	}
	if !source.IsValid() {
		return Placement{}, errors.Wrapf(ErrDegenerateSize, "source %dx%d", source.Width, source.Height)
	}

	rx := view.W() / source.W()
	ry := view.H() / source.H()

	switch mode {
	case FitFill:
		return Placement{ScaleX: rx, ScaleY: ry}, nil
	case FitCenterCrop:
		s := max(rx, ry)
		return centered(view, source, s), nil
	case FitCenterInside:
		s := min(rx, ry)
		return centered(view, source, s), nil
	}
	return Placement{}, errors.Wrapf(ErrUnknownFitMode, "%q", mode)
}

func centered(view, source geometry.Size, scale float64) Placement {
	return Placement{
		ScaleX:  scale,
		ScaleY:  scale,
		OffsetX: (view.W() - source.W()*scale) / 2,
		OffsetY: (view.H() - source.H()*scale) / 2,
	}
}

// VisibleSourceRegion returns the portion of the source image actually
// visible in the view, as a normalized rectangle. It is derived by
// projecting the view rectangle back through the placement and clamping to
// the unit square. Fill and center-inside always yield the full source;
// center-crop yields the centered sub-rectangle that survives the crop.
func VisibleSourceRegion(view, source geometry.Size, mode FitMode) (geometry.Rect, error) {
	p, err := Resolve(view, source, mode)
	if err != nil {
		return geometry.Rect{}, err
	}
	return p.VisibleSourceRegion(view, source), nil
}

// VisibleSourceRegion projects the view rectangle back through the
// placement onto normalized source coordinates.
func (p Placement) VisibleSourceRegion(view, source geometry.Size) geometry.Rect {
	if p.ScaleX <= 0 || p.ScaleY <= 0 || !source.IsValid() {
		return geometry.Rect{}
	}
	x0 := (0 - p.OffsetX) / (p.ScaleX * source.W())
	y0 := (0 - p.OffsetY) / (p.ScaleY * source.H())
	x1 := (view.W() - p.OffsetX) / (p.ScaleX * source.W())
	y1 := (view.H() - p.OffsetY) / (p.ScaleY * source.H())
	return geometry.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}.Clamp01()
}
