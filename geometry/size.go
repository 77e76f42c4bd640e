package geometry

// Size holds pixel dimensions of a view or source frame.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h int) Size {
	return Size{Width: w, Height: h}
}

// IsValid reports whether both dimensions are strictly positive. All
// downstream transform math requires a valid size; degenerate sizes yield
// explicitly invalid results rather than division-by-zero panics.
func (s Size) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}

// Swapped returns the size with width and height exchanged, which is the
// extent occupied by the content after a 90 or 270 degree rotation.
func (s Size) Swapped() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// W returns the width as float64.
func (s Size) W() float64 { return float64(s.Width) }

// H returns the height as float64.
func (s Size) H() float64 { return float64(s.Height) }

// AspectRatio returns width/height, or 0 for a degenerate size.
func (s Size) AspectRatio() float64 {
	if s.Height <= 0 {
		return 0
	}
	return s.W() / s.H()
}

// Center returns the geometric center of the size's pixel extent.
func (s Size) Center() Point {
	return Point{X: s.W() / 2, Y: s.H() / 2}
}
