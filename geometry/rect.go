package geometry

// Rect is an axis-aligned rectangle. In this codebase it is used almost
// exclusively in normalized source coordinates, where the full source image
// is Rect{X: 0, Y: 0, Width: 1, Height: 1}.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FullRect is the normalized rectangle covering the whole source image.
func FullRect() Rect {
	return Rect{X: 0, Y: 0, Width: 1, Height: 1}
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Contains reports whether the point lies inside the rectangle, edges
// included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Clamp01 intersects the rectangle with the unit square. An empty
// intersection yields a zero-area rect.
func (r Rect) Clamp01() Rect {
	x0 := Clamp01(r.X)
	y0 := Clamp01(r.Y)
	x1 := Clamp01(r.MaxX())
	y1 := Clamp01(r.MaxY())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// BoundingRect returns the smallest rectangle containing every point.
// Returns a zero rect for an empty slice.
func BoundingRect(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
