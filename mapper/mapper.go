// Package mapper implements the per-frame hot path: converting normalized
// landmark coordinates to display pixels and back under the currently
// published transform state.
//
// The mapper is a single-writer, multi-reader object. Configuration events
// (rotation, resize, fit mode, camera facing) rebuild a complete immutable
// snapshot and publish it through an atomic pointer; per-frame readers load
// the snapshot once and work against it, so they always observe either the
// old or the new state, never a mix. Point conversions are pure given the
// published snapshot and safe to call from multiple goroutines without
// locking.
package mapper

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/geometry"
	"github.com/pose-ml/go-overlay/transform"
)

// snapshot is one complete, immutable transform state. Rebuilt wholesale on
// every configuration event.
type snapshot struct {
	state transform.State

	// forward maps normalized source coordinates to view pixels; inverse
	// maps view pixels back to normalized source coordinates. Both fold
	// the source-dimension scaling into the affine coefficients so the
	// per-point cost is a single matrix application.
	forward geometry.Matrix
	inverse geometry.Matrix

	viewW, viewH float64
	visible      geometry.Rect
	valid        bool
}

// Mapper converts between normalized landmark space and view pixel space.
// Use New; the zero value is not usable.
type Mapper struct {
	mu  sync.Mutex // serializes configuration writers
	cfg transform.Config
	cur atomic.Pointer[snapshot]

	// Telemetry. Written by readers, so kept in atomics rather than under mu.
	transformCount atomic.Uint64
	errorSumBits   atomic.Uint64 // float64 bits, accumulated round-trip error
	errorCount     atomic.Uint64
}

// New builds a mapper for the initial configuration. A degenerate
// configuration is accepted: the mapper publishes an invalid snapshot and
// degrades to clamped pass-through until a usable configuration arrives.
func New(cfg transform.Config) *Mapper {
	m := &Mapper{cfg: cfg}
	m.cur.Store(buildSnapshot(cfg))
	return m
}

func buildSnapshot(cfg transform.Config) *snapshot {
	st := transform.Calculate(cfg)
	if !st.Valid {
		return &snapshot{
			state:   st,
			forward: geometry.Identity(),
			inverse: geometry.Identity(),
			visible: geometry.FullRect(),
		}
	}

	// Fold normalized->source-pixel scaling into the state matrix.
	fwd := st.Matrix.Multiply(geometry.Scale(cfg.SourceSize.W(), cfg.SourceSize.H()))
	inv, ok := transform.Invert(fwd)
	if !ok {
		return &snapshot{
			state:   transform.InvalidState(),
			forward: geometry.Identity(),
			inverse: geometry.Identity(),
			visible: geometry.FullRect(),
		}
	}

	return &snapshot{
		state:   st,
		forward: fwd,
		inverse: inv,
		viewW:   cfg.TargetSize.W(),
		viewH:   cfg.TargetSize.H(),
		visible: visibleRegion(cfg, st, inv),
		valid:   true,
	}
}

// visibleRegion determines which normalized source points land inside the
// view. Without rotation the aspect resolver's projection is authoritative;
// with rotation the four view corners are pulled through the inverse
// transform and their bounding box taken.
func visibleRegion(cfg transform.Config, st transform.State, inv geometry.Matrix) geometry.Rect {
	if st.EffectiveRotation == 0 {
		rotated := cfg.SourceSize
		region, err := aspect.VisibleSourceRegion(cfg.TargetSize, rotated, cfg.FitMode)
		if err == nil {
			return region
		}
	}
	vw, vh := cfg.TargetSize.W(), cfg.TargetSize.H()
	corners := []geometry.Point{
		inv.TransformPoint(geometry.Pt(0, 0)),
		inv.TransformPoint(geometry.Pt(vw, 0)),
		inv.TransformPoint(geometry.Pt(0, vh)),
		inv.TransformPoint(geometry.Pt(vw, vh)),
	}
	return geometry.BoundingRect(corners).Clamp01()
}

// publish rebuilds and swaps in a new snapshot for the current config.
// Callers must hold mu.
func (m *Mapper) publish() {
	m.cur.Store(buildSnapshot(m.cfg))
}

// UpdateAspectRatio switches the fit policy and republishes the state.
func (m *Mapper) UpdateAspectRatio(mode aspect.FitMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.FitMode = mode
	m.publish()
}

// UpdateRotation applies a new display rotation and camera facing and
// republishes the state.
func (m *Mapper) UpdateRotation(displayRotation int, frontFacing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.DisplayRotation = displayRotation
	m.cfg.FrontFacing = frontFacing
	m.publish()
}

// UpdateViewDimensions applies a new view size and republishes the state.
func (m *Mapper) UpdateViewDimensions(view geometry.Size) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.TargetSize = view
	m.publish()
}

// UpdateImageDimensions applies a new source frame size and republishes the
// state.
func (m *Mapper) UpdateImageDimensions(source geometry.Size) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.SourceSize = source
	m.publish()
}

// Config returns the current configuration.
func (m *Mapper) Config() transform.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// State returns the currently published transform state.
func (m *Mapper) State() transform.State {
	return m.cur.Load().state
}

// NormalizedToPixel maps one normalized landmark coordinate to view pixels.
// Input is clamped to [0,1], output to the view bounds. Mirroring, fitting,
// and rotation are all folded into the published matrix. With an invalid
// published state the call degrades to a clamped identity pass-through.
func (m *Mapper) NormalizedToPixel(x, y float64) (float64, float64) {
	s := m.cur.Load()
	cx, cy := geometry.Clamp01(x), geometry.Clamp01(y)
	m.transformCount.Add(1)

	if !s.valid {
		return cx, cy
	}

	px := s.forward.A*cx + s.forward.B*cy + s.forward.C
	py := s.forward.D*cx + s.forward.E*cy + s.forward.F

	m.observeRoundTrip(s, px, py, cx, cy)

	return geometry.Clamp(px, 0, s.viewW), geometry.Clamp(py, 0, s.viewH)
}

// PixelToNormalized maps a view pixel coordinate back to normalized source
// space. It is the exact algebraic inverse of NormalizedToPixel, including
// un-mirroring; the result is clamped to [0,1].
func (m *Mapper) PixelToNormalized(px, py float64) (float64, float64) {
	s := m.cur.Load()
	if !s.valid {
		return geometry.Clamp01(px), geometry.Clamp01(py)
	}
	nx := s.inverse.A*px + s.inverse.B*py + s.inverse.C
	ny := s.inverse.D*px + s.inverse.E*py + s.inverse.F
	return geometry.Clamp01(nx), geometry.Clamp01(ny)
}

// BatchNormalizedToPixel maps a batch of normalized points to view pixels.
// Element i matches NormalizedToPixel applied to points[i] within floating
// point epsilon; the batch shares one snapshot load and accumulates
// telemetry in a single atomic update.
func (m *Mapper) BatchNormalizedToPixel(points []geometry.Point) []geometry.Point {
	s := m.cur.Load()
	out := make([]geometry.Point, len(points))
	m.transformCount.Add(uint64(len(points)))

	if !s.valid {
		for i, p := range points {
			out[i] = geometry.Pt(geometry.Clamp01(p.X), geometry.Clamp01(p.Y))
		}
		return out
	}

	a, b, c := s.forward.A, s.forward.B, s.forward.C
	d, e, f := s.forward.D, s.forward.E, s.forward.F
	var errSum float64
	for i, p := range points {
		cx, cy := geometry.Clamp01(p.X), geometry.Clamp01(p.Y)
		px := a*cx + b*cy + c
		py := d*cx + e*cy + f
		errSum += roundTripError(s, px, py, cx, cy)
		out[i] = geometry.Pt(geometry.Clamp(px, 0, s.viewW), geometry.Clamp(py, 0, s.viewH))
	}
	if n := len(points); n > 0 {
		m.errorCount.Add(uint64(n))
		addFloat64(&m.errorSumBits, errSum)
	}
	return out
}

// MapFlat maps a flat normalized coordinate array (x0,y0,x1,y1,...) to view
// pixels in place. This is the zero-allocation path for landmark frames
// already packed as primitive arrays. No telemetry is recorded here; the
// renderer-facing batch API is BatchNormalizedToPixel.
func (m *Mapper) MapFlat(coords []float64) {
	s := m.cur.Load()
	m.transformCount.Add(uint64(len(coords) / 2))
	if !s.valid {
		for i := range coords {
			coords[i] = geometry.Clamp01(coords[i])
		}
		return
	}
	a, b, c := s.forward.A, s.forward.B, s.forward.C
	d, e, f := s.forward.D, s.forward.E, s.forward.F
	for i := 0; i+1 < len(coords); i += 2 {
		cx, cy := geometry.Clamp01(coords[i]), geometry.Clamp01(coords[i+1])
		coords[i] = geometry.Clamp(a*cx+b*cy+c, 0, s.viewW)
		coords[i+1] = geometry.Clamp(d*cx+e*cy+f, 0, s.viewH)
	}
}

// IsPointVisible reports whether a normalized source point lands inside the
// view under the current state.
func (m *Mapper) IsPointVisible(x, y float64) bool {
	s := m.cur.Load()
	return s.visible.Contains(geometry.Pt(geometry.Clamp01(x), geometry.Clamp01(y)))
}

// VisibleRegion returns the normalized sub-rectangle of the source that is
// visible in the view.
func (m *Mapper) VisibleRegion() geometry.Rect {
	return m.cur.Load().visible
}

// roundTripError re-derives the normalized coordinate from an unclamped
// pixel result and returns its distance to the input, in normalized units.
func roundTripError(s *snapshot, px, py, cx, cy float64) float64 {
	nx := s.inverse.A*px + s.inverse.B*py + s.inverse.C
	ny := s.inverse.D*px + s.inverse.E*py + s.inverse.F
	return math.Hypot(nx-cx, ny-cy)
}

func (m *Mapper) observeRoundTrip(s *snapshot, px, py, cx, cy float64) {
	m.errorCount.Add(1)
	addFloat64(&m.errorSumBits, roundTripError(s, px, py, cx, cy))
}

// addFloat64 atomically adds a delta to a float64 stored as uint64 bits.
func addFloat64(bits *atomic.Uint64, delta float64) {
	for {
		old := bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if bits.CompareAndSwap(old, next) {
			return
		}
	}
}
