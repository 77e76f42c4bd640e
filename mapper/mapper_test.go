package mapper

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/geometry"
	"github.com/pose-ml/go-overlay/transform"
)

func portraitCropConfig() transform.Config {
	return transform.Config{
		SourceSize: geometry.Sz(640, 480),
		TargetSize: geometry.Sz(1080, 1920),
		FitMode:    aspect.FitCenterCrop,
		MirrorMode: transform.MirrorNone,
	}
}

// Scenario: 640x480 source, portrait Full HD view, center-crop, no
// rotation. The normalized center maps to the view center.
func TestNormalizedToPixelCenterCrop(t *testing.T) {
	m := New(portraitCropConfig())

	px, py := m.NormalizedToPixel(0.5, 0.5)
	assert.InDelta(t, 540, px, 1)
	assert.InDelta(t, 960, py, 1)
}

// Same scenario rotated 90 degrees: the result must equal the published
// matrix applied to the source-pixel point, not any restated formula.
func TestNormalizedToPixelRotated90(t *testing.T) {
	cfg := portraitCropConfig()
	cfg.SensorOrientation = 90
	m := New(cfg)

	st := m.State()
	require.True(t, st.Valid)
	require.Equal(t, 90.0, st.EffectiveRotation)

	want := st.Matrix.TransformPoint(geometry.Pt(0.5*640, 0.5*480))
	px, py := m.NormalizedToPixel(0.5, 0.5)
	assert.InDelta(t, want.X, px, 1e-9)
	assert.InDelta(t, want.Y, py, 1e-9)

	// The analytic construction keeps the rotated center on the view
	// center.
	assert.InDelta(t, 540, px, 1)
	assert.InDelta(t, 960, py, 1)
}

func TestPixelToNormalizedInverts(t *testing.T) {
	cfg := portraitCropConfig()
	cfg.SensorOrientation = 270
	m := New(cfg)

	for _, p := range []geometry.Point{
		{X: 0.5, Y: 0.5}, {X: 0.3, Y: 0.42}, {X: 0.5, Y: 0.2},
	} {
		px, py := m.NormalizedToPixel(p.X, p.Y)
		nx, ny := m.PixelToNormalized(px, py)
		assert.InDelta(t, p.X, nx, 1e-9, "p=%v", p)
		assert.InDelta(t, p.Y, ny, 1e-9, "p=%v", p)
	}
}

func TestInputClamping(t *testing.T) {
	m := New(portraitCropConfig())

	px1, py1 := m.NormalizedToPixel(-0.5, 1.5)
	px2, py2 := m.NormalizedToPixel(0, 1)
	assert.Equal(t, px2, px1)
	assert.Equal(t, py2, py1)
}

func TestOutputClampedToView(t *testing.T) {
	m := New(portraitCropConfig())

	// Normalized x=0 lies in the cropped-away band; the pixel result is
	// clamped to the view edge instead of going negative.
	px, _ := m.NormalizedToPixel(0, 0.5)
	assert.Equal(t, 0.0, px)

	px, _ = m.NormalizedToPixel(1, 0.5)
	assert.Equal(t, 1080.0, px)
}

func TestBatchMatchesScalar(t *testing.T) {
	cfg := portraitCropConfig()
	cfg.SensorOrientation = 90
	cfg.FrontFacing = true
	cfg.MirrorMode = transform.MirrorAuto
	m := New(cfg)

	var pts []geometry.Point
	for i := 0; i <= 10; i++ {
		for j := 0; j <= 10; j++ {
			pts = append(pts, geometry.Pt(float64(i)/10, float64(j)/10))
		}
	}

	batch := m.BatchNormalizedToPixel(pts)
	require.Len(t, batch, len(pts))
	for i, p := range pts {
		px, py := m.NormalizedToPixel(p.X, p.Y)
		assert.InDelta(t, px, batch[i].X, 1e-12, "i=%d", i)
		assert.InDelta(t, py, batch[i].Y, 1e-12, "i=%d", i)
	}
}

func TestMapFlatMatchesScalar(t *testing.T) {
	m := New(portraitCropConfig())

	coords := []float64{0.5, 0.5, 0.2, 0.8, 0, 1}
	want := make([]float64, 0, len(coords))
	for i := 0; i < len(coords); i += 2 {
		px, py := m.NormalizedToPixel(coords[i], coords[i+1])
		want = append(want, px, py)
	}

	m.MapFlat(coords)
	for i := range want {
		assert.InDelta(t, want[i], coords[i], 1e-12, "i=%d", i)
	}
}

func TestMirrorFrontFacing(t *testing.T) {
	cfg := portraitCropConfig()
	cfg.MirrorMode = transform.MirrorAuto
	cfg.FrontFacing = true
	front := New(cfg)

	cfg.FrontFacing = false
	back := New(cfg)

	// Front-facing maps a point where back-facing maps its horizontal
	// mirror; the pair (0.2, 0.8) lands symmetric about the view midline.
	fLx, fLy := front.NormalizedToPixel(0.2, 0.5)
	fRx, _ := front.NormalizedToPixel(0.8, 0.5)
	bRx, bRy := back.NormalizedToPixel(0.8, 0.5)

	assert.InDelta(t, bRx, fLx, 1e-9)
	assert.InDelta(t, bRy, fLy, 1e-9)
	assert.InDelta(t, 1080, fLx+fRx, 1e-9)

	// Without mirroring the same input does not coincide.
	bLx, _ := back.NormalizedToPixel(0.2, 0.5)
	assert.Greater(t, math.Abs(bLx-fLx), 1.0)
}

func TestInvalidStatePassThrough(t *testing.T) {
	cfg := portraitCropConfig()
	cfg.TargetSize = geometry.Sz(0, 0)
	m := New(cfg)

	assert.False(t, m.PerformanceMetrics().Valid)

	px, py := m.NormalizedToPixel(0.3, 0.7)
	assert.Equal(t, 0.3, px)
	assert.Equal(t, 0.7, py)

	batch := m.BatchNormalizedToPixel([]geometry.Point{{X: 1.4, Y: -0.2}})
	assert.Equal(t, geometry.Pt(1, 0), batch[0])
}

func TestUpdatesRepublishState(t *testing.T) {
	cfg := portraitCropConfig()
	cfg.TargetSize = geometry.Sz(0, 0)
	m := New(cfg)
	require.False(t, m.PerformanceMetrics().Valid)

	m.UpdateViewDimensions(geometry.Sz(1080, 1920))
	assert.True(t, m.PerformanceMetrics().Valid)

	m.UpdateRotation(270, false)
	assert.Equal(t, 90.0, m.State().EffectiveRotation)

	m.UpdateAspectRatio(aspect.FitFill)
	assert.Nil(t, m.State().Crop)
	assert.Equal(t, aspect.FitFill, m.Config().FitMode)

	m.UpdateImageDimensions(geometry.Sz(1920, 1080))
	assert.Equal(t, geometry.Sz(1920, 1080), m.Config().SourceSize)
}

func TestVisibleRegionCenterCrop(t *testing.T) {
	m := New(portraitCropConfig())

	region := m.VisibleRegion()
	assert.InDelta(t, 740.0/2560.0, region.X, 1e-9)
	assert.InDelta(t, 1080.0/2560.0, region.Width, 1e-9)
	assert.InDelta(t, 1.0, region.Height, 1e-9)

	assert.True(t, m.IsPointVisible(0.5, 0.5))
	assert.False(t, m.IsPointVisible(0.05, 0.5))
	assert.True(t, m.IsPointVisible(0.5, 0.01))
}

func TestVisibleRegionRotated(t *testing.T) {
	cfg := portraitCropConfig()
	cfg.SensorOrientation = 90
	m := New(cfg)

	// The crop now trims the source vertically instead of horizontally.
	region := m.VisibleRegion()
	assert.InDelta(t, 0.125, region.Y, 1e-6)
	assert.InDelta(t, 0.75, region.Height, 1e-6)
	assert.InDelta(t, 1.0, region.Width, 1e-6)

	assert.True(t, m.IsPointVisible(0.02, 0.5))
	assert.False(t, m.IsPointVisible(0.5, 0.05))
}

func TestTelemetry(t *testing.T) {
	m := New(portraitCropConfig())

	for i := 0; i < 10; i++ {
		m.NormalizedToPixel(0.5, 0.5)
	}
	m.BatchNormalizedToPixel([]geometry.Point{{X: 0.4, Y: 0.4}, {X: 0.6, Y: 0.6}})

	metrics := m.PerformanceMetrics()
	assert.Equal(t, uint64(12), metrics.TransformCount)
	assert.Less(t, metrics.AverageRoundTripError, 1e-9)
	assert.True(t, metrics.Valid)

	m.ResetMetrics()
	assert.Zero(t, m.PerformanceMetrics().TransformCount)
}

// Configuration writers and per-frame readers run on different goroutines;
// readers must always observe a complete state.
func TestConcurrentReadersAndWriter(t *testing.T) {
	m := New(portraitCropConfig())

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		rotations := []int{0, 90, 180, 270}
		for i := 0; i < 200; i++ {
			m.UpdateRotation(rotations[i%4], i%2 == 0)
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				px, py := m.NormalizedToPixel(0.5, 0.5)
				// The center is fixed under every rotation of this
				// configuration, so any torn state would surface here.
				assert.InDelta(t, 540, px, 1)
				assert.InDelta(t, 960, py, 1)
			}
		}()
	}
	wg.Wait()
}
