package camera

import (
	"fmt"
	"math"

	"github.com/pose-ml/go-overlay/geometry"
)

// AspectRatio names a preview aspect ratio (e.g. "16:9").
type AspectRatio string

// Aspect ratios common across mobile and webcam preview streams.
const (
	AspectRatio169 AspectRatio = "16:9"
	AspectRatio43  AspectRatio = "4:3"
	AspectRatio11  AspectRatio = "1:1"
)

// ResolutionName identifies a preview resolution standard.
type ResolutionName string

// Preview resolutions the pipeline is routinely driven at. The benchmark
// harness sweeps a representative subset of these.
const (
	ResolutionNHD     ResolutionName = "nHD"
	ResolutionVGA     ResolutionName = "VGA"
	ResolutionQHD540  ResolutionName = "qHD 540p"
	ResolutionHD720   ResolutionName = "HD 720p"
	ResolutionFHD1080 ResolutionName = "Full HD 1080p"
	ResolutionQHD1440 ResolutionName = "QHD 1440p"
	Resolution4K      ResolutionName = "4K UHD"
	ResolutionSquare  ResolutionName = "Square 640"
)

// Resolution describes one preview resolution standard.
type Resolution struct {
	Name        ResolutionName `json:"name"`
	AspectRatio AspectRatio    `json:"aspectRatio"`
	Pixels      geometry.Size  `json:"pixels"`
}

// MegaPixels derives the megapixel value from the pixel dimensions,
// rounded to two decimal places.
func (r Resolution) MegaPixels() float64 {
	if !r.Pixels.IsValid() {
		return 0
	}
	mp := float64(r.Pixels.Width*r.Pixels.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// Portrait returns the pixel size rotated into portrait orientation, the
// shape a phone view presents while the sensor still delivers landscape
// frames.
func (r Resolution) Portrait() geometry.Size {
	if r.Pixels.Width >= r.Pixels.Height {
		return r.Pixels.Swapped()
	}
	return r.Pixels
}

// String returns a human-readable summary.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Pixels.Width, r.Pixels.Height, r.MegaPixels())
}

var resolutions = map[ResolutionName]Resolution{
	ResolutionNHD:     {Name: ResolutionNHD, AspectRatio: AspectRatio169, Pixels: geometry.Sz(640, 360)},
	ResolutionVGA:     {Name: ResolutionVGA, AspectRatio: AspectRatio43, Pixels: geometry.Sz(640, 480)},
	ResolutionQHD540:  {Name: ResolutionQHD540, AspectRatio: AspectRatio169, Pixels: geometry.Sz(960, 540)},
	ResolutionHD720:   {Name: ResolutionHD720, AspectRatio: AspectRatio169, Pixels: geometry.Sz(1280, 720)},
	ResolutionFHD1080: {Name: ResolutionFHD1080, AspectRatio: AspectRatio169, Pixels: geometry.Sz(1920, 1080)},
	ResolutionQHD1440: {Name: ResolutionQHD1440, AspectRatio: AspectRatio169, Pixels: geometry.Sz(2560, 1440)},
	Resolution4K:      {Name: Resolution4K, AspectRatio: AspectRatio169, Pixels: geometry.Sz(3840, 2160)},
	ResolutionSquare:  {Name: ResolutionSquare, AspectRatio: AspectRatio11, Pixels: geometry.Sz(640, 640)},
}

// AllResolutions returns every defined resolution standard. Order is not
// guaranteed.
func AllResolutions() []Resolution {
	all := make([]Resolution, 0, len(resolutions))
	for _, r := range resolutions {
		all = append(all, r)
	}
	return all
}

// ResolutionByName retrieves a resolution standard by name.
func ResolutionByName(n ResolutionName) (Resolution, bool) {
	r, ok := resolutions[n]
	return r, ok
}

// HighestResolutionUnder returns the largest resolution fitting within the
// given bounds, and false if none fits.
func HighestResolutionUnder(width, height int) (Resolution, bool) {
	var best Resolution
	found := false
	for _, r := range resolutions {
		if r.Pixels.Width <= width && r.Pixels.Height <= height {
			if !found || r.MegaPixels() > best.MegaPixels() {
				best = r
				found = true
			}
		}
	}
	return best, found
}

// RepresentativeResolutions is the sweep used by the benchmark suite: small
// webcam, square model input, and the mainstream 16:9 ladder.
func RepresentativeResolutions() []Resolution {
	names := []ResolutionName{
		ResolutionVGA, ResolutionSquare, ResolutionHD720, ResolutionFHD1080, Resolution4K,
	}
	out := make([]Resolution, 0, len(names))
	for _, n := range names {
		out = append(out, resolutions[n])
	}
	return out
}
