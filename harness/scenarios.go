package harness

import (
	"context"
	"fmt"

	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/camera"
	"github.com/pose-ml/go-overlay/geometry"
)

// Scenario is one named benchmark configuration.
type Scenario struct {
	Name       string         `json:"name" yaml:"name"`
	SourceSize geometry.Size  `json:"sourceSize" yaml:"sourceSize"`
	TargetSize geometry.Size  `json:"targetSize" yaml:"targetSize"`
	Rotation   int            `json:"rotation" yaml:"rotation"`
	FitMode    aspect.FitMode `json:"fitMode" yaml:"fitMode"`
	Iterations int            `json:"iterations" yaml:"iterations"`
}

// ScenarioBuilder assembles scenarios with a fluent API.
type ScenarioBuilder struct {
	scenario Scenario
}

// NewScenarioBuilder starts a scenario with the default sweep shape:
// 720p source, portrait Full HD view, no rotation, center-crop.
func NewScenarioBuilder(name string) *ScenarioBuilder {
	return &ScenarioBuilder{
		scenario: Scenario{
			Name:       name,
			SourceSize: geometry.Sz(1280, 720),
			TargetSize: geometry.Sz(1080, 1920),
			FitMode:    aspect.FitCenterCrop,
			Iterations: 1000,
		},
	}
}

// WithSourceSize sets the source frame size.
func (sb *ScenarioBuilder) WithSourceSize(w, h int) *ScenarioBuilder {
	sb.scenario.SourceSize = geometry.Sz(w, h)
	return sb
}

// WithTargetSize sets the display view size.
func (sb *ScenarioBuilder) WithTargetSize(w, h int) *ScenarioBuilder {
	sb.scenario.TargetSize = geometry.Sz(w, h)
	return sb
}

// WithRotation sets the effective rotation in degrees.
func (sb *ScenarioBuilder) WithRotation(deg int) *ScenarioBuilder {
	sb.scenario.Rotation = deg
	return sb
}

// WithFitMode sets the fit policy.
func (sb *ScenarioBuilder) WithFitMode(mode aspect.FitMode) *ScenarioBuilder {
	sb.scenario.FitMode = mode
	return sb
}

// WithIterations sets the number of benchmark iterations.
func (sb *ScenarioBuilder) WithIterations(n int) *ScenarioBuilder {
	sb.scenario.Iterations = n
	return sb
}

// Build returns the configured scenario.
func (sb *ScenarioBuilder) Build() Scenario {
	return sb.scenario
}

// RunScenario executes one scenario through the benchmark path.
func RunScenario(ctx context.Context, s Scenario) (*BenchmarkResult, error) {
	return BenchmarkTransformation(ctx, s.SourceSize, s.TargetSize, s.Rotation, s.FitMode, s.Iterations)
}

// QuickScenarios returns a small smoke-test set: the common portrait
// preview shapes at 0 and 90 degrees.
func QuickScenarios() []Scenario {
	return []Scenario{
		NewScenarioBuilder("vga_crop_0").
			WithSourceSize(640, 480).WithIterations(200).Build(),
		NewScenarioBuilder("720p_crop_90").
			WithRotation(90).WithIterations(200).Build(),
		NewScenarioBuilder("1080p_inside_270").
			WithSourceSize(1920, 1080).WithRotation(270).
			WithFitMode(aspect.FitCenterInside).WithIterations(200).Build(),
	}
}

// ComprehensiveScenarios crosses the representative resolutions with every
// standard rotation and fit mode.
func ComprehensiveScenarios() []Scenario {
	var out []Scenario
	for _, res := range camera.RepresentativeResolutions() {
		for _, rot := range standardRotations {
			for _, fit := range aspect.Modes {
				name := fmt.Sprintf("%dx%d_%s_%d",
					res.Pixels.Width, res.Pixels.Height, fit, rot)
				out = append(out, NewScenarioBuilder(name).
					WithSourceSize(res.Pixels.Width, res.Pixels.Height).
					WithRotation(rot).
					WithFitMode(fit).
					Build())
			}
		}
	}
	return out
}
