package harness

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/camera"
	"github.com/pose-ml/go-overlay/geometry"
)

// memoryScoreScale is the benchmark heap delta that zeroes the memory
// score.
const memoryScoreScale = 64 << 20

// SuiteConfig drives a full benchmark and accuracy sweep.
type SuiteConfig struct {
	// TargetSize is the display view the sweep renders into.
	TargetSize geometry.Size `json:"targetSize" yaml:"targetSize"`
	// Sources are the source frame sizes to sweep.
	Sources []geometry.Size `json:"sources" yaml:"sources"`
	// Rotations are the effective rotations to sweep.
	Rotations []int `json:"rotations" yaml:"rotations"`
	// FitModes are the fit policies to sweep.
	FitModes []aspect.FitMode `json:"fitModes" yaml:"fitModes"`
	// Iterations per benchmark configuration.
	Iterations int `json:"iterations" yaml:"iterations"`
	// SampleDensity is the accuracy grid edge length.
	SampleDensity int `json:"sampleDensity" yaml:"sampleDensity"`
	// TransformBudget is the per-call latency that zeroes the latency
	// score.
	TransformBudget time.Duration `json:"transformBudget" yaml:"transformBudget"`
}

// DefaultSuiteConfig sweeps the representative camera resolutions against a
// portrait Full HD view, all standard rotations and fit modes.
func DefaultSuiteConfig() SuiteConfig {
	reps := camera.RepresentativeResolutions()
	sources := make([]geometry.Size, 0, len(reps))
	for _, r := range reps {
		sources = append(sources, r.Pixels)
	}
	return SuiteConfig{
		TargetSize:      geometry.Sz(1080, 1920),
		Sources:         sources,
		Rotations:       standardRotations,
		FitModes:        aspect.Modes,
		Iterations:      1000,
		SampleDensity:   10,
		TransformBudget: 5 * time.Millisecond,
	}
}

// SuiteResult is the outcome of a full sweep: raw per-configuration results
// plus the weighted overall scores.
type SuiteResult struct {
	Timestamp time.Time   `json:"timestamp"`
	Config    SuiteConfig `json:"config"`

	Benchmarks []BenchmarkResult `json:"benchmarks"`
	Accuracy   []AccuracyReport  `json:"accuracy"`

	// PerformanceScore averages the normalized latency, success-rate, and
	// memory scores across all benchmark configurations, in [0,1].
	PerformanceScore float64 `json:"performanceScore"`
	// AccuracyScore averages the overall round-trip accuracy across all
	// accuracy reports, in [0,1].
	AccuracyScore float64 `json:"accuracyScore"`
}

// RunFullSuite executes the benchmark and accuracy cross-product described
// by the config. It blocks until done and honors context cancellation
// between configurations.
func RunFullSuite(ctx context.Context, cfg SuiteConfig) (*SuiteResult, error) {
	if len(cfg.Sources) == 0 || len(cfg.Rotations) == 0 || len(cfg.FitModes) == 0 {
		return nil, errors.New("harness: empty suite dimensions")
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultSuiteConfig().Iterations
	}
	if cfg.TransformBudget <= 0 {
		cfg.TransformBudget = DefaultSuiteConfig().TransformBudget
	}

	result := &SuiteResult{
		Timestamp: time.Now(),
		Config:    cfg,
	}

	perfScores := make([]float64, 0, len(cfg.Sources)*len(cfg.Rotations)*len(cfg.FitModes))
	for _, src := range cfg.Sources {
		for _, rot := range cfg.Rotations {
			for _, fit := range cfg.FitModes {
				if err := ctx.Err(); err != nil {
					return nil, errors.Wrap(err, "harness: suite interrupted")
				}
				br, err := BenchmarkTransformation(ctx, src, cfg.TargetSize, rot, fit, cfg.Iterations)
				if err != nil {
					return nil, err
				}
				result.Benchmarks = append(result.Benchmarks, *br)
				perfScores = append(perfScores, performanceScore(br, cfg.TransformBudget))
			}
		}

		ar, err := MeasureAccuracy(src, cfg.TargetSize, cfg.SampleDensity)
		if err != nil {
			return nil, err
		}
		result.Accuracy = append(result.Accuracy, *ar)
	}

	result.PerformanceScore = stat.Mean(perfScores, nil)

	accScores := make([]float64, 0, len(result.Accuracy))
	for _, ar := range result.Accuracy {
		accScores = append(accScores, ar.OverallAccuracy)
	}
	result.AccuracyScore = stat.Mean(accScores, nil)

	return result, nil
}

// performanceScore folds one benchmark into [0,1]: normalized latency
// headroom, success rate, and memory delta, averaged.
func performanceScore(br *BenchmarkResult, budget time.Duration) float64 {
	latency := geometry.Clamp01(1 - float64(br.MeanLatency)/float64(budget))
	memory := 1.0
	if br.MemoryDeltaBytes > 0 {
		memory = geometry.Clamp01(1 - float64(br.MemoryDeltaBytes)/float64(memoryScoreScale))
	}
	return (latency + br.SuccessRate + memory) / 3
}
