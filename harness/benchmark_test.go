package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/geometry"
)

func TestBenchmarkTransformation(t *testing.T) {
	br, err := BenchmarkTransformation(
		context.Background(),
		geometry.Sz(640, 480), geometry.Sz(1080, 1920),
		90, aspect.FitCenterCrop, 200,
	)
	require.NoError(t, err)

	assert.Equal(t, 200, br.Iterations)
	assert.Equal(t, 90, br.Rotation)
	assert.Equal(t, 1.0, br.SuccessRate)

	// Latency percentiles are ordered by construction.
	assert.LessOrEqual(t, br.MinLatency, br.MedianLatency)
	assert.LessOrEqual(t, br.MedianLatency, br.P95Latency)
	assert.LessOrEqual(t, br.P95Latency, br.P99Latency)
	assert.LessOrEqual(t, br.P99Latency, br.MaxLatency)
	assert.Positive(t, br.MeanLatency)
}

func TestBenchmarkDegenerateSource(t *testing.T) {
	br, err := BenchmarkTransformation(
		context.Background(),
		geometry.Sz(0, 0), geometry.Sz(1080, 1920),
		0, aspect.FitFill, 50,
	)
	require.NoError(t, err)
	assert.Zero(t, br.SuccessRate)
}

func TestBenchmarkBadIterations(t *testing.T) {
	_, err := BenchmarkTransformation(
		context.Background(),
		geometry.Sz(640, 480), geometry.Sz(1080, 1920),
		0, aspect.FitFill, 0,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterations must be positive")
}

func TestBenchmarkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BenchmarkTransformation(
		ctx,
		geometry.Sz(640, 480), geometry.Sz(1080, 1920),
		0, aspect.FitFill, 1000,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeasureAccuracy(t *testing.T) {
	report, err := MeasureAccuracy(geometry.Sz(1280, 720), geometry.Sz(1080, 1920), 10)
	require.NoError(t, err)

	require.Len(t, report.Results, len(standardRotations)*len(aspect.Modes))
	assert.True(t, report.Passed)
	assert.GreaterOrEqual(t, report.OverallAccuracy, 0.95)
	assert.LessOrEqual(t, report.OverallMaxError, report.Tolerance)
	for _, r := range report.Results {
		assert.True(t, r.Passed, "rotation=%d fit=%s", r.Rotation, r.FitMode)
		assert.GreaterOrEqual(t, r.AccuracyRatio, 0.95, "rotation=%d fit=%s", r.Rotation, r.FitMode)
		assert.Equal(t, 105, r.PointCount)
	}
}

func TestMeasureAccuracyDegenerate(t *testing.T) {
	_, err := MeasureAccuracy(geometry.Sz(0, 480), geometry.Sz(1080, 1920), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degenerate size")
}

func TestRunFullSuite(t *testing.T) {
	cfg := SuiteConfig{
		TargetSize:    geometry.Sz(1080, 1920),
		Sources:       []geometry.Size{geometry.Sz(640, 480)},
		Rotations:     []int{0, 90},
		FitModes:      []aspect.FitMode{aspect.FitCenterCrop},
		Iterations:    50,
		SampleDensity: 5,
	}

	result, err := RunFullSuite(context.Background(), cfg)
	require.NoError(t, err)

	assert.Len(t, result.Benchmarks, 2)
	assert.Len(t, result.Accuracy, 1)
	assert.Greater(t, result.PerformanceScore, 0.0)
	assert.LessOrEqual(t, result.PerformanceScore, 1.0)
	assert.GreaterOrEqual(t, result.AccuracyScore, 0.95)
	assert.False(t, result.Timestamp.IsZero())
}

func TestRunFullSuiteEmpty(t *testing.T) {
	_, err := RunFullSuite(context.Background(), SuiteConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty suite dimensions")
}

func TestPerformanceScore(t *testing.T) {
	br := &BenchmarkResult{
		MeanLatency:      0,
		SuccessRate:      1,
		MemoryDeltaBytes: 0,
	}
	assert.InDelta(t, 1.0, performanceScore(br, DefaultSuiteConfig().TransformBudget), 1e-9)

	br = &BenchmarkResult{
		MeanLatency:      DefaultSuiteConfig().TransformBudget,
		SuccessRate:      0,
		MemoryDeltaBytes: memoryScoreScale,
	}
	assert.Zero(t, performanceScore(br, DefaultSuiteConfig().TransformBudget))
}
