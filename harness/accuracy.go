package harness

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/geometry"
	"github.com/pose-ml/go-overlay/transform"
)

// standardRotations are the effective rotations the camera stack produces.
var standardRotations = []int{0, 90, 180, 270}

// AccuracyResult is the round-trip measurement for one rotation/fit-mode
// combination.
type AccuracyResult struct {
	Rotation int            `json:"rotation"`
	FitMode  aspect.FitMode `json:"fitMode"`

	MeanError     float64 `json:"meanError"`
	MaxError      float64 `json:"maxError"`
	AccuracyRatio float64 `json:"accuracyRatio"`
	PointCount    int     `json:"pointCount"`
	Passed        bool    `json:"passed"`
}

// AccuracyReport aggregates round-trip accuracy for one source/target size
// pair over every rotation and fit-mode combination.
type AccuracyReport struct {
	SourceSize geometry.Size `json:"sourceSize"`
	TargetSize geometry.Size `json:"targetSize"`
	Tolerance  float64       `json:"tolerancePixels"`

	Results []AccuracyResult `json:"results"`

	OverallAccuracy float64 `json:"overallAccuracy"`
	OverallMaxError float64 `json:"overallMaxError"`
	Passed          bool    `json:"passed"`
}

// MeasureAccuracy runs the round-trip contract for every rotation in
// {0,90,180,270} crossed with every fit mode, using the orchestrator's
// deterministic point fixture, and aggregates per-combination and overall
// statistics. sampleDensity controls the regular grid edge length.
func MeasureAccuracy(sourceSize, targetSize geometry.Size, sampleDensity int) (*AccuracyReport, error) {
	if !sourceSize.IsValid() || !targetSize.IsValid() {
		return nil, errors.Errorf("harness: degenerate size source=%dx%d target=%dx%d",
			sourceSize.Width, sourceSize.Height, targetSize.Width, targetSize.Height)
	}
	if sampleDensity < 2 {
		sampleDensity = 2
	}

	points := transform.GenerateTestPoints(sourceSize, sampleDensity)
	report := &AccuracyReport{
		SourceSize: sourceSize,
		TargetSize: targetSize,
		Tolerance:  transform.DefaultTolerancePixels,
		Results:    make([]AccuracyResult, 0, len(standardRotations)*len(aspect.Modes)),
		Passed:     true,
	}

	ratios := make([]float64, 0, len(standardRotations)*len(aspect.Modes))
	for _, rot := range standardRotations {
		for _, fit := range aspect.Modes {
			st := transform.Calculate(benchConfig(sourceSize, targetSize, rot, fit))
			if !st.Valid {
				report.Results = append(report.Results, AccuracyResult{
					Rotation: rot, FitMode: fit, PointCount: len(points),
				})
				report.Passed = false
				ratios = append(ratios, 0)
				continue
			}
			inv, _ := transform.Invert(st.Matrix)
			rt := transform.ValidateRoundTrip(st.Matrix, inv, points, report.Tolerance)

			report.Results = append(report.Results, AccuracyResult{
				Rotation:      rot,
				FitMode:       fit,
				MeanError:     rt.MeanError,
				MaxError:      rt.MaxError,
				AccuracyRatio: rt.AccuracyRatio,
				PointCount:    rt.PointCount,
				Passed:        rt.Passed,
			})
			ratios = append(ratios, rt.AccuracyRatio)
			if rt.MaxError > report.OverallMaxError {
				report.OverallMaxError = rt.MaxError
			}
			if !rt.Passed {
				report.Passed = false
			}
		}
	}

	report.OverallAccuracy = stat.Mean(ratios, nil)
	return report, nil
}
