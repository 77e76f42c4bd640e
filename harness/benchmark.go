package harness

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/geometry"
	"github.com/pose-ml/go-overlay/transform"
)

// warmupRuns precedes every benchmark to settle caches and the allocator.
const warmupRuns = 10

// ctxCheckInterval is how many iterations run between cancellation checks.
const ctxCheckInterval = 256

// BenchmarkResult aggregates latency and validity statistics for repeated
// transform derivations of one configuration.
type BenchmarkResult struct {
	SourceSize geometry.Size  `json:"sourceSize"`
	TargetSize geometry.Size  `json:"targetSize"`
	Rotation   int            `json:"rotation"`
	FitMode    aspect.FitMode `json:"fitMode"`
	Iterations int            `json:"iterations"`

	MeanLatency   time.Duration `json:"meanLatency"`
	MedianLatency time.Duration `json:"medianLatency"`
	P95Latency    time.Duration `json:"p95Latency"`
	P99Latency    time.Duration `json:"p99Latency"`
	MinLatency    time.Duration `json:"minLatency"`
	MaxLatency    time.Duration `json:"maxLatency"`

	SuccessRate      float64 `json:"successRate"`
	MemoryDeltaBytes int64   `json:"memoryDeltaBytes"`
}

// benchConfig builds the orchestrator configuration a benchmark run
// exercises: back-facing, no mirroring, the rotation carried by the sensor
// orientation so the effective rotation equals it directly.
func benchConfig(src, dst geometry.Size, rotation int, fit aspect.FitMode) transform.Config {
	return transform.Config{
		SourceSize:        src,
		TargetSize:        dst,
		SensorOrientation: rotation,
		FitMode:           fit,
		MirrorMode:        transform.MirrorNone,
	}
}

// BenchmarkTransformation runs transform.Calculate repeatedly for one
// configuration, recording per-call latency and validity. It blocks for the
// duration of the run and honors context cancellation between iterations.
func BenchmarkTransformation(
	ctx context.Context,
	sourceSize, targetSize geometry.Size,
	rotation int,
	fit aspect.FitMode,
	iterations int,
) (*BenchmarkResult, error) {
	if iterations <= 0 {
		return nil, errors.Errorf("harness: iterations must be positive, got %d", iterations)
	}

	cfg := benchConfig(sourceSize, targetSize, rotation, fit)

	for i := 0; i < warmupRuns; i++ {
		transform.Calculate(cfg)
	}

	var startMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&startMem)

	latencies := make([]float64, 0, iterations)
	successes := 0
	for i := 0; i < iterations; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "harness: benchmark interrupted")
			}
		}
		start := time.Now()
		st := transform.Calculate(cfg)
		latencies = append(latencies, float64(time.Since(start)))
		if st.Valid {
			successes++
		}
	}

	var endMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&endMem)

	sort.Float64s(latencies)
	res := &BenchmarkResult{
		SourceSize:       sourceSize,
		TargetSize:       targetSize,
		Rotation:         rotation,
		FitMode:          fit,
		Iterations:       iterations,
		MeanLatency:      time.Duration(stat.Mean(latencies, nil)),
		MedianLatency:    time.Duration(stat.Quantile(0.5, stat.Empirical, latencies, nil)),
		P95Latency:       time.Duration(stat.Quantile(0.95, stat.Empirical, latencies, nil)),
		P99Latency:       time.Duration(stat.Quantile(0.99, stat.Empirical, latencies, nil)),
		MinLatency:       time.Duration(latencies[0]),
		MaxLatency:       time.Duration(latencies[len(latencies)-1]),
		SuccessRate:      float64(successes) / float64(iterations),
		MemoryDeltaBytes: int64(endMem.HeapAlloc) - int64(startMem.HeapAlloc),
	}
	return res, nil
}
