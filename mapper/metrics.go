package mapper

import "math"

// Metrics is a telemetry snapshot of the mapper's hot path.
type Metrics struct {
	// TransformCount is the total number of point conversions performed.
	TransformCount uint64 `json:"transformCount"`
	// AverageRoundTripError is the running mean of the round-trip error
	// observed on the telemetry path, in normalized units.
	AverageRoundTripError float64 `json:"averageRoundTripError"`
	// Valid reports whether the currently published state is usable.
	Valid bool `json:"valid"`
}

// PerformanceMetrics returns the current telemetry counters.
func (m *Mapper) PerformanceMetrics() Metrics {
	count := m.errorCount.Load()
	var avg float64
	if count > 0 {
		avg = math.Float64frombits(m.errorSumBits.Load()) / float64(count)
	}
	return Metrics{
		TransformCount:        m.transformCount.Load(),
		AverageRoundTripError: avg,
		Valid:                 m.cur.Load().valid,
	}
}

// ResetMetrics clears the telemetry counters. The published transform state
// is unaffected.
func (m *Mapper) ResetMetrics() {
	m.transformCount.Store(0)
	m.errorCount.Store(0)
	m.errorSumBits.Store(0)
}
