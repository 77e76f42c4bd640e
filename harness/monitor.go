// Package harness observes and verifies the transform pipeline: per-frame
// telemetry with debounced alerting, offline benchmarking of transform
// derivation, and round-trip accuracy measurement across synthetic
// resolution/rotation/fit matrices. Everything here is explicitly invoked
// and may block; nothing runs on the real-time path.
package harness

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/pose-ml/go-overlay/aspect"
	"github.com/pose-ml/go-overlay/geometry"
)

const (
	// sampleCapacity bounds the sample ring buffer.
	sampleCapacity = 100
	// breachDebounce is the number of consecutive breaching samples
	// required before an alert raises. Single-frame spikes are noise.
	breachDebounce = 5
	// fpsWindow is the sliding window for the frame-rate estimate.
	fpsWindow = time.Second
)

// Sample is one per-frame performance observation.
type Sample struct {
	Timestamp      time.Time      `json:"timestamp"`
	ProcessingTime time.Duration  `json:"processingTime"`
	TransformTime  time.Duration  `json:"transformTime"`
	SourceSize     geometry.Size  `json:"sourceSize"`
	MemoryBytes    uint64         `json:"memoryBytes"`
	Accuracy       float64        `json:"accuracy"`
	Rotation       float64        `json:"rotation"`
	FitMode        aspect.FitMode `json:"fitMode"`
}

// AlertKind identifies one monitored condition.
type AlertKind string

const (
	AlertLowFPS         AlertKind = "low-fps"
	AlertHighLatency    AlertKind = "high-transform-latency"
	AlertMemoryPressure AlertKind = "memory-pressure"
	AlertLowAccuracy    AlertKind = "accuracy-degradation"
)

// alertKinds in reporting order.
var alertKinds = []AlertKind{AlertLowFPS, AlertHighLatency, AlertMemoryPressure, AlertLowAccuracy}

// Thresholds are the breach limits for the four monitored conditions.
type Thresholds struct {
	MinFPS           float64       `json:"minFPS" yaml:"minFPS"`
	MaxTransformTime time.Duration `json:"maxTransformTime" yaml:"maxTransformTime"`
	MaxMemoryBytes   uint64        `json:"maxMemoryBytes" yaml:"maxMemoryBytes"`
	MinAccuracy      float64       `json:"minAccuracy" yaml:"minAccuracy"`
}

// DefaultThresholds returns the interactive-preview budget: 24 FPS floor,
// 5ms transform budget, 256 MiB heap estimate, 95% round-trip accuracy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinFPS:           24,
		MaxTransformTime: 5 * time.Millisecond,
		MaxMemoryBytes:   256 << 20,
		MinAccuracy:      0.95,
	}
}

// Monitor collects per-frame samples into a bounded ring buffer, estimates
// the frame rate over a one-second sliding window, and raises debounced
// alerts after five consecutive breaching samples. An alert clears as soon
// as one sample is back within bounds.
type Monitor struct {
	mu         sync.Mutex
	thresholds Thresholds

	samples [sampleCapacity]Sample
	head    int // next write position
	count   int

	frameTimes []time.Time // timestamps within the sliding window

	breaches map[AlertKind]int
	active   map[AlertKind]bool
}

// NewMonitor creates a monitor with the given thresholds.
func NewMonitor(thresholds Thresholds) *Monitor {
	return &Monitor{
		thresholds: thresholds,
		frameTimes: make([]time.Time, 0, 256),
		breaches:   make(map[AlertKind]int, len(alertKinds)),
		active:     make(map[AlertKind]bool, len(alertKinds)),
	}
}

// RecordFrameSample computes elapsed times for one processed frame,
// estimates current memory usage, appends a sample (evicting the oldest
// beyond capacity), refreshes the frame-rate estimate, and updates the
// alert counters.
func (m *Monitor) RecordFrameSample(
	source geometry.Size,
	processingStart, transformStart, transformEnd time.Time,
	rotation float64,
	fit aspect.FitMode,
	accuracy float64,
) Sample {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s := Sample{
		Timestamp:      transformEnd,
		ProcessingTime: transformEnd.Sub(processingStart),
		TransformTime:  transformEnd.Sub(transformStart),
		SourceSize:     source,
		MemoryBytes:    mem.HeapAlloc,
		Accuracy:       accuracy,
		Rotation:       rotation,
		FitMode:        fit,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples[m.head] = s
	m.head = (m.head + 1) % sampleCapacity
	if m.count < sampleCapacity {
		m.count++
	}

	m.frameTimes = append(m.frameTimes, s.Timestamp)
	m.pruneWindowLocked(s.Timestamp)

	fps := m.fpsLocked()
	m.updateAlertLocked(AlertLowFPS, fps < m.thresholds.MinFPS && len(m.frameTimes) > 1)
	m.updateAlertLocked(AlertHighLatency, s.TransformTime > m.thresholds.MaxTransformTime)
	m.updateAlertLocked(AlertMemoryPressure, s.MemoryBytes > m.thresholds.MaxMemoryBytes)
	m.updateAlertLocked(AlertLowAccuracy, s.Accuracy < m.thresholds.MinAccuracy)

	return s
}

func (m *Monitor) pruneWindowLocked(now time.Time) {
	cutoff := now.Add(-fpsWindow)
	i := 0
	for i < len(m.frameTimes) && m.frameTimes[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		m.frameTimes = append(m.frameTimes[:0], m.frameTimes[i:]...)
	}
}

func (m *Monitor) fpsLocked() float64 {
	if len(m.frameTimes) < 2 {
		return 0
	}
	span := m.frameTimes[len(m.frameTimes)-1].Sub(m.frameTimes[0])
	if span <= 0 {
		return 0
	}
	return float64(len(m.frameTimes)-1) / span.Seconds()
}

func (m *Monitor) updateAlertLocked(kind AlertKind, breaching bool) {
	if !breaching {
		m.breaches[kind] = 0
		m.active[kind] = false
		return
	}
	m.breaches[kind]++
	if m.breaches[kind] >= breachDebounce {
		m.active[kind] = true
	}
}

// FPS returns the current sliding-window frame-rate estimate.
func (m *Monitor) FPS() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fpsLocked()
}

// ActiveAlerts returns the currently raised alerts in reporting order.
func (m *Monitor) ActiveAlerts() []AlertKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AlertKind, 0, len(alertKinds))
	for _, k := range alertKinds {
		if m.active[k] {
			out = append(out, k)
		}
	}
	return out
}

// Samples returns the retained samples, oldest first.
func (m *Monitor) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sample, 0, m.count)
	start := (m.head - m.count + sampleCapacity) % sampleCapacity
	for i := 0; i < m.count; i++ {
		out = append(out, m.samples[(start+i)%sampleCapacity])
	}
	return out
}

// Report renders a human-readable diagnostic summary: frame rate, latency,
// memory, accuracy, and any active alerts. The format is free-form and not
// part of any machine contract.
func (m *Monitor) Report() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "TRANSFORM PIPELINE STATUS - %s\n", time.Now().Format("15:04:05.000"))
	fmt.Fprintf(&b, "Samples retained: %d\n", m.count)
	fmt.Fprintf(&b, "FPS (1s window): %.1f\n", m.fpsLocked())

	if m.count > 0 {
		var procSum, transSum time.Duration
		var accSum float64
		var maxTrans time.Duration
		var lastMem uint64
		start := (m.head - m.count + sampleCapacity) % sampleCapacity
		for i := 0; i < m.count; i++ {
			s := m.samples[(start+i)%sampleCapacity]
			procSum += s.ProcessingTime
			transSum += s.TransformTime
			accSum += s.Accuracy
			if s.TransformTime > maxTrans {
				maxTrans = s.TransformTime
			}
			lastMem = s.MemoryBytes
		}
		n := time.Duration(m.count)
		fmt.Fprintf(&b, "Processing time: avg=%v\n", (procSum / n).Truncate(time.Microsecond))
		fmt.Fprintf(&b, "Transform time: avg=%v max=%v\n",
			(transSum / n).Truncate(time.Microsecond), maxTrans.Truncate(time.Microsecond))
		fmt.Fprintf(&b, "Heap estimate: %s\n", formatBytes(lastMem))
		fmt.Fprintf(&b, "Accuracy: avg=%.4f\n", accSum/float64(m.count))
	}

	anyActive := false
	for _, k := range alertKinds {
		if m.active[k] {
			if !anyActive {
				b.WriteString("ACTIVE ALERTS:\n")
				anyActive = true
			}
			fmt.Fprintf(&b, "  %s (consecutive breaches: %d)\n", k, m.breaches[k])
		}
	}
	if !anyActive {
		b.WriteString("No active alerts\n")
	}
	return b.String()
}

// formatBytes renders byte counts in human-readable form.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
