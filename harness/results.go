package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// SaveResults persists a suite result as a timestamped JSON file plus a CSV
// summary of the benchmark rows. Returns the paths written.
func SaveResults(dir string, result *SuiteResult) (jsonPath, csvPath string, err error) {
	if result == nil {
		return "", "", errors.New("harness: nil result")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", errors.Wrap(err, "harness: create output directory")
	}

	stamp := result.Timestamp.Format("2006-01-02_15-04-05")

	jsonPath = filepath.Join(dir, fmt.Sprintf("suite_results_%s.json", stamp))
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", "", errors.Wrap(err, "harness: marshal results")
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", errors.Wrap(err, "harness: write results file")
	}

	csvPath = filepath.Join(dir, fmt.Sprintf("suite_summary_%s.csv", stamp))
	if err := writeSummaryCSV(csvPath, result.Benchmarks); err != nil {
		return "", "", err
	}
	return jsonPath, csvPath, nil
}

func writeSummaryCSV(path string, benchmarks []BenchmarkResult) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "harness: create summary CSV")
	}
	defer f.Close()

	header := "Source,Target,Rotation,FitMode,Mean_us,Median_us,P95_us,P99_us,SuccessRate,MemDelta_KB\n"
	if _, err := f.WriteString(header); err != nil {
		return errors.Wrap(err, "harness: write CSV header")
	}

	for _, br := range benchmarks {
		line := fmt.Sprintf("%dx%d,%dx%d,%d,%s,%.2f,%.2f,%.2f,%.2f,%.4f,%.1f\n",
			br.SourceSize.Width, br.SourceSize.Height,
			br.TargetSize.Width, br.TargetSize.Height,
			br.Rotation,
			br.FitMode,
			float64(br.MeanLatency.Nanoseconds())/1e3,
			float64(br.MedianLatency.Nanoseconds())/1e3,
			float64(br.P95Latency.Nanoseconds())/1e3,
			float64(br.P99Latency.Nanoseconds())/1e3,
			br.SuccessRate,
			float64(br.MemoryDeltaBytes)/1024,
		)
		if _, err := f.WriteString(line); err != nil {
			return errors.Wrap(err, "harness: write CSV row")
		}
	}
	return nil
}
