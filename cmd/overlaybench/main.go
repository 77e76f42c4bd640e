// Command overlaybench runs the transform pipeline's benchmark and accuracy
// suite and writes JSON/CSV results.
//
// Usage:
//
//	overlaybench [-config suite.yaml] [-output results] [-iterations N] [-density N] [-quick] [-v]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/pose-ml/go-overlay/harness"
	"github.com/pose-ml/go-overlay/internal/logging"
)

func main() {
	var (
		configPath string
		outputDir  string
		iterations int
		density    int
		quick      bool
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "", "optional YAML suite configuration")
	flag.StringVar(&outputDir, "output", "results", "directory for JSON/CSV results")
	flag.IntVar(&iterations, "iterations", 0, "override iterations per configuration")
	flag.IntVar(&density, "density", 0, "override accuracy sample grid density")
	flag.BoolVar(&quick, "quick", false, "run the quick scenario set instead of the full suite")
	flag.BoolVar(&verbose, "v", false, "enable pipeline diagnostics on stderr")
	flag.Parse()

	if verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if quick {
		runQuick(ctx)
		return
	}

	cfg := harness.DefaultSuiteConfig()
	if configPath != "" {
		if err := loadConfig(configPath, &cfg); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if iterations > 0 {
		cfg.Iterations = iterations
	}
	if density > 0 {
		cfg.SampleDensity = density
	}

	result, err := harness.RunFullSuite(ctx, cfg)
	if err != nil {
		log.Fatalf("suite failed: %v", err)
	}

	fmt.Printf("Configurations benchmarked: %d\n", len(result.Benchmarks))
	fmt.Printf("Performance score: %.4f\n", result.PerformanceScore)
	fmt.Printf("Accuracy score: %.4f\n", result.AccuracyScore)
	for _, ar := range result.Accuracy {
		status := "PASS"
		if !ar.Passed {
			status = "FAIL"
		}
		fmt.Printf("  %dx%d -> %dx%d accuracy=%.4f maxErr=%.3fpx [%s]\n",
			ar.SourceSize.Width, ar.SourceSize.Height,
			ar.TargetSize.Width, ar.TargetSize.Height,
			ar.OverallAccuracy, ar.OverallMaxError, status)
	}

	jsonPath, csvPath, err := harness.SaveResults(outputDir, result)
	if err != nil {
		log.Fatalf("save results: %v", err)
	}
	fmt.Printf("Results saved to: %s\n", jsonPath)
	fmt.Printf("Summary saved to: %s\n", csvPath)
}

func runQuick(ctx context.Context) {
	for _, s := range harness.QuickScenarios() {
		br, err := harness.RunScenario(ctx, s)
		if err != nil {
			log.Fatalf("scenario %s failed: %v", s.Name, err)
		}
		fmt.Printf("%s: mean=%v p95=%v success=%.2f\n",
			s.Name, br.MeanLatency, br.P95Latency, br.SuccessRate)
	}
}

func loadConfig(path string, cfg *harness.SuiteConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
