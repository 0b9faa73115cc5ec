// Package main provides a performance benchmarking tool for the botscan CLI.
// It generates synthetic scan series of increasing size, evaluates them from files
// and from the SQLite scan store across worker counts, and writes the average
// times to a CSV file for performance analysis and documentation.
//
// Prerequisites:
// - botscan binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated series files and the benchmark scan store
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/botscan/schema"
)

// BenchmarkResult holds the averaged timings of one dataset, command and worker count.
type BenchmarkResult struct {
	Dataset  string
	Command  string
	Workers  int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Runs        int
	WorkerSets  []int
	SeriesSizes map[string]int
	ScansPer    int
	BottedShare float64
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:    os.Args[1],
		Timeout:    5 * time.Minute,
		Runs:       4,
		WorkerSets: []int{1, 4, 16},
		SeriesSizes: map[string]int{
			"small":  100,
			"medium": 2000,
			"large":  20000,
		},
		ScansPer:    24,
		BottedShare: 0.1,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the botscan binary exists and the work dir is writable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("botscan"); err != nil {
		return fmt.Errorf("botscan binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks executes all benchmark suites across the configured datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, workers %v, %d runs each\n",
		len(config.SeriesSizes), config.Timeout, config.WorkerSets, config.Runs)

	for _, dataset := range []string{"small", "medium", "large"} {
		size := config.SeriesSizes[dataset]
		fmt.Printf("Generating %s dataset (%d series)\n", dataset, size)

		seriesFile, ids, err := generateDataset(config, dataset, size)
		if err != nil {
			fmt.Printf("Warning: failed to generate %s: %v\n", dataset, err)
			continue
		}

		storeEnv := []string{
			"BOTSCAN_SCAN_BACKEND=sqlite",
			"BOTSCAN_SCAN_DB_CONNECT=" + filepath.Join(config.WorkDir, dataset+".db"),
		}
		if output, err := runBotscan(config, storeEnv, "scans", "import", seriesFile); err != nil {
			fmt.Printf("Warning: failed to import %s: %v\nOutput: %s\n", dataset, err, output)
			continue
		}
		urlFile := filepath.Join(config.WorkDir, dataset+".urls")
		if err := os.WriteFile(urlFile, []byte(strings.Join(ids, "\n")), 0o644); err != nil {
			fmt.Printf("Warning: failed to write url file: %v\n", err)
			continue
		}

		for _, workers := range config.WorkerSets {
			w := strconv.Itoa(workers)
			results = append(results,
				runBenchmarkSuite(config, dataset, "evaluate", workers, []string{"BOTSCAN_SCAN_BACKEND=none"}, "evaluate", "--workers", w, seriesFile),
				runBenchmarkSuite(config, dataset, "batch", workers, storeEnv, "batch", "--workers", w, "--url-file", urlFile),
			)
		}
	}

	return results
}

// generateDataset writes size synthetic series to a JSON file and returns its path and submission ids
func generateDataset(config BenchmarkConfig, dataset string, size int) (string, []string, error) {
	rng := rand.New(rand.NewPCG(uint64(size), 42))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	platforms := []schema.Platform{schema.Twitter, schema.Instagram, schema.TikTok, schema.Facebook, schema.Snapchat}

	all := make([]schema.RawSeries, size)
	ids := make([]string, size)
	for i := range all {
		id := fmt.Sprintf("%s-%d", dataset, i)
		botted := rng.Float64() < config.BottedShare
		views := 500 + rng.Float64()*500
		likes := views * 0.08

		scans := make([]schema.RawScan, config.ScansPer)
		for s := range scans {
			growth := 1.05 + rng.Float64()*0.2
			views *= growth
			likes *= growth
			if botted && s == config.ScansPer/2 {
				likes *= 4
			}
			scans[s] = schema.RawScan{
				CollectedAt: start.Add(time.Duration(s) * time.Hour),
				Views:       views,
				Likes:       likes,
				Comments:    views / 120,
				Shares:      views / 300,
				Saves:       views / 400,
			}
		}
		all[i] = schema.RawSeries{SubmissionID: id, Platform: platforms[i%len(platforms)], Scans: scans}
		ids[i] = id
	}

	path := filepath.Join(config.WorkDir, dataset+".json")
	data, err := json.Marshal(all)
	if err != nil {
		return "", nil, err
	}
	return path, ids, os.WriteFile(path, data, 0o644)
}

// runBenchmarkSuite times one command and reports the cold run and the warm average
func runBenchmarkSuite(config BenchmarkConfig, dataset, command string, workers int, env []string, args ...string) BenchmarkResult {
	fmt.Printf("  %s on %s with %d workers\n", command, dataset, workers)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()
		output, err := runBotscan(config, env, args...)
		if err == nil && isSuccess(output) {
			times = append(times, time.Since(start).Seconds())
		}
	}

	result := BenchmarkResult{Dataset: dataset, Command: command, Workers: workers, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("    Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
	return result
}

// runBotscan runs the binary with a timeout and returns its combined output
func runBotscan(config BenchmarkConfig, env []string, args ...string) ([]byte, error) {
	cmd := exec.Command("botscan", args...)
	cmd.Dir = config.WorkDir
	cmd.Env = append(os.Environ(), env...)

	done := make(chan bool)
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		done <- true
	}()

	select {
	case <-done:
		return output, cmdErr
	case <-time.After(config.Timeout):
		_ = cmd.Process.Kill()
		<-done
		return output, fmt.Errorf("timed out after %v", config.Timeout)
	}
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Evaluation completed in") && strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/botscan_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "workers", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, strconv.Itoa(result.Workers), result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "evaluate", "File Evaluation:")
	printCommandSummary(results, "batch", "Stored Batch Evaluation:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s %2d workers: Cold: %s, Warm: %s\n", result.Dataset, result.Workers, result.ColdTime, result.WarmTime)
		}
	}
}
