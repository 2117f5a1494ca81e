// Package main provides a performance benchmarking tool for the elcfinder CLI.
// It generates synthetic school lists of increasing size, serves them over a
// local HTTP server and times each command with and without the source cache.
// The first successful cached run is treated as cold and the rest are averaged
// as warm. Results are written as CSV for performance analysis.
//
// Prerequisites:
// - elcfinder binary installed and available in PATH
//
// Usage: go run benchmark/main.go [sizes]
//
//	sizes: Comma-separated school counts (default 100,1000,10000,50000)
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Schools     int
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DataDir     string
	BaseURL     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Sizes       []int
	Commands    [][]string
}

func main() {
	sizes := []int{100, 1000, 10000, 50000}
	if len(os.Args) == 2 {
		parsed, err := parseSizes(os.Args[1])
		if err != nil {
			fmt.Printf("Invalid sizes: %v\n", err)
			os.Exit(1)
		}
		sizes = parsed
	}

	if _, err := exec.LookPath("elcfinder"); err != nil {
		fmt.Printf("Prerequisites check failed: elcfinder binary not found in PATH\n")
		os.Exit(1)
	}

	dataDir, err := os.MkdirTemp("", "elcfinder-bench-*")
	if err != nil {
		fmt.Printf("Failed to create data dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(dataDir) }()

	for _, n := range sizes {
		if err := generateSchools(filepath.Join(dataDir, datasetName(n)), n); err != nil {
			fmt.Printf("Failed to generate %d schools: %v\n", n, err)
			os.Exit(1)
		}
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Printf("Failed to start data server: %v\n", err)
		os.Exit(1)
	}
	go func() { _ = http.Serve(listener, http.FileServer(http.Dir(dataDir))) }()

	config := BenchmarkConfig{
		DataDir:     dataDir,
		BaseURL:     "http://" + listener.Addr().String(),
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Sizes:       sizes,
		Commands: [][]string{
			{"rank"},
			{"rank", "--tie-break", "pairwise"},
			{"chart"},
			{"insight"},
		},
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for part := range strings.SplitSeq(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad size %q", part)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func datasetName(n int) string {
	return fmt.Sprintf("schools_%d.json", n)
}

// generateSchools writes n schools with random ratings around Melbourne.
func generateSchools(path string, n int) error {
	rng := rand.New(rand.NewPCG(uint64(n), 42))
	rating := func() float64 { return float64(rng.IntN(11)) }

	schools := make([]map[string]any, n)
	for i := range schools {
		schools[i] = map[string]any{
			"id":          i + 1,
			"name":        fmt.Sprintf("Bench ELC %05d", i+1),
			"address":     fmt.Sprintf("%d Test Street, Melbourne VIC 3000", i+1),
			"lat":         -37.8 + rng.Float64()*0.2,
			"lng":         144.9 + rng.Float64()*0.2,
			"cost":        rating(),
			"education":   rating(),
			"staff":       rating(),
			"facilities":  rating(),
			"reputation":  rating(),
			"nqs":         rating(),
			"fee_per_day": 90 + rng.Float64()*100,
		}
	}

	data, err := json.Marshal(schools)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// runBenchmarks executes all benchmark tests across configured dataset sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Sizes), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, n := range config.Sizes {
		fmt.Printf("Benchmarking %d schools\n", n)
		source := config.BaseURL + "/" + datasetName(n)
		for _, args := range config.Commands {
			results = append(results, runBenchmarkSuite(config, n, source, args))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, n int, source string, args []string) BenchmarkResult {
	command := strings.Join(args, " ")
	fmt.Printf("Running %s on %d schools\n", command, n)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, source, args, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs, starting from an empty cache
	clearCache()
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Schools:     n,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

func clearCache() {
	if output, err := exec.Command("elcfinder", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}
}

// runBenchmark executes an elcfinder command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, source string, command []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, command...)
	args = append(args, source, "--cache-backend", cacheBackend, "--color", "no", "--limit", "1000")

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("elcfinder", args...)
		cmd.Dir = config.DataDir

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command[0]) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	switch command {
	case "rank":
		return strings.Contains(outputStr, "Ranking completed in")
	case "insight":
		return strings.Contains(outputStr, "Top school:")
	default:
		return len(outputStr) > 0
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/elcfinder_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"schools", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{strconv.Itoa(result.Schools), result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	seen := make(map[string]bool)
	for _, result := range results {
		if seen[result.Command] {
			continue
		}
		seen[result.Command] = true
		fmt.Printf("%s:\n", result.Command)
		for _, r := range results {
			if r.Command == result.Command {
				fmt.Printf("  %-8d: No-cache: %s, Cold: %s, Warm: %s\n", r.Schools, r.NoCacheTime, r.ColdTime, r.WarmTime)
			}
		}
	}
}
