// Package main provides a performance benchmarking tool for the ce CLI.
// It generates synthetic batch reports of increasing size and measures `ce run` over them,
// running each report multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - ce binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where reports and SQLite databases are generated
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jblievremont/sonarqube/internal/report"
	"github.com/jblievremont/sonarqube/schema"
)

// BenchmarkResult holds the result of a benchmark run (in-memory average, cold run and average of warm runs).
type BenchmarkResult struct {
	Report     string
	Files      int
	Lines      int
	MemoryTime string
	ColdTime   string
	WarmTime   string
}

// ReportSize describes one synthetic report.
type ReportSize struct {
	Name         string
	Files        int
	LinesPerFile int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	MemoryRuns  int
	SQLiteRuns  int
	ReportSizes []ReportSize
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:    os.Args[1],
		Timeout:    5 * time.Minute,
		MemoryRuns: 3,
		SQLiteRuns: 4,
		ReportSizes: []ReportSize{
			{Name: "small", Files: 50, LinesPerFile: 200},
			{Name: "medium", Files: 500, LinesPerFile: 400},
			{Name: "large", Files: 2000, LinesPerFile: 800},
		},
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

// checkPrerequisites verifies that the ce binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("ce"); err != nil {
		return fmt.Errorf("ce binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// runBenchmarks generates every report and benchmarks it
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d reports, %v timeout, in-memory: %d runs, sqlite: %d runs\n",
		len(config.ReportSizes), config.Timeout, config.MemoryRuns, config.SQLiteRuns)

	for _, size := range config.ReportSizes {
		reportDir := filepath.Join(config.WorkDir, "report-"+size.Name)
		fmt.Printf("Generating %s report (%d files x %d lines)\n", size.Name, size.Files, size.LinesPerFile)
		if err := generateReport(reportDir, size); err != nil {
			fmt.Printf("  Failed to generate report: %v\n", err)
			continue
		}
		results = append(results, runBenchmarkSuite(config, size, reportDir))
	}

	return results
}

// generateReport writes a project with one directory holding all files. Every file
// carries coverage on odd lines so that the line readers have work to do.
func generateReport(dir string, size ReportSize) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	w, err := report.NewWriter(dir)
	if err != nil {
		return err
	}

	const projectRef, dirRef = 1, 2
	fileRefs := make([]int, size.Files)
	for i := range fileRefs {
		fileRefs[i] = dirRef + 1 + i
	}
	if err := w.WriteMetadata(schema.Metadata{AnalysisDate: time.Now().UnixMilli(), ProjectKey: "bench", RootComponentRef: projectRef}); err != nil {
		return err
	}
	if err := w.WriteComponent(schema.ComponentMetadata{Ref: projectRef, Type: schema.ProjectType, Key: "bench", UUID: "bench", ChildRefs: []int{dirRef}}); err != nil {
		return err
	}
	if err := w.WriteComponent(schema.ComponentMetadata{Ref: dirRef, Type: schema.DirectoryType, Key: "bench:src", UUID: "bench-src", ChildRefs: fileRefs}); err != nil {
		return err
	}

	covered := true
	for i, ref := range fileRefs {
		name := fmt.Sprintf("src/file%05d.go", i)
		if err := w.WriteComponent(schema.ComponentMetadata{
			Ref: ref, Type: schema.FileType, Key: "bench:" + name, UUID: fmt.Sprintf("bench-file-%05d", i), Lines: size.LinesPerFile,
		}); err != nil {
			return err
		}
		lines := make([]string, size.LinesPerFile)
		var coverage []schema.Coverage
		for l := range lines {
			lines[l] = fmt.Sprintf("\tvalue%d := compute(%d, %q)", l, i, name)
			if l%2 == 0 {
				coverage = append(coverage, schema.Coverage{Line: l + 1, UtHits: &covered})
			}
		}
		if err := w.WriteSource(ref, lines); err != nil {
			return err
		}
		if err := w.WriteCoverage(ref, coverage); err != nil {
			return err
		}
	}
	return nil
}

// runBenchmarkSuite runs both in-memory and sqlite benchmarks for a report
func runBenchmarkSuite(config BenchmarkConfig, size ReportSize, reportDir string) BenchmarkResult {
	fmt.Printf("Running analysis on %s\n", size.Name)

	// Helper to run a benchmark phase
	runPhase := func(backend, connStr string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, reportDir, backend, connStr, numRuns)
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

	// Phase 1: in-memory runs insert every file each time
	_, memoryAvg := runPhase("none", "", config.MemoryRuns, "In-memory")

	// Phase 2: sqlite runs insert once, then find every file unchanged
	dbPath := filepath.Join(config.WorkDir, size.Name+".db")
	_ = os.Remove(dbPath)
	coldTime, warmAvg := runPhase("sqlite", dbPath, config.SQLiteRuns, "SQLite")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  In-memory average: %s, Cold time: %s, Warm average: %s\n", memoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Report:     size.Name,
		Files:      size.Files,
		Lines:      size.Files * size.LinesPerFile,
		MemoryTime: memoryAvg,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes ce run multiple times on one backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, reportDir, backend, connStr string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{"run", reportDir, "--db-backend", backend, "--color", "no"}
	if connStr != "" {
		args = append(args, "--db-connect", connStr)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("ce", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "Backend:")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("ce_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"report", "files", "lines", "memory_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{
			result.Report, fmt.Sprint(result.Files), fmt.Sprint(result.Lines),
			result.MemoryTime, result.ColdTime, result.WarmTime,
		}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s (%d lines): In-memory: %s, Cold: %s, Warm: %s\n",
			result.Report, result.Lines, result.MemoryTime, result.ColdTime, result.WarmTime)
	}
}
