package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	lightbox "github.com/alnah/go-lightbox"
)

// FileResult holds the outcome of processing one file.
type FileResult struct {
	InputPath  string
	OutputPath string
	Title      string
	Stats      lightbox.Stats
	Err        error
	Duration   time.Duration
}

// processFunc handles one job. It must be safe for concurrent use.
type processFunc func(ctx context.Context, job FileJob) FileResult

// processBatch runs fn over jobs with a bounded worker pool.
// Results keep the order of jobs. Jobs not started before ctx is done
// fail with the context error.
func processBatch(ctx context.Context, workers int, jobs []FileJob, fn processFunc) []FileResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(max(workers, 1), len(jobs))

	results := make([]FileResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = FileResult{InputPath: jobs[idx].InputPath, Err: err}
					continue
				}
				results[idx] = fn(ctx, jobs[idx])
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Stats     lightbox.Stats
}

// countResults tallies results and sums image counts of successful files.
func countResults(results []FileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Stats.Add(r.Stats)
	}
	return summary
}

// printResults outputs results and returns the number of failures.
// Verbose mode adds durations and image counts, including images left
// alone because they have no src.
func printResults(results []FileResult, verb string, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, %s)\n",
				r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond), formatStats(r.Stats))
		} else {
			fmt.Fprintf(env.Stdout, "%s %s\n", verb, r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
		if verbose {
			fmt.Fprintf(env.Stdout, "images: %s\n", formatStats(summary.Stats))
		}
	}

	return summary.Failed
}

// formatStats renders image counts for verbose output.
func formatStats(s lightbox.Stats) string {
	return fmt.Sprintf("%d wrapped, %d without src, %d already wrapped", s.Wrapped, s.Skipped, s.AlreadyWrapped)
}
