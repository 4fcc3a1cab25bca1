package main

// Notes:
// - processBatch: we test ordering, concurrency bounds and cancellation with
//   an in-memory processFunc. File I/O is covered by build and rewrite tests.
// - printResults: we test the quiet, normal and verbose output shapes.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	lightbox "github.com/alnah/go-lightbox"
)

// ---------------------------------------------------------------------------
// TestProcessBatch - Worker pool behavior
// ---------------------------------------------------------------------------

func TestProcessBatch(t *testing.T) {
	t.Parallel()

	jobsFor := func(n int) []FileJob {
		jobs := make([]FileJob, n)
		for i := range jobs {
			jobs[i] = FileJob{InputPath: fmt.Sprintf("%02d.md", i)}
		}
		return jobs
	}

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		if got := processBatch(context.Background(), 4, nil, nil); got != nil {
			t.Errorf("processBatch(nil) = %v, want nil", got)
		}
	})

	t.Run("keeps job order", func(t *testing.T) {
		t.Parallel()
		jobs := jobsFor(20)

		results := processBatch(context.Background(), 4, jobs, func(_ context.Context, job FileJob) FileResult {
			return FileResult{InputPath: job.InputPath}
		})

		for i, r := range results {
			if r.InputPath != jobs[i].InputPath {
				t.Errorf("results[%d] = %q, want %q", i, r.InputPath, jobs[i].InputPath)
			}
		}
	})

	t.Run("bounded concurrency", func(t *testing.T) {
		t.Parallel()
		var running, peak atomic.Int32

		processBatch(context.Background(), 3, jobsFor(12), func(_ context.Context, job FileJob) FileResult {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return FileResult{InputPath: job.InputPath}
		})

		if got := peak.Load(); got > 3 {
			t.Errorf("peak concurrency = %d, want <= 3", got)
		}
	})

	t.Run("zero workers still runs", func(t *testing.T) {
		t.Parallel()
		results := processBatch(context.Background(), 0, jobsFor(2), func(_ context.Context, job FileJob) FileResult {
			return FileResult{InputPath: job.InputPath}
		})
		if len(results) != 2 || results[1].InputPath != "01.md" {
			t.Errorf("results = %+v", results)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := processBatch(ctx, 2, jobsFor(3), func(context.Context, FileJob) FileResult {
			t.Error("job ran after cancellation")
			return FileResult{}
		})
		for _, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("%s: err = %v, want context.Canceled", r.InputPath, r.Err)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintResults - Output shapes
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []FileResult{
		{InputPath: "a.md", OutputPath: "a.html", Stats: lightbox.Stats{Wrapped: 2, Skipped: 1}},
		{InputPath: "b.md", OutputPath: "b.html", Stats: lightbox.Stats{Wrapped: 1}},
		{InputPath: "c.md", Err: errors.New("boom")},
	}

	tests := []struct {
		name        string
		quiet       bool
		verbose     bool
		wantOut     []string
		wantNoOut   []string
		wantErrLine string
	}{
		{
			name:        "normal",
			wantOut:     []string{"Created a.html", "Created b.html", "2 succeeded, 1 failed"},
			wantNoOut:   []string{"images:"},
			wantErrLine: "FAILED c.md: boom",
		},
		{
			name:        "verbose",
			verbose:     true,
			wantOut:     []string{"a.md -> a.html", "2 wrapped, 1 without src", "images: 3 wrapped"},
			wantErrLine: "FAILED c.md: boom",
		},
		{
			name:        "quiet",
			quiet:       true,
			wantNoOut:   []string{"Created", "succeeded"},
			wantErrLine: "FAILED c.md: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			env := &Environment{Stdout: &stdout, Stderr: &stderr}

			failed := printResults(results, "Created", tt.quiet, tt.verbose, env)
			if failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			for _, s := range tt.wantOut {
				if !strings.Contains(stdout.String(), s) {
					t.Errorf("stdout missing %q:\n%s", s, stdout.String())
				}
			}
			for _, s := range tt.wantNoOut {
				if strings.Contains(stdout.String(), s) {
					t.Errorf("stdout should not contain %q:\n%s", s, stdout.String())
				}
			}
			if !strings.Contains(stderr.String(), tt.wantErrLine) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantErrLine)
			}
		})
	}
}

func TestCountResults(t *testing.T) {
	t.Parallel()

	summary := countResults([]FileResult{
		{Stats: lightbox.Stats{Wrapped: 2, AlreadyWrapped: 1}},
		{Err: errors.New("x"), Stats: lightbox.Stats{Wrapped: 5}},
	})

	if summary.Succeeded != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 succeeded 1 failed", summary)
	}
	if summary.Stats.Wrapped != 2 || summary.Stats.AlreadyWrapped != 1 {
		t.Errorf("Stats = %+v, failed files must not count", summary.Stats)
	}
}
