package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	lightbox "github.com/alnah/go-lightbox"
	"github.com/alnah/go-lightbox/internal/config"
	"github.com/alnah/go-lightbox/internal/hints"
)

// PageVerifier checks one page in a browser.
type PageVerifier interface {
	VerifyFile(ctx context.Context, path string) (*lightbox.VerifyReport, error)
}

// Compile-time interface implementation check.
var _ PageVerifier = (*lightbox.Verifier)(nil)

// VerifyPool abstracts verifier pool operations for testability.
type VerifyPool interface {
	Acquire() PageVerifier
	Release(PageVerifier)
	Size() int
	Close() error
}

// poolAdapter exposes a *lightbox.VerifierPool as a VerifyPool.
type poolAdapter struct {
	pool *lightbox.VerifierPool
}

// Acquire returns a verifier, or nil if the pool is closed.
func (a *poolAdapter) Acquire() PageVerifier {
	v := a.pool.Acquire()
	if v == nil {
		return nil
	}
	return v
}

// Release returns v to the pool. Passing a verifier the pool did not hand
// out is a programming error.
func (a *poolAdapter) Release(v PageVerifier) {
	lv, ok := v.(*lightbox.Verifier)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", v))
	}
	a.pool.Release(lv)
}

// Size returns the pool capacity.
func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// Close releases all browsers.
func (a *poolAdapter) Close() error {
	return a.pool.Close()
}

// VerifyResult holds the outcome of checking one page.
type VerifyResult struct {
	Path     string                 `json:"path"`
	Report   *lightbox.VerifyReport `json:"report,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Duration time.Duration          `json:"duration"`
	err      error
}

// Failed reports whether the page could not be checked or failed a check.
func (r VerifyResult) Failed() bool {
	return r.err != nil || (r.Report != nil && !r.Report.OK())
}

// runVerifyCmd loads HTML pages in headless Chrome and checks the lightbox.
func runVerifyCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseVerifyFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	s, err := resolveSettings(flags.common, flags.run, env)
	if err != nil {
		return err
	}

	inputPath, err := resolveVerifyPath(positional, s.cfg)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, "", htmlExts, "")
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no HTML files in %s", ErrNoFiles, inputPath)
	}

	timeout := s.timeout
	if timeout == 0 {
		timeout = defaultVerifyTimeout
	}

	pool := env.NewVerifierPool(min(s.workers, len(files)), timeout)
	defer pool.Close()

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Verifying %d page(s) with %d browser(s)\n", len(files), pool.Size())
	}

	results := verifyBatch(ctx, pool, files, timeout)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printVerifyResults(results, flags.common.quiet, flags.common.verbose, env)
	}

	return verifyOutcome(results)
}

// resolveVerifyPath returns the positional input or the configured output
// directory, where built pages live.
func resolveVerifyPath(args []string, cfg *config.Config) (string, error) {
	switch {
	case len(args) > 1:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	case len(args) == 1:
		return args[0], nil
	case cfg.Output.DefaultDir != "":
		return cfg.Output.DefaultDir, nil
	}
	return "", ErrNoInput
}

// defaultVerifyTimeout bounds one page check when no timeout is configured.
const defaultVerifyTimeout = 30 * time.Second

// verifyBatch checks pages concurrently, one browser per worker.
func verifyBatch(ctx context.Context, pool VerifyPool, files []FileJob, timeout time.Duration) []VerifyResult {
	results := make([]VerifyResult, len(files))
	concurrency := min(max(pool.Size(), 1), len(files))

	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			v := pool.Acquire()
			if v == nil {
				for idx := range jobs {
					results[idx] = failedVerify(files[idx].InputPath, lightbox.ErrBrowserConnect)
				}
				return
			}
			defer pool.Release(v)

			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = failedVerify(files[idx].InputPath, err)
					continue
				}
				results[idx] = verifyPage(ctx, v, files[idx].InputPath, timeout)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// verifyPage checks one page within timeout.
func verifyPage(ctx context.Context, v PageVerifier, path string, timeout time.Duration) VerifyResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report, err := v.VerifyFile(ctx, path)
	if err != nil {
		r := failedVerify(path, err)
		r.Duration = time.Since(start)
		return r
	}
	return VerifyResult{Path: path, Report: report, Duration: time.Since(start)}
}

func failedVerify(path string, err error) VerifyResult {
	return VerifyResult{Path: path, Error: err.Error(), err: err}
}

// printVerifyResults prints one line per page plus its problems.
func printVerifyResults(results []VerifyResult, quiet, verbose bool, env *Environment) {
	passed := 0
	for _, r := range results {
		switch {
		case r.err != nil:
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Path, r.err, hintFor(r.err))
		case !r.Report.OK():
			fmt.Fprintf(env.Stderr, "FAILED %s\n", r.Path)
			for _, p := range r.Report.Problems {
				fmt.Fprintf(env.Stderr, "  - %s\n", p)
			}
			if !r.Report.ScriptLoaded {
				fmt.Fprintln(env.Stderr, hints.ForDisabledLightbox()[1:])
			}
		default:
			passed++
			if quiet {
				continue
			}
			if verbose {
				fmt.Fprintf(env.Stdout, "OK %s (%d image(s), preview %.0fpx, %v)\n",
					r.Path, r.Report.Wrappers, r.Report.PreviewWidth, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "OK %s\n", r.Path)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d passed, %d failed\n", passed, len(results)-passed)
	}
}

// verifyOutcome turns page results into the command error.
// Browser errors win so the exit code points at the browser setup.
func verifyOutcome(results []VerifyResult) error {
	failed := 0
	for _, r := range results {
		if r.err != nil && exitCodeFor(r.err) == ExitBrowser {
			return r.err
		}
		if r.Failed() {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	if len(results) == 1 && results[0].err != nil {
		return results[0].err
	}
	return fmt.Errorf("%w: %d of %d page(s) failed", lightbox.ErrVerify, failed, len(results))
}
