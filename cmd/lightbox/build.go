package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	lightbox "github.com/alnah/go-lightbox"
	"github.com/alnah/go-lightbox/internal/fileutil"
)

// ErrBatchFailed reports that at least one file of a batch failed.
var ErrBatchFailed = errors.New("batch failed")

// CLIConverter is the part of lightbox.Converter the commands use.
type CLIConverter interface {
	Convert(ctx context.Context, input lightbox.Input) (*lightbox.Result, error)
	Transform(ctx context.Context, htmlContent string) (*lightbox.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*lightbox.Converter)(nil)

// runBuildCmd converts Markdown files into lightbox-enabled HTML pages.
func runBuildCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	s, err := resolveSettings(flags.common, flags.run, env)
	if err != nil {
		return err
	}
	mergeLightboxFlags(flags.lightbox, s.cfg)
	mergeSiteFlags(flags.site, s.cfg)
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, s.cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, s.cfg)

	files, err := discoverFiles(inputPath, outputDir, markdownExts, ".html")
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files in %s", ErrNoFiles, inputPath)
	}

	conv, err := newConverter(s)
	if err != nil {
		return err
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Building %d page(s) with %d worker(s), lightbox %s\n",
			len(files), s.workers, onOff(s.cfg.LightboxEnabled()))
	}

	page := pageOptions{title: flags.site.title, fallback: s.cfg.Site.Title}
	results := processBatch(ctx, s.workers, files, func(ctx context.Context, job FileJob) FileResult {
		return buildFile(ctx, conv, job, page)
	})

	return finishBatch(results, "Created", flags.common, env)
}

// pageOptions carries title settings shared by every page of a build.
type pageOptions struct {
	title    string // forced title
	fallback string // title when the page has no H1 (default: file name)
}

// buildFile converts one Markdown file and writes the page.
func buildFile(ctx context.Context, conv CLIConverter, job FileJob, page pageOptions) (result FileResult) {
	start := time.Now()
	result = FileResult{InputPath: job.InputPath, OutputPath: job.OutputPath}
	defer func() { result.Duration = time.Since(start) }()

	content, err := os.ReadFile(job.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		return result
	}

	name := page.fallback
	if name == "" {
		name = pageName(job.InputPath)
	}

	res, err := conv.Convert(ctx, lightbox.Input{
		Markdown: string(content),
		Title:    page.title,
		Name:     name,
	})
	if err != nil {
		result.Err = err
		return result
	}

	if err := fileutil.WriteFileAtomic(job.OutputPath, res.HTML); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return result
	}

	result.Title = res.Title
	result.Stats = res.Stats
	return result
}

// finishBatch prints results and converts failures into an error.
// A single-file run returns that file's error so its exit code is specific.
func finishBatch(results []FileResult, verb string, common commonFlags, env *Environment) error {
	failed := printResults(results, verb, common.quiet, common.verbose, env)
	if failed == 0 {
		return nil
	}
	if len(results) == 1 {
		return results[0].Err
	}
	return fmt.Errorf("%w: %d of %d file(s) failed", ErrBatchFailed, failed, len(results))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
