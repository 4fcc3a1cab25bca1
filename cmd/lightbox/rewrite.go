package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alnah/go-lightbox/internal/fileutil"
)

// runRewriteCmd post-processes HTML pages produced by another generator.
// Without --output, files are rewritten in place.
func runRewriteCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRewriteFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	s, err := resolveSettings(flags.common, flags.run, env)
	if err != nil {
		return err
	}
	mergeLightboxFlags(flags.lightbox, s.cfg)
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, s.cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, s.cfg)

	files, err := discoverFiles(inputPath, outputDir, htmlExts, "")
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no HTML files in %s", ErrNoFiles, inputPath)
	}

	conv, err := newConverter(s)
	if err != nil {
		return err
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Rewriting %d page(s) with %d worker(s), lightbox %s\n",
			len(files), s.workers, onOff(s.cfg.LightboxEnabled()))
	}

	results := processBatch(ctx, s.workers, files, func(ctx context.Context, job FileJob) FileResult {
		return rewriteFile(ctx, conv, job)
	})

	return finishBatch(results, "Rewrote", flags.common, env)
}

// rewriteFile transforms one HTML file and writes it to its output path.
// The write is atomic, so an in-place rewrite never leaves a truncated page.
func rewriteFile(ctx context.Context, conv CLIConverter, job FileJob) (result FileResult) {
	start := time.Now()
	result = FileResult{InputPath: job.InputPath, OutputPath: job.OutputPath}
	defer func() { result.Duration = time.Since(start) }()

	content, err := os.ReadFile(job.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		return result
	}

	res, err := conv.Transform(ctx, string(content))
	if err != nil {
		result.Err = err
		return result
	}

	if err := fileutil.WriteFileAtomic(job.OutputPath, res.HTML); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return result
	}

	result.Stats = res.Stats
	return result
}
