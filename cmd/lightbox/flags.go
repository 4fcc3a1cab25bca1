package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// runFlags holds the worker and timeout flags of batch commands.
type runFlags struct {
	workers int
	timeout string
}

// lightboxFlags holds flags that shape the rewrite and its resources.
type lightboxFlags struct {
	style      string // Name, path, or CSS content for an extra stylesheet
	assetPath  string // Override asset directory
	noLightbox bool   // Pass pages through without the lightbox
}

// siteFlags holds page metadata flags used by build.
type siteFlags struct {
	title string
	lang  string
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common   commonFlags
	run      runFlags
	lightbox lightboxFlags
	site     siteFlags
	output   string
}

// rewriteFlags holds all flags for the rewrite command.
type rewriteFlags struct {
	common   commonFlags
	run      runFlags
	lightbox lightboxFlags
	output   string
}

// verifyFlags holds all flags for the verify command.
type verifyFlags struct {
	common commonFlags
	run    runFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and image counts")
}

// addRunFlags adds worker and timeout flags to a FlagSet.
func addRunFlags(fs *flag.FlagSet, f *runFlags, what string) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", what+" timeout per page (e.g., 30s, 2m)")
}

// addLightboxFlags adds lightbox flags to a FlagSet.
func addLightboxFlags(fs *flag.FlagSet, f *lightboxFlags) {
	fs.StringVar(&f.style, "style", "", "extra CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noLightbox, "no-lightbox", false, "disable the image rewrite and its resources")
}

// addSiteFlags adds page metadata flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVar(&f.title, "title", "", "page title (\"\" = first H1, then file name)")
	fs.StringVar(&f.lang, "lang", "", "html lang attribute (default: en)")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseFlagSet parses args and wraps failures as usage errors.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// registerBuildFlags registers every build flag on fs.
func registerBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	addRunFlags(fs, &f.run, "conversion")
	addCommonFlags(fs, &f.common)
	addLightboxFlags(fs, &f.lightbox)
	addSiteFlags(fs, &f.site)
}

// registerRewriteFlags registers every rewrite flag on fs.
func registerRewriteFlags(fs *flag.FlagSet, f *rewriteFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: rewrite in place)")
	addRunFlags(fs, &f.run, "rewrite")
	addCommonFlags(fs, &f.common)
	addLightboxFlags(fs, &f.lightbox)
}

// registerVerifyFlags registers every verify flag on fs.
func registerVerifyFlags(fs *flag.FlagSet, f *verifyFlags) {
	addRunFlags(fs, &f.run, "browser")
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.json, "json", false, "print reports as JSON")
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newFlagSet("build", printBuildUsage, stderr)
	registerBuildFlags(fs, f)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseRewriteFlags parses rewrite command flags and returns positional args.
func parseRewriteFlags(args []string, stderr io.Writer) (*rewriteFlags, []string, error) {
	f := &rewriteFlags{}
	fs := newFlagSet("rewrite", printRewriteUsage, stderr)
	registerRewriteFlags(fs, f)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseVerifyFlags parses verify command flags and returns positional args.
func parseVerifyFlags(args []string, stderr io.Writer) (*verifyFlags, []string, error) {
	f := &verifyFlags{}
	fs := newFlagSet("verify", printVerifyUsage, stderr)
	registerVerifyFlags(fs, f)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
