package main

import (
	"context"
	"errors"
	"os"

	lightbox "github.com/alnah/go-lightbox"
	"github.com/alnah/go-lightbox/internal/config"
	"github.com/alnah/go-lightbox/internal/hints"
)

// Exit codes for the lightbox CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All files processed
	ExitGeneral = 1 // General/unexpected error, failed checks
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, lightbox.ErrBrowserConnect) ||
		errors.Is(err, lightbox.ErrPageCreate) ||
		errors.Is(err, lightbox.ErrPageLoad) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoFiles) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, lightbox.ErrEmptyMarkdown) ||
		errors.Is(err, lightbox.ErrEmptyHTML) ||
		errors.Is(err, lightbox.ErrInvalidSizing) ||
		errors.Is(err, lightbox.ErrStyleNotFound) ||
		errors.Is(err, lightbox.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
// Config-not-found hints are attached where the searched paths are known.
func hintFor(err error) string {
	switch {
	case errors.Is(err, lightbox.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, lightbox.ErrStyleNotFound):
		return hints.ForStyleNotFound(builtinStyles)
	case errors.Is(err, lightbox.ErrInvalidAssetPath):
		return hints.ForAssetPath()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
