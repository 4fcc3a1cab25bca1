package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-lightbox/internal/fileutil"
)

// File extensions each command accepts.
var (
	markdownExts = []string{".md", ".markdown"}
	htmlExts     = []string{".html", ".htm"}
)

// FileJob is a single file to process.
type FileJob struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds the files under inputPath whose extension is in exts.
// outExt replaces the input extension in output paths; empty keeps it.
// A directory input is walked recursively and its layout mirrored under outputDir.
func discoverFiles(inputPath, outputDir string, exts []string, outExt string) ([]FileJob, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateExtension(inputPath, exts); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", outExt)
		return []FileJob{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileJob
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if !hasExtension(path, exts) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, outExt)
		files = append(files, FileJob{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for an input file.
func resolveOutputPath(inputPath, outputDir, baseInputDir, outExt string) string {
	name := filepath.Base(inputPath)
	if outExt != "" {
		name = fileutil.ReplaceExt(name, outExt)
	}

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	// A single file written to an explicit file path
	if baseInputDir == "" && outExt != "" && strings.HasSuffix(outputDir, outExt) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// hasExtension reports whether path ends with one of exts, ignoring case.
func hasExtension(path string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// validateExtension checks that path has one of exts.
func validateExtension(path string, exts []string) error {
	if !hasExtension(path, exts) {
		return fmt.Errorf("%w: got %q (want %s)", ErrInvalidExtension, filepath.Ext(path), strings.Join(exts, ", "))
	}
	return nil
}

// pageName returns the file name without extension, used as a fallback title.
func pageName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
