package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-lightbox/internal/sizing"
	"github.com/alnah/go-lightbox/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config directory.
const AppDir = "go-lightbox"

// Field length limits.
const (
	MaxPathLength  = 4096 // PATH_MAX on Linux
	MaxTitleLength = 200  // Site title
	MaxLangLength  = 35   // BCP 47 tags are short; "zh-Hant-TW" etc.
	MaxStyleLength = 4096 // Style name or path
)

// Config holds all configuration for site builds.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Site   SiteConfig   `yaml:"site"`
	Style  string       `yaml:"style"` // Extra style name or CSS file path (empty = none)
	// EnableLightbox is a pointer so an explicit false is distinguishable
	// from an absent key, which means true.
	EnableLightbox *bool          `yaml:"enableLightbox"`
	Lightbox       LightboxConfig `yaml:"lightbox"`
	Assets         AssetsConfig   `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// SiteConfig defines page-level metadata.
type SiteConfig struct {
	Title string `yaml:"title"` // Fallback title when a page has no H1
	Lang  string `yaml:"lang"`  // html lang attribute (default "en")
}

// LightboxConfig groups lightbox tuning.
type LightboxConfig struct {
	Sizing SizingConfig `yaml:"sizing"`
}

// SizingConfig overrides sizing policy values. Zero keeps the default.
type SizingConfig struct {
	DisplayFactor       float64 `yaml:"displayFactor"`
	MinWidth            float64 `yaml:"minWidth"`
	MinHeight           float64 `yaml:"minHeight"`
	ViewportMinFraction float64 `yaml:"viewportMinFraction"`
	MaxScale            float64 `yaml:"maxScale"`
	ViewportMaxFraction float64 `yaml:"viewportMaxFraction"`
	CloseDelayMs        int     `yaml:"closeDelayMs"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// LightboxEnabled reports the effective enableLightbox value.
func (c *Config) LightboxEnabled() bool {
	return c.EnableLightbox == nil || *c.EnableLightbox
}

// SetLightboxEnabled sets enableLightbox explicitly.
func (c *Config) SetLightboxEnabled(enabled bool) {
	c.EnableLightbox = &enabled
}

// Policy returns the default sizing policy with configured overrides applied.
func (s SizingConfig) Policy() sizing.Policy {
	p := sizing.DefaultPolicy()
	if s.DisplayFactor != 0 {
		p.DisplayFactor = s.DisplayFactor
	}
	if s.MinWidth != 0 {
		p.MinWidth = s.MinWidth
	}
	if s.MinHeight != 0 {
		p.MinHeight = s.MinHeight
	}
	if s.ViewportMinFraction != 0 {
		p.ViewportMinFraction = s.ViewportMinFraction
	}
	if s.MaxScale != 0 {
		p.MaxScale = s.MaxScale
	}
	if s.ViewportMaxFraction != 0 {
		p.ViewportMaxFraction = s.ViewportMaxFraction
	}
	if s.CloseDelayMs != 0 {
		p.CloseDelay = time.Duration(s.CloseDelayMs) * time.Millisecond
	}
	return p
}

// Validate checks field lengths and sizing values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"site.title", c.Site.Title, MaxTitleLength},
		{"site.lang", c.Site.Lang, MaxLangLength},
		{"style", c.Style, MaxStyleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if strings.ContainsAny(c.Site.Lang, " \t\"<>") {
		return fmt.Errorf("%w: site.lang %q", ErrInvalidValue, c.Site.Lang)
	}
	if c.Lightbox.Sizing.CloseDelayMs < 0 {
		return fmt.Errorf("%w: lightbox.sizing.closeDelayMs must not be negative, got %d",
			ErrInvalidValue, c.Lightbox.Sizing.CloseDelayMs)
	}
	if err := c.Lightbox.Sizing.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: lightbox.sizing: %v", ErrInvalidValue, err)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given:
// embedded assets, no extra style, lightbox enabled.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
		if !fileExists(configPath) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.DecodeFile(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the candidate locations for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations:
// current directory first, then the user config directory.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
