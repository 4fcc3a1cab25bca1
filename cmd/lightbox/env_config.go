package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-lightbox/internal/config"
)

// envContainer forces container detection in doctor.
const envContainer = "LIGHTBOX_CONTAINER"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // LIGHTBOX_CONFIG: config file name or path
	Enabled    *bool         // LIGHTBOX_ENABLED: enableLightbox override
	Style      string        // LIGHTBOX_STYLE: extra CSS style name or path
	Timeout    time.Duration // LIGHTBOX_TIMEOUT: per-page timeout
	Workers    int           // LIGHTBOX_WORKERS: parallel workers
	InputDir   string        // LIGHTBOX_INPUT_DIR: default input directory
	OutputDir  string        // LIGHTBOX_OUTPUT_DIR: default output directory
}

// knownEnvVars lists valid LIGHTBOX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"LIGHTBOX_CONFIG":     true,
	"LIGHTBOX_ENABLED":    true,
	"LIGHTBOX_STYLE":      true,
	"LIGHTBOX_TIMEOUT":    true,
	"LIGHTBOX_WORKERS":    true,
	"LIGHTBOX_INPUT_DIR":  true,
	"LIGHTBOX_OUTPUT_DIR": true,
	envContainer:          true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable values are reported on w and otherwise ignored.
func loadEnvConfig(w io.Writer) *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("LIGHTBOX_CONFIG"),
		Style:      os.Getenv("LIGHTBOX_STYLE"),
		InputDir:   os.Getenv("LIGHTBOX_INPUT_DIR"),
		OutputDir:  os.Getenv("LIGHTBOX_OUTPUT_DIR"),
	}

	if v := os.Getenv("LIGHTBOX_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = &b
		} else {
			fmt.Fprintf(w, "warning: ignoring LIGHTBOX_ENABLED=%q (want true or false)\n", v)
		}
	}

	if v := os.Getenv("LIGHTBOX_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			fmt.Fprintf(w, "warning: ignoring LIGHTBOX_TIMEOUT=%q (want a positive duration)\n", v)
		}
	}

	if v := os.Getenv("LIGHTBOX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		} else {
			fmt.Fprintf(w, "warning: ignoring LIGHTBOX_WORKERS=%q (want a positive integer)\n", v)
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized LIGHTBOX_* variables.
// Helps catch typos like LIGHTBOX_ENABLE instead of LIGHTBOX_ENABLED.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "LIGHTBOX_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are merged afterwards,
// giving: CLI flags > env vars > config file > defaults.
// Timeout and workers are not config keys and are resolved separately.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Enabled != nil {
		cfg.SetLightboxEnabled(*env.Enabled)
	}
	if env.Style != "" {
		cfg.Style = env.Style
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
}
