package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	lightbox "github.com/alnah/go-lightbox"
	"github.com/alnah/go-lightbox/internal/assets"
	"github.com/alnah/go-lightbox/internal/config"
	"github.com/alnah/go-lightbox/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrNoFiles            = errors.New("no matching files found")
	ErrReadInput          = errors.New("failed to read input file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("unsupported file extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// builtinStyles are the style names the embedded assets provide.
var builtinStyles = assets.UserStyles()

// settings is the resolved configuration of one command run.
type settings struct {
	cfg     *config.Config
	workers int
	timeout time.Duration // 0 = library default
}

// resolveSettings layers defaults, the config file, the environment and
// the run flags. Command-specific flags are merged by the caller, which
// then calls cfg.Validate.
func resolveSettings(common commonFlags, run runFlags, env *Environment) (*settings, error) {
	envCfg := loadEnvConfig(env.Stderr)
	if !common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	cfg, err := loadConfig(name)
	if err != nil {
		return nil, err
	}
	applyEnvConfig(envCfg, cfg)

	timeout, err := resolveTimeout(run.timeout, envCfg.Timeout)
	if err != nil {
		return nil, err
	}

	workers := run.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return nil, err
	}

	return &settings{
		cfg:     cfg,
		workers: lightbox.ResolvePoolSize(workers),
		timeout: timeout,
	}, nil
}

// loadConfig loads a named or path config, or the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeLightboxFlags merges lightbox flags into config. CLI values win.
func mergeLightboxFlags(f lightboxFlags, cfg *config.Config) {
	if f.style != "" {
		cfg.Style = f.style
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.noLightbox {
		cfg.SetLightboxEnabled(false)
	}
}

// mergeSiteFlags merges page metadata flags into config. CLI values win.
func mergeSiteFlags(f siteFlags, cfg *config.Config) {
	if f.lang != "" {
		cfg.Site.Lang = f.lang
	}
}

// resolveTimeout picks the per-page timeout: flag > env > library default.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagValue)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	return envValue, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > lightbox.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, lightbox.MaxPoolSize)
	}
	return nil
}

// newConverter builds a library converter from resolved settings.
func newConverter(s *settings) (*lightbox.Converter, error) {
	opts := []lightbox.Option{
		lightbox.WithLightbox(s.cfg.LightboxEnabled()),
		lightbox.WithSizingPolicy(s.cfg.Lightbox.Sizing.Policy()),
		lightbox.WithAssetPath(s.cfg.Assets.BasePath),
		lightbox.WithStyle(s.cfg.Style),
		lightbox.WithLang(s.cfg.Site.Lang),
	}
	if s.timeout > 0 {
		opts = append(opts, lightbox.WithTimeout(s.timeout))
	}
	return lightbox.NewConverter(opts...)
}

// resolveInputPath returns the single positional input or the configured default.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	switch {
	case len(args) > 1:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	case len(args) == 1:
		return args[0], nil
	case cfg.Input.DefaultDir != "":
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the output flag or the configured default.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
