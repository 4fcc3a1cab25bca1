package main

import (
	"fmt"
	"io"

	"github.com/alnah/go-lightbox/internal/config"
	"github.com/alnah/go-lightbox/internal/yamlutil"
)

// runConfigCmd prints the effective configuration as YAML: the config file
// with environment overrides applied and sizing defaults filled in.
func runConfigCmd(args []string, env *Environment) error {
	var common commonFlags
	fs := newFlagSet("config", printConfigUsage, env.Stderr)
	fs.StringVarP(&common.config, "config", "c", "", "config file name or path")
	if err := parseFlagSet(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrUsage)
	}

	s, err := resolveSettings(common, runFlags{}, env)
	if err != nil {
		return err
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Marshal(effectiveConfig(s.cfg))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}

// effectiveConfig returns a copy of cfg with implicit defaults made explicit.
func effectiveConfig(cfg *config.Config) *config.Config {
	out := *cfg
	out.SetLightboxEnabled(cfg.LightboxEnabled())

	p := cfg.Lightbox.Sizing.Policy()
	out.Lightbox.Sizing = config.SizingConfig{
		DisplayFactor:       p.DisplayFactor,
		MinWidth:            p.MinWidth,
		MinHeight:           p.MinHeight,
		ViewportMinFraction: p.ViewportMinFraction,
		MaxScale:            p.MaxScale,
		ViewportMaxFraction: p.ViewportMaxFraction,
		CloseDelayMs:        int(p.CloseDelay.Milliseconds()),
	}
	return &out
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lightbox config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML.")
	fmt.Fprintln(w, "Environment variables override the config file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}
