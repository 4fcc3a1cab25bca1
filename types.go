package lightbox

import (
	"html/template"
	"time"

	rewriter "github.com/alnah/go-lightbox/internal/lightbox"
	"github.com/alnah/go-lightbox/internal/sizing"
)

// Defaults applied by NewConverter.
const (
	defaultTimeout = 30 * time.Second
	DefaultLang    = "en"
	untitled       = "Untitled"
)

// Resource kinds and load times reported by Converter.Resources.
const (
	ResourceCSS = "css"
	ResourceJS  = "js"

	LoadAfterDOMReady = "afterDOMReady"
)

// Resource names used for the injected blocks.
const (
	lightboxResource = "lightbox"
	pageResource     = "page"
)

// Stats counts what an image rewrite did.
type Stats = rewriter.Stats

// SizingPolicy holds the preview sizing constants shared with the client script.
type SizingPolicy = sizing.Policy

// DefaultSizingPolicy returns the built-in sizing constants.
func DefaultSizingPolicy() SizingPolicy {
	return sizing.DefaultPolicy()
}

// Input is a single Markdown page to convert.
type Input struct {
	Markdown string
	Title    string // overrides the first level-1 heading
	Name     string // fallback title, typically the file name without extension
	Lang     string // overrides the converter language
}

// Result is a converted or transformed page.
type Result struct {
	HTML  []byte
	Title string // empty for Transform
	Stats Stats
}

// Resource is an asset a host page must carry for the lightbox to work.
type Resource struct {
	Name     string
	Kind     string // ResourceCSS or ResourceJS
	LoadTime string // LoadAfterDOMReady for scripts, empty for styles
	Inline   bool
	Content  string
}

// converterConfig holds the options collected by NewConverter.
type converterConfig struct {
	timeout      time.Duration
	enabled      bool
	policy       sizing.Policy
	assetPath    string
	styleInput   string
	pageTemplate string
	lang         string
}

// Option configures a Converter.
type Option func(*Converter)

// WithLightbox enables or disables the image rewrite and its resources.
// Enabled by default.
func WithLightbox(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.enabled = enabled
	}
}

// WithSizingPolicy replaces the preview sizing constants.
// NewConverter fails with ErrInvalidSizing if the policy is invalid.
func WithSizingPolicy(p SizingPolicy) Option {
	return func(c *Converter) {
		c.cfg.policy = p
	}
}

// WithTimeout bounds each Convert and Transform call.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithAssetPath sets a directory whose styles/, scripts/ and templates/
// override the built-in assets. Missing files fall back to the built-ins.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithStyle adds a page stylesheet: a style name, a CSS file path, or CSS content.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithPageTemplate sets the html/template source used to wrap Markdown pages.
// The template sees .Lang, .Title and .Content.
func WithPageTemplate(tmpl string) Option {
	return func(c *Converter) {
		c.cfg.pageTemplate = tmpl
	}
}

// WithLang sets the page language for Markdown pages.
func WithLang(lang string) Option {
	return func(c *Converter) {
		c.cfg.lang = lang
	}
}

// templateHTML marks converter output as trusted for the page template.
func templateHTML(s string) template.HTML {
	return template.HTML(s) // #nosec G203 -- produced by goldmark without WithUnsafe
}
