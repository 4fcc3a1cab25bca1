package lightbox

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-lightbox/internal/assets"
	"github.com/alnah/go-lightbox/internal/fileutil"
	rewriter "github.com/alnah/go-lightbox/internal/lightbox"
	"github.com/alnah/go-lightbox/internal/pipeline"
	"github.com/alnah/go-lightbox/internal/sizing"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.Injector      = (*pipeline.ResourceInjection)(nil)
)

// Converter turns Markdown or rendered HTML into lightbox-enabled pages.
// It is immutable after NewConverter and safe for concurrent use.
type Converter struct {
	cfg           converterConfig
	assetLoader   assets.AssetLoader
	htmlConverter pipeline.HTMLConverter
	injector      pipeline.Injector
	page          *pipeline.PageRenderer
	pageCSS       string // default page style plus WithStyle, for Markdown pages
	extraCSS      string // WithStyle only, for Transform
	resources     []Resource
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithLightbox, WithSizingPolicy, WithAssetPath).
// Returns error if the policy is invalid or an asset cannot be loaded or parsed.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout: defaultTimeout,
			enabled: true,
			policy:  sizing.DefaultPolicy(),
			lang:    DefaultLang,
		},
		assetLoader:   assets.NewEmbeddedLoader(),
		htmlConverter: pipeline.NewGoldmarkConverter(),
		injector:      &pipeline.ResourceInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.timeout <= 0 {
		c.cfg.timeout = defaultTimeout
	}
	if c.cfg.lang == "" {
		c.cfg.lang = DefaultLang
	}
	if err := c.cfg.policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSizing, err)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if err := c.loadPageAssets(); err != nil {
		return nil, err
	}
	if err := c.loadResources(); err != nil {
		return nil, err
	}

	return c, nil
}

// loadPageAssets prepares the page template and page styles.
func (c *Converter) loadPageAssets() error {
	tmpl := c.cfg.pageTemplate
	if tmpl == "" {
		var err error
		tmpl, err = c.assetLoader.LoadTemplate(assets.PageTemplateName)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPageTemplate, err)
		}
	}
	page, err := pipeline.NewPageRenderer(tmpl)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageTemplate, err)
	}
	c.page = page

	base, err := c.assetLoader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return fmt.Errorf("loading page style: %w", err)
	}

	extra, err := c.resolveStyle()
	if err != nil {
		return err
	}
	c.extraCSS = extra
	c.pageCSS = base
	if extra != "" {
		c.pageCSS += "\n" + extra
	}
	return nil
}

// loadResources renders the lightbox stylesheet and script. Nothing is
// loaded when the lightbox is disabled.
func (c *Converter) loadResources() error {
	if !c.cfg.enabled {
		return nil
	}

	css, err := c.assetLoader.LoadStyle(assets.LightboxStyleName)
	if err != nil {
		return fmt.Errorf("loading lightbox style: %w", err)
	}

	tmpl, err := c.assetLoader.LoadScript(assets.LightboxScriptName)
	if err != nil {
		return fmt.Errorf("loading lightbox script: %w", err)
	}
	js, err := assets.RenderScript(tmpl, c.cfg.policy)
	if err != nil {
		return err
	}

	c.resources = []Resource{
		{Name: lightboxResource, Kind: ResourceCSS, Inline: true, Content: css},
		{Name: lightboxResource, Kind: ResourceJS, LoadTime: LoadAfterDOMReady, Inline: true, Content: js},
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
func (c *Converter) resolveStyle() (string, error) {
	input := c.cfg.styleInput
	if input == "" {
		return "", nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", input, err)
		}
		return string(content), nil
	}

	if fileutil.IsCSS(input) {
		return input, nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", input, err)
	}
	return css, nil
}

// Resources returns the assets a host page needs: the lightbox stylesheet and
// the client script, to be loaded after DOM ready. Empty when disabled.
func (c *Converter) Resources() []Resource {
	out := make([]Resource, len(c.resources))
	copy(out, c.resources)
	return out
}

// Enabled reports whether the image rewrite is active.
func (c *Converter) Enabled() bool {
	return c.cfg.enabled
}

// Convert renders Markdown into a complete lightbox-enabled page.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(input.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	frag, err := c.htmlConverter.ToHTML(ctx, input.Markdown)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	title := firstNonEmpty(input.Title, frag.Title, input.Name, untitled)
	lang := firstNonEmpty(input.Lang, c.cfg.lang)

	page, err := c.page.Render(ctx, pipeline.PageData{
		Lang:    lang,
		Title:   title,
		Content: templateHTML(frag.HTML),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageTemplate, err)
	}

	res, err := c.finish(ctx, page, c.pageCSS)
	if err != nil {
		return nil, err
	}
	res.Title = title
	return res, nil
}

// Transform post-processes HTML rendered by another generator: it rewrites
// images and injects the lightbox resources. Full documents and fragments
// are both accepted. Transforming its own output again changes nothing.
func (c *Converter) Transform(ctx context.Context, htmlContent string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(htmlContent) == "" {
		return nil, ErrEmptyHTML
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	return c.finish(ctx, htmlContent, c.extraCSS)
}

// finish rewrites images in htmlContent and injects styles and scripts.
func (c *Converter) finish(ctx context.Context, htmlContent, pageCSS string) (*Result, error) {
	rewritten, stats, err := rewriter.RewriteHTML(htmlContent, c.cfg.enabled)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLRewrite, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := c.injector.InjectCSS(ctx, rewritten, pageResource, pageCSS)
	for _, r := range c.resources {
		switch r.Kind {
		case ResourceCSS:
			out = c.injector.InjectCSS(ctx, out, r.Name, r.Content)
		case ResourceJS:
			out = c.injector.InjectScript(ctx, out, r.Name, r.Content)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{HTML: []byte(out), Stats: stats}, nil
}

// RewriteTree rewrites the images of a tree the caller already parsed.
// The tree is mutated in place; resources are the caller's concern.
func RewriteTree(doc *html.Node, enabled bool) Stats {
	return rewriter.Rewrite(doc, enabled)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
