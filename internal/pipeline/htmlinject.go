package pipeline

import (
	"context"
	"html"
	"regexp"
	"strings"
)

// ResourceAttr marks blocks injected by this package. Its value is the
// resource name, which makes injection idempotent per tag and name.
const ResourceAttr = "data-lightbox-resource"

// Injector defines the contract for inline resource injection into HTML.
type Injector interface {
	InjectCSS(ctx context.Context, htmlContent, name, cssContent string) string
	InjectScript(ctx context.Context, htmlContent, name, jsContent string) string
}

// ResourceInjection injects <style> and <script> blocks into HTML content.
type ResourceInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// Content already carrying a block with the same name is returned unchanged.
func (s *ResourceInjection) InjectCSS(ctx context.Context, htmlContent, name, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil || HasResource(htmlContent, "style", name) {
		return htmlContent
	}

	styleBlock := openTag("style", name) + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if pos := afterBodyOpen(htmlContent, lowerHTML); pos != -1 {
		return htmlContent[:pos] + styleBlock + htmlContent[pos:]
	}

	return styleBlock + htmlContent
}

// InjectScript inserts a <script> block before </body>, or appends it.
// Scripts run after the document is parsed, which the client script relies on.
func (s *ResourceInjection) InjectScript(ctx context.Context, htmlContent, name, jsContent string) string {
	if jsContent == "" || ctx.Err() != nil || HasResource(htmlContent, "script", name) {
		return htmlContent
	}

	scriptBlock := openTag("script", name) + sanitizeScript(jsContent) + "</script>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.LastIndex(lowerHTML, "</body>"); idx != -1 {
		return htmlContent[:idx] + scriptBlock + htmlContent[idx:]
	}

	return htmlContent + scriptBlock
}

// HasResource reports whether htmlContent already holds a tag block named name.
func HasResource(htmlContent, tag, name string) bool {
	return strings.Contains(htmlContent, openTag(tag, name))
}

func openTag(tag, name string) string {
	return "<" + tag + " " + ResourceAttr + `="` + html.EscapeString(name) + `">`
}

// afterBodyOpen returns the offset just past the <body ...> tag, or -1.
func afterBodyOpen(htmlContent, lowerHTML string) int {
	idx := strings.Index(lowerHTML, "<body")
	if idx == -1 {
		return -1
	}
	closeIdx := strings.Index(htmlContent[idx:], ">")
	if closeIdx == -1 {
		return -1
	}
	return idx + closeIdx + 1
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

var scriptClosePattern = regexp.MustCompile(`(?i)</(script)`)

// sanitizeScript escapes closing script tags so the block cannot end early.
// Inside JavaScript strings and regexps, <\/ reads the same as </.
func sanitizeScript(js string) string {
	return scriptClosePattern.ReplaceAllString(js, `<\/$1`)
}
