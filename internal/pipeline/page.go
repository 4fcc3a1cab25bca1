package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

// ErrPageRender indicates the page template could not be rendered.
var ErrPageRender = errors.New("page template rendering failed")

// PageData holds the values a page template can reference.
type PageData struct {
	Lang    string
	Title   string
	Content template.HTML // trusted: produced by the Markdown converter
}

// PageRenderer wraps HTML fragments in a complete document.
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer creates a PageRenderer from template content.
// Returns error if the template cannot be parsed.
func NewPageRenderer(tmplContent string) (*PageRenderer, error) {
	tmpl, err := template.New("page").Option("missingkey=error").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// Render executes the page template with data.
func (p *PageRenderer) Render(ctx context.Context, data PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}
