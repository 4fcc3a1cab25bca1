package assets

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/dop251/goja"

	"github.com/alnah/go-lightbox/internal/sizing"
)

// scriptPolicy holds the policy values as JavaScript number literals.
type scriptPolicy struct {
	DisplayFactor       string
	MinWidth            string
	MinHeight           string
	ViewportMinFraction string
	MaxScale            string
	ViewportMaxFraction string
	CloseDelayMillis    string
}

// RenderScript fills the sizing policy into a client script template and
// checks that the result parses as JavaScript, so a broken custom template
// fails the build instead of the reader's browser.
// The policy must already be valid. Numbers are written in their shortest
// round-trip form so the script computes exactly what sizing.Policy.Fit does.
func RenderScript(tmplContent string, p sizing.Policy) (string, error) {
	tmpl, err := template.New("script").Option("missingkey=error").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptRender, err)
	}

	data := scriptPolicy{
		DisplayFactor:       jsNumber(p.DisplayFactor),
		MinWidth:            jsNumber(p.MinWidth),
		MinHeight:           jsNumber(p.MinHeight),
		ViewportMinFraction: jsNumber(p.ViewportMinFraction),
		MaxScale:            jsNumber(p.MaxScale),
		ViewportMaxFraction: jsNumber(p.ViewportMaxFraction),
		CloseDelayMillis:    strconv.FormatInt(p.CloseDelay.Milliseconds(), 10),
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptRender, err)
	}

	out := buf.String()
	if _, err := goja.Compile("lightbox.js", out, false); err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptRender, err)
	}
	return out, nil
}

func jsNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
