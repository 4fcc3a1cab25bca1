package assets

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dop251/goja"

	"github.com/alnah/go-lightbox/internal/sizing"
)

// Notes:
// - The rendered script runs in goja without a document, so only the pure
//   parts are reachable: window.lightbox.fit and window.lightbox.policy.
// - Modal behavior runs against a small fake document in controller_test.go;
//   real layout is covered by the browser integration tests in the root
//   package.

// loadRenderedScript renders the embedded script with p and runs it in a
// fresh goja runtime.
func loadRenderedScript(t *testing.T, p sizing.Policy) (*goja.Runtime, *goja.Object) {
	t.Helper()

	tmpl, err := NewEmbeddedLoader().LoadScript(LightboxScriptName)
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	js, err := RenderScript(tmpl, p)
	if err != nil {
		t.Fatalf("RenderScript() error = %v", err)
	}

	vm := goja.New()
	if _, err := vm.RunString(js); err != nil {
		t.Fatalf("running rendered script: %v", err)
	}

	api := vm.Get("lightbox")
	if api == nil || goja.IsUndefined(api) || goja.IsNull(api) {
		t.Fatal("script did not expose lightbox")
	}
	return vm, api.ToObject(vm)
}

// ---------------------------------------------------------------------------
// RenderScript
// ---------------------------------------------------------------------------

func TestRenderScript_FillsPolicy(t *testing.T) {
	t.Parallel()

	tmpl, err := NewEmbeddedLoader().LoadScript(LightboxScriptName)
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}

	got, err := RenderScript(tmpl, sizing.DefaultPolicy())
	if err != nil {
		t.Fatalf("RenderScript() error = %v", err)
	}

	if strings.Contains(got, "{{") {
		t.Error("rendered script still contains template actions")
	}
	for _, want := range []string{"displayFactor: 1.5,", "minWidth: 500,", "viewportMaxFraction: 0.9,", "closeDelay: 300"} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered script missing %q", want)
		}
	}
}

func TestRenderScript_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tmpl string
	}{
		{"unparseable template", "var x = {{.DisplayFactor"},
		{"unknown field", "var x = {{.Nope}};"},
		{"invalid javascript", "var x = {{.DisplayFactor}} +;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := RenderScript(tt.tmpl, sizing.DefaultPolicy())
			if !errors.Is(err, ErrScriptRender) {
				t.Errorf("RenderScript() error = %v, want ErrScriptRender", err)
			}
		})
	}
}

func TestRenderScript_CustomPolicyReachesClient(t *testing.T) {
	t.Parallel()

	p := sizing.DefaultPolicy()
	p.MaxScale = 2.25
	p.CloseDelay = 150 * time.Millisecond

	vm, api := loadRenderedScript(t, p)
	policy := api.Get("policy").ToObject(vm)

	if got := policy.Get("maxScale").ToFloat(); got != 2.25 {
		t.Errorf("policy.maxScale = %v, want 2.25", got)
	}
	if got := policy.Get("closeDelay").ToInteger(); got != 150 {
		t.Errorf("policy.closeDelay = %v, want 150", got)
	}
}

func TestRenderScript_LoadsOnce(t *testing.T) {
	t.Parallel()

	tmpl, err := NewEmbeddedLoader().LoadScript(LightboxScriptName)
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	js, err := RenderScript(tmpl, sizing.DefaultPolicy())
	if err != nil {
		t.Fatalf("RenderScript() error = %v", err)
	}

	vm := goja.New()
	if _, err := vm.RunString(js); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := vm.Get("lightbox")

	// A second copy of the script on the same page must keep the first API
	if _, err := vm.RunString(js); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !vm.Get("lightbox").SameAs(first) {
		t.Error("second script load replaced the lightbox API")
	}
}

// ---------------------------------------------------------------------------
// Client fit matches sizing.Policy.Fit
// ---------------------------------------------------------------------------

func TestClientFit_MatchesGo(t *testing.T) {
	t.Parallel()

	policies := map[string]sizing.Policy{
		"default": sizing.DefaultPolicy(),
		"tight": {
			DisplayFactor:       1.2,
			MinWidth:            200,
			MinHeight:           150,
			ViewportMinFraction: 0.5,
			MaxScale:            1.5,
			ViewportMaxFraction: 0.8,
			CloseDelay:          0,
		},
	}

	sizes := []float64{0, 50, 120, 300, 533, 1024, 4000}
	viewports := [][2]float64{{375, 667}, {1280, 800}, {1920, 1080}}

	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			vm, api := loadRenderedScript(t, p)
			fit, ok := goja.AssertFunction(api.Get("fit"))
			if !ok {
				t.Fatal("lightbox.fit is not a function")
			}

			for _, vp := range viewports {
				for _, nw := range sizes {
					for _, nh := range sizes {
						g := sizing.Geometry{
							DisplayWidth:   nw / 2,
							DisplayHeight:  nh / 2,
							NaturalWidth:   nw,
							NaturalHeight:  nh,
							ViewportWidth:  vp[0],
							ViewportHeight: vp[1],
						}
						want := p.Fit(g)

						res, err := fit(goja.Undefined(),
							vm.ToValue(g.DisplayWidth), vm.ToValue(g.DisplayHeight),
							vm.ToValue(g.NaturalWidth), vm.ToValue(g.NaturalHeight),
							vm.ToValue(g.ViewportWidth), vm.ToValue(g.ViewportHeight))
						if err != nil {
							t.Fatalf("fit(%+v) error = %v", g, err)
						}
						obj := res.ToObject(vm)
						got := sizing.Fit{
							Scale:  obj.Get("scale").ToFloat(),
							Width:  obj.Get("width").ToFloat(),
							Height: obj.Get("height").ToFloat(),
						}

						if !closeTo(got.Scale, want.Scale) || !closeTo(got.Width, want.Width) || !closeTo(got.Height, want.Height) {
							t.Errorf("fit(%+v)\n js = %+v\n go = %+v", g, got, want)
						}
					}
				}
			}
		})
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}
