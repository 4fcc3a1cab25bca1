package assets

import (
	"os"
	"testing"

	"github.com/dop251/goja"

	"github.com/alnah/go-lightbox/internal/sizing"
)

// Notes:
// - testdata/dom.js is a minimal document: class selectors, bubbling events,
//   attributes, inline style, Image and an addCleanup hook. It is not a
//   browser; layout, CSS transitions and real image decoding are left to the
//   browser integration tests in the root package.
// - setTimeout is backed by Go so tests decide when the close delay elapses.
// - Preloads never finish on their own; __load(i, w, h) completes the i-th.

// timer is one pending setTimeout call.
type timer struct {
	fn    goja.Callable
	delay int64
}

// controller runs the rendered default script against testdata/dom.js.
type controller struct {
	t      *testing.T
	vm     *goja.Runtime
	timers []timer
}

// newController loads the DOM, runs setup to build the page, then runs the
// script the way a page would at the end of <body>.
func newController(t *testing.T, setup string) *controller {
	t.Helper()

	dom, err := os.ReadFile("testdata/dom.js")
	if err != nil {
		t.Fatalf("reading DOM: %v", err)
	}
	tmpl, err := NewEmbeddedLoader().LoadScript(LightboxScriptName)
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	js, err := RenderScript(tmpl, sizing.DefaultPolicy())
	if err != nil {
		t.Fatalf("RenderScript() error = %v", err)
	}

	c := &controller{t: t, vm: goja.New()}
	if err := c.vm.Set("setTimeout", c.setTimeout); err != nil {
		t.Fatal(err)
	}
	for _, src := range []string{string(dom), setup, js} {
		c.run(src)
	}
	return c
}

func (c *controller) setTimeout(call goja.FunctionCall) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		panic(c.vm.NewTypeError("setTimeout: callback is not a function"))
	}
	c.timers = append(c.timers, timer{fn: fn, delay: call.Argument(1).ToInteger()})
	return c.vm.ToValue(len(c.timers))
}

// flushTimers runs every pending timer in the order it was set and returns
// their delays.
func (c *controller) flushTimers() []int64 {
	c.t.Helper()

	pending := c.timers
	c.timers = nil
	delays := make([]int64, 0, len(pending))
	for _, tm := range pending {
		delays = append(delays, tm.delay)
		if _, err := tm.fn(goja.Undefined()); err != nil {
			c.t.Fatalf("timer: %v", err)
		}
	}
	return delays
}

func (c *controller) run(js string) goja.Value {
	c.t.Helper()

	v, err := c.vm.RunString(js)
	if err != nil {
		c.t.Fatalf("running %q: %v", js, err)
	}
	return v
}

func (c *controller) bool(js string) bool     { return c.run(js).ToBoolean() }
func (c *controller) int(js string) int64     { return c.run(js).ToInteger() }
func (c *controller) float(js string) float64 { return c.run(js).ToFloat() }
func (c *controller) str(js string) string    { return c.run(js).String() }

// Page actions shared by the tests below.
const (
	clickFirstImage = `__fire(__wrapper(0).children[0], "click")`
	clickClose      = `__fire(__closeButton(), "click")`
	twoImages       = `__addWrapper("photos/a.jpg", "A"); __addWrapper("photos/b.jpg", "B");`
)

// ---------------------------------------------------------------------------
// Boot and re-initialization
// ---------------------------------------------------------------------------

func TestController_Boot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      string
		wantBefore int64
	}{
		{name: "ready document initializes at once", setup: twoImages, wantBefore: 1},
		{name: "loading document waits for DOMContentLoaded", setup: twoImages + `document.readyState = "loading";`, wantBefore: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newController(t, tt.setup)
			if got := c.int(`__modals().length`); got != tt.wantBefore {
				t.Fatalf("modals before DOMContentLoaded = %d, want %d", got, tt.wantBefore)
			}

			c.run(`__fire(document, "DOMContentLoaded")`)
			if got := c.int(`__modals().length`); got != 1 {
				t.Errorf("modals after DOMContentLoaded = %d, want 1", got)
			}
			if got := c.int(`__modal().children.length`); got != 2 {
				t.Errorf("modal children = %d, want close button and preview", got)
			}
			if got := c.str(`__closeButton().getAttribute("aria-label")`); got != "Close lightbox" {
				t.Errorf("close button aria-label = %q", got)
			}
			if got := c.str(`__preview().style.display`); got != "none" {
				t.Errorf("preview display = %q, want none", got)
			}
		})
	}
}

func TestController_NavKeepsOneModal(t *testing.T) {
	t.Parallel()

	c := newController(t, twoImages)
	c.run(`var first = __modal();`)

	for range 3 {
		c.run(`__fire(document, "nav")`)
	}

	if got := c.int(`__modals().length`); got != 1 {
		t.Fatalf("modals after three navigations = %d, want 1", got)
	}
	if c.bool(`__modal() === first`) {
		t.Error("nav kept the old modal, want a fresh one")
	}
	if c.bool(`first.parentNode !== null`) {
		t.Error("old modal still attached")
	}

	// Each wrapper carries one listener per init; only the current one opens.
	c.run(clickFirstImage)
	if !c.bool(`__isOpen()`) {
		t.Error("click after nav did not open the current modal")
	}
	if got := c.int(`__images.length`); got != 1 {
		t.Errorf("preloads = %d, want 1", got)
	}
}

// ---------------------------------------------------------------------------
// Opening from a wrapper
// ---------------------------------------------------------------------------

func TestController_OpenFromWrapper(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   string
		wantSrc string
		wantAlt string
	}{
		{
			name: "data attributes win",
			setup: `var w = __addWrapper("thumbs/a.jpg", "thumb");
				w.children[0].setAttribute("data-src", "full/a.jpg");
				w.children[0].setAttribute("data-alt", "Harbour at dusk");`,
			wantSrc: "full/a.jpg",
			wantAlt: "Harbour at dusk",
		},
		{
			name:    "falls back to src and alt",
			setup:   `__addWrapper("photos/a.jpg", "A", {bare: true})`,
			wantSrc: "photos/a.jpg",
			wantAlt: "A",
		},
		{
			name: "empty data-alt falls back to alt",
			setup: `var w = __addWrapper("photos/a.jpg", "A");
				w.children[0].setAttribute("data-alt", "");`,
			wantSrc: "photos/a.jpg",
			wantAlt: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newController(t, tt.setup)
			if !c.bool(clickFirstImage + `.defaultPrevented`) {
				t.Error("wrapper click did not prevent the default action")
			}

			if !c.bool(`__isOpen()`) {
				t.Fatal("modal not open after click")
			}
			if got := c.str(`__preview().src`); got != tt.wantSrc {
				t.Errorf("preview src = %q, want %q", got, tt.wantSrc)
			}
			if got := c.str(`__preview().alt`); got != tt.wantAlt {
				t.Errorf("preview alt = %q, want %q", got, tt.wantAlt)
			}
			if got := c.str(`__preview().style.display`); got != "block" {
				t.Errorf("preview display = %q, want block", got)
			}
			if got := c.str(`__images[0].src`); got != tt.wantSrc {
				t.Errorf("preload src = %q, want %q", got, tt.wantSrc)
			}
		})
	}
}

func TestController_WrapperWithoutImage(t *testing.T) {
	t.Parallel()

	c := newController(t, `__addWrapper("", "", {empty: true}); __addWrapper("photos/b.jpg", "B");`)

	if !c.bool(`__fire(__wrapper(0), "click").defaultPrevented`) {
		t.Error("click on an empty wrapper should still be swallowed")
	}
	if c.bool(`__modal().classList.contains("active")`) {
		t.Error("empty wrapper opened the modal")
	}
	if got := c.int(`__images.length`); got != 0 {
		t.Errorf("preloads = %d, want 0", got)
	}

	// The other wrapper on the page still works.
	c.run(`__fire(__wrapper(1).children[0], "click")`)
	if got := c.str(`__preview().src`); got != "photos/b.jpg" {
		t.Errorf("preview src = %q, want photos/b.jpg", got)
	}
}

// ---------------------------------------------------------------------------
// Closing
// ---------------------------------------------------------------------------

func TestController_CloseActions(t *testing.T) {
	t.Parallel()

	closeDelay := sizing.DefaultPolicy().CloseDelay.Milliseconds()

	tests := []struct {
		name     string
		action   string
		wantOpen bool
	}{
		{name: "close button", action: clickClose, wantOpen: false},
		{name: "backdrop", action: `__fire(__modal(), "click")`, wantOpen: false},
		{name: "preview image", action: `__fire(__preview(), "click")`, wantOpen: true},
		{name: "escape key", action: `__fire(document, "keydown", {key: "Escape"})`, wantOpen: false},
		{name: "other key", action: `__fire(document, "keydown", {key: "Enter"})`, wantOpen: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newController(t, twoImages)
			c.run(clickFirstImage)
			c.run(tt.action)

			if got := c.bool(`__isOpen()`); got != tt.wantOpen {
				t.Fatalf("open after %s = %v, want %v", tt.name, got, tt.wantOpen)
			}
			if c.bool(`__modal().classList.contains("active")`) != c.bool(`document.body.classList.contains("lightbox-open")`) {
				t.Error("modal active state and body lightbox-open disagree")
			}

			delays := c.flushTimers()
			if tt.wantOpen {
				if len(delays) != 0 {
					t.Errorf("timers = %v, want none while open", delays)
				}
				if got := c.str(`__preview().src`); got != "photos/a.jpg" {
					t.Errorf("preview src = %q, want photos/a.jpg", got)
				}
				return
			}

			if len(delays) != 1 || delays[0] != closeDelay {
				t.Fatalf("timers = %v, want one of %dms", delays, closeDelay)
			}
			if got := c.str(`__preview().style.display`); got != "none" {
				t.Errorf("preview display after delay = %q, want none", got)
			}
			if !c.bool(`__preview().getAttribute("src") === null`) {
				t.Error("preview src not cleared after close delay")
			}
		})
	}
}

func TestController_EscapeWhileClosed(t *testing.T) {
	t.Parallel()

	c := newController(t, twoImages)
	c.run(`__fire(document, "keydown", {key: "Escape"})`)

	if got := len(c.flushTimers()); got != 0 {
		t.Errorf("Escape on a closed modal scheduled %d timers, want 0", got)
	}
}

func TestController_ReopenBeforeCloseDelay(t *testing.T) {
	t.Parallel()

	c := newController(t, twoImages)
	c.run(clickFirstImage)
	c.run(clickClose)
	c.run(`__fire(__wrapper(1).children[0], "click")`)

	// The hide scheduled by the first close belongs to an older generation.
	c.flushTimers()

	if !c.bool(`__isOpen()`) {
		t.Fatal("modal closed by a stale timer")
	}
	if got := c.str(`__preview().style.display`); got != "block" {
		t.Errorf("preview display = %q, want block", got)
	}
	if got := c.str(`__preview().src`); got != "photos/b.jpg" {
		t.Errorf("preview src = %q, want photos/b.jpg", got)
	}
}

// ---------------------------------------------------------------------------
// Preload sizing
// ---------------------------------------------------------------------------

func TestController_PreloadSizesPreview(t *testing.T) {
	t.Parallel()

	c := newController(t, twoImages)
	c.run(clickFirstImage)

	if !c.bool(`typeof __preview().style.width === "undefined"`) {
		t.Fatal("preview sized before the preload finished")
	}

	c.run(`__load(0, 800, 600)`)

	want := sizing.DefaultPolicy().Fit(sizing.Geometry{
		DisplayWidth:   200,
		DisplayHeight:  150,
		NaturalWidth:   800,
		NaturalHeight:  600,
		ViewportWidth:  1280,
		ViewportHeight: 800,
	})
	if got := c.float(`parseFloat(__preview().style.width)`); !closeTo(got, want.Width) {
		t.Errorf("preview width = %v, want %v", got, want.Width)
	}
	if got := c.str(`__preview().style.width.slice(-2)`); got != "px" {
		t.Errorf("preview width unit = %q, want px", got)
	}
	if got := c.str(`__preview().style.height`); got != "auto" {
		t.Errorf("preview height = %q, want auto", got)
	}
}

func TestController_PreloadWithoutSizeLeavesPreview(t *testing.T) {
	t.Parallel()

	c := newController(t, twoImages)
	c.run(clickFirstImage)
	c.run(`__load(0, 0, 0)`)

	if !c.bool(`typeof __preview().style.width === "undefined"`) {
		t.Error("a preload with no natural size resized the preview")
	}
}

func TestController_LatePreloadDiscarded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		between string
	}{
		{name: "closed while loading", between: clickClose},
		{name: "reopened on another image", between: clickClose + `; __fire(__wrapper(1).children[0], "click")`},
		{name: "opened another image without closing", between: `__fire(__wrapper(1).children[0], "click")`},
		{name: "re-initialized by nav", between: `__fire(document, "nav")`},
		{name: "torn down", between: `lightbox.teardown()`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newController(t, twoImages)
			c.run(`var firstPreview = __preview();`)
			c.run(clickFirstImage)
			c.run(tt.between)

			c.run(`__load(0, 800, 600)`)

			if !c.bool(`typeof firstPreview.style.width === "undefined"`) {
				t.Errorf("late preload resized the preview to %s", c.str(`firstPreview.style.width`))
			}
			if c.int(`__modals().length`) == 1 && !c.bool(`typeof __preview().style.width === "undefined"`) {
				t.Errorf("late preload resized the current preview to %s", c.str(`__preview().style.width`))
			}
		})
	}
}

// ---------------------------------------------------------------------------
// addCleanup teardown
// ---------------------------------------------------------------------------

func TestController_Cleanup(t *testing.T) {
	t.Parallel()

	t.Run("removes modal and body class", func(t *testing.T) {
		t.Parallel()

		c := newController(t, twoImages)
		c.run(clickFirstImage)
		if got := c.int(`__cleanups.length`); got != 1 {
			t.Fatalf("registered cleanups = %d, want 1", got)
		}

		c.run(`__cleanup()`)

		if got := c.int(`__modals().length`); got != 0 {
			t.Errorf("modals after cleanup = %d, want 0", got)
		}
		if c.bool(`document.body.classList.contains("lightbox-open")`) {
			t.Error("body still has lightbox-open after cleanup")
		}

		// Listeners left on the page are inert until the next init.
		c.run(`__fire(document, "keydown", {key: "Escape"})`)
		c.run(clickFirstImage)
		if got := c.int(`__images.length`); got != 1 {
			t.Errorf("preloads after cleanup = %d, want 1", got)
		}
	})

	t.Run("stale cleanup keeps the current modal", func(t *testing.T) {
		t.Parallel()

		c := newController(t, twoImages)
		c.run(`__fire(document, "nav")`)
		if got := c.int(`__cleanups.length`); got != 2 {
			t.Fatalf("registered cleanups = %d, want 2", got)
		}

		c.run(`__cleanups[0]()`)
		if got := c.int(`__modals().length`); got != 1 {
			t.Fatal("stale cleanup removed the current modal")
		}

		c.run(`__cleanups[1]()`)
		if got := c.int(`__modals().length`); got != 0 {
			t.Errorf("modals after current cleanup = %d, want 0", got)
		}
	})
}
