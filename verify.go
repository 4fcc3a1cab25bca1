package lightbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-lightbox/internal/fileutil"
	"github.com/alnah/go-lightbox/internal/process"
)

// Viewport used for verification, in CSS pixels.
const (
	VerifyViewportWidth  = 1280
	VerifyViewportHeight = 800
)

// previewWaitMillis bounds how long the check waits for the preview preload.
const previewWaitMillis = 2000

// VerifyReport is what a page looked like to headless Chrome.
type VerifyReport struct {
	Path             string
	ScriptLoaded     bool    // window.lightbox was installed
	Wrappers         int     // .lightbox-wrapper elements
	Modals           int     // .lightbox-modal elements after load
	ModalsAfterNav   int     // .lightbox-modal elements after two nav events
	ModalReplaced    bool    // nav re-init built a new modal
	Opened           bool    // clicking the first wrapper opened the modal
	NaturalWidth     float64 // natural width of the first wrapped image
	PreviewWidth     float64 // width applied to the preview, 0 if none
	ClosedBackground bool    // clicking the overlay closed the modal
	ClosedEscape     bool    // Escape closed the reopened modal
	Problems         []string
}

// OK reports whether the page passed every check.
func (r *VerifyReport) OK() bool {
	return len(r.Problems) == 0
}

// checkScript exercises the client contract in the page and reports back.
// Both nav events are dispatched synchronously, so a second init that failed
// to tear down the first would leave two modals behind.
const checkScript = `async (waitMillis) => {
  const sleep = (ms) => new Promise((r) => setTimeout(r, ms));
  const r = {
    scriptLoaded: !!(window.lightbox && window.lightbox.init),
    wrappers: document.querySelectorAll(".lightbox-wrapper").length,
    modals: document.querySelectorAll(".lightbox-modal").length,
    modalsAfterNav: 0, modalReplaced: false, opened: false,
    naturalWidth: 0, previewWidth: 0, closedBackground: false, closedEscape: false
  };
  const before = document.querySelector(".lightbox-modal");
  document.dispatchEvent(new Event("nav"));
  document.dispatchEvent(new Event("nav"));
  const modals = document.querySelectorAll(".lightbox-modal");
  r.modalsAfterNav = modals.length;
  r.modalReplaced = modals.length === 1 && modals[0] !== before;

  const wrapper = document.querySelector(".lightbox-wrapper");
  const modal = document.querySelector(".lightbox-modal");
  if (!wrapper || !modal) {
    return r;
  }
  const img = wrapper.querySelector(".lightbox-image");
  if (img && !img.complete) {
    await new Promise((res) => { img.onload = img.onerror = res; setTimeout(res, waitMillis); });
  }
  r.naturalWidth = img ? img.naturalWidth : 0;

  wrapper.click();
  r.opened = modal.classList.contains("active") && document.body.classList.contains("lightbox-open");
  const preview = modal.querySelector("img");
  for (let waited = 0; r.naturalWidth > 0 && !preview.style.width && waited < waitMillis; waited += 20) {
    await sleep(20);
  }
  r.previewWidth = parseFloat(preview.style.width) || 0;

  modal.dispatchEvent(new MouseEvent("click", { bubbles: true }));
  r.closedBackground = !modal.classList.contains("active") && !document.body.classList.contains("lightbox-open");

  wrapper.click();
  document.dispatchEvent(new KeyboardEvent("keydown", { key: "Escape" }));
  r.closedEscape = !modal.classList.contains("active");
  return r;
}`

// Verifier loads pages in headless Chrome and checks the lightbox behavior.
// Rod downloads Chromium on first use if no browser is found.
type Verifier struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

// NewVerifier creates a Verifier. The browser starts on first use.
func NewVerifier(timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Verifier{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (v *Verifier) ensureBrowser() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killBrowser(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	v.launcher = l
	v.browser = browser
	return nil
}

// killBrowser stops the browser process and any renderer children it left.
func killBrowser(l *launcher.Launcher) {
	pid := l.PID()
	l.Kill()
	if pid > 0 {
		process.KillProcessGroup(pid)
	}
}

// Close releases browser resources.
func (v *Verifier) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	var err error
	if v.browser != nil {
		err = v.browser.Close()
		v.browser = nil
	}
	if v.launcher != nil {
		killBrowser(v.launcher)
		v.launcher = nil
	}
	return err
}

// VerifyHTML writes htmlContent to a temporary file and verifies it.
// Relative image paths resolve against the temp directory, so pass pages
// with absolute or data: image URLs, or use VerifyFile.
func (v *Verifier) VerifyHTML(ctx context.Context, htmlContent string) (*VerifyReport, error) {
	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return v.VerifyFile(ctx, path)
}

// VerifyFile opens a local HTML file and runs the lightbox checks.
// A page that loads but misbehaves is reported through VerifyReport.Problems,
// not as an error.
func (v *Verifier) VerifyFile(ctx context.Context, path string) (*VerifyReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := v.ensureBrowser(); err != nil {
		return nil, err
	}

	timeout := v.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page, err := v.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	page = page.Timeout(timeout)

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             VerifyViewportWidth,
		Height:            VerifyViewportHeight,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	if err := page.Navigate("file://" + filepath.ToSlash(absPath)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	obj, err := page.Eval(checkScript, previewWaitMillis)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerify, err)
	}

	val := obj.Value
	report := &VerifyReport{
		Path:             absPath,
		ScriptLoaded:     val.Get("scriptLoaded").Bool(),
		Wrappers:         val.Get("wrappers").Int(),
		Modals:           val.Get("modals").Int(),
		ModalsAfterNav:   val.Get("modalsAfterNav").Int(),
		ModalReplaced:    val.Get("modalReplaced").Bool(),
		Opened:           val.Get("opened").Bool(),
		NaturalWidth:     val.Get("naturalWidth").Num(),
		PreviewWidth:     val.Get("previewWidth").Num(),
		ClosedBackground: val.Get("closedBackground").Bool(),
		ClosedEscape:     val.Get("closedEscape").Bool(),
	}
	report.Problems = report.problems()
	return report, nil
}

// problems lists the failed checks. Checks that need an image are skipped
// on pages without wrappers.
func (r *VerifyReport) problems() []string {
	var out []string
	if !r.ScriptLoaded {
		out = append(out, "lightbox script is not loaded")
		return out
	}
	if r.Modals != 1 {
		out = append(out, fmt.Sprintf("expected one modal after load, found %d", r.Modals))
	}
	if r.ModalsAfterNav != 1 {
		out = append(out, fmt.Sprintf("expected one modal after navigation, found %d", r.ModalsAfterNav))
	} else if !r.ModalReplaced {
		out = append(out, "navigation did not rebuild the modal")
	}
	if r.Wrappers == 0 {
		return out
	}
	if !r.Opened {
		out = append(out, "clicking an image did not open the modal")
		return out
	}
	if r.NaturalWidth > 0 && r.PreviewWidth <= 0 {
		out = append(out, "preview size was not applied")
	}
	if !r.ClosedBackground {
		out = append(out, "clicking the background did not close the modal")
	}
	if !r.ClosedEscape {
		out = append(out, "Escape did not close the modal")
	}
	return out
}
