package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	lightbox "github.com/alnah/go-lightbox"
	"github.com/alnah/go-lightbox/internal/fileutil"
	"github.com/alnah/go-lightbox/internal/hints"
)

// Overall doctor status, worst finding wins.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

type doctorResult struct {
	Status   string     `json:"status"`
	Assets   assetInfo  `json:"assets"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// assetInfo reports whether the embedded lightbox resources render.
type assetInfo struct {
	Style  bool `json:"style"`
	Script bool `json:"script"`
}

// chromeInfo describes the browser verify would launch.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// doctorChecks run in order; later checks may read what earlier ones found.
var doctorChecks = []func(*doctorResult){
	checkAssets,
	checkChrome,
	checkEnvironment,
	checkSystem,
}

// runDoctorCmd prints diagnostics and exits 1 only when something build or
// rewrite needs is broken. Chrome matters to verify alone, so a missing
// browser is a warning.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor() *doctorResult {
	result := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	for _, check := range doctorChecks {
		check(result)
	}

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// checkAssets builds a default converter and inspects the resources it
// would inject into every page.
func checkAssets(result *doctorResult) {
	conv, err := lightbox.NewConverter()
	if err != nil {
		result.fail("Embedded assets: %v", err)
		return
	}
	for _, r := range conv.Resources() {
		if strings.TrimSpace(r.Content) == "" {
			continue
		}
		switch r.Kind {
		case lightbox.ResourceCSS:
			result.Assets.Style = true
		case lightbox.ResourceJS:
			result.Assets.Script = true
		}
	}
	if !result.Assets.Style {
		result.fail("Embedded lightbox style is empty")
	}
	if !result.Assets.Script {
		result.fail("Embedded lightbox script is empty")
	}
}

func checkChrome(result *doctorResult) {
	path := result.Env.BrowserBin
	if path == "" {
		found, ok := launcher.LookPath()
		if !ok {
			result.warn("Chrome/Chromium not found; verify needs it. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
		path = found
	}
	if !fileutil.FileExists(path) {
		result.warn("Chrome not found at %s", path)
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = path
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path from launcher or ROD_BROWSER_BIN
	if err != nil {
		result.warn("Could not get Chrome version: %v", err)
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.CI = hints.InCI()

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer returns the first container signal found and its name.
// LIGHTBOX_CONTAINER=1 forces detection for runtimes without a marker.
func isContainer() (bool, string) {
	if os.Getenv(envContainer) == "1" {
		return true, envContainer + "=1"
	}
	if fileutil.FileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem writes a scratch page the way verify does for in-memory HTML.
func checkSystem(result *doctorResult) {
	_, cleanup, err := fileutil.WriteTempFile("<!doctype html>", "html")
	if err != nil {
		result.fail("Temp directory not writable: %s (%v)", os.TempDir(), err)
		return
	}
	cleanup()
	result.System.TempWritable = true
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "lightbox doctor")
	fmt.Fprintln(w)

	section(w, "Assets",
		mark(r.Assets.Style, "[ERROR]")+" Style",
		mark(r.Assets.Script, "[ERROR]")+" Script",
	)

	var chrome []string
	if r.Chrome.Found {
		chrome = append(chrome, "[OK] Found at "+r.Chrome.Path)
		if r.Chrome.Version != "" {
			chrome = append(chrome, "[OK] Version: "+r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			chrome = append(chrome, "[OK] Sandbox: enabled")
		} else {
			chrome = append(chrome, "[OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		chrome = append(chrome, "[WARN] Not found (only needed by verify)")
	}
	section(w, "Chrome/Chromium", chrome...)

	environment := []string{fmt.Sprintf("[OK] Platform: %s/%s", r.Env.OS, r.Env.Arch)}
	if r.Env.Container {
		environment = append(environment, fmt.Sprintf("[OK] Container: detected (%s)", r.Env.ContainerHint))
	}
	if r.Env.CI {
		environment = append(environment, "[OK] CI: detected")
	}
	section(w, "Environment", environment...)

	section(w, "System", mark(r.System.TempWritable, "[ERROR]")+" Temp directory")

	if len(r.Warnings) > 0 {
		section(w, "Warnings:", prefixed("[WARN] ", r.Warnings)...)
	}
	if len(r.Errors) > 0 {
		section(w, "Errors:", prefixed("[ERROR] ", r.Errors)...)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func section(w io.Writer, title string, lines ...string) {
	fmt.Fprintln(w, title)
	for _, line := range lines {
		fmt.Fprintln(w, "  "+line)
	}
	fmt.Fprintln(w)
}

func prefixed(prefix string, items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = prefix + item
	}
	return out
}

func mark(ok bool, failed string) string {
	if ok {
		return "[OK]"
	}
	return failed
}
