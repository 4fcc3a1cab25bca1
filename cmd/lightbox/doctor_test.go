package main

// Notes:
// - Tests use black-box approach: testing through runDoctorCmd() observable outputs.
// - Detection tests set environment variables with t.Setenv, so no test in
//   this file runs in parallel.
// - Chrome detection depends on system state: a missing Chrome is a warning,
//   so the exit code only depends on assets and the temp directory.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"encoding/json"
	"os"
	"runtime"
	"strings"
	"testing"
)

// clearDetectionEnv empties every container and CI signal doctor reads.
func clearDetectionEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		envContainer, "container", "KUBERNETES_SERVICE_HOST",
		"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL",
	} {
		t.Setenv(k, "")
	}
}

// doctorJSON runs doctor with --json and decodes the result.
func doctorJSON(t *testing.T) (*doctorResult, int) {
	t.Helper()
	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}

	code := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput was: %s", err, stdout.String())
	}
	return &result, code
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - JSON output format and structure
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	result, code := doctorJSON(t)

	validStatuses := map[string]bool{"ready": true, "warnings": true, "errors": true}
	if !validStatuses[result.Status] {
		t.Errorf("Invalid status %q, expected ready/warnings/errors", result.Status)
	}
	if result.Status == "errors" && code != ExitGeneral {
		t.Errorf("Expected exit code %d for errors status, got %d", ExitGeneral, code)
	}
	if result.Status != "errors" && code != ExitSuccess {
		t.Errorf("Expected exit code %d for non-error status, got %d", ExitSuccess, code)
	}
	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", result.Env.OS, result.Env.Arch, runtime.GOOS, runtime.GOARCH)
	}
	if !result.Assets.Style || !result.Assets.Script {
		t.Errorf("embedded assets should render: %+v", result.Assets)
	}
	if !result.System.TempWritable {
		t.Error("temp directory should be writable in tests")
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_HumanOutput - Human-readable output format
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}

	runDoctorCmd(nil, env)
	output := stdout.String()

	for _, section := range []string{
		"lightbox doctor",
		"Assets",
		"Chrome/Chromium",
		"Environment",
		"System",
		"Status:",
		runtime.GOOS + "/" + runtime.GOARCH,
	} {
		if !strings.Contains(output, section) {
			t.Errorf("Output should contain %q", section)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_ContainerDetection - Container environment detection
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_ContainerDetection(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envVal   string
		wantHint string
	}{
		{"explicit override", envContainer, "1", envContainer + "=1"},
		{"kubernetes", "KUBERNETES_SERVICE_HOST", "10.0.0.1", "KUBERNETES_SERVICE_HOST"},
		{"podman", "container", "podman", "container=podman"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVar != envContainer && fileExists("/.dockerenv") {
				t.Skip("/.dockerenv takes priority over environment signals")
			}
			clearDetectionEnv(t)
			t.Setenv(tt.envVar, tt.envVal)

			result, _ := doctorJSON(t)
			if !result.Env.Container {
				t.Error("Container = false, want true")
			}
			if result.Env.ContainerHint != tt.wantHint {
				t.Errorf("ContainerHint = %q, want %q", result.Env.ContainerHint, tt.wantHint)
			}
		})
	}
}

func TestRunDoctorCmd_ContainerPriority(t *testing.T) {
	clearDetectionEnv(t)
	t.Setenv(envContainer, "1")
	t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1")

	result, _ := doctorJSON(t)
	if result.Env.ContainerHint != envContainer+"=1" {
		t.Errorf("%s should have priority, got hint %q", envContainer, result.Env.ContainerHint)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_CIDetection - CI environment detection
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_CIDetection(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		envVal string
	}{
		{"CI generic", "CI", "true"},
		{"GitHub Actions", "GITHUB_ACTIONS", "true"},
		{"GitLab CI", "GITLAB_CI", "true"},
		{"Jenkins", "JENKINS_URL", "http://jenkins.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearDetectionEnv(t)
			t.Setenv("ROD_NO_SANDBOX", "1")
			t.Setenv(tt.envVar, tt.envVal)

			result, _ := doctorJSON(t)
			if !result.Env.CI {
				t.Error("CI = false, want true")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_SandboxWarning - Sandbox warning in container/CI
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_SandboxWarning(t *testing.T) {
	t.Run("warns without ROD_NO_SANDBOX", func(t *testing.T) {
		clearDetectionEnv(t)
		t.Setenv("CI", "true")
		t.Setenv("ROD_NO_SANDBOX", "")

		result, code := doctorJSON(t)
		if !containsAny(result.Warnings, "ROD_NO_SANDBOX") {
			t.Errorf("Warnings = %v, want sandbox warning", result.Warnings)
		}
		if result.Status == "ready" {
			t.Error("Status should not be ready with warnings")
		}
		if result.Status == "warnings" && code != ExitSuccess {
			t.Errorf("warnings should exit %d, got %d", ExitSuccess, code)
		}
	})

	t.Run("silent with ROD_NO_SANDBOX", func(t *testing.T) {
		clearDetectionEnv(t)
		t.Setenv("CI", "true")
		t.Setenv("ROD_NO_SANDBOX", "1")

		result, _ := doctorJSON(t)
		if containsAny(result.Warnings, "ROD_NO_SANDBOX not set") {
			t.Errorf("unexpected sandbox warning: %v", result.Warnings)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_MissingBrowserBin - Bad ROD_BROWSER_BIN is a warning
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_MissingBrowserBin(t *testing.T) {
	t.Setenv("ROD_BROWSER_BIN", "/nonexistent/chrome")

	result, code := doctorJSON(t)
	if result.Chrome.Found {
		t.Error("Chrome.Found = true for a missing binary")
	}
	if !containsAny(result.Warnings, "/nonexistent/chrome") {
		t.Errorf("Warnings = %v, want missing binary warning", result.Warnings)
	}
	if code != ExitSuccess {
		t.Errorf("exit code = %d, a missing browser should not fail doctor", code)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func containsAny(list []string, substr string) bool {
	for _, s := range list {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
