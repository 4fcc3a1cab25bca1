//go:build !windows

// Package process stops browser process trees left behind by the verifier.
package process

import "syscall"

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID). pid must be positive.
func KillProcessGroup(pid int) {
	// Best-effort cleanup; launcher.Kill() already stopped the main process
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
