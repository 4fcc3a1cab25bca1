//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext returns a context canceled on Ctrl+C. Windows has no SIGTERM.
// Batches stop taking jobs and verify closes its browsers on cancellation.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
