package main

import (
	"io"
	"os"
	"time"

	lightbox "github.com/alnah/go-lightbox"
)

// Environment holds injectable dependencies for testability.
// Includes I/O and the browser pool used by verify.
type Environment struct {
	Stdout          io.Writer
	Stderr          io.Writer
	NewVerifierPool func(size int, timeout time.Duration) VerifyPool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewVerifierPool: func(size int, timeout time.Duration) VerifyPool {
			return &poolAdapter{pool: lightbox.NewVerifierPool(size, timeout)}
		},
	}
}
