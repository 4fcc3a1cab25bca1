package lightbox

import (
	"errors"
	"runtime"
	"sync"
	"time"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// VerifierPool manages Verifier instances for parallel page checks.
// Each verifier has its own browser. Verifiers are created lazily on first
// acquire to avoid startup delay.
type VerifierPool struct {
	size      int
	timeout   time.Duration
	verifiers []*Verifier
	sem       chan *Verifier
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewVerifierPool creates a pool with capacity for n verifiers.
func NewVerifierPool(n int, timeout time.Duration) *VerifierPool {
	if n < 1 {
		n = 1
	}

	return &VerifierPool{
		size:      n,
		timeout:   timeout,
		verifiers: make([]*Verifier, 0, n),
		sem:       make(chan *Verifier, n),
	}
}

// Acquire gets a verifier from the pool, creating one if needed.
// Blocks if all verifiers are in use. Returns nil once the pool is closed
// and drained.
func (p *VerifierPool) Acquire() *Verifier {
	select {
	case v := <-p.sem:
		return v
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		v := NewVerifier(p.timeout)
		p.verifiers = append(p.verifiers, v)
		p.mu.Unlock()
		return v
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns a verifier to the pool. Releasing after Close is a no-op.
// The send never blocks: the channel holds one slot per created verifier.
func (p *VerifierPool) Release(v *Verifier) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || v == nil {
		return
	}
	select {
	case p.sem <- v:
	default:
	}
}

// Close releases all browser resources.
// Returns an aggregated error if multiple verifiers fail to close.
func (p *VerifierPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	verifiers := p.verifiers
	p.mu.Unlock()

	var errs []error
	for _, v := range verifiers {
		if err := v.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *VerifierPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
