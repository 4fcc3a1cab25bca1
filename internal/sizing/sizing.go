// Package sizing computes the display size of a lightbox preview.
//
// The same policy constants are rendered into the client script, so the Go
// implementation here is the reference the script is tested against.
package sizing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidPolicy indicates a sizing policy value is out of range.
var ErrInvalidPolicy = errors.New("invalid sizing policy")

// Default policy values.
const (
	DefaultDisplayFactor       = 1.5
	DefaultMinWidth            = 500.0
	DefaultMinHeight           = 400.0
	DefaultViewportMinFraction = 0.7
	DefaultMaxScale            = 3.0
	DefaultViewportMaxFraction = 0.9
	DefaultCloseDelay          = 300 * time.Millisecond
)

// Policy holds the tunable constants of the sizing heuristic.
type Policy struct {
	// DisplayFactor is how much larger than the on-page image the preview should be.
	DisplayFactor float64
	// MinWidth and MinHeight are the minimum preview size in CSS pixels,
	// capped by ViewportMinFraction of the viewport.
	MinWidth            float64
	MinHeight           float64
	ViewportMinFraction float64
	// MaxScale caps upscaling relative to the natural size.
	MaxScale float64
	// ViewportMaxFraction caps the preview relative to the viewport.
	ViewportMaxFraction float64
	// CloseDelay matches the CSS fade-out before the preview source is cleared.
	CloseDelay time.Duration
}

// DefaultPolicy returns the built-in sizing policy.
func DefaultPolicy() Policy {
	return Policy{
		DisplayFactor:       DefaultDisplayFactor,
		MinWidth:            DefaultMinWidth,
		MinHeight:           DefaultMinHeight,
		ViewportMinFraction: DefaultViewportMinFraction,
		MaxScale:            DefaultMaxScale,
		ViewportMaxFraction: DefaultViewportMaxFraction,
		CloseDelay:          DefaultCloseDelay,
	}
}

// Validate checks that every policy value is usable.
func (p Policy) Validate() error {
	if p.DisplayFactor <= 0 {
		return fmt.Errorf("%w: displayFactor must be positive, got %g", ErrInvalidPolicy, p.DisplayFactor)
	}
	if p.MinWidth < 0 || p.MinHeight < 0 {
		return fmt.Errorf("%w: minWidth/minHeight must not be negative", ErrInvalidPolicy)
	}
	if !isFraction(p.ViewportMinFraction) {
		return fmt.Errorf("%w: viewportMinFraction must be in (0, 1], got %g", ErrInvalidPolicy, p.ViewportMinFraction)
	}
	if !isFraction(p.ViewportMaxFraction) {
		return fmt.Errorf("%w: viewportMaxFraction must be in (0, 1], got %g", ErrInvalidPolicy, p.ViewportMaxFraction)
	}
	if p.MaxScale < 1 {
		return fmt.Errorf("%w: maxScale must be at least 1, got %g", ErrInvalidPolicy, p.MaxScale)
	}
	if p.CloseDelay < 0 {
		return fmt.Errorf("%w: closeDelay must not be negative, got %s", ErrInvalidPolicy, p.CloseDelay)
	}
	return nil
}

func isFraction(f float64) bool {
	return f > 0 && f <= 1
}

// Geometry describes the image and viewport at the moment a preview loads.
// All values are CSS pixels; unknown values are zero.
type Geometry struct {
	DisplayWidth   float64 // on-page rendered width
	DisplayHeight  float64 // on-page rendered height
	NaturalWidth   float64
	NaturalHeight  float64
	ViewportWidth  float64
	ViewportHeight float64
}

// Fit is the computed preview size.
type Fit struct {
	Scale  float64
	Width  float64
	Height float64
}

// Fit computes the preview scale and size for g.
//
// The minimum scale makes the preview at least DisplayFactor times its
// on-page size (or the policy minimum, whichever is larger) and never below
// the natural size. The maximum scale keeps it within MaxScale and the
// viewport cap. When both bounds conflict the maximum wins.
//
// A geometry without a positive natural size yields Fit{Scale: 1}.
func (p Policy) Fit(g Geometry) Fit {
	nw, nh := g.NaturalWidth, g.NaturalHeight
	if !(nw > 0) || !(nh > 0) {
		return Fit{Scale: 1}
	}
	dw, dh := nonNegative(g.DisplayWidth), nonNegative(g.DisplayHeight)
	vw, vh := nonNegative(g.ViewportWidth), nonNegative(g.ViewportHeight)

	minWidth := math.Max(dw*p.DisplayFactor, math.Min(p.MinWidth, vw*p.ViewportMinFraction))
	minHeight := math.Max(dh*p.DisplayFactor, math.Min(p.MinHeight, vh*p.ViewportMinFraction))

	minScale := math.Max(math.Max(minWidth/nw, minHeight/nh), 1)
	maxScale := math.Min(p.MaxScale, math.Min(vw*p.ViewportMaxFraction/nw, vh*p.ViewportMaxFraction/nh))
	scale := math.Min(minScale, maxScale)

	return Fit{
		Scale:  scale,
		Width:  math.Min(nw*scale, vw*p.ViewportMaxFraction),
		Height: math.Min(nh*scale, vh*p.ViewportMaxFraction),
	}
}

// nonNegative maps negative and NaN inputs to zero.
func nonNegative(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}
