package lightbox

import (
	"errors"

	"github.com/alnah/go-lightbox/internal/assets"
	"github.com/alnah/go-lightbox/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrEmptyHTML      = errors.New("HTML content cannot be empty")
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrHTMLRewrite    = errors.New("HTML rewrite failed")
	ErrPageTemplate   = errors.New("page template failed")

	// Sizing validation errors.
	ErrInvalidSizing = errors.New("invalid sizing policy")

	// Browser verification errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrVerify         = errors.New("lightbox verification failed")

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrScriptRender     = assets.ErrScriptRender
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
