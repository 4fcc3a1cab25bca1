package assets

// Built-in asset names.
const (
	LightboxStyleName  = "lightbox"
	DefaultStyleName   = "default"
	LightboxScriptName = "lightbox"
	PageTemplateName   = "page"
)

// AssetLoader defines the contract for loading styles, scripts and templates.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadScript loads a client script template by name (without .js.tmpl extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	LoadScript(name string) (string, error)

	// LoadTemplate loads an HTML page template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}
