// Package assets provides the stylesheet, client script and page template
// emitted alongside lightbox-enabled HTML.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver tries the custom FilesystemLoader first and falls back to the
// EmbeddedLoader when an asset is not found, so a site can override a single
// file while keeping the other defaults.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # e.g. lightbox.css, default.css
//	├── scripts/
//	│   └── {name}.js.tmpl       # client script template (sizing policy fields)
//	└── templates/
//	    └── {name}.html          # page template for Markdown builds
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
