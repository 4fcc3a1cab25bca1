package assets

import (
	"fmt"
	"path"
	"strings"
)

// assetKind locates one kind of asset under a base directory.
type assetKind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = assetKind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	scriptKind   = assetKind{dir: "scripts", ext: ".js.tmpl", notFound: ErrScriptNotFound}
	templateKind = assetKind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// file returns the slash-separated path of name relative to the base.
func (k assetKind) file(name string) string {
	return path.Join(k.dir, name+k.ext)
}

// ValidateAssetName rejects names that could leave their asset directory or
// change the extension: empty names, separators, dots and NUL.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
