package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed styles scripts templates
var files embed.FS

// EmbeddedLoader loads the assets compiled into the binary.
type EmbeddedLoader struct{}

func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.load(styleKind, name)
}

func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	return e.load(scriptKind, name)
}

func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.load(templateKind, name)
}

func (e *EmbeddedLoader) load(kind assetKind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := files.ReadFile(kind.file(name))
	if err != nil {
		return "", fmt.Errorf("%w: %q", kind.notFound, name)
	}
	return string(content), nil
}

// UserStyles lists the embedded styles a page can select, sorted.
// The lightbox stylesheet is always injected and is not among them.
func UserStyles() []string {
	entries, err := fs.ReadDir(files, styleKind.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), styleKind.ext)
		if !ok || e.IsDir() || name == LightboxStyleName {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
