package adapter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// ErrManifestMissing signals that no usable composer.json exists under the
// scanned base. Checks that need the manifest report Skipped on it.
var ErrManifestMissing = errors.New("composer.json not found")

// ManifestReader loads the dependency declarations of the scanned project.
type ManifestReader interface {
	Read(base m.Path) (m.Manifest, error)
}

// ComposerReader reads composer.json from disk. Extraneous fields are
// ignored; a file that fails to decode is treated the same as an absent one,
// since either way the declarations cannot be trusted.
type ComposerReader struct{}

// NewComposerReader constructs a ComposerReader.
func NewComposerReader() *ComposerReader {
	return &ComposerReader{}
}

// Read returns the require and require-dev maps of base's composer.json.
func (r *ComposerReader) Read(base m.Path) (m.Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(string(base), "composer.json"))
	if err != nil {
		return m.Manifest{}, ErrManifestMissing
	}

	var manifest m.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return m.Manifest{}, ErrManifestMissing
	}

	return manifest, nil
}
