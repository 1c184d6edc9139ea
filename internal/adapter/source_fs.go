// Package adapter contains infrastructure adapters for the ShieldCI CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// SourceFS abstracts filesystem operations the analysis layer relies on when
// scanning application trees. It hides direct `os` access so workflow and
// analyzer logic can be tested without touching the disk.
type SourceFS interface {
	// NormalizeBase expands ~ and resolves the raw argument to an absolute path.
	NormalizeBase(raw string) (m.Path, error)

	// FindProjectRoot walks up from start looking for composer.json. It returns
	// start itself when no manifest exists anywhere above it.
	FindProjectRoot(start m.Path) (m.Path, error)

	// Collect walks base and returns every PHP source in deterministic walk
	// order. The skip callback receives base-relative slash paths; returning
	// true drops files and prunes directories.
	Collect(base m.Path, skip func(relative m.Path) bool) ([]m.Source, error)

	// Resolve turns an explicit path list into sources. Entries may be
	// absolute or base-relative; entries that do not exist are dropped.
	Resolve(base m.Path, paths []m.Path) ([]m.Source, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so callers can check existence or
	// distinguish files from directories.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// LocalSourceFS is the disk-backed SourceFS implementation.
type LocalSourceFS struct{}

// NewLocalSourceFS constructs a LocalSourceFS ready to be wired into the
// workflow.
func NewLocalSourceFS() *LocalSourceFS {
	return &LocalSourceFS{}
}

// NormalizeBase expands a leading ~ and resolves the path to absolute form.
func (a *LocalSourceFS) NormalizeBase(raw string) (m.Path, error) {
	base := raw

	if strings.HasPrefix(base, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		suffix := strings.TrimPrefix(base, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		base = filepath.Join(home, suffix)
	}

	if base == "" {
		base = "."
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// FindProjectRoot searches for composer.json walking up the directory tree.
func (a *LocalSourceFS) FindProjectRoot(start m.Path) (m.Path, error) {
	dir := string(start)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	probe := dir
	for {
		manifest := filepath.Join(probe, "composer.json")
		if _, err := os.Stat(manifest); err == nil {
			return m.Path(probe), nil
		}

		parent := filepath.Dir(probe)
		if parent == probe {
			return m.Path(dir), nil
		}

		probe = parent
	}
}

// Collect walks base and gathers PHP sources, Blade templates included.
func (a *LocalSourceFS) Collect(base m.Path, skip func(relative m.Path) bool) ([]m.Source, error) {
	seen := make(map[string]struct{})

	var sources []m.Source

	err := filepath.Walk(string(base), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relative, relErr := relativeTo(base, path)
		if relErr != nil {
			return relErr
		}

		if info.IsDir() {
			if path != string(base) && skip != nil && skip(relative) {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".php" {
			return nil
		}

		if skip != nil && skip(relative) {
			return nil
		}

		if _, exists := seen[path]; exists {
			return nil
		}

		seen[path] = struct{}{}
		sources = append(sources, m.Source{Origin: m.Path(path), Relative: relative})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", base, err)
	}

	return sources, nil
}

// Resolve maps an explicit path list onto sources, dropping entries that do
// not exist on disk.
func (a *LocalSourceFS) Resolve(base m.Path, paths []m.Path) ([]m.Source, error) {
	seen := make(map[string]struct{})

	var sources []m.Source

	for _, path := range paths {
		abs := string(path)
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(string(base), abs)
		}

		if _, err := os.Stat(abs); err != nil {
			continue
		}

		if _, exists := seen[abs]; exists {
			continue
		}

		relative, err := relativeTo(base, abs)
		if err != nil {
			return nil, err
		}

		seen[abs] = struct{}{}
		sources = append(sources, m.Source{Origin: m.Path(abs), Relative: relative})
	}

	return sources, nil
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFS) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFS) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

func relativeTo(base m.Path, path string) (m.Path, error) {
	rel, err := filepath.Rel(string(base), path)
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", path, err)
	}

	return m.Path(filepath.ToSlash(rel)), nil
}
