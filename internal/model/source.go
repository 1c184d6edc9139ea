package model

import "strings"

// Path represents a file system path.
type Path string

// Source represents a discovered application source file.
type Source struct {
	Origin   Path // absolute location on disk
	Relative Path // slash-normalized path relative to the scanned base
}

// Template reports whether the source is a Blade template rather than plain PHP.
func (s Source) Template() bool {
	return strings.HasSuffix(string(s.Relative), ".blade.php")
}

// Manifest holds the dependency declarations read from composer.json.
type Manifest struct {
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}
