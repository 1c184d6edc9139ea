// Package controller provides the output adapters: console tables, the
// interactive issue browser, and the JSON and SARIF writers.
package controller

import (
	"fmt"
	"io"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// Report output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// Renderer writes a full report in one machine- or human-readable format.
type Renderer interface {
	Render(w io.Writer, report m.Report) error
}

// NewRenderer returns the renderer for the named format.
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case FormatTable, "":
		return &tableRenderer{}, nil
	case FormatJSON:
		return &jsonRenderer{}, nil
	case FormatSARIF:
		return &sarifRenderer{}, nil
	}

	return nil, fmt.Errorf("unknown report format %q", format)
}
