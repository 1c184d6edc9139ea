package controller

import (
	"encoding/json"
	"fmt"
	"io"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// jsonRenderer writes the report as indented JSON, the same shape the report
// store persists.
type jsonRenderer struct{}

func (r *jsonRenderer) Render(w io.Writer, report m.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}
