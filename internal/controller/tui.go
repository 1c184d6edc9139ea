package controller

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// TUI implements UI with the interactive Bubble Tea issue browser. Reports
// that fit on screen are printed plainly instead of opening the browser.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Progress prints one line per finished analyzer; the browser only opens
// once the run is complete.
func (t *TUI) Progress(result m.AnalysisResult) {
	_, _ = fmt.Fprintf(t.output, "%-6s %s (%d issue(s))\n",
		statusCell(result), result.Analyzer.ID, len(result.Issues))
}

// Render shows the report: plain output for small or summary-only reports,
// the interactive browser otherwise.
func (t *TUI) Render(report m.Report, options ...RenderOption) error {
	var cfg RenderConfig
	for _, option := range options {
		option(&cfg)
	}

	renderer := tableRenderer{summaryOnly: cfg.summaryOnly}

	if cfg.summaryOnly || report.Count().Issues == 0 {
		return renderer.Render(t.output, report)
	}

	model := newBrowserModel(report)

	// Get initial terminal size.
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
			model.list.SetSize(width, height-2)
		}
	}

	// If the list is small, just print and exit.
	if !model.needsPagination() {
		return renderer.Render(t.output, report)
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	// Leave a scannable trace once the alt screen closes.
	summary := tableRenderer{summaryOnly: true}

	return summary.Render(t.output, report)
}
