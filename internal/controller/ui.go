package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// RenderOption is a functional option for UI.Render.
type RenderOption func(*RenderConfig)

// RenderConfig holds configuration for rendering a report.
type RenderConfig struct {
	summaryOnly bool
}

// WithSummaryOnly renders the summary table without per-issue detail. Watch
// mode uses it to keep successive runs readable.
func WithSummaryOnly() RenderOption {
	return func(c *RenderConfig) {
		c.summaryOnly = true
	}
}

// UI defines the interface for presenting a run to the user.
// Implementations can use different output methods (plain text, interactive
// browser).
type UI interface {
	// Progress reports one finished analyzer while the run is ongoing.
	Progress(result m.AnalysisResult)

	// Render presents the aggregated report.
	Render(report m.Report, options ...RenderOption) error
}

// NewUI creates a UI based on whether interactive mode is wanted and
// available. Plain output is used when the output is not a terminal.
func NewUI(cmd *cobra.Command, plain bool) UI {
	if !plain && IsTTY(cmd.OutOrStdout()) {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY checks if the given writer is an interactive terminal. Redirected
// and piped outputs report false.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}
