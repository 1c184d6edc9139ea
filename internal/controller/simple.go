package controller

import (
	"fmt"

	"github.com/spf13/cobra"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Progress prints one line per finished analyzer.
func (s *SimpleUI) Progress(result m.AnalysisResult) {
	s.printf("%-6s %s (%d issue(s))\n", statusCell(result), result.Analyzer.ID, len(result.Issues))
}

// Render prints the summary table and, unless suppressed, the issue detail.
func (s *SimpleUI) Render(report m.Report, options ...RenderOption) error {
	var cfg RenderConfig
	for _, option := range options {
		option(&cfg)
	}

	s.printf("\n")

	renderer := tableRenderer{summaryOnly: cfg.summaryOnly}

	return renderer.Render(s.cmd.OutOrStdout(), report)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
