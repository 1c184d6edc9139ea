package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// tableRenderer writes the console summary: one row per analyzer plus the
// per-issue detail lines beneath.
type tableRenderer struct {
	summaryOnly bool
}

func (r *tableRenderer) Render(w io.Writer, report m.Report) error {
	writeSummaryTable(w, report)

	if !r.summaryOnly {
		writeIssueDetail(w, report)
	}

	counts := report.Count()
	_, err := fmt.Fprintf(w, "\n%d passed, %d warnings, %d failed, %d skipped, %d issue(s)\n",
		counts.Passed, counts.Warning, counts.Failed, counts.Skipped, counts.Issues)

	return err
}

func writeSummaryTable(w io.Writer, report m.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Analyzer", "Category", "Status", "Issues"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	for _, result := range report.Results {
		status := statusCell(result)
		table.Append([]string{
			result.Analyzer.ID,
			string(result.Analyzer.Category),
			status,
			fmt.Sprintf("%d", len(result.Issues)),
		})
	}

	table.Render()
}

func statusCell(result m.AnalysisResult) string {
	switch result.Status {
	case m.StatusPassed:
		return "pass"
	case m.StatusWarning:
		return "warn"
	case m.StatusFailed:
		return "FAIL"
	case m.StatusSkipped:
		if result.SkipReason != "" {
			return "skip (" + result.SkipReason + ")"
		}

		return "skip"
	}

	return string(result.Status)
}

func writeIssueDetail(w io.Writer, report m.Report) {
	for _, result := range report.Results {
		if len(result.Issues) == 0 {
			continue
		}

		_, _ = fmt.Fprintf(w, "\n%s (%s)\n", result.Analyzer.Name, result.Analyzer.ID)

		for _, issue := range result.Issues {
			_, _ = fmt.Fprintf(w, "  [%s] %s %s:%d  %s\n",
				strings.ToUpper(string(issue.Severity)), issue.Code,
				issue.Path, issue.Line, issue.Message)

			if issue.Snippet != "" {
				_, _ = fmt.Fprintf(w, "      > %s\n", issue.Snippet)
			}

			if issue.Recommendation != "" {
				_, _ = fmt.Fprintf(w, "      fix: %s\n", issue.Recommendation)
			}
		}
	}
}
