package controller

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

const sarifInfoURI = "https://github.com/ShieldCI/laravel-sub000"

// sarifRenderer writes the report as SARIF 2.1.0 for code-scanning upload.
// One rule per issue code, one result per finding; skipped analyzers carry
// no results.
type sarifRenderer struct{}

func (r *sarifRenderer) Render(w io.Writer, report m.Report) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("create sarif report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("shieldci", sarifInfoURI)

	registered := make(map[string]struct{})

	for _, result := range report.Results {
		for _, issue := range result.Issues {
			if _, seen := registered[issue.Code]; !seen {
				registered[issue.Code] = struct{}{}

				run.AddRule(issue.Code).
					WithName(result.Analyzer.Name).
					WithDescription(result.Analyzer.Description).
					WithDefaultConfiguration(&sarif.ReportingConfiguration{
						Level: sarifLevel(issue.Severity),
					})
			}

			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(string(issue.Path))).
					WithRegion(sarif.NewRegion().WithStartLine(issue.Line)),
			)

			run.AddResult(sarif.NewRuleResult(issue.Code).
				WithMessage(sarif.NewTextMessage(issue.Message)).
				WithLevel(sarifLevel(issue.Severity)).
				WithLocations([]*sarif.Location{location}))
		}
	}

	doc.AddRun(run)

	if err := doc.PrettyWrite(w); err != nil {
		return fmt.Errorf("write sarif report: %w", err)
	}

	return nil
}

func sarifLevel(severity m.Severity) string {
	switch severity {
	case m.SeverityCritical, m.SeverityHigh:
		return "error"
	case m.SeverityMedium:
		return "warning"
	case m.SeverityLow:
		return "note"
	}

	return "none"
}
