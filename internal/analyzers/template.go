package analyzers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ShieldCI/laravel-sub000/internal/engine"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// Issue codes of the template-logic analyzer.
const (
	CodeTemplateQuery    = "REL301"
	CodeTemplatePHPBlock = "REL302"
)

// templateQueryPatterns match query and persistence calls that do not belong
// in a view. Blade mixes directives with HTML, so this check works on raw
// lines rather than the PHP grammar.
var templateQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bDB::(table|select|statement|raw)\b`),
	regexp.MustCompile(`\b[A-Z][A-Za-z0-9]*::(all|get|where|query|find|count)\s*\(`),
	regexp.MustCompile(`->(where|whereIn|orderBy|groupBy)\s*\([^)]*\)\s*->\s*(get|first|count|paginate)\s*\(`),
}

// TemplateLogic finds business logic leaked into Blade templates: queries
// executed from views and oversized @php blocks.
type TemplateLogic struct {
	base
}

// NewTemplateLogic builds the analyzer from the run dependencies.
func NewTemplateLogic(deps Deps) *TemplateLogic {
	return &TemplateLogic{base: newBase(deps)}
}

// Metadata identifies the analyzer.
func (a *TemplateLogic) Metadata() m.Metadata {
	return m.Metadata{
		ID:          "template-logic",
		Name:        "Template Logic",
		Category:    m.CategoryReliability,
		Description: "Finds query and business logic embedded in Blade templates.",
	}
}

// Analyze runs the check over the resolved sources.
func (a *TemplateLogic) Analyze(ctx context.Context) m.AnalysisResult {
	collector := engine.NewIssueCollector()

	sources, diags, err := a.sources()
	if err != nil {
		return engine.SkippedResult(a.Metadata(), err.Error())
	}

	for _, diag := range diags {
		collector.Add(diag)
	}

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return engine.SkippedResult(a.Metadata(), err.Error())
		}

		if !source.Template() {
			continue
		}

		raw, err := a.deps.FS.ReadFile(source.Origin)
		if err != nil {
			a.deps.Log.Debug("skipping unreadable template", "path", source.Relative, "error", err)
			continue
		}

		a.analyzeTemplate(collector, source, string(raw))
	}

	return a.result(a.Metadata(), collector)
}

func (a *TemplateLogic) analyzeTemplate(collector *engine.IssueCollector, source m.Source, content string) {
	maxBlock := a.deps.Config.Reliability.TemplateLogic.MaxPHPBlockLines
	lines := strings.Split(content, "\n")

	blockStart := 0
	inBlock := false

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "@php"):
			inBlock = true
			blockStart = lineNo
		case strings.HasPrefix(trimmed, "@endphp"):
			if inBlock {
				a.checkBlockLength(collector, source, lines, blockStart, lineNo, maxBlock)
			}

			inBlock = false
		}

		for _, pattern := range templateQueryPatterns {
			if !pattern.MatchString(line) {
				continue
			}

			a.addTemplateIssue(collector, source, m.Issue{
				Code:     CodeTemplateQuery,
				Message:  "template executes a persistence query; views should only render data",
				Severity: m.SeverityHigh,
				Recommendation: "Load the data in the controller (or a view composer) and " +
					"pass it to the template.",
				Line:    lineNo,
				Snippet: truncateLine(trimmed),
			})

			break
		}
	}
}

func (a *TemplateLogic) checkBlockLength(collector *engine.IssueCollector, source m.Source, lines []string, start, end, maxBlock int) {
	// Lines strictly between the @php and @endphp markers.
	body := end - start - 1
	if body <= maxBlock {
		return
	}

	a.addTemplateIssue(collector, source, m.Issue{
		Code:     CodeTemplatePHPBlock,
		Message:  fmt.Sprintf("@php block spans %d lines (budget %d)", body, maxBlock),
		Severity: m.SeverityMedium,
		Recommendation: "Move the logic into the controller, a view composer or a " +
			"presenter; templates should stay declarative.",
		Line:    start,
		Snippet: truncateLine(strings.TrimSpace(lines[start-1])),
	})
}

// addTemplateIssue attaches the path directly: template findings never go
// through the PHP parser, so there is no parsedFile wrapper.
func (a *TemplateLogic) addTemplateIssue(collector *engine.IssueCollector, source m.Source, issue m.Issue) {
	issue.Path = source.Relative
	collector.Add(issue)
}

func truncateLine(s string) string {
	if len(s) > 160 {
		return s[:157] + "..."
	}

	return s
}
