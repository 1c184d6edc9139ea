package analyzers

import (
	"context"
	"fmt"

	"github.com/ShieldCI/laravel-sub000/internal/engine"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// CodeErrorSuppression marks @ operator findings.
const CodeErrorSuppression = "REL101"

// ErrorSuppression finds uses of the @ operator on calls outside the
// suppression whitelist. Dynamic callees are never whitelistable.
type ErrorSuppression struct {
	base
	matcher *engine.SuppressionMatcher
}

// NewErrorSuppression builds the analyzer from the run dependencies.
func NewErrorSuppression(deps Deps) *ErrorSuppression {
	return &ErrorSuppression{
		base:    newBase(deps),
		matcher: engine.NewSuppressionMatcher(deps.Config.Reliability.ErrorSuppression.FunctionWhitelist),
	}
}

// Metadata identifies the analyzer.
func (a *ErrorSuppression) Metadata() m.Metadata {
	return m.Metadata{
		ID:          "error-suppression",
		Name:        "Error Suppression",
		Category:    m.CategoryReliability,
		Description: "Finds @ operators silencing errors on calls the whitelist does not cover.",
	}
}

// Analyze runs the check over the resolved sources.
func (a *ErrorSuppression) Analyze(ctx context.Context) m.AnalysisResult {
	collector := engine.NewIssueCollector()

	sources, diags, err := a.sources()
	if err != nil {
		return engine.SkippedResult(a.Metadata(), err.Error())
	}

	for _, diag := range diags {
		collector.Add(diag)
	}

	id := a.Metadata().ID

	err = a.forEachParsed(ctx, sources, func(pf parsedFile) {
		if pf.source.Template() {
			return
		}

		phpast.Walk(pf.file.Root, func(node *phpast.Node) bool {
			if node.Kind != phpast.Suppress {
				return true
			}

			match := a.matcher.Match(node, m.SeverityMedium)
			if match.Whitelisted {
				return true
			}

			a.report(collector, pf, id, m.Issue{
				Code:           CodeErrorSuppression,
				Message:        fmt.Sprintf("error suppression on %s hides runtime failures", match.Display),
				Severity:       match.Severity,
				Recommendation: recommendationFor(match.Kind),
				Line:           match.Line,
				Metadata: []m.MetadataKV{
					{Key: "callee", Value: match.Display},
					{Key: "calleeKind", Value: string(match.Kind)},
				},
			})

			return true
		})
	})
	if err != nil {
		return engine.SkippedResult(a.Metadata(), err.Error())
	}

	return a.result(a.Metadata(), collector)
}

func recommendationFor(kind engine.CalleeKind) string {
	switch kind {
	case engine.CalleeDynamic:
		return "A dynamically resolved callee cannot be audited; remove the @ operator " +
			"and wrap the call in explicit error handling."
	case engine.CalleeStaticMethod, engine.CalleeInstanceMethod:
		return "Check the call's result or wrap it in a try/catch instead of silencing " +
			"every error it raises."
	case engine.CalleeFreeFunction, engine.CalleeExpression:
		return "Test the precondition first (file_exists, isset) or handle the error " +
			"return instead of suppressing it."
	}

	return "Remove the @ operator and handle the error explicitly."
}
