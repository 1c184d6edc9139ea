package analyzers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShieldCI/laravel-sub000/internal/engine"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// Issue codes of the swallowed-exceptions analyzer.
const (
	CodeEmptyCatch      = "REL001"
	CodeSilentSideCatch = "REL002"
	CodeBroadCatch      = "REL003"
	CodeDoubleSilencing = "REL004"
)

// SwallowedExceptions finds catch blocks that discard failures: empty
// handlers, handlers that act without recording the error, overly broad
// caught types, and @ operators stacked inside handlers.
type SwallowedExceptions struct {
	base
	classifier *engine.HandlerClassifier
	declRules  []m.WhitelistRule
	declDiags  []m.Issue
}

// NewSwallowedExceptions builds the analyzer from the run dependencies.
func NewSwallowedExceptions(deps Deps) *SwallowedExceptions {
	cfg := deps.Config.Reliability.SwallowedExceptions
	rules, diags := engine.CompileDeclarationRules(cfg.DeclarationWhitelist)

	return &SwallowedExceptions{
		base:       newBase(deps),
		classifier: engine.NewHandlerClassifier(cfg.ExceptionWhitelist),
		declRules:  rules,
		declDiags:  diags,
	}
}

// Metadata identifies the analyzer.
func (a *SwallowedExceptions) Metadata() m.Metadata {
	return m.Metadata{
		ID:          "swallowed-exceptions",
		Name:        "Swallowed Exceptions",
		Category:    m.CategoryReliability,
		Description: "Finds catch blocks that silently discard failures and overly broad catch types.",
	}
}

// Analyze runs the check over the resolved sources.
func (a *SwallowedExceptions) Analyze(ctx context.Context) m.AnalysisResult {
	collector := engine.NewIssueCollector()

	sources, diags, err := a.sources()
	if err != nil {
		return engine.SkippedResult(a.Metadata(), err.Error())
	}

	for _, diag := range append(diags, a.declDiags...) {
		collector.Add(diag)
	}

	err = a.forEachParsed(ctx, sources, func(pf parsedFile) {
		if pf.source.Template() {
			return
		}

		a.analyzeFile(collector, pf)
	})
	if err != nil {
		return engine.SkippedResult(a.Metadata(), err.Error())
	}

	return a.result(a.Metadata(), collector)
}

func (a *SwallowedExceptions) analyzeFile(collector *engine.IssueCollector, pf parsedFile) {
	id := a.Metadata().ID

	engine.Traverse(pf.file, func(node *phpast.Node, cur *engine.Cursor) bool {
		if node.Kind != phpast.Catch {
			return true
		}

		if cur.Scopes().InsideExemptDeclaration(a.declRules) {
			return true
		}

		c := a.classifier.Classify(node, cur.InLoop())
		if c.Suppressed {
			return true
		}

		a.reportBroad(collector, pf, id, node, c)
		a.reportBody(collector, pf, id, node, c)

		for _, line := range c.SuppressLines {
			a.report(collector, pf, id, m.Issue{
				Code:     CodeDoubleSilencing,
				Message:  "error-suppression operator used inside a catch block silences failures twice",
				Severity: m.SeverityCritical,
				Recommendation: "Remove the @ operator; the surrounding catch already " +
					"owns this failure path, so handle or log the error there.",
				Line: line,
			})
		}

		return true
	})
}

// unlistedNames joins the non-whitelisted caught members in source order.
func unlistedNames(c engine.HandlerClassification) string {
	if len(c.Unlisted) == 0 {
		return "the exception"
	}

	names := make([]string, 0, len(c.Unlisted))
	for _, member := range c.Unlisted {
		names = append(names, member.SimpleName)
	}

	return strings.Join(names, ", ")
}

// reportBroad raises the dedicated overly-broad finding, naming every
// non-whitelisted caught member. A rethrowing body cancels it: the failure
// keeps propagating.
func (a *SwallowedExceptions) reportBroad(collector *engine.IssueCollector, pf parsedFile, id string, node *phpast.Node, c engine.HandlerClassification) {
	if len(c.BroadMembers) == 0 || c.Verdict == m.VerdictRethrows {
		return
	}

	names := unlistedNames(c)

	a.report(collector, pf, id, m.Issue{
		Code:     CodeBroadCatch,
		Message:  fmt.Sprintf("catching overly broad type %s hides unrelated failures", names),
		Severity: m.SeverityHigh,
		Recommendation: "Catch the specific exception classes this block can actually " +
			"handle and let everything else propagate.",
		Line: node.Line(),
		Metadata: []m.MetadataKV{
			{Key: "caught", Value: names},
		},
	})
}

func (a *SwallowedExceptions) reportBody(collector *engine.IssueCollector, pf parsedFile, id string, node *phpast.Node, c engine.HandlerClassification) {
	switch c.Verdict {
	case m.VerdictEmpty:
		if c.CommentExempt {
			return
		}

		a.report(collector, pf, id, m.Issue{
			Code:     CodeEmptyCatch,
			Message:  fmt.Sprintf("empty catch block swallows %s without a trace", unlistedNames(c)),
			Severity: m.SeverityHigh,
			Recommendation: "Log the failure, rethrow, or document the suppression with " +
				"an explicit comment explaining why ignoring it is safe.",
			Line: node.Line(),
		})

	case m.VerdictSideEffectOnly:
		a.report(collector, pf, id, m.Issue{
			Code:     CodeSilentSideCatch,
			Message:  fmt.Sprintf("catch block reacts to %s but discards the exception detail", unlistedNames(c)),
			Severity: m.SeverityMedium,
			Recommendation: "Record the exception (log, report or rethrow) before applying " +
				"the side effect so the failure path leaves a trace.",
			Line: node.Line(),
		})

	case m.VerdictLogsOrReports, m.VerdictRethrows, m.VerdictDelegatesToHandler,
		m.VerdictSemanticFallback, m.VerdictLoopControlExit:
		// Acceptable handling.
	}
}
