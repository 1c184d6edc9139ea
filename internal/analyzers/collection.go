package analyzers

import (
	"context"
	"fmt"

	"github.com/ShieldCI/laravel-sub000/internal/engine"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// Issue codes of the collection-filtering analyzer.
const (
	CodeFullLoadFilter     = "PERF001"
	CodePartialLoadFilter  = "PERF002"
	CodeRelationshipFilter = "PERF003"
)

// CollectionFiltering finds chains that fetch records in bulk from
// persistence and then filter them client-side, where the database could
// have done the narrowing.
type CollectionFiltering struct {
	base
	declRules []m.WhitelistRule
	declDiags []m.Issue
}

// NewCollectionFiltering builds the analyzer from the run dependencies.
func NewCollectionFiltering(deps Deps) *CollectionFiltering {
	rules, diags := engine.CompileDeclarationRules(deps.Config.Performance.CollectionFiltering.DeclarationWhitelist)

	return &CollectionFiltering{base: newBase(deps), declRules: rules, declDiags: diags}
}

// Metadata identifies the analyzer.
func (a *CollectionFiltering) Metadata() m.Metadata {
	return m.Metadata{
		ID:          "collection-filtering",
		Name:        "Collection Filtering",
		Category:    m.CategoryPerformance,
		Description: "Finds bulk fetches from persistence followed by client-side filtering.",
	}
}

// Analyze runs the check over the resolved sources.
func (a *CollectionFiltering) Analyze(ctx context.Context) m.AnalysisResult {
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

func (a *CollectionFiltering) analyzeFile(collector *engine.IssueCollector, pf parsedFile) {
	cfg := a.deps.Config.Performance.CollectionFiltering

	resolver := engine.NewChainResolver(engine.ChainResolverConfig{
		PersistenceNamespaces: cfg.PersistenceNamespaces,
		Imports:               engine.Imports(pf.file.Root),
		ReportEveryFilter:     cfg.ReportEveryFilter,
	})

	id := a.Metadata().ID
	visited := make(map[*phpast.Node]struct{})

	engine.Traverse(pf.file, func(node *phpast.Node, cur *engine.Cursor) bool {
		chain := engine.ExtractChain(node, visited)
		if chain == nil {
			return true
		}

		if cur.Scopes().InsideExemptDeclaration(a.declRules) {
			return true
		}

		for _, finding := range resolver.Resolve(chain) {
			a.report(collector, pf, id, issueForChain(finding))
		}

		return true
	})
}

// issueForChain formats one chain finding with terminal-specific remediation.
func issueForChain(f engine.ChainFinding) m.Issue {
	switch f.Kind {
	case engine.ChainRelationship:
		return m.Issue{
			Code: CodeRelationshipFilter,
			Message: fmt.Sprintf("relationship collection %s is filtered in memory with %s()",
				f.Receiver, f.Filter),
			Severity: f.Severity,
			Recommendation: "Constrain the relationship query instead: push the condition " +
				"into the relation (or a scoped eager load) so only matching rows are hydrated.",
			Line: f.Line,
			Metadata: []m.MetadataKV{
				{Key: "filter", Value: f.Filter},
				{Key: "receiver", Value: f.Receiver},
			},
		}

	case engine.ChainPartialLoad:
		return m.Issue{
			Code: CodePartialLoadFilter,
			Message: fmt.Sprintf("%s() result is filtered client-side with %s() after fetching",
				f.Terminal, f.Filter),
			Severity:       f.Severity,
			Recommendation: partialRemediation(f.Terminal),
			Line:           f.Line,
			Metadata: []m.MetadataKV{
				{Key: "terminal", Value: f.Terminal},
				{Key: "filter", Value: f.Filter},
			},
		}

	default:
		return m.Issue{
			Code: CodeFullLoadFilter,
			Message: fmt.Sprintf("%s() loads every record and %s() then discards most of them in memory",
				f.Terminal, f.Filter),
			Severity: f.Severity,
			Recommendation: "Move the condition into the query (where, whereIn) so the " +
				"database returns only the records the code keeps.",
			Line: f.Line,
			Metadata: []m.MetadataKV{
				{Key: "terminal", Value: f.Terminal},
				{Key: "filter", Value: f.Filter},
			},
		}
	}
}

// partialRemediation picks terminal-specific advice: pluck needs a column
// constraint, pagination needs the filter moved ahead of the page window.
func partialRemediation(terminal string) string {
	if terminal == "pluck" {
		return "Select the column with a where constraint before plucking so the " +
			"projection happens in the database."
	}

	return "Filtering after pagination drops rows from the current page and skews " +
		"page counts; apply the condition in the query before paginating."
}
