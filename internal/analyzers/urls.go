package analyzers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShieldCI/laravel-sub000/internal/engine"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// CodeHardcodedURL marks absolute environment URLs baked into code.
const CodeHardcodedURL = "SEC101"

// HardcodedURLs finds absolute http(s) URLs whose hosts point at real
// environments instead of being read from configuration.
type HardcodedURLs struct {
	base
}

// NewHardcodedURLs builds the analyzer from the run dependencies.
func NewHardcodedURLs(deps Deps) *HardcodedURLs {
	return &HardcodedURLs{base: newBase(deps)}
}

// Metadata identifies the analyzer.
func (a *HardcodedURLs) Metadata() m.Metadata {
	return m.Metadata{
		ID:          "hardcoded-urls",
		Name:        "Hardcoded URLs",
		Category:    m.CategorySecurity,
		Description: "Finds absolute environment URLs baked into code instead of configuration.",
	}
}

// Analyze runs the check over the resolved sources.
func (a *HardcodedURLs) Analyze(ctx context.Context) m.AnalysisResult {
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
		phpast.Walk(pf.file.Root, func(node *phpast.Node) bool {
			if node.Kind != phpast.StringLit && node.Kind != phpast.InterpString {
				return true
			}

			host := engine.ExtractHost(strings.TrimSpace(node.Value))
			if host == "" || a.allowedHost(host) {
				return true
			}

			a.report(collector, pf, id, m.Issue{
				Code:     CodeHardcodedURL,
				Message:  fmt.Sprintf("absolute URL to %s is hardcoded", host),
				Severity: m.SeverityMedium,
				Recommendation: "Read the base URL from configuration (config/services) so " +
					"environments stay swappable and staging never calls production.",
				Line: node.Line(),
				Metadata: []m.MetadataKV{
					{Key: "host", Value: host},
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

// allowedHost checks the configured host whitelist: exact match or a
// subdomain of an allowed domain.
func (a *HardcodedURLs) allowedHost(host string) bool {
	for _, allowed := range a.deps.Config.Security.HardcodedURLs.AllowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed == "" {
			continue
		}

		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}

	return false
}
