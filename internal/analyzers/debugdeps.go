package analyzers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShieldCI/laravel-sub000/internal/adapter"
	"github.com/ShieldCI/laravel-sub000/internal/engine"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// CodeDebugDependency marks debug tooling declared as a production
// dependency.
const CodeDebugDependency = "SEC201"

// DebugDependencies inspects composer.json instead of source files: debug
// and profiling packages listed under require ship to production, where
// they widen the attack surface. The same packages under require-dev are
// fine.
type DebugDependencies struct {
	base
}

// NewDebugDependencies builds the analyzer from the run dependencies.
func NewDebugDependencies(deps Deps) *DebugDependencies {
	return &DebugDependencies{base: newBase(deps)}
}

// Metadata identifies the analyzer.
func (a *DebugDependencies) Metadata() m.Metadata {
	return m.Metadata{
		ID:          "debug-dependencies",
		Name:        "Debug Dependencies",
		Category:    m.CategorySecurity,
		Description: "Finds debug and profiling packages declared as production dependencies.",
	}
}

// Analyze reads the manifest and flags every configured package found in
// the production require block.
func (a *DebugDependencies) Analyze(ctx context.Context) m.AnalysisResult {
	if err := ctx.Err(); err != nil {
		return engine.SkippedResult(a.Metadata(), err.Error())
	}

	manifest, err := a.deps.Manifest.Read(a.basePath)
	if err != nil {
		if errors.Is(err, adapter.ErrManifestMissing) {
			return engine.SkippedResult(a.Metadata(), "composer.json not found")
		}

		return engine.SkippedResult(a.Metadata(), err.Error())
	}

	collector := engine.NewIssueCollector()

	for _, pkg := range a.deps.Config.Security.DebugDependencies.Packages {
		constraint, ok := manifest.Require[pkg]
		if !ok {
			continue
		}

		collector.Add(m.Issue{
			Code:     CodeDebugDependency,
			Message:  fmt.Sprintf("debug package %s is a production dependency (%s)", pkg, constraint),
			Severity: m.SeverityHigh,
			Recommendation: "Move the package to require-dev; debug tooling in production " +
				"exposes internals and request data to anyone who finds its endpoints.",
			Path:    "composer.json",
			Line:    1,
			Snippet: fmt.Sprintf("%q: %q", pkg, constraint),
			Metadata: []m.MetadataKV{
				{Key: "package", Value: pkg},
				{Key: "constraint", Value: constraint},
			},
		})
	}

	return a.result(a.Metadata(), collector)
}
