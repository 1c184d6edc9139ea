package analyzers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShieldCI/laravel-sub000/internal/engine"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// Issue codes of the hardcoded-secrets analyzer.
const (
	CodeSecretLiteral    = "SEC001"
	CodeSecretAssignment = "SEC002"
)

// HardcodedSecrets finds credential-looking string literals committed to
// source: high-entropy machine-generated tokens anywhere, and literals
// assigned to secret-named targets.
type HardcodedSecrets struct {
	base
}

// NewHardcodedSecrets builds the analyzer from the run dependencies.
func NewHardcodedSecrets(deps Deps) *HardcodedSecrets {
	return &HardcodedSecrets{base: newBase(deps)}
}

// Metadata identifies the analyzer.
func (a *HardcodedSecrets) Metadata() m.Metadata {
	return m.Metadata{
		ID:          "hardcoded-secrets",
		Name:        "Hardcoded Secrets",
		Category:    m.CategorySecurity,
		Description: "Finds credential-looking string literals committed to source.",
	}
}

// Analyze runs the check over the resolved sources.
func (a *HardcodedSecrets) Analyze(ctx context.Context) m.AnalysisResult {
	collector := engine.NewIssueCollector()

	sources, diags, err := a.sources()
	if err != nil {
		return engine.SkippedResult(a.Metadata(), err.Error())
	}

	for _, diag := range diags {
		collector.Add(diag)
	}

	err = a.forEachParsed(ctx, sources, func(pf parsedFile) {
		a.analyzeFile(collector, pf)
	})
	if err != nil {
		return engine.SkippedResult(a.Metadata(), err.Error())
	}

	return a.result(a.Metadata(), collector)
}

func (a *HardcodedSecrets) analyzeFile(collector *engine.IssueCollector, pf parsedFile) {
	cfg := a.deps.Config.Security.HardcodedSecrets
	id := a.Metadata().ID

	phpast.Walk(pf.file.Root, func(node *phpast.Node) bool {
		switch node.Kind {
		case phpast.Assign:
			if target, value, ok := markerAssignment(node, cfg.KeyMarkers); ok {
				a.report(collector, pf, id, m.Issue{
					Code:     CodeSecretAssignment,
					Message:  fmt.Sprintf("secret-named target %q is assigned a hardcoded literal", target),
					Severity: m.SeverityCritical,
					Recommendation: "Move the value into the environment (env/config) and " +
						"rotate the committed credential.",
					Line: node.Line(),
					Metadata: []m.MetadataKV{
						{Key: "target", Value: target},
						{Key: "valueLength", Value: fmt.Sprintf("%d", len(value))},
					},
				})

				// The assignment finding covers the literal beneath it.
				return false
			}

		case phpast.StringLit:
			if engine.SecretCandidate(node.Value, cfg.MinLength, cfg.EntropyThreshold) {
				a.report(collector, pf, id, m.Issue{
					Code:     CodeSecretLiteral,
					Message:  "high-entropy literal looks like a machine-generated credential",
					Severity: m.SeverityHigh,
					Recommendation: "If this is a real credential, move it into the " +
						"environment and rotate it; if not, consider loading it from a fixture.",
					Line: node.Line(),
					Metadata: []m.MetadataKV{
						{Key: "valueLength", Value: fmt.Sprintf("%d", len(node.Value))},
					},
				})
			}
		}

		return true
	})
}

// markerAssignment recognizes `$apiSecret = 'literal'` and
// `$this->password = 'literal'` shapes where the target name carries a
// configured key marker. Placeholder values do not count.
func markerAssignment(assign *phpast.Node, markers []string) (string, string, bool) {
	if len(assign.Children) < 2 {
		return "", "", false
	}

	target := assign.Children[0]
	value := assign.Children[len(assign.Children)-1]

	if value.Kind != phpast.StringLit || value.Value == "" {
		return "", "", false
	}

	name := ""

	switch target.Kind {
	case phpast.Variable, phpast.PropertyAccess:
		name = target.Name
	default:
		return "", "", false
	}

	if !markerName(name, markers) {
		return "", "", false
	}

	if engine.Placeholder(value.Value) || len(value.Value) < 8 {
		return "", "", false
	}

	return name, value.Value, true
}

func markerName(name string, markers []string) bool {
	lower := strings.ToLower(name)

	for _, marker := range markers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}

	return false
}
