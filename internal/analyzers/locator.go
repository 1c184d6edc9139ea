package analyzers

import (
	"context"
	"fmt"

	"github.com/ShieldCI/laravel-sub000/internal/engine"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// CodeServiceLocator marks methods that over-use container resolution.
const CodeServiceLocator = "REL201"

// locatorFunctions resolve services straight from the global container.
var locatorFunctions = map[string]struct{}{
	"app": {}, "resolve": {},
}

// locatorStatics are Facade-style container entry points.
var locatorStatics = map[string]struct{}{
	"make": {}, "makeWith": {}, "resolve": {}, "getInstance": {},
}

// ServiceLocator counts container resolutions per method and flags methods
// that exceed the configured budget: heavy service-locator use hides
// dependencies that belong in the constructor.
type ServiceLocator struct {
	base
}

// NewServiceLocator builds the analyzer from the run dependencies.
func NewServiceLocator(deps Deps) *ServiceLocator {
	return &ServiceLocator{base: newBase(deps)}
}

// Metadata identifies the analyzer.
func (a *ServiceLocator) Metadata() m.Metadata {
	return m.Metadata{
		ID:          "service-locator",
		Name:        "Service Locator",
		Category:    m.CategoryReliability,
		Description: "Finds methods resolving too many services from the container directly.",
	}
}

// Analyze runs the check over the resolved sources.
func (a *ServiceLocator) Analyze(ctx context.Context) m.AnalysisResult {
	collector := engine.NewIssueCollector()

	sources, diags, err := a.sources()
	if err != nil {
		return engine.SkippedResult(a.Metadata(), err.Error())
	}

	for _, diag := range diags {
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

// methodUsage tracks resolutions within one method frame.
type methodUsage struct {
	name  string
	line  int
	count int
}

func (a *ServiceLocator) analyzeFile(collector *engine.IssueCollector, pf parsedFile) {
	maxResolutions := a.deps.Config.Reliability.ServiceLocator.MaxResolutions
	id := a.Metadata().ID

	var usages []methodUsage

	engine.Traverse(pf.file, func(node *phpast.Node, cur *engine.Cursor) bool {
		if !locatorCall(node) {
			return true
		}

		method, ok := cur.Scopes().EnclosingMethod()
		if !ok {
			return true
		}

		for i := range usages {
			if usages[i].name == method.Name && usages[i].line == method.StartLine {
				usages[i].count++
				return true
			}
		}

		usages = append(usages, methodUsage{name: method.Name, line: method.StartLine})
		usages[len(usages)-1].count++

		return true
	})

	for _, usage := range usages {
		if usage.count <= maxResolutions {
			continue
		}

		a.report(collector, pf, id, m.Issue{
			Code: CodeServiceLocator,
			Message: fmt.Sprintf("method %s resolves %d services from the container (budget %d)",
				usage.name, usage.count, maxResolutions),
			Severity: m.SeverityMedium,
			Recommendation: "Inject the dependencies through the constructor; container " +
				"lookups inside methods hide what the class needs and defeat testing.",
			Line: usage.line,
			Metadata: []m.MetadataKV{
				{Key: "method", Value: usage.name},
				{Key: "resolutions", Value: fmt.Sprintf("%d", usage.count)},
			},
		})
	}
}

// locatorCall recognizes app()/resolve() helpers with arguments and
// App::make-style facade calls. A bare app() returning the container for a
// chained call still counts: the chain target is resolved either way.
func locatorCall(node *phpast.Node) bool {
	switch node.Kind {
	case phpast.FunctionCall:
		if _, ok := locatorFunctions[engine.SimpleName(node.Name)]; !ok {
			return false
		}

		return len(node.Args) > 0

	case phpast.StaticCall:
		if node.Receiver == nil || node.Receiver.Kind != phpast.Name {
			return false
		}

		receiver := engine.SimpleName(node.Receiver.Name)
		if receiver != "App" && receiver != "Container" {
			return false
		}

		_, ok := locatorStatics[node.Name]

		return ok
	}

	return false
}
