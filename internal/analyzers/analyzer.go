// Package analyzers contains the per-rule checks. Each analyzer is thin glue
// over the classification engine: it wires traversal events into the engine
// components and formats the findings they return.
package analyzers

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ShieldCI/laravel-sub000/internal/adapter"
	"github.com/ShieldCI/laravel-sub000/internal/config"
	"github.com/ShieldCI/laravel-sub000/internal/engine"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// Analyzer is the contract every check implements. SetPaths overrides
// discovery with an explicit file list; otherwise the analyzer walks the
// base path. Analyze is synchronous and deterministic: the same tree yields
// the same ordered issue list on every run.
type Analyzer interface {
	SetBasePath(base string)
	SetPaths(paths []string)
	Analyze(ctx context.Context) m.AnalysisResult
	Metadata() m.Metadata
}

// Deps bundles the collaborators shared by all analyzers. One Deps value is
// built per run and handed to every analyzer; the config inside is
// immutable.
type Deps struct {
	FS       adapter.SourceFS
	Parser   adapter.Parser
	Manifest adapter.ManifestReader
	Log      hclog.Logger
	Config   *config.Config
	FailAt   m.Severity
}

// base carries the path state and shared helpers analyzers embed.
type base struct {
	deps     Deps
	basePath m.Path
	explicit []m.Path
}

func newBase(deps Deps) base {
	return base{deps: deps}
}

// SetBasePath sets the root the analyzer scans.
func (b *base) SetBasePath(path string) {
	b.basePath = m.Path(path)
}

// SetPaths overrides discovery with an explicit file list.
func (b *base) SetPaths(paths []string) {
	b.explicit = b.explicit[:0]

	for _, p := range paths {
		b.explicit = append(b.explicit, m.Path(p))
	}
}

// sources resolves the files to analyze: the explicit list when set,
// otherwise a walk of the base path filtered through the configured path
// exclusions. Malformed exclusion patterns surface as CFG001 diagnostics.
func (b *base) sources() ([]m.Source, []m.Issue, error) {
	rules, diags := engine.CompilePathRules(b.deps.Config.Paths.Exclude)

	if len(b.explicit) > 0 {
		sources, err := b.deps.FS.Resolve(b.basePath, b.explicit)
		return sources, diags, err
	}

	sources, err := b.deps.FS.Collect(b.basePath, func(relative m.Path) bool {
		return engine.ExcludedPath(relative, rules)
	})

	return sources, diags, err
}

// parsedFile is one source ready for traversal.
type parsedFile struct {
	source m.Source
	file   *phpast.ParsedFile
	ignore *engine.IgnoreIndex
}

// forEachParsed parses each source and invokes fn on the ones that parse. A
// parse failure is file-local: the file is skipped at debug log level and
// the run continues.
func (b *base) forEachParsed(ctx context.Context, sources []m.Source, fn func(parsedFile)) error {
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := b.deps.FS.ReadFile(source.Origin)
		if err != nil {
			b.deps.Log.Debug("skipping unreadable file", "path", source.Relative, "error", err)
			continue
		}

		file, err := b.deps.Parser.Parse(ctx, raw, source.Origin)
		if err != nil {
			b.deps.Log.Debug("skipping unparsable file", "path", source.Relative, "error", err)
			continue
		}

		fn(parsedFile{
			source: source,
			file:   file,
			ignore: engine.BuildIgnoreIndex(file),
		})
	}

	return nil
}

// report adds the issue unless an inline directive silences it.
func (b *base) report(c *engine.IssueCollector, pf parsedFile, analyzerID string, issue m.Issue) {
	if pf.ignore.Ignored(analyzerID, issue.Line) {
		return
	}

	issue.Path = pf.source.Relative

	if issue.Snippet == "" {
		issue.Snippet = snippet(pf.file.Source, issue.Line)
	}

	c.Add(issue)
}

// snippet extracts the trimmed source line for context, capped so reports
// stay readable.
func snippet(src []byte, line int) string {
	if line < 1 {
		return ""
	}

	current := 1
	start := 0

	for i := 0; i <= len(src); i++ {
		if i == len(src) || src[i] == '\n' {
			if current == line {
				text := strings.TrimSpace(string(src[start:i]))
				if len(text) > 160 {
					text = text[:157] + "..."
				}

				return text
			}

			current++
			start = i + 1
		}
	}

	return ""
}

// result finalizes the analyzer outcome against the configured threshold.
func (b *base) result(meta m.Metadata, c *engine.IssueCollector) m.AnalysisResult {
	return c.Result(meta, b.deps.FailAt)
}
