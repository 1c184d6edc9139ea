// Package domain orchestrates analysis runs: source-tree resolution,
// parallel analyzer execution and result aggregation.
package domain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/ShieldCI/laravel-sub000/internal/adapter"
	"github.com/ShieldCI/laravel-sub000/internal/analyzers"
	"github.com/ShieldCI/laravel-sub000/internal/config"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// CheckArgs carries everything one run needs. Zero values defer to the
// configuration: Jobs to run.jobs, FailAt to run.fail_threshold.
type CheckArgs struct {
	// Base is the raw path argument; it is normalized before use.
	Base string

	// Paths, when non-empty, restricts every analyzer to an explicit file
	// list instead of walking Base.
	Paths []string

	// Config is the loaded configuration; nil means compiled-in defaults.
	Config *config.Config

	// Exclude appends extra path-exclusion patterns to the configured set.
	Exclude []string

	// Only and Skip filter the registry by analyzer id; Only wins.
	Only []string
	Skip []string

	// Jobs bounds the analyzer fan-out.
	Jobs int

	// FailAt overrides the configured fail threshold when valid.
	FailAt m.Severity

	// Progress, when set, receives each result as its analyzer finishes.
	// Invocations are serialized.
	Progress func(m.AnalysisResult)
}

// Workflow defines the analysis operations the commands drive.
type Workflow interface {
	// Check runs the selected analyzers over the tree and aggregates a
	// report in registry order.
	Check(ctx context.Context, args CheckArgs) (m.Report, error)

	// Analyzers lists the metadata of every analyzer the configuration
	// enables, in registry order.
	Analyzers(cfg *config.Config) []m.Metadata

	// Watch runs Check, then re-runs it on every debounced change under the
	// base path, forwarding each outcome to onReport. It blocks until ctx
	// is done.
	Watch(ctx context.Context, args CheckArgs, onReport func(m.Report, error)) error
}

type workflow struct {
	fs       adapter.SourceFS
	parser   adapter.Parser
	manifest adapter.ManifestReader
	watcher  adapter.ChangeWatcher
	log      hclog.Logger
}

// NewWorkflow creates a Workflow instance with the provided adapters.
func NewWorkflow(fs adapter.SourceFS, parser adapter.Parser, manifest adapter.ManifestReader, watcher adapter.ChangeWatcher, log hclog.Logger) Workflow {
	return &workflow{
		fs:       fs,
		parser:   parser,
		manifest: manifest,
		watcher:  watcher,
		log:      log,
	}
}

// Check resolves the base path, builds the analyzer registry and fans the
// analyzers out bounded by jobs. Each analyzer owns its collector; results
// land at their registry position so the report order never depends on
// completion order.
func (w *workflow) Check(ctx context.Context, args CheckArgs) (m.Report, error) {
	base, err := w.fs.NormalizeBase(args.Base)
	if err != nil {
		return m.Report{}, fmt.Errorf("resolve base path: %w", err)
	}

	if _, err := w.fs.FileInfo(base); err != nil {
		return m.Report{}, fmt.Errorf("base path %s: %w", base, err)
	}

	cfg := w.effectiveConfig(args)

	failAt := args.FailAt
	if !failAt.Valid() {
		failAt = cfg.Run.FailSeverity()
	}

	jobs := args.Jobs
	if jobs <= 0 {
		jobs = cfg.Run.Jobs
	}

	if jobs <= 0 {
		jobs = 1
	}

	deps := analyzers.Deps{
		FS: w.fs,
		// A fresh memo per run: watch mode must re-parse changed files.
		Parser:   adapter.NewCachingParser(w.parser),
		Manifest: w.manifest,
		Log:      w.log,
		Config:   cfg,
		FailAt:   failAt,
	}

	selected := analyzers.Select(analyzers.Registry(deps), args.Only, args.Skip)

	for _, analyzer := range selected {
		analyzer.SetBasePath(string(base))
		analyzer.SetPaths(args.Paths)
	}

	w.log.Debug("starting analysis", "base", base, "analyzers", len(selected), "jobs", jobs)

	started := time.Now()
	results := make([]m.AnalysisResult, len(selected))

	var progressMu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, analyzer := range selected {
		group.Go(func() error {
			result := analyzer.Analyze(groupCtx)
			results[i] = result

			w.log.Debug("analyzer finished",
				"id", result.Analyzer.ID, "status", result.Status, "issues", len(result.Issues))

			if args.Progress != nil {
				progressMu.Lock()
				args.Progress(result)
				progressMu.Unlock()
			}

			return groupCtx.Err()
		})
	}

	if err := group.Wait(); err != nil {
		return m.Report{}, fmt.Errorf("analysis interrupted: %w", err)
	}

	return m.Report{
		BasePath:   base,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Results:    results,
	}, nil
}

// Analyzers lists enabled analyzer metadata in registry order.
func (w *workflow) Analyzers(cfg *config.Config) []m.Metadata {
	if cfg == nil {
		cfg = config.Default()
	}

	deps := analyzers.Deps{
		FS:       w.fs,
		Parser:   w.parser,
		Manifest: w.manifest,
		Log:      w.log,
		Config:   cfg,
		FailAt:   cfg.Run.FailSeverity(),
	}

	var out []m.Metadata

	for _, analyzer := range analyzers.Registry(deps) {
		out = append(out, analyzer.Metadata())
	}

	return out
}

// Watch runs the check once, then re-runs it after every debounced change
// batch until ctx is done.
func (w *workflow) Watch(ctx context.Context, args CheckArgs, onReport func(m.Report, error)) error {
	run := func() {
		report, err := w.Check(ctx, args)

		if ctx.Err() != nil {
			return
		}

		onReport(report, err)
	}

	run()

	base, err := w.fs.NormalizeBase(args.Base)
	if err != nil {
		return fmt.Errorf("resolve base path: %w", err)
	}

	return w.watcher.Watch(ctx, base, run)
}

// effectiveConfig applies the per-run exclusion overlay without mutating the
// loaded configuration.
func (w *workflow) effectiveConfig(args CheckArgs) *config.Config {
	cfg := args.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if len(args.Exclude) == 0 {
		return cfg
	}

	overlay := *cfg
	overlay.Paths.Exclude = append(append([]string{}, cfg.Paths.Exclude...), args.Exclude...)

	return &overlay
}
