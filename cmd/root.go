// Package cmd provides the root command and CLI setup for shieldci.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ShieldCI/laravel-sub000/internal/adapter"
	"github.com/ShieldCI/laravel-sub000/internal/domain"
	"github.com/ShieldCI/laravel-sub000/internal/logger"
)

var fsAdapter adapter.SourceFS
var parserAdapter adapter.Parser
var manifestReader adapter.ManifestReader
var reportStore adapter.ReportStore

func init() {
	fsAdapter = adapter.NewLocalSourceFS()
	parserAdapter = adapter.NewTreeSitterParser()
	manifestReader = adapter.NewComposerReader()
	reportStore = adapter.NewReportStore()
}

// errFindings marks a run that completed but found failing issues. It maps
// to exit code 1; every other error maps to 2.
var errFindings = errors.New("analysis found failing issues")

var configFlag string
var verboseFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shieldci",
		Short: "Static analysis for Laravel/PHP applications",
		Long: `ShieldCI scans a PHP/Laravel source tree for reliability, security and
performance anti-patterns: hardcoded secrets and URLs, swallowed
exceptions, error suppression, inefficient collection filtering,
service-locator overuse, logic in Blade templates and debug packages
shipped to production.

It is read-only: it parses and classifies, never executes or rewrites
application code.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to the configuration file (default: .shieldci.yml under the scanned path)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	return cmd
}

// newWorkflow builds the workflow with a logger honoring --verbose.
func newWorkflow() (domain.Workflow, hclog.Logger) {
	log := logger.New("shieldci", verboseFlag)

	workflow := domain.NewWorkflow(
		fsAdapter,
		parserAdapter,
		manifestReader,
		adapter.NewFSWatcher(log),
		log,
	)

	return workflow, log
}

// Execute runs the root command. Exit codes: 0 clean, 1 failing findings,
// 2 run-level error. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	if errors.Is(err, errFindings) {
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(2)
}
