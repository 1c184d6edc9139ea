package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShieldCI/laravel-sub000/internal/config"
	"github.com/ShieldCI/laravel-sub000/internal/controller"
	"github.com/ShieldCI/laravel-sub000/internal/domain"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

var checkFormatFlag string
var checkOutputFlag string
var checkFailOnFlag string
var checkJobsFlag int
var checkExcludeFlags []string
var checkOnlyFlags []string
var checkSkipFlags []string
var checkPlainFlag bool
var checkSaveFlag bool

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Run the analyzers over a source tree",
		Long: `Check runs every enabled analyzer over the given path (default: the
current directory) and reports the findings. Passing files instead of a
directory restricts analysis to those files.

Exit code is 1 when any analyzer fails, 0 otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&checkFormatFlag, "format", "f", controller.FormatTable, "output format: table, json or sarif")
	cmd.Flags().StringVarP(&checkOutputFlag, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&checkFailOnFlag, "fail-on", "", "lowest severity that fails the run (low, medium, high, critical)")
	cmd.Flags().IntVarP(&checkJobsFlag, "jobs", "j", 0, "number of analyzers to run in parallel (default from config)")
	cmd.Flags().StringArrayVarP(&checkExcludeFlags, "exclude", "x", nil, "exclude paths matching pattern (can be repeated)")
	cmd.Flags().StringSliceVar(&checkOnlyFlags, "only", nil, "run only the listed analyzer ids")
	cmd.Flags().StringSliceVar(&checkSkipFlags, "skip", nil, "skip the listed analyzer ids")
	cmd.Flags().BoolVar(&checkPlainFlag, "plain", false, "plain output, no interactive browser")
	cmd.Flags().BoolVar(&checkSaveFlag, "save", false, "save the report under .shieldci/ for later viewing")

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	base, paths, err := splitTarget(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFlag, base)
	if err != nil {
		return err
	}

	failAt, err := parseFailOn(checkFailOnFlag)
	if err != nil {
		return err
	}

	workflow, log := newWorkflow()

	// Machine formats and file output stay non-interactive.
	plain := checkPlainFlag || checkFormatFlag != controller.FormatTable || checkOutputFlag != ""
	ui := controller.NewUI(cmd, plain)

	checkArgs := domain.CheckArgs{
		Base:    base,
		Paths:   paths,
		Config:  cfg,
		Exclude: checkExcludeFlags,
		Only:    checkOnlyFlags,
		Skip:    checkSkipFlags,
		Jobs:    checkJobsFlag,
		FailAt:  failAt,
	}

	if checkFormatFlag == controller.FormatTable && checkOutputFlag == "" {
		checkArgs.Progress = ui.Progress
	}

	report, err := workflow.Check(cmd.Context(), checkArgs)
	if err != nil {
		return err
	}

	if checkSaveFlag {
		path, saveErr := reportStore.Save(report)
		if saveErr != nil {
			return saveErr
		}

		log.Info("report saved", "path", path)
	}

	if err := writeReport(cmd, ui, report); err != nil {
		return err
	}

	if report.HasFailures() {
		return errFindings
	}

	return nil
}

// writeReport routes the report to the selected sink: a file, a machine
// format on stdout, or the console UI.
func writeReport(cmd *cobra.Command, ui controller.UI, report m.Report) error {
	if checkOutputFlag == "" && checkFormatFlag == controller.FormatTable {
		return ui.Render(report)
	}

	renderer, err := controller.NewRenderer(checkFormatFlag)
	if err != nil {
		return err
	}

	if checkOutputFlag == "" {
		return renderer.Render(cmd.OutOrStdout(), report)
	}

	file, err := os.Create(checkOutputFlag)
	if err != nil {
		return fmt.Errorf("create output %s: %w", checkOutputFlag, err)
	}
	defer func() { _ = file.Close() }()

	return renderer.Render(file, report)
}

// splitTarget resolves positional arguments into a base directory and an
// optional explicit file list.
func splitTarget(args []string) (string, []string, error) {
	if len(args) == 0 {
		return ".", nil, nil
	}

	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err != nil {
			return "", nil, fmt.Errorf("path %s: %w", args[0], err)
		}

		if info.IsDir() {
			return args[0], nil, nil
		}
	}

	return ".", args, nil
}

func parseFailOn(raw string) (m.Severity, error) {
	if raw == "" {
		return "", nil
	}

	severity := m.Severity(raw)
	if !severity.Valid() {
		return "", fmt.Errorf("invalid --fail-on severity %q", raw)
	}

	return severity, nil
}
