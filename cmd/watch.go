package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ShieldCI/laravel-sub000/internal/config"
	"github.com/ShieldCI/laravel-sub000/internal/controller"
	"github.com/ShieldCI/laravel-sub000/internal/domain"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

var watchJobsFlag int
var watchOnlyFlags []string
var watchSkipFlags []string

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-run the check on every change",
		Long: `Watch runs the check once, then re-runs it whenever files under the
path change. Changes are debounced; stop with Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := "."
			if len(args) == 1 {
				base = args[0]
			}

			cfg, err := config.Load(configFlag, base)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			workflow, _ := newWorkflow()
			ui := controller.NewSimpleUI(cmd)
			out := cmd.OutOrStdout()

			return workflow.Watch(ctx, domain.CheckArgs{
				Base:   base,
				Config: cfg,
				Only:   watchOnlyFlags,
				Skip:   watchSkipFlags,
				Jobs:   watchJobsFlag,
			}, func(report m.Report, err error) {
				if err != nil {
					fmt.Fprintf(out, "run failed: %v\n", err)
					return
				}

				_ = ui.Render(report)
				fmt.Fprintln(out, "\nwatching for changes...")
			})
		},
	}

	cmd.Flags().IntVarP(&watchJobsFlag, "jobs", "j", 0, "number of analyzers to run in parallel (default from config)")
	cmd.Flags().StringSliceVar(&watchOnlyFlags, "only", nil, "run only the listed analyzer ids")
	cmd.Flags().StringSliceVar(&watchSkipFlags, "skip", nil, "skip the listed analyzer ids")

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
