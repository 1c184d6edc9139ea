package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ShieldCI/laravel-sub000/internal/controller"
	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

var viewPlainFlag bool

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [report.json]",
		Short: "View a previously saved report",
		Long: `View re-renders a saved report. Without an argument it loads the most
recent snapshot under .shieldci/ in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var report m.Report
			var err error

			if len(args) == 1 {
				report, err = reportStore.Load(m.Path(args[0]))
			} else {
				base, baseErr := fsAdapter.NormalizeBase(".")
				if baseErr != nil {
					return baseErr
				}

				report, _, err = reportStore.Latest(base)
			}

			if err != nil {
				return err
			}

			ui := controller.NewUI(cmd, viewPlainFlag)

			return ui.Render(report)
		},
	}

	cmd.Flags().BoolVar(&viewPlainFlag, "plain", false, "plain output, no interactive browser")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
