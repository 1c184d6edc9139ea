package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ShieldCI/laravel-sub000/internal/config"
)

// analyzersCmd represents the analyzers command.
var analyzersCmd = newAnalyzersCmd()

func newAnalyzersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyzers",
		Short: "List the registered analyzers",
		Long:  "List every analyzer the current configuration enables, in execution order.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFlag, ".")
			if err != nil {
				return err
			}

			workflow, _ := newWorkflow()

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Category", "Name", "Description"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetAutoWrapText(false)

			for _, meta := range workflow.Analyzers(cfg) {
				table.Append([]string{meta.ID, string(meta.Category), meta.Name, meta.Description})
			}

			table.Render()

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzersCmd)
}
