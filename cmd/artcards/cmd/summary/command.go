// Package summary provides the summary command.
package summary

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/internal/cmd/application"
	"github.com/agentstation/artcards/internal/cmd/output"
)

// NewCommand creates the summary command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "summary",
		GroupID: "management",
		Short:   "Rebuild the collection summary",
		Long: `Summary recomputes the Collection Summary sheet from both ledgers:
quantity owned and market value per set, with a grand total.
Only regular cards contribute to market value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			rows, err := client.RebuildSummary(cmd.Context())
			if err != nil {
				return err
			}

			var data any = rows
			if output.DetectFormat(app.OutputFormat()) == output.FormatTable {
				data = output.SummaryTable(rows)
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), data)
		},
	}
}
