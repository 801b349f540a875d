package prices

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/internal/cmd/application"
	"github.com/agentstation/artcards/internal/cmd/output"
	"github.com/agentstation/artcards/pkg/constants"
)

func newHistoryCommand(app application.Application) *cobra.Command {
	var (
		runs   bool
		limit  int
		window = constants.HistoryWindow
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show price changes or recent batch runs",
		Example: `  artcards prices history               # Changes over the last week
  artcards prices history --window 720h # Changes over 30 days
  artcards prices history --runs        # Recent batch runs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := app.Client()
			if err != nil {
				return err
			}
			table := output.DetectFormat(app.OutputFormat()) == output.FormatTable

			if runs {
				list, err := client.RecentRuns(ctx, limit)
				if err != nil {
					return err
				}
				var data any = list
				if table {
					data = output.RunsTable(list)
				}
				return output.Write(cmd.OutOrStdout(), app.OutputFormat(), data)
			}

			changes, err := client.PriceHistory(ctx, window)
			if err != nil {
				return err
			}
			var data any = changes
			if table {
				data = output.ChangesTable(changes)
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), data)
		},
	}

	cmd.Flags().DurationVar(&window, "window", window, "look-back for price changes")
	cmd.Flags().BoolVar(&runs, "runs", false, "list recent batch runs instead of price changes")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to list")
	return cmd
}
