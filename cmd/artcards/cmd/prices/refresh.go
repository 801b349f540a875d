package prices

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/internal/cmd/application"
	"github.com/agentstation/artcards/internal/cmd/output"
	pricesync "github.com/agentstation/artcards/pkg/sync"
)

func newRefreshCommand(app application.Application) *cobra.Command {
	var (
		restart   bool
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the next batch of prices",
		Example: `  artcards prices refresh                  # Continue the current pass
  artcards prices refresh --restart        # Start over at the first row
  artcards prices refresh --batch-size 50  # Smaller batch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			var opts []pricesync.Option
			if restart {
				opts = append(opts, pricesync.WithRestart(true))
			}
			if batchSize > 0 {
				opts = append(opts, pricesync.WithBatchSize(batchSize))
			}

			result, err := client.RefreshPrices(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			app.Logger().Info().Str("run_id", result.RunID).Msg(result.Summary())

			var data any = result
			if output.DetectFormat(app.OutputFormat()) == output.FormatTable {
				data = output.BatchTable(result)
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), data)
		},
	}

	cmd.Flags().BoolVar(&restart, "restart", false, "abandon the pass in progress and start at the first row")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "rows to refresh in this batch (default from config)")
	return cmd
}
