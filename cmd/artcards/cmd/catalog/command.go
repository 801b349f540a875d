// Package catalog provides the catalog command.
package catalog

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/internal/cmd/application"
	"github.com/agentstation/artcards/internal/cmd/output"
)

// NewCommand creates the catalog command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		GroupID: "core",
		Short:   "Mirror the art-series catalog into the ledgers",
	}
	cmd.AddCommand(newRefreshCommand(app))
	return cmd
}

func newRefreshCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild both ledgers from the catalog API",
		Long: `Refresh lists every art-series card from the catalog API and rewrites
the Regular and Signed ledgers from it, sorted by set and collector number.

Quantities and signed listed prices already entered for a card are kept.
Nothing is written when the listing fails part way.`,
		Example: `  artcards catalog refresh
  artcards catalog refresh -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := app.Client()
			if err != nil {
				return err
			}

			result, err := client.RefreshCatalog(ctx)
			if err != nil {
				return err
			}

			app.Logger().Info().
				Int("items", len(result.Items)).
				Dur("duration", result.Duration).
				Msg("Catalog refreshed")

			var data any = result
			if output.DetectFormat(app.OutputFormat()) == output.FormatTable {
				data = output.CatalogTable(result)
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), data)
		},
	}
}
