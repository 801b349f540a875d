// Package imports provides the import command and its subcommands.
package imports

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/internal/cmd/application"
	"github.com/agentstation/artcards/internal/cmd/output"
	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
)

// NewCommand creates the import command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import",
		GroupID: "core",
		Short:   "Reconcile price lists and exports into the ledgers",
		Long: `Import merges quantities and prices from outside lists into the ledgers.

A pasted price list goes through two steps: "import parse" reads the
` + constants.SheetRaw + ` sheet, stages regular cards on the ` + constants.SheetStaging + `
sheet for review and updates signed quantities directly; "import apply"
then merges the staged rows. A marketplace export skips the review with
"import csv".`,
	}
	cmd.AddCommand(
		newParseCommand(app),
		newApplyCommand(app),
		newCSVCommand(app),
	)
	return cmd
}

func newParseCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Stage the pasted list from the " + constants.SheetRaw + " sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			result, err := client.ParseImport(cmd.Context())
			if stderrors.Is(err, errors.ErrRawImportCreated) {
				_, err = fmt.Fprintf(cmd.OutOrStdout(),
					"Created the %q sheet. Paste your price list there and run this command again.\n", constants.SheetRaw)
				return err
			}
			if err != nil {
				return err
			}
			app.Logger().Info().Msg(result.Summary())

			var data any = result
			if output.DetectFormat(app.OutputFormat()) == output.FormatTable {
				data = output.TextImportTable(result)
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), data)
		},
	}
}

func newApplyCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Merge the " + constants.SheetStaging + " sheet into the ledgers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			result, err := client.ApplyImport(cmd.Context())
			if err != nil {
				return err
			}
			app.Logger().Info().Msg(result.Summary())

			var data any = result
			if output.DetectFormat(app.OutputFormat()) == output.FormatTable {
				data = output.TableImportTable(result)
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), data)
		},
	}
}

func newCSVCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "csv <file>",
		Short: "Import a marketplace export (.csv, .xlsx or .xls)",
		Example: `  artcards import csv ~/Downloads/tcgplayer-export.csv
  artcards import csv collection.xlsx -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return errors.WrapIO("open", path, err)
			}
			defer func() { _ = f.Close() }()

			client, err := app.Client()
			if err != nil {
				return err
			}
			result, err := client.ImportCSV(cmd.Context(), path, f)
			if err != nil {
				return err
			}
			app.Logger().Info().Str("file", path).Msg(result.Summary())

			var data any = result
			if output.DetectFormat(app.OutputFormat()) == output.FormatTable {
				data = output.TableImportTable(result)
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), data)
		},
	}
}
