package prices

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/internal/cmd/application"
	"github.com/agentstation/artcards/internal/cmd/output"
)

func newStatusCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the progress of the current pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			status, err := client.PriceStatus(cmd.Context())
			if err != nil {
				return err
			}

			var data any = status
			if output.DetectFormat(app.OutputFormat()) == output.FormatTable {
				data = output.StatusTable(status)
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), data)
		},
	}
}

func newResetCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Abandon the pass in progress",
		Long: `Reset clears the persisted cursor so the next refresh starts at the
first row. Prices already written stay in the ledger.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			if err := client.ResetCursor(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Price refresh cursor reset")
			return err
		},
	}
}
