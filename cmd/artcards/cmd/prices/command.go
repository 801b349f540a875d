// Package prices provides the prices command and its subcommands.
package prices

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/internal/cmd/application"
)

// NewCommand creates the prices command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prices",
		GroupID: "core",
		Short:   "Refresh market prices in resumable batches",
		Long: `Prices refreshes the market prices of the Regular ledger a batch at a
time. Each invocation continues where the previous one stopped; the batch
that reaches the end of the ledger completes the pass and rebuilds the
collection summary.`,
	}
	cmd.AddCommand(
		newRefreshCommand(app),
		newStatusCommand(app),
		newResetCommand(app),
		newScheduleCommand(app),
		newHistoryCommand(app),
	)
	return cmd
}
