// Package sort provides the sort command.
package sort

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/internal/cmd/application"
)

// NewCommand creates the sort command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "sort",
		GroupID: "management",
		Short:   "Sort both ledgers by set and collector number",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			if err := client.SortLedgers(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Ledgers sorted")
			return err
		},
	}
}
