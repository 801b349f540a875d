package prices

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/internal/cmd/application"
)

func newScheduleCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run price batches on the configured schedule",
		Long: `Schedule runs one price batch per tick of the configured cron spec
(ARTCARDS_SCHEDULE, default "@every 5m") until interrupted. A tick is
skipped while the previous batch is still running.`,
		Example: `  artcards prices schedule
  ARTCARDS_SCHEDULE="*/10 * * * *" artcards prices schedule`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := app.Client()
			if err != nil {
				return err
			}
			if err := client.StartSchedule(ctx); err != nil {
				return err
			}

			app.Logger().Info().Time("next", client.NextRun()).Msg("Waiting for scheduled batches, press Ctrl+C to stop")
			<-ctx.Done()
			return client.StopSchedule()
		},
	}
}
