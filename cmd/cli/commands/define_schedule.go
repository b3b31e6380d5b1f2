package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/services"
)

// DefineScheduleCmd creates the defineSchedule command
func DefineScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defineSchedule <start_date> <end_date>",
		Short: "Define a new schedule covering the given dates (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startBoundary, _ := cmd.Flags().GetString("start-boundary")
			endBoundary, _ := cmd.Flags().GetString("end-boundary")

			app.Logger.Debug("defineSchedule command",
				zap.String("start", args[0]),
				zap.String("end", args[1]))

			result, err := services.DefineSchedule(app.Ctx, app.Database, app.Logger, services.DefineScheduleParams{
				Start:         args[0],
				End:           args[1],
				StartBoundary: startBoundary,
				EndBoundary:   endBoundary,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Schedule created successfully!\n\n")
			fmt.Fprintf(out, "Schedule ID: %s\n", result.Schedule.ID)
			fmt.Fprintf(out, "Start:       %s (%s)\n", result.Schedule.StartDate, result.Schedule.StartBoundary)
			fmt.Fprintf(out, "End:         %s (%s)\n", result.Schedule.EndDate, result.Schedule.EndBoundary)
			fmt.Fprintf(out, "Slots:       %d\n\n", len(result.Slots))

			for i, slot := range result.Slots {
				fmt.Fprintf(out, "  %2d. %s %s\n", i+1, slot.Date.Time().Format("2006-01-02 (Mon)"), slot.Type)
			}
			fmt.Fprintln(out)

			return nil
		},
	}

	cmd.Flags().String("start-boundary", "morning", "First shift of the start date (morning or evening)")
	cmd.Flags().String("end-boundary", "evening", "Last shift of the end date (morning or evening)")

	return cmd
}
