package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/services"
)

// AllocateScheduleCmd creates the allocateSchedule command
func AllocateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocateSchedule",
		Short: "Assign employees to every slot of the latest schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			app.Logger.Debug("allocateSchedule command", zap.Bool("dry_run", dryRun))

			opts, err := app.Cfg.AllocatorOptions()
			if err != nil {
				return err
			}

			result, err := services.AllocateSchedule(app.Ctx, app.Database, app.Logger, opts, dryRun)
			if err != nil {
				return err
			}

			outcome := result.Outcome
			out := cmd.OutOrStdout()

			if result.Saved {
				fmt.Fprintf(out, "\n✓ Schedule %s allocated\n\n", result.Schedule.ID)
			} else {
				fmt.Fprintf(out, "\n%sDRY RUN%s schedule %s not saved\n\n", colorDim, colorReset, result.Schedule.ID)
			}

			fmt.Fprintf(out, "Slots:         %d\n", len(outcome.Assignments))
			if outcome.FullyStaffed {
				fmt.Fprintf(out, "Fully staffed: %syes%s\n", colorGreen, colorReset)
			} else {
				fmt.Fprintf(out, "Fully staffed: %sno%s\n", colorRed, colorReset)
			}

			if len(outcome.Understaffed) > 0 {
				fmt.Fprintf(out, "\n%sUnderstaffed slots:%s\n", colorYellow, colorReset)
				for _, u := range outcome.Understaffed {
					fmt.Fprintf(out, "  %s missing %d senior(s), %d junior(s)\n", u.Slot, u.MissingSeniors, u.MissingJuniors)
				}
			}

			if len(outcome.ValidationErrors) > 0 {
				fmt.Fprintf(out, "\n%sValidation errors:%s\n", colorRed, colorReset)
				for _, v := range outcome.ValidationErrors {
					fmt.Fprintf(out, "  %s [%s] %s\n", v.ShiftID, v.CriterionName, v.Description)
				}
			}

			fmt.Fprintf(out, "\nShifts per employee:\n")
			for _, emp := range outcome.Employees {
				fmt.Fprintf(out, "  %-24s %d\n", emp.Name, emp.ShiftCount)
			}
			fmt.Fprintln(out)

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}
