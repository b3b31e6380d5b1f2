package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/services"
)

// ViewScheduleCmd creates the viewSchedule command
func ViewScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewSchedule [schedule_id]",
		Short: "View a schedule with its assignments (defaults to latest schedule)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scheduleID string
			if len(args) > 0 {
				scheduleID = args[0]
			}

			app.Logger.Debug("viewSchedule command", zap.String("schedule_id", scheduleID))

			opts, err := app.Cfg.AllocatorOptions()
			if err != nil {
				return err
			}

			view, err := services.ViewSchedule(app.Ctx, app.Database, app.Logger, scheduleID, opts)
			if err != nil {
				return err
			}

			renderSchedule(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func renderSchedule(out io.Writer, view *services.ScheduleView) {
	fmt.Fprintf(out, "\nSchedule %s: %s (%s) to %s (%s)\n\n",
		view.Schedule.ID,
		view.Schedule.StartDate, view.Schedule.StartBoundary,
		view.Schedule.EndDate, view.Schedule.EndBoundary)

	if !view.Allocated {
		fmt.Fprintf(out, "%sNot allocated yet. Run allocateSchedule first.%s\n\n", colorDim, colorReset)
	}

	// Calculate column widths
	seniorColWidth := len("Seniors")
	for _, row := range view.Rows {
		if w := visibleWidth(row.Seniors, row.MissingSeniors); w > seniorColWidth {
			seniorColWidth = w
		}
	}
	seniorColWidth += 2

	fmt.Fprintf(out, "%-18s%-7s%-*s%s\n", "Date", "Shift", seniorColWidth, "Seniors", "Juniors")
	fmt.Fprintln(out, strings.Repeat("-", 25+seniorColWidth+len("Juniors")))

	for _, row := range view.Rows {
		seniors := formatNames(row.Seniors, row.MissingSeniors)
		pad := seniorColWidth - visibleWidth(row.Seniors, row.MissingSeniors)
		fmt.Fprintf(out, "%-18s%-7s%s%s%s\n",
			row.Slot.Date.Time().Format("2006-01-02 (Mon)"),
			row.Slot.Type,
			seniors,
			strings.Repeat(" ", pad),
			formatNames(row.Juniors, row.MissingJuniors))
	}

	fmt.Fprintf(out, "\n%s*%s preferred  %s!%s working on Sabbath  %s?%s unfilled\n\n",
		colorGreen, colorReset, colorRed, colorReset, colorYellow, colorReset)
}

// formatNames joins the assigned names with their markers and one "?" per unfilled place
func formatNames(assigned []services.AssignedEmployee, missing int) string {
	parts := make([]string, 0, len(assigned)+missing)
	for _, a := range assigned {
		name := a.Name
		if a.Preferred {
			name += colorGreen + "*" + colorReset
		}
		if a.OnSabbath {
			name += colorRed + "!" + colorReset
		}
		parts = append(parts, name)
	}
	for range missing {
		parts = append(parts, colorYellow+"?"+colorReset)
	}
	return strings.Join(parts, ", ")
}

// visibleWidth is the printed width of formatNames, ignoring color codes
func visibleWidth(assigned []services.AssignedEmployee, missing int) int {
	width := 0
	for _, a := range assigned {
		width += len(a.Name)
		if a.Preferred {
			width++
		}
		if a.OnSabbath {
			width++
		}
	}
	width += missing
	if n := len(assigned) + missing; n > 1 {
		width += 2 * (n - 1)
	}
	return width
}
