package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/model"
	"github.com/jakechorley/shift-rota/pkg/core/services"
)

// ToggleConstraintCmd creates the toggleConstraint command
func ToggleConstraintCmd(app *AppContext) *cobra.Command {
	return toggleCmd(app, "toggleConstraint", "Mark or unmark a slot the employee cannot work", model.AnnotationConstraint)
}

// TogglePreferenceCmd creates the togglePreference command
func TogglePreferenceCmd(app *AppContext) *cobra.Command {
	return toggleCmd(app, "togglePreference", "Mark or unmark a slot the employee would like to work", model.AnnotationPreference)
}

func toggleCmd(app *AppContext, name, short string, kind model.AnnotationKind) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <employee_id> <date> <day|night>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			shiftID, err := parseShiftID(args[1], args[2])
			if err != nil {
				return err
			}

			app.Logger.Debug(name+" command",
				zap.String("employee_id", args[0]),
				zap.String("shift", shiftID.String()))

			result, err := services.ToggleAnnotation(app.Ctx, app.Database, app.Logger, args[0], shiftID, kind)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Applied {
				fmt.Fprintf(out, "\n%sNo employee with ID %s, nothing changed%s\n\n", colorYellow, args[0], colorReset)
				return nil
			}

			state := "cleared"
			if result.Annotation != model.AnnotationNone {
				state = string(result.Annotation)
			}
			fmt.Fprintf(out, "\n✓ %s on %s: %s\n\n", args[0], shiftID, state)
			return nil
		},
	}
}

// parseShiftID reads a slot from its date and shift type arguments
func parseShiftID(date, shiftType string) (model.ShiftID, error) {
	d, err := model.ParseDate(date)
	if err != nil {
		return model.ShiftID{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}

	t, err := model.ParseShiftType(shiftType)
	if err != nil {
		return model.ShiftID{}, err
	}

	return model.ShiftID{Date: d, Type: t}, nil
}
