package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/model"
	"github.com/jakechorley/shift-rota/pkg/core/services"
)

// AddEmployeeCmd creates the addEmployee command
func AddEmployeeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addEmployee <name>",
		Short: "Add an employee to the roster",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			senior, _ := cmd.Flags().GetBool("senior")
			sabbath, _ := cmd.Flags().GetBool("sabbath")
			name := strings.Join(args, " ")

			app.Logger.Debug("addEmployee command",
				zap.String("name", name),
				zap.Bool("senior", senior),
				zap.Bool("sabbath", sabbath))

			emp, err := services.AddEmployee(app.Ctx, app.Database, app.Logger, name, senior, sabbath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Added %s (%s) %s\n\n", emp.Name, emp.ID, describeEmployee(*emp))
			return nil
		},
	}

	cmd.Flags().Bool("senior", false, "Employee is senior")
	cmd.Flags().Bool("sabbath", false, "Employee observes the Sabbath")

	return cmd
}

// ListEmployeesCmd creates the listEmployees command
func ListEmployeesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listEmployees",
		Short: "List the roster in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := services.ListEmployees(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d employees:\n\n", len(employees))
			for _, emp := range employees {
				fmt.Fprintf(out, "- %s (%s) %s", emp.Name, emp.ID, describeEmployee(emp))
				if n := len(emp.Constraints); n > 0 {
					fmt.Fprintf(out, " %s[%d constraints]%s", colorRed, n, colorReset)
				}
				if n := len(emp.Preferences); n > 0 {
					fmt.Fprintf(out, " %s[%d preferences]%s", colorGreen, n, colorReset)
				}
				fmt.Fprintln(out)
			}

			return nil
		},
	}
}

func describeEmployee(emp model.Employee) string {
	role := "junior"
	if emp.IsSenior {
		role = "senior"
	}
	if emp.IsSabbathObservant {
		return role + ", Sabbath observant"
	}
	return role
}
