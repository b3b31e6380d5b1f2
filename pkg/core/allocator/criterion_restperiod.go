package allocator

import (
	"fmt"
	"time"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// RestPeriodCriterion enforces the minimum rest between two shifts of the same employee.
//
// Availability:
//   - Returns false if fewer than state.RestPeriod hours separate the employee's
//     LastShiftDate from the slot's stamp
//
// Validation:
//   - Replays the run in slot order and reports any assignment made too soon after the
//     previous one. Assignments made through Sabbath pairing are exempt.
type RestPeriodCriterion struct{}

func NewRestPeriodCriterion() *RestPeriodCriterion {
	return &RestPeriodCriterion{}
}

func (c *RestPeriodCriterion) Name() string {
	return "RestPeriod"
}

func (c *RestPeriodCriterion) IsAvailable(state *RunState, emp *model.Employee, slot model.ShiftSlot) bool {
	return state.HoursSinceLastShift(emp, slot) >= state.RestPeriod.Hours()
}

func (c *RestPeriodCriterion) ValidateSchedule(state *RunState) []ShiftValidationError {
	var errors []ShiftValidationError

	lastStamp := make(map[string]time.Time)

	for i, assignment := range state.Assignments {
		stamp := state.Clock.Stamp(assignment.Slot)

		for _, employeeID := range assignment.EmployeeIDs() {
			key := pairKey{EmployeeID: employeeID, SlotIndex: i}

			if pairedStamp, ok := state.Paired[key]; ok {
				lastStamp[employeeID] = pairedStamp
				continue
			}

			if last, ok := lastStamp[employeeID]; ok {
				if rest := stamp.Sub(last); rest < state.RestPeriod {
					errors = append(errors, ShiftValidationError{
						SlotIndex:     i,
						ShiftID:       assignment.Slot.ID(),
						CriterionName: c.Name(),
						Description: fmt.Sprintf("Employee '%s' assigned to %s after only %.0fh of rest (minimum %.0fh)",
							employeeID, assignment.Slot.ID(), rest.Hours(), state.RestPeriod.Hours()),
					})
				}
			}
			lastStamp[employeeID] = stamp
		}
	}

	return errors
}
