package allocator

import (
	"fmt"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// ConstraintCriterion rejects employees who declared they cannot work a slot.
//
// Availability:
//   - Returns false if the slot id is in the employee's constraint set
//
// Validation:
//   - Reports any assignment to a slot the employee is constrained on
type ConstraintCriterion struct{}

func NewConstraintCriterion() *ConstraintCriterion {
	return &ConstraintCriterion{}
}

func (c *ConstraintCriterion) Name() string {
	return "Constraint"
}

func (c *ConstraintCriterion) IsAvailable(state *RunState, emp *model.Employee, slot model.ShiftSlot) bool {
	return !emp.IsConstrained(slot.ID())
}

func (c *ConstraintCriterion) ValidateSchedule(state *RunState) []ShiftValidationError {
	var errors []ShiftValidationError

	for i, assignment := range state.Assignments {
		id := assignment.Slot.ID()
		for _, employeeID := range assignment.EmployeeIDs() {
			emp := state.Employee(employeeID)
			if emp == nil || !emp.IsConstrained(id) {
				continue
			}
			errors = append(errors, ShiftValidationError{
				SlotIndex:     i,
				ShiftID:       id,
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("Employee '%s' is assigned to %s despite a constraint", emp.Name, id),
			})
		}
	}

	return errors
}
