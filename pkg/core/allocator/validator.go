package allocator

import "fmt"

// ValidateSchedule validates the final run state against the quota rules and all provided
// criteria. An empty slice indicates the schedule is valid. Under-staffing is not a
// validation error; see FindUnderstaffedSlots.
func ValidateSchedule(state *RunState, criteria []Criterion) []ShiftValidationError {
	errors := validateQuotas(state)

	for _, criterion := range criteria {
		errors = append(errors, criterion.ValidateSchedule(state)...)
	}

	return errors
}

// validateQuotas reports slots over quota and employees listed twice on one slot
func validateQuotas(state *RunState) []ShiftValidationError {
	var errors []ShiftValidationError

	for i, assignment := range state.Assignments {
		quota := state.Quota(i)
		id := assignment.Slot.ID()

		if len(assignment.Seniors) > quota.Seniors {
			errors = append(errors, ShiftValidationError{
				SlotIndex:     i,
				ShiftID:       id,
				CriterionName: "Quota",
				Description:   fmt.Sprintf("%d seniors assigned, quota is %d", len(assignment.Seniors), quota.Seniors),
			})
		}
		if len(assignment.Juniors) > quota.Juniors {
			errors = append(errors, ShiftValidationError{
				SlotIndex:     i,
				ShiftID:       id,
				CriterionName: "Quota",
				Description:   fmt.Sprintf("%d juniors assigned, quota is %d", len(assignment.Juniors), quota.Juniors),
			})
		}

		seen := make(map[string]bool)
		for _, employeeID := range assignment.EmployeeIDs() {
			if seen[employeeID] {
				errors = append(errors, ShiftValidationError{
					SlotIndex:     i,
					ShiftID:       id,
					CriterionName: "Quota",
					Description:   fmt.Sprintf("Employee '%s' is assigned to the slot more than once", employeeID),
				})
			}
			seen[employeeID] = true
		}
	}

	return errors
}

// FindUnderstaffedSlots lists every slot with fewer assignees than its quota
func FindUnderstaffedSlots(state *RunState) []UnderstaffedSlot {
	understaffed := []UnderstaffedSlot{}

	for i, assignment := range state.Assignments {
		quota := state.Quota(i)
		missingSeniors := max(quota.Seniors-len(assignment.Seniors), 0)
		missingJuniors := max(quota.Juniors-len(assignment.Juniors), 0)

		if missingSeniors == 0 && missingJuniors == 0 {
			continue
		}
		understaffed = append(understaffed, UnderstaffedSlot{
			SlotIndex:      i,
			Slot:           assignment.Slot,
			MissingSeniors: missingSeniors,
			MissingJuniors: missingJuniors,
		})
	}

	return understaffed
}
