package allocator

import "github.com/jakechorley/shift-rota/pkg/core/model"

// ShiftValidationError represents a validation error for a specific slot
type ShiftValidationError struct {
	SlotIndex     int
	ShiftID       model.ShiftID
	CriterionName string
	Description   string
}

// Criterion defines a hard availability rule.
// Every criterion must accept an employee for them to be a candidate for a slot.
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsAvailable reports whether the employee may be assigned to the slot given the
	// run's current state. Acts as a veto.
	IsAvailable(state *RunState, emp *model.Employee, slot model.ShiftSlot) bool

	// ValidateSchedule checks the finished run against this criterion.
	// Returns a slice of validation errors (empty if all valid)
	ValidateSchedule(state *RunState) []ShiftValidationError
}

// DefaultCriteria returns the availability predicate: no constraint on the slot, and
// enough rest since the last assignment
func DefaultCriteria() []Criterion {
	return []Criterion{
		NewConstraintCriterion(),
		NewRestPeriodCriterion(),
	}
}

// IsEmployeeAvailable returns true only if every criterion accepts the employee
func IsEmployeeAvailable(state *RunState, emp *model.Employee, slot model.ShiftSlot, criteria []Criterion) bool {
	for _, criterion := range criteria {
		if !criterion.IsAvailable(state, emp, slot) {
			return false
		}
	}
	return true
}
