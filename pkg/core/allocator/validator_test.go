package allocator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// newTestState builds a run state with the given assignments already in place
func newTestState(employees []model.Employee, assignments ...model.Assignment) *RunState {
	working := make([]*model.Employee, len(employees))
	for i := range employees {
		emp := employees[i].Clone()
		working[i] = &emp
	}

	slots := make([]model.ShiftSlot, len(assignments))
	pointers := make([]*model.Assignment, len(assignments))
	for i := range assignments {
		a := assignments[i].Clone()
		slots[i] = a.Slot
		pointers[i] = &a
	}

	return &RunState{
		Slots:          slots,
		Assignments:    pointers,
		Employees:      working,
		Quotas:         model.DefaultQuotas(),
		Clock:          Clock{Mode: RestClockDate, DayStartHour: 8, NightStartHour: 20},
		RestPeriod:     12 * time.Hour,
		SabbathDays:    map[time.Weekday]bool{time.Friday: true, time.Saturday: true},
		SabbathPairing: SabbathPairingLegacy,
		Paired:         make(map[pairKey]time.Time),
		reservations:   make(map[int][]reservation),
	}
}

func TestValidateSchedule_Valid(t *testing.T) {
	state := newTestState(
		[]model.Employee{senior("S1"), junior("J1"), junior("J2")},
		model.Assignment{Slot: daySlot("2024-01-07"), Seniors: []string{"S1"}, Juniors: []string{"J1", "J2"}},
		model.Assignment{Slot: daySlot("2024-01-08"), Seniors: []string{"S1"}, Juniors: []string{"J1"}},
	)

	assert.Empty(t, ValidateSchedule(state, DefaultCriteria()))
}

func TestValidateSchedule_Quota(t *testing.T) {
	state := newTestState(
		[]model.Employee{senior("S1"), senior("S2"), junior("J1")},
		model.Assignment{Slot: nightSlot("2024-01-07"), Seniors: []string{"S1", "S2"}, Juniors: []string{"J1", "J1"}},
	)

	errs := ValidateSchedule(state, nil)
	require.Len(t, errs, 3)
	for _, err := range errs {
		assert.Equal(t, "Quota", err.CriterionName)
		assert.Equal(t, 0, err.SlotIndex)
	}
	assert.Contains(t, errs[0].Description, "2 seniors")
	assert.Contains(t, errs[1].Description, "2 juniors")
	assert.Contains(t, errs[2].Description, "J1")
}

func TestValidateSchedule_Constraint(t *testing.T) {
	slot := daySlot("2024-01-07")
	s1 := senior("S1")
	s1.Constraints[slot.ID()] = true

	state := newTestState(
		[]model.Employee{s1},
		model.Assignment{Slot: slot, Seniors: []string{"S1"}, Juniors: []string{}},
	)

	errs := NewConstraintCriterion().ValidateSchedule(state)
	require.Len(t, errs, 1)
	assert.Equal(t, "Constraint", errs[0].CriterionName)
	assert.Equal(t, slot.ID(), errs[0].ShiftID)
}

func TestValidateSchedule_RestPeriod(t *testing.T) {
	state := newTestState(
		[]model.Employee{senior("S1")},
		model.Assignment{Slot: daySlot("2024-01-07"), Seniors: []string{"S1"}, Juniors: []string{}},
		model.Assignment{Slot: nightSlot("2024-01-07"), Seniors: []string{"S1"}, Juniors: []string{}},
	)

	errs := NewRestPeriodCriterion().ValidateSchedule(state)
	require.Len(t, errs, 1)
	assert.Equal(t, "RestPeriod", errs[0].CriterionName)
	assert.Equal(t, 1, errs[0].SlotIndex)

	// The same pair is fine once slots are stamped at their start hour
	state.Clock.Mode = RestClockShiftStart
	assert.Empty(t, NewRestPeriodCriterion().ValidateSchedule(state))
}

func TestValidateSchedule_PairedAssignmentsAreExempt(t *testing.T) {
	state := newTestState(
		[]model.Employee{observant(senior("S1"))},
		model.Assignment{Slot: nightSlot("2024-01-05"), Seniors: []string{"S1"}, Juniors: []string{}},
		model.Assignment{Slot: daySlot("2024-01-06"), Seniors: []string{"S1"}, Juniors: []string{}},
		model.Assignment{Slot: nightSlot("2024-01-06"), Seniors: []string{"S1"}, Juniors: []string{}},
	)
	saturday := model.MustParseDate("2024-01-06").Time()
	state.Paired[pairKey{EmployeeID: "S1", SlotIndex: 0}] = saturday
	state.Paired[pairKey{EmployeeID: "S1", SlotIndex: 1}] = saturday

	errs := NewRestPeriodCriterion().ValidateSchedule(state)

	// Saturday night still has to respect rest after the pair
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].SlotIndex)
}

func TestFindUnderstaffedSlots(t *testing.T) {
	state := newTestState(
		[]model.Employee{senior("S1"), junior("J1")},
		model.Assignment{Slot: daySlot("2024-01-07"), Seniors: []string{"S1"}, Juniors: []string{"J1"}},
		model.Assignment{Slot: nightSlot("2024-01-07"), Seniors: []string{}, Juniors: []string{}},
		model.Assignment{Slot: daySlot("2024-01-08"), Seniors: []string{"S1"}, Juniors: []string{"J1", "S2"}},
	)

	understaffed := FindUnderstaffedSlots(state)
	require.Len(t, understaffed, 2)

	assert.Equal(t, UnderstaffedSlot{SlotIndex: 0, Slot: daySlot("2024-01-07"), MissingSeniors: 0, MissingJuniors: 1}, understaffed[0])
	assert.Equal(t, UnderstaffedSlot{SlotIndex: 1, Slot: nightSlot("2024-01-07"), MissingSeniors: 1, MissingJuniors: 1}, understaffed[1])
}
