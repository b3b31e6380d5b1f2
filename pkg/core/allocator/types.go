package allocator

import (
	"time"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// RestClock selects how a slot is turned into an instant for rest-period arithmetic
type RestClock string

const (
	// RestClockDate stamps every slot at midnight of its date, so two slots on the
	// same date are 0h apart
	RestClockDate RestClock = "date"

	// RestClockShiftStart stamps slots at their start hour (DayStartHour / NightStartHour)
	RestClockShiftStart RestClock = "shift-start"
)

// Clock converts slots into stamps according to the configured RestClock
type Clock struct {
	Mode           RestClock
	DayStartHour   int
	NightStartHour int
}

// Stamp returns the instant the slot counts as starting
func (c Clock) Stamp(slot model.ShiftSlot) time.Time {
	stamp := slot.Date.Time()
	if c.Mode != RestClockShiftStart {
		return stamp
	}
	if slot.Type == model.ShiftNight {
		return stamp.Add(time.Duration(c.NightStartHour) * time.Hour)
	}
	return stamp.Add(time.Duration(c.DayStartHour) * time.Hour)
}

// listKind names one of the two assignment lists of a slot
type listKind int

const (
	seniorList listKind = iota
	juniorList
)

func (k listKind) String() string {
	if k == seniorList {
		return "senior"
	}
	return "junior"
}

// pairKey identifies one (employee, slot) assignment
type pairKey struct {
	EmployeeID string
	SlotIndex  int
}

// reservation holds an employee on a later slot as the second half of a Sabbath pair
type reservation struct {
	EmployeeID string
	List       listKind
}

// RunState is the working state of a single assignment run.
// Employees are private copies; nothing here is visible to the caller until the run ends.
type RunState struct {
	// Slots in generation order
	Slots []model.ShiftSlot

	// Assignments parallel to Slots
	Assignments []*model.Assignment

	// Employees are the run's working copies in roster order
	Employees []*model.Employee

	// Quotas per shift type
	Quotas map[model.ShiftType]model.Quota

	// Clock used to stamp slots
	Clock Clock

	// RestPeriod is the minimum time between two stamps for the same employee
	RestPeriod time.Duration

	// SabbathDays are the weekdays that trigger the pairing rule
	SabbathDays map[time.Weekday]bool

	// SabbathPairing selects the pairing behaviour
	SabbathPairing SabbathPairing

	// Paired records assignments made through Sabbath pairing, mapped to the stamp
	// the employee's LastShiftDate was set to
	Paired map[pairKey]time.Time

	reservations map[int][]reservation
}

// Quota returns the staffing quota for the slot at index i
func (s *RunState) Quota(i int) model.Quota {
	return s.Quotas[s.Slots[i].Type]
}

// IsSabbath reports whether the date falls on a configured Sabbath weekday
func (s *RunState) IsSabbath(d model.Date) bool {
	return s.SabbathDays[d.Weekday()]
}

// Employee returns the working copy for the given id
func (s *RunState) Employee(id string) *model.Employee {
	for _, emp := range s.Employees {
		if emp.ID == id {
			return emp
		}
	}
	return nil
}

// HoursSinceLastShift returns the hours between the employee's last stamp and the slot's
// stamp. An employee with no shift yet is measured from the Unix epoch.
func (s *RunState) HoursSinceLastShift(emp *model.Employee, slot model.ShiftSlot) float64 {
	last := time.Unix(0, 0).UTC()
	if emp.LastShiftDate != nil {
		last = *emp.LastShiftDate
	}
	return s.Clock.Stamp(slot).Sub(last).Hours()
}
