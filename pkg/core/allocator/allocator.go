package allocator

import (
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// Allocator runs one greedy assignment pass over a slot sequence
type Allocator struct {
	criteria []Criterion
	state    *RunState
	logger   *zap.Logger
}

// Options tune the engine. Zero values fall back to the defaults noted on each field.
type Options struct {
	// RestPeriod is the minimum gap between two shifts (default 12h)
	RestPeriod time.Duration

	// RestClock selects how slots are stamped (default RestClockDate)
	RestClock RestClock

	// DayStartHour and NightStartHour are used by RestClockShiftStart (default 8 and 20)
	DayStartHour   int
	NightStartHour int

	// Quotas per shift type (default model.DefaultQuotas)
	Quotas map[model.ShiftType]model.Quota

	// SabbathDays trigger the pairing rule (default Friday and Saturday)
	SabbathDays []time.Weekday

	// SabbathPairing selects the pairing behaviour (default SabbathPairingLegacy)
	SabbathPairing SabbathPairing
}

// AllocationConfig contains the inputs for a single run
type AllocationConfig struct {
	// Slots in generation order
	Slots []model.ShiftSlot

	// Employees is a snapshot of the roster. It is copied, never modified.
	Employees []model.Employee

	// Criteria form the availability predicate (default DefaultCriteria)
	Criteria []Criterion

	Options Options

	// Logger receives run diagnostics (default no-op)
	Logger *zap.Logger
}

// UnderstaffedSlot describes a slot that ended the run short of its quota
type UnderstaffedSlot struct {
	SlotIndex      int
	Slot           model.ShiftSlot
	MissingSeniors int
	MissingJuniors int
}

// AllocationOutcome represents the result of an assignment run
type AllocationOutcome struct {
	// Assignments, one per slot in slot order
	Assignments []model.Assignment

	// Employees are the run's working copies with final ShiftCount and LastShiftDate
	Employees []model.Employee

	// Understaffed lists slots with fewer assignees than their quota.
	// This is an expected outcome, not an error.
	Understaffed []UnderstaffedSlot

	// ValidationErrors contains invariant breaches found in the final state
	ValidationErrors []ShiftValidationError

	// FullyStaffed is true when every slot met its quota and validation passed
	FullyStaffed bool
}

// Allocate runs the assignment engine once over every slot in order.
// Later slots see the effect of earlier assignments; nothing is ever undone.
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {
	// Nothing to do
	if len(config.Slots) == 0 || len(config.Employees) == 0 {
		return &AllocationOutcome{
			Assignments:      []model.Assignment{},
			Employees:        cloneEmployees(config.Employees),
			Understaffed:     []UnderstaffedSlot{},
			ValidationErrors: []ShiftValidationError{},
			FullyStaffed:     len(config.Slots) == 0,
		}, nil
	}

	allocator, err := InitAllocation(config)
	if err != nil {
		return nil, err
	}

	allocator.logger.Debug("Starting assignment run",
		zap.Int("slots", len(allocator.state.Slots)),
		zap.Int("employees", len(allocator.state.Employees)),
		zap.String("rest_clock", string(allocator.state.Clock.Mode)),
		zap.String("sabbath_pairing", string(allocator.state.SabbathPairing)))

	for i := range allocator.state.Slots {
		allocator.allocateSlot(i)
	}

	return allocator.buildOutcome(), nil
}

// allocateSlot fills the senior list, then the junior list, then backfills juniors with seniors
func (a *Allocator) allocateSlot(i int) {
	slot := a.state.Slots[i]
	quota := a.state.Quota(i)
	assignment := a.state.Assignments[i]

	a.applyReservations(i)

	seniorPool, juniorPool := a.candidatePools(slot)

	a.fill(i, seniorPool, quota.Seniors, seniorList)
	a.fill(i, juniorPool, quota.Juniors, juniorList)

	if len(assignment.Juniors) < quota.Juniors {
		a.logger.Debug("Backfilling juniors with seniors",
			zapSlot(slot),
			zap.Int("missing", quota.Juniors-len(assignment.Juniors)))
		a.fill(i, seniorPool, quota.Juniors, juniorList)
	}

	a.logger.Debug("Slot allocated",
		zapSlot(slot),
		zap.Strings("seniors", assignment.Seniors),
		zap.Strings("juniors", assignment.Juniors))
}

// candidatePools splits available employees into seniors and juniors
func (a *Allocator) candidatePools(slot model.ShiftSlot) (seniors, juniors []*model.Employee) {
	for _, emp := range a.state.Employees {
		if !a.isAvailable(emp, slot) {
			continue
		}
		if emp.IsSenior {
			seniors = append(seniors, emp)
		} else {
			juniors = append(juniors, emp)
		}
	}
	return seniors, juniors
}

// fill takes ranked candidates from the pool until the list holds needed employees
// or the pool runs out. Availability is re-checked at take time.
func (a *Allocator) fill(i int, pool []*model.Employee, needed int, list listKind) {
	slot := a.state.Slots[i]
	assignment := a.state.Assignments[i]
	ranked := RankCandidates(pool, slot.ID())

	for a.listLen(assignment, list) < needed && len(ranked) > 0 {
		emp := ranked[0]
		ranked = ranked[1:]

		if assignment.Includes(emp.ID) || !a.isAvailable(emp, slot) {
			continue
		}

		switch a.trySabbathPairing(i, emp, list) {
		case pairingAssigned, pairingSkipped:
			continue
		}

		a.assign(i, emp, list, 1, a.state.Clock.Stamp(slot))
	}
}

// assign appends the employee to a list and updates their run bookkeeping
func (a *Allocator) assign(i int, emp *model.Employee, list listKind, shifts int, restUntil time.Time) {
	assignment := a.state.Assignments[i]
	if list == seniorList {
		assignment.Seniors = append(assignment.Seniors, emp.ID)
	} else {
		assignment.Juniors = append(assignment.Juniors, emp.ID)
	}

	emp.ShiftCount += shifts
	last := restUntil
	emp.LastShiftDate = &last
}

func (a *Allocator) isAvailable(emp *model.Employee, slot model.ShiftSlot) bool {
	return IsEmployeeAvailable(a.state, emp, slot, a.criteria)
}

func (a *Allocator) listLen(assignment *model.Assignment, list listKind) int {
	if list == seniorList {
		return len(assignment.Seniors)
	}
	return len(assignment.Juniors)
}

// buildOutcome creates the final outcome report
func (a *Allocator) buildOutcome() *AllocationOutcome {
	outcome := &AllocationOutcome{
		Assignments:      make([]model.Assignment, len(a.state.Assignments)),
		Employees:        make([]model.Employee, len(a.state.Employees)),
		Understaffed:     FindUnderstaffedSlots(a.state),
		ValidationErrors: ValidateSchedule(a.state, a.criteria),
	}

	for i, assignment := range a.state.Assignments {
		outcome.Assignments[i] = assignment.Clone()
	}
	for i, emp := range a.state.Employees {
		outcome.Employees[i] = emp.Clone()
	}

	outcome.FullyStaffed = len(outcome.Understaffed) == 0 && len(outcome.ValidationErrors) == 0

	a.logger.Info("Assignment run complete",
		zap.Int("slots", len(outcome.Assignments)),
		zap.Int("understaffed", len(outcome.Understaffed)),
		zap.Int("validation_errors", len(outcome.ValidationErrors)))

	return outcome
}

func cloneEmployees(employees []model.Employee) []model.Employee {
	clones := make([]model.Employee, len(employees))
	for i, emp := range employees {
		clones[i] = emp.Clone()
	}
	return clones
}

func zapSlot(slot model.ShiftSlot) zap.Field {
	return zap.String("slot", slot.String())
}

func zapEmployee(emp *model.Employee) zap.Field {
	return zap.String("employee_id", emp.ID)
}
