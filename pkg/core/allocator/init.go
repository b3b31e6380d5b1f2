package allocator

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// Defaults applied by Options.WithDefaults
const (
	DefaultRestPeriod     = 12 * time.Hour
	DefaultDayStartHour   = 8
	DefaultNightStartHour = 20
)

// DefaultSabbathDays returns Friday and Saturday
func DefaultSabbathDays() []time.Weekday {
	return []time.Weekday{time.Friday, time.Saturday}
}

// WithDefaults returns a copy of the options with zero values replaced by defaults
func (o Options) WithDefaults() Options {
	if o.RestPeriod == 0 {
		o.RestPeriod = DefaultRestPeriod
	}
	if o.RestClock == "" {
		o.RestClock = RestClockDate
	}
	if o.DayStartHour == 0 && o.NightStartHour == 0 {
		o.DayStartHour = DefaultDayStartHour
		o.NightStartHour = DefaultNightStartHour
	}
	if o.Quotas == nil {
		o.Quotas = model.DefaultQuotas()
	}
	if o.SabbathDays == nil {
		o.SabbathDays = DefaultSabbathDays()
	}
	if o.SabbathPairing == "" {
		o.SabbathPairing = SabbathPairingLegacy
	}
	return o
}

// Validate checks options after defaults have been applied
func (o Options) Validate() error {
	if o.RestPeriod < 0 {
		return fmt.Errorf("rest period must not be negative, got %s", o.RestPeriod)
	}
	if o.RestClock != RestClockDate && o.RestClock != RestClockShiftStart {
		return fmt.Errorf("unknown rest clock %q", o.RestClock)
	}
	if o.DayStartHour < 0 || o.DayStartHour > 23 || o.NightStartHour < 0 || o.NightStartHour > 23 {
		return fmt.Errorf("shift start hours must be within 0-23, got day=%d night=%d", o.DayStartHour, o.NightStartHour)
	}
	if !o.SabbathPairing.IsValid() {
		return fmt.Errorf("unknown sabbath pairing %q", o.SabbathPairing)
	}
	for shiftType, quota := range o.Quotas {
		if quota.Seniors < 0 || quota.Juniors < 0 {
			return fmt.Errorf("quota for %s shifts must not be negative", shiftType)
		}
	}
	return nil
}

// InitAllocation prepares an Allocator with a private working copy of the roster
func InitAllocation(config AllocationConfig) (*Allocator, error) {
	opts := config.Options.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid allocation options: %w", err)
	}

	for i, slot := range config.Slots {
		if !slot.Type.IsValid() {
			return nil, fmt.Errorf("slot %d has invalid shift type %q", i, slot.Type)
		}
		if _, ok := opts.Quotas[slot.Type]; !ok {
			return nil, fmt.Errorf("no quota configured for %s shifts", slot.Type)
		}
	}

	criteria := config.Criteria
	if criteria == nil {
		criteria = DefaultCriteria()
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Working copies start every run from a clean slate so repeated runs are reproducible
	employees := make([]*model.Employee, len(config.Employees))
	for i, emp := range config.Employees {
		working := emp.Clone()
		working.ShiftCount = 0
		working.LastShiftDate = nil
		employees[i] = &working
	}

	slots := make([]model.ShiftSlot, len(config.Slots))
	copy(slots, config.Slots)

	assignments := make([]*model.Assignment, len(slots))
	for i, slot := range slots {
		assignments[i] = &model.Assignment{Slot: slot, Seniors: []string{}, Juniors: []string{}}
	}

	sabbathDays := make(map[time.Weekday]bool, len(opts.SabbathDays))
	for _, day := range opts.SabbathDays {
		sabbathDays[day] = true
	}

	state := &RunState{
		Slots:       slots,
		Assignments: assignments,
		Employees:   employees,
		Quotas:      opts.Quotas,
		Clock: Clock{
			Mode:           opts.RestClock,
			DayStartHour:   opts.DayStartHour,
			NightStartHour: opts.NightStartHour,
		},
		RestPeriod:     opts.RestPeriod,
		SabbathDays:    sabbathDays,
		SabbathPairing: opts.SabbathPairing,
		Paired:         make(map[pairKey]time.Time),
		reservations:   make(map[int][]reservation),
	}

	return &Allocator{
		criteria: criteria,
		state:    state,
		logger:   logger,
	}, nil
}
