package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/allocator"
	"github.com/jakechorley/shift-rota/pkg/core/calendar"
	"github.com/jakechorley/shift-rota/pkg/core/model"
	"github.com/jakechorley/shift-rota/pkg/db"
)

// ViewScheduleStore defines the database operations needed to view a schedule
type ViewScheduleStore interface {
	GetLatestSchedule(ctx context.Context) (*db.Schedule, error)
	GetSchedule(ctx context.Context, id string) (*db.Schedule, error)
	GetAssignments(ctx context.Context, scheduleID string) ([]db.Assignment, error)
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetAnnotations(ctx context.Context) ([]db.Annotation, error)
}

// AssignedEmployee is one name in a schedule row
type AssignedEmployee struct {
	ID   string
	Name string

	// Preferred is set when the employee asked for this slot
	Preferred bool

	// OnSabbath is set when a Sabbath-observant employee works on a Sabbath day
	OnSabbath bool
}

// ScheduleRow is one slot of the schedule with whoever is stored against it
type ScheduleRow struct {
	Slot           model.ShiftSlot
	Seniors        []AssignedEmployee
	Juniors        []AssignedEmployee
	MissingSeniors int
	MissingJuniors int
}

// ScheduleView is a schedule ready to render
type ScheduleView struct {
	Schedule  *db.Schedule
	Rows      []ScheduleRow
	Allocated bool
}

// ViewSchedule joins a schedule's slots with its stored assignments. An empty scheduleID
// selects the latest schedule. Quotas and Sabbath days come from opts.
func ViewSchedule(ctx context.Context, store ViewScheduleStore, logger *zap.Logger, scheduleID string, opts allocator.Options) (*ScheduleView, error) {
	schedule, err := findSchedule(ctx, store, scheduleID)
	if err != nil {
		return nil, err
	}

	slots, err := scheduleSlots(schedule)
	if err != nil {
		return nil, err
	}

	assignments, err := store.GetAssignments(ctx, schedule.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	r, err := loadRoster(ctx, store)
	if err != nil {
		return nil, err
	}
	employees := make(map[string]model.Employee)
	for _, emp := range r.Snapshot() {
		employees[emp.ID] = emp
	}

	opts = opts.WithDefaults()
	sabbathDays := make(map[time.Weekday]bool)
	for _, day := range opts.SabbathDays {
		sabbathDays[day] = true
	}

	rows := make([]ScheduleRow, len(slots))
	for i, slot := range slots {
		rows[i] = ScheduleRow{Slot: slot, Seniors: []AssignedEmployee{}, Juniors: []AssignedEmployee{}}
	}

	index := calendar.Index(slots)
	for _, a := range assignments {
		id, err := toShiftID(a.ShiftDate, a.ShiftType)
		if err != nil {
			return nil, fmt.Errorf("invalid stored assignment %s: %w", a.ID, err)
		}

		i, ok := index[id]
		if !ok {
			logger.Warn("Stored assignment outside schedule range",
				zap.String("assignment_id", a.ID),
				zap.String("shift", id.String()))
			continue
		}

		assigned := AssignedEmployee{ID: a.EmployeeID, Name: a.EmployeeID}
		if emp, ok := employees[a.EmployeeID]; ok {
			assigned.Name = emp.Name
			assigned.Preferred = emp.Prefers(id)
			assigned.OnSabbath = emp.IsSabbathObservant && sabbathDays[id.Date.Weekday()]
		}

		if a.Role == db.RoleSenior {
			rows[i].Seniors = append(rows[i].Seniors, assigned)
		} else {
			rows[i].Juniors = append(rows[i].Juniors, assigned)
		}
	}

	for i := range rows {
		quota := opts.Quotas[rows[i].Slot.Type]
		rows[i].MissingSeniors = max(quota.Seniors-len(rows[i].Seniors), 0)
		rows[i].MissingJuniors = max(quota.Juniors-len(rows[i].Juniors), 0)
	}

	logger.Debug("Built schedule view",
		zap.String("schedule_id", schedule.ID),
		zap.Int("slots", len(rows)),
		zap.Int("assignments", len(assignments)))

	return &ScheduleView{
		Schedule:  schedule,
		Rows:      rows,
		Allocated: len(assignments) > 0,
	}, nil
}

func findSchedule(ctx context.Context, store ViewScheduleStore, scheduleID string) (*db.Schedule, error) {
	if scheduleID == "" {
		schedule, err := store.GetLatestSchedule(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch schedule: %w", err)
		}
		if schedule == nil {
			return nil, ErrNoSchedule
		}
		return schedule, nil
	}

	schedule, err := store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID, ErrNoSchedule)
	}
	return schedule, nil
}
