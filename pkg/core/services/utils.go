package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jakechorley/shift-rota/pkg/core/calendar"
	"github.com/jakechorley/shift-rota/pkg/core/model"
	"github.com/jakechorley/shift-rota/pkg/core/roster"
	"github.com/jakechorley/shift-rota/pkg/db"
)

// ErrNoSchedule is returned when an operation needs a schedule and none has been defined
var ErrNoSchedule = errors.New("no schedule defined")

// rosterStore is the read side needed to rebuild the roster with annotations
type rosterStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetAnnotations(ctx context.Context) ([]db.Annotation, error)
}

// loadRoster rebuilds the roster, in insertion order, from stored employees and annotations
func loadRoster(ctx context.Context, store rosterStore) (*roster.Roster, error) {
	dbEmployees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	annotations, err := store.GetAnnotations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch annotations: %w", err)
	}

	byEmployee := groupAnnotations(annotations)

	employees := make([]model.Employee, 0, len(dbEmployees))
	for _, e := range dbEmployees {
		emp, err := toModelEmployee(e, byEmployee[e.ID])
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return roster.New(employees...), nil
}

func groupAnnotations(annotations []db.Annotation) map[string][]db.Annotation {
	grouped := make(map[string][]db.Annotation)
	for _, a := range annotations {
		grouped[a.EmployeeID] = append(grouped[a.EmployeeID], a)
	}
	return grouped
}

// toModelEmployee converts a stored employee and their annotations
func toModelEmployee(e db.Employee, annotations []db.Annotation) (model.Employee, error) {
	emp := model.NewEmployee(e.ID, e.Name, e.IsSenior, e.IsSabbathObservant)

	for _, a := range annotations {
		id, err := toShiftID(a.ShiftDate, a.ShiftType)
		if err != nil {
			return model.Employee{}, fmt.Errorf("invalid annotation for employee %s: %w", e.ID, err)
		}
		emp.SetAnnotation(model.AnnotationKind(a.Kind), id)
	}

	return emp, nil
}

func toShiftID(date, shiftType string) (model.ShiftID, error) {
	d, err := model.ParseDate(date)
	if err != nil {
		return model.ShiftID{}, err
	}
	t, err := model.ParseShiftType(shiftType)
	if err != nil {
		return model.ShiftID{}, err
	}
	return model.ShiftID{Date: d, Type: t}, nil
}

// scheduleSlots regenerates the slot sequence of a stored schedule
func scheduleSlots(schedule *db.Schedule) ([]model.ShiftSlot, error) {
	start, err := model.ParseDate(schedule.StartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule start date: %w", err)
	}
	end, err := model.ParseDate(schedule.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule end date: %w", err)
	}

	slots, err := calendar.GenerateShifts(start, end,
		model.BoundaryType(schedule.StartBoundary), model.BoundaryType(schedule.EndBoundary))
	if err != nil {
		return nil, fmt.Errorf("failed to generate shifts for schedule %s: %w", schedule.ID, err)
	}
	return slots, nil
}

// convertToDBAssignments flattens assignments into rows, keeping list order in Position
func convertToDBAssignments(scheduleID string, assignments []model.Assignment) []db.Assignment {
	var rows []db.Assignment
	for _, a := range assignments {
		rows = appendAssignmentRows(rows, scheduleID, a.Slot, db.RoleSenior, a.Seniors)
		rows = appendAssignmentRows(rows, scheduleID, a.Slot, db.RoleJunior, a.Juniors)
	}
	return rows
}

func appendAssignmentRows(rows []db.Assignment, scheduleID string, slot model.ShiftSlot, role string, employeeIDs []string) []db.Assignment {
	for position, employeeID := range employeeIDs {
		rows = append(rows, db.Assignment{
			ID:         uuid.New().String(),
			ScheduleID: scheduleID,
			ShiftDate:  slot.Date.String(),
			ShiftType:  string(slot.Type),
			Role:       role,
			Position:   position,
			EmployeeID: employeeID,
		})
	}
	return rows
}
