package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-rota/pkg/core/model"
	"github.com/jakechorley/shift-rota/pkg/db"
)

// mockStore implements every store interface in memory for testing
type mockStore struct {
	schedules   []db.Schedule
	employees   []db.Employee
	annotations []db.Annotation
	assignments map[string][]db.Assignment

	replaceCalls int

	getScheduleErr    error
	insertScheduleErr error
	getEmployeesErr   error
	insertEmployeeErr error
	getAnnotationsErr error
	updateAnnotErr    error
	replaceAssignErr  error
	getAssignmentsErr error
}

func newMockStore() *mockStore {
	return &mockStore{assignments: make(map[string][]db.Assignment)}
}

func (m *mockStore) InsertSchedule(ctx context.Context, schedule *db.Schedule) error {
	if m.insertScheduleErr != nil {
		return m.insertScheduleErr
	}
	m.schedules = append(m.schedules, *schedule)
	return nil
}

func (m *mockStore) GetLatestSchedule(ctx context.Context) (*db.Schedule, error) {
	if m.getScheduleErr != nil {
		return nil, m.getScheduleErr
	}
	if len(m.schedules) == 0 {
		return nil, nil
	}
	s := m.schedules[len(m.schedules)-1]
	return &s, nil
}

func (m *mockStore) GetSchedule(ctx context.Context, id string) (*db.Schedule, error) {
	if m.getScheduleErr != nil {
		return nil, m.getScheduleErr
	}
	for _, s := range m.schedules {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockStore) InsertEmployee(ctx context.Context, employee *db.Employee) error {
	if m.insertEmployeeErr != nil {
		return m.insertEmployeeErr
	}
	m.employees = append(m.employees, *employee)
	return nil
}

func (m *mockStore) GetEmployees(ctx context.Context) ([]db.Employee, error) {
	if m.getEmployeesErr != nil {
		return nil, m.getEmployeesErr
	}
	return m.employees, nil
}

func (m *mockStore) GetEmployee(ctx context.Context, id string) (*db.Employee, error) {
	if m.getEmployeesErr != nil {
		return nil, m.getEmployeesErr
	}
	for _, e := range m.employees {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetAnnotations(ctx context.Context) ([]db.Annotation, error) {
	if m.getAnnotationsErr != nil {
		return nil, m.getAnnotationsErr
	}
	return m.annotations, nil
}

func (m *mockStore) UpdateAnnotation(ctx context.Context, employeeID, shiftDate, shiftType string, update func(current string) string) (string, bool, error) {
	if m.updateAnnotErr != nil {
		return "", false, m.updateAnnotErr
	}
	known := false
	for _, e := range m.employees {
		if e.ID == employeeID {
			known = true
		}
	}
	if !known {
		return "", false, nil
	}

	var current string
	kept := m.annotations[:0]
	for _, a := range m.annotations {
		if a.EmployeeID == employeeID && a.ShiftDate == shiftDate && a.ShiftType == shiftType {
			current = a.Kind
			continue
		}
		kept = append(kept, a)
	}
	m.annotations = kept

	kind := update(current)
	if kind != "" {
		m.annotations = append(m.annotations, db.Annotation{EmployeeID: employeeID, ShiftDate: shiftDate, ShiftType: shiftType, Kind: kind})
	}
	return kind, true, nil
}

func (m *mockStore) GetAssignments(ctx context.Context, scheduleID string) ([]db.Assignment, error) {
	if m.getAssignmentsErr != nil {
		return nil, m.getAssignmentsErr
	}
	return m.assignments[scheduleID], nil
}

func (m *mockStore) ReplaceAssignments(ctx context.Context, scheduleID string, assignments []db.Assignment) error {
	m.replaceCalls++
	if m.replaceAssignErr != nil {
		return m.replaceAssignErr
	}
	m.assignments[scheduleID] = assignments
	return nil
}

func (m *mockStore) addEmployee(id, name string, senior, sabbath bool) {
	m.employees = append(m.employees, db.Employee{ID: id, Name: name, IsSenior: senior, IsSabbathObservant: sabbath})
}

func TestLoadRoster(t *testing.T) {
	store := newMockStore()
	store.addEmployee("e2", "Bob", false, false)
	store.addEmployee("e1", "Alice", true, true)
	store.annotations = []db.Annotation{
		{EmployeeID: "e1", ShiftDate: "2024-01-07", ShiftType: "day", Kind: "constraint"},
		{EmployeeID: "e1", ShiftDate: "2024-01-07", ShiftType: "night", Kind: "preference"},
		{EmployeeID: "e2", ShiftDate: "2024-01-08", ShiftType: "day", Kind: "preference"},
	}

	r, err := loadRoster(context.Background(), store)
	require.NoError(t, err)

	employees := r.Snapshot()
	require.Len(t, employees, 2)
	assert.Equal(t, "e2", employees[0].ID)
	assert.Equal(t, "e1", employees[1].ID)

	alice := employees[1]
	assert.True(t, alice.IsSenior)
	assert.True(t, alice.IsSabbathObservant)
	assert.True(t, alice.IsConstrained(model.ShiftID{Date: model.MustParseDate("2024-01-07"), Type: model.ShiftDay}))
	assert.True(t, alice.Prefers(model.ShiftID{Date: model.MustParseDate("2024-01-07"), Type: model.ShiftNight}))
	assert.True(t, employees[0].Prefers(model.ShiftID{Date: model.MustParseDate("2024-01-08"), Type: model.ShiftDay}))
}

func TestLoadRoster_InvalidAnnotation(t *testing.T) {
	store := newMockStore()
	store.addEmployee("e1", "Alice", true, false)
	store.annotations = []db.Annotation{{EmployeeID: "e1", ShiftDate: "2024-01-07", ShiftType: "evening", Kind: "constraint"}}

	_, err := loadRoster(context.Background(), store)
	assert.Error(t, err)
}

func TestConvertToDBAssignments(t *testing.T) {
	slot := model.ShiftSlot{Date: model.MustParseDate("2024-01-07"), Type: model.ShiftDay}
	rows := convertToDBAssignments("sched-1", []model.Assignment{
		{Slot: slot, Seniors: []string{"s1"}, Juniors: []string{"j1", "j2"}},
		{Slot: model.ShiftSlot{Date: slot.Date, Type: model.ShiftNight}, Seniors: []string{}, Juniors: []string{}},
	})

	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "sched-1", row.ScheduleID)
		assert.Equal(t, "2024-01-07", row.ShiftDate)
		assert.Equal(t, "day", row.ShiftType)
		assert.NotEmpty(t, row.ID)
	}
	assert.Equal(t, db.Assignment{ID: rows[0].ID, ScheduleID: "sched-1", ShiftDate: "2024-01-07", ShiftType: "day", Role: db.RoleSenior, Position: 0, EmployeeID: "s1"}, rows[0])
	assert.Equal(t, db.RoleJunior, rows[1].Role)
	assert.Equal(t, 0, rows[1].Position)
	assert.Equal(t, "j1", rows[1].EmployeeID)
	assert.Equal(t, 1, rows[2].Position)
	assert.Equal(t, "j2", rows[2].EmployeeID)
}

func TestScheduleSlots(t *testing.T) {
	slots, err := scheduleSlots(&db.Schedule{ID: "s", StartDate: "2024-01-07", EndDate: "2024-01-08", StartBoundary: "evening", EndBoundary: "morning"})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, model.ShiftNight, slots[0].Type)
	assert.Equal(t, model.ShiftDay, slots[1].Type)

	_, err = scheduleSlots(&db.Schedule{ID: "s", StartDate: "07/01/2024", EndDate: "2024-01-08", StartBoundary: "evening", EndBoundary: "morning"})
	assert.Error(t, err)
}
