package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-rota/pkg/db"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := NewDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(database.Close)

	require.NoError(t, database.RunMigrations(context.Background()))
	return database
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "rota.db")

	database, err := NewDB(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(ctx))
	require.NoError(t, database.InsertEmployee(ctx, &db.Employee{ID: "e1", Name: "Alice"}))
	database.Close()

	// Reopening runs nothing new and keeps the data
	database, err = NewDB(ctx, dsn)
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, database.RunMigrations(ctx))

	employees, err := database.GetEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Alice", employees[0].Name)
}

func TestSchedules(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	latest, err := database.GetLatestSchedule(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	created := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	first := &db.Schedule{ID: "s1", StartDate: "2024-01-07", EndDate: "2024-01-13", StartBoundary: "morning", EndBoundary: "evening", CreatedAt: created}
	second := &db.Schedule{ID: "s2", StartDate: "2024-01-14", EndDate: "2024-01-20", StartBoundary: "evening", EndBoundary: "morning", CreatedAt: created}
	require.NoError(t, database.InsertSchedule(ctx, first))
	require.NoError(t, database.InsertSchedule(ctx, second))

	latest, err = database.GetLatestSchedule(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, *second, *latest)

	fetched, err := database.GetSchedule(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, *first, *fetched)

	missing, err := database.GetSchedule(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSchedules_RejectsInvalidBoundary(t *testing.T) {
	database := newTestDB(t)

	err := database.InsertSchedule(context.Background(), &db.Schedule{
		ID: "s1", StartDate: "2024-01-07", EndDate: "2024-01-07", StartBoundary: "noon", EndBoundary: "evening",
	})
	assert.Error(t, err)
}

func TestEmployees(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	for _, e := range []db.Employee{
		{ID: "e3", Name: "Carol", IsSenior: true},
		{ID: "e1", Name: "Alice", IsSabbathObservant: true},
		{ID: "e2", Name: "Bob"},
	} {
		emp := e
		require.NoError(t, database.InsertEmployee(ctx, &emp))
	}

	employees, err := database.GetEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 3)

	// Insertion order, not id order
	assert.Equal(t, "e3", employees[0].ID)
	assert.True(t, employees[0].IsSenior)
	assert.Equal(t, "e1", employees[1].ID)
	assert.True(t, employees[1].IsSabbathObservant)
	assert.Equal(t, "e2", employees[2].ID)
	assert.False(t, employees[2].CreatedAt.IsZero())

	emp, err := database.GetEmployee(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, emp)
	assert.Equal(t, "Alice", emp.Name)

	emp, err = database.GetEmployee(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, emp)

	assert.Error(t, database.InsertEmployee(ctx, &db.Employee{ID: "e1", Name: "Duplicate"}))
}

func setKind(kind string) func(string) string {
	return func(string) string { return kind }
}

func employeeAnnotations(t *testing.T, database *DB, employeeID string) []db.Annotation {
	t.Helper()

	all, err := database.GetAnnotations(context.Background())
	require.NoError(t, err)

	var annotations []db.Annotation
	for _, a := range all {
		if a.EmployeeID == employeeID {
			annotations = append(annotations, a)
		}
	}
	return annotations
}

func TestAnnotations(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	require.NoError(t, database.InsertEmployee(ctx, &db.Employee{ID: "e1", Name: "Alice"}))
	require.NoError(t, database.InsertEmployee(ctx, &db.Employee{ID: "e2", Name: "Bob"}))

	kind, found, err := database.UpdateAnnotation(ctx, "e1", "2024-01-07", "day", setKind("constraint"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "constraint", kind)

	var seen string
	kind, _, err = database.UpdateAnnotation(ctx, "e1", "2024-01-07", "day", func(current string) string {
		seen = current
		return "preference"
	})
	require.NoError(t, err)
	assert.Equal(t, "constraint", seen)
	assert.Equal(t, "preference", kind)

	_, _, err = database.UpdateAnnotation(ctx, "e2", "2024-01-08", "night", setKind("constraint"))
	require.NoError(t, err)

	// Upsert leaves a single row per slot
	assert.Equal(t, []db.Annotation{
		{EmployeeID: "e1", ShiftDate: "2024-01-07", ShiftType: "day", Kind: "preference"},
	}, employeeAnnotations(t, database, "e1"))

	all, err := database.GetAnnotations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Empty kind clears
	kind, _, err = database.UpdateAnnotation(ctx, "e1", "2024-01-07", "day", setKind(""))
	require.NoError(t, err)
	assert.Empty(t, kind)
	assert.Empty(t, employeeAnnotations(t, database, "e1"))

	// Unknown employee writes nothing
	called := false
	_, found, err = database.UpdateAnnotation(ctx, "ghost", "2024-01-07", "day", func(string) string {
		called = true
		return "constraint"
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, called)
	assert.Empty(t, employeeAnnotations(t, database, "ghost"))
}

func TestUpdateAnnotation_ConcurrentUpdatesSeeEachOther(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	require.NoError(t, database.InsertEmployee(ctx, &db.Employee{ID: "e1", Name: "Alice"}))

	flip := func(current string) string {
		if current == "constraint" {
			return ""
		}
		return "constraint"
	}

	const updates = 15
	var wg sync.WaitGroup
	for range updates {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := database.UpdateAnnotation(ctx, "e1", "2024-01-07", "night", flip)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// An odd number of flips ends set
	assert.Equal(t, []db.Annotation{
		{EmployeeID: "e1", ShiftDate: "2024-01-07", ShiftType: "night", Kind: "constraint"},
	}, employeeAnnotations(t, database, "e1"))
}

func TestAssignments_Replace(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	require.NoError(t, database.InsertSchedule(ctx, &db.Schedule{ID: "s1", StartDate: "2024-01-07", EndDate: "2024-01-07", StartBoundary: "morning", EndBoundary: "evening"}))
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, database.InsertEmployee(ctx, &db.Employee{ID: id, Name: id}))
	}

	first := []db.Assignment{
		{ID: "1", ShiftDate: "2024-01-07", ShiftType: "night", Role: db.RoleJunior, Position: 0, EmployeeID: "d"},
		{ID: "2", ShiftDate: "2024-01-07", ShiftType: "day", Role: db.RoleJunior, Position: 1, EmployeeID: "c"},
		{ID: "3", ShiftDate: "2024-01-07", ShiftType: "day", Role: db.RoleJunior, Position: 0, EmployeeID: "b"},
		{ID: "4", ShiftDate: "2024-01-07", ShiftType: "day", Role: db.RoleSenior, Position: 0, EmployeeID: "a"},
	}
	require.NoError(t, database.ReplaceAssignments(ctx, "s1", first))

	stored, err := database.GetAssignments(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, stored, 4)

	var order []string
	for _, a := range stored {
		assert.Equal(t, "s1", a.ScheduleID)
		order = append(order, a.EmployeeID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)

	second := []db.Assignment{
		{ID: "5", ShiftDate: "2024-01-07", ShiftType: "day", Role: db.RoleSenior, Position: 0, EmployeeID: "b"},
	}
	require.NoError(t, database.ReplaceAssignments(ctx, "s1", second))

	stored, err = database.GetAssignments(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "b", stored[0].EmployeeID)
}

func TestAssignments_ReplaceRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	require.NoError(t, database.InsertSchedule(ctx, &db.Schedule{ID: "s1", StartDate: "2024-01-07", EndDate: "2024-01-07", StartBoundary: "morning", EndBoundary: "evening"}))
	require.NoError(t, database.InsertEmployee(ctx, &db.Employee{ID: "a", Name: "a"}))

	original := []db.Assignment{{ID: "1", ShiftDate: "2024-01-07", ShiftType: "day", Role: db.RoleSenior, EmployeeID: "a"}}
	require.NoError(t, database.ReplaceAssignments(ctx, "s1", original))

	// Unknown employee violates the foreign key halfway through
	broken := []db.Assignment{
		{ID: "2", ShiftDate: "2024-01-07", ShiftType: "day", Role: db.RoleSenior, EmployeeID: "a"},
		{ID: "3", ShiftDate: "2024-01-07", ShiftType: "night", Role: db.RoleSenior, EmployeeID: "ghost"},
	}
	assert.Error(t, database.ReplaceAssignments(ctx, "s1", broken))

	stored, err := database.GetAssignments(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "1", stored[0].ID)
}
