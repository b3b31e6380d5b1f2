package db

import "context"

// ScheduleStore defines the interface for schedule database operations
type ScheduleStore interface {
	InsertSchedule(ctx context.Context, schedule *Schedule) error
	// GetLatestSchedule returns nil when no schedule has been defined
	GetLatestSchedule(ctx context.Context) (*Schedule, error)
	// GetSchedule returns nil when the id is unknown
	GetSchedule(ctx context.Context, id string) (*Schedule, error)
}

// EmployeeStore defines the interface for roster database operations
type EmployeeStore interface {
	InsertEmployee(ctx context.Context, employee *Employee) error
	// GetEmployees returns employees in the order they were added
	GetEmployees(ctx context.Context) ([]Employee, error)
	// GetEmployee returns nil when the id is unknown
	GetEmployee(ctx context.Context, id string) (*Employee, error)
}

// AnnotationStore defines the interface for constraint and preference operations
type AnnotationStore interface {
	GetAnnotations(ctx context.Context) ([]Annotation, error)
	// UpdateAnnotation reads the employee's kind for one slot ("" when unset), stores the kind
	// update returns and reports it, all in one transaction. An empty kind deletes the row.
	// found is false, and nothing changes, when the employee does not exist.
	UpdateAnnotation(ctx context.Context, employeeID, shiftDate, shiftType string, update func(current string) string) (kind string, found bool, err error)
}

// AssignmentStore defines the interface for assignment database operations
type AssignmentStore interface {
	GetAssignments(ctx context.Context, scheduleID string) ([]Assignment, error)
	// ReplaceAssignments swaps every assignment of the schedule in one transaction
	ReplaceAssignments(ctx context.Context, scheduleID string, assignments []Assignment) error
}

// Database defines the interface for all database operations.
// Both postgres.DB and sqlite.DB implement this interface.
type Database interface {
	ScheduleStore
	EmployeeStore
	AnnotationStore
	AssignmentStore
	RunMigrations(ctx context.Context) error
	Close()
}
