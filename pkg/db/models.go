package db

import "time"

// Assignment roles
const (
	RoleSenior = "senior"
	RoleJunior = "junior"
)

// Schedule is a persisted schedule definition. Dates are stored as "2006-01-02".
type Schedule struct {
	ID            string
	StartDate     string
	EndDate       string
	StartBoundary string
	EndBoundary   string
	CreatedAt     time.Time
}

// Employee is a persisted roster member
type Employee struct {
	ID                 string
	Name               string
	IsSenior           bool
	IsSabbathObservant bool
	CreatedAt          time.Time
}

// Annotation is an employee's constraint or preference on a single slot.
// (EmployeeID, ShiftDate, ShiftType) is unique, so a slot carries at most one kind per employee.
type Annotation struct {
	EmployeeID string
	ShiftDate  string
	ShiftType  string
	Kind       string
}

// Assignment is one employee placed on one slot of a schedule.
// Position preserves list order within (slot, role).
type Assignment struct {
	ID         string
	ScheduleID string
	ShiftDate  string
	ShiftType  string
	Role       string
	Position   int
	EmployeeID string
}
