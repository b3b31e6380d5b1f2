package model

import (
	"fmt"
	"slices"
	"time"
)

// ShiftType is the part of the day a slot covers
type ShiftType string

const (
	ShiftDay   ShiftType = "day"
	ShiftNight ShiftType = "night"
)

func (t ShiftType) IsValid() bool {
	return t == ShiftDay || t == ShiftNight
}

// ParseShiftType parses "day" or "night"
func ParseShiftType(s string) (ShiftType, error) {
	t := ShiftType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid shift type %q (expected %q or %q)", s, ShiftDay, ShiftNight)
	}
	return t, nil
}

// BoundaryType says where a calendar range starts or ends within its first or last day
type BoundaryType string

const (
	BoundaryMorning BoundaryType = "morning"
	BoundaryEvening BoundaryType = "evening"
)

func (b BoundaryType) IsValid() bool {
	return b == BoundaryMorning || b == BoundaryEvening
}

// ShiftID identifies a slot by date and type.
// It is the join key between slots and employee annotations.
type ShiftID struct {
	Date Date
	Type ShiftType
}

// String renders the id as date followed by type, e.g. "2024-01-07day"
func (id ShiftID) String() string {
	return id.Date.String() + string(id.Type)
}

// ShiftSlot is one (date, shift type) unit of staffing demand
type ShiftSlot struct {
	Date Date
	Type ShiftType
}

func (s ShiftSlot) ID() ShiftID {
	return ShiftID{Date: s.Date, Type: s.Type}
}

func (s ShiftSlot) String() string {
	return s.ID().String()
}

// Quota is the number of seniors and juniors a slot needs
type Quota struct {
	Seniors int
	Juniors int
}

// DefaultQuotas returns the standard staffing levels: day 1+2, night 1+1
func DefaultQuotas() map[ShiftType]Quota {
	return map[ShiftType]Quota{
		ShiftDay:   {Seniors: 1, Juniors: 2},
		ShiftNight: {Seniors: 1, Juniors: 1},
	}
}

// AnnotationKind is an employee's declared stance on a single slot
type AnnotationKind string

const (
	AnnotationNone       AnnotationKind = ""
	AnnotationConstraint AnnotationKind = "constraint"
	AnnotationPreference AnnotationKind = "preference"
)

// Employee is a member of the roster together with the per-run bookkeeping
// fields ShiftCount and LastShiftDate.
type Employee struct {
	ID                 string
	Name               string
	IsSenior           bool
	IsSabbathObservant bool

	// Constraints are slots the employee cannot work
	Constraints map[ShiftID]bool

	// Preferences are slots the employee would like to work.
	// Never overlaps Constraints.
	Preferences map[ShiftID]bool

	// LastShiftDate is the stamp of the most recent assignment in the current run (nil if none)
	LastShiftDate *time.Time

	// ShiftCount is the number of shifts assigned so far in the current run
	ShiftCount int
}

// NewEmployee returns an employee with empty annotations and no run history
func NewEmployee(id, name string, isSenior, isSabbathObservant bool) Employee {
	return Employee{
		ID:                 id,
		Name:               name,
		IsSenior:           isSenior,
		IsSabbathObservant: isSabbathObservant,
		Constraints:        make(map[ShiftID]bool),
		Preferences:        make(map[ShiftID]bool),
	}
}

func (e *Employee) IsConstrained(id ShiftID) bool {
	return e.Constraints[id]
}

func (e *Employee) Prefers(id ShiftID) bool {
	return e.Preferences[id]
}

// Annotation returns the employee's annotation for the given slot
func (e *Employee) Annotation(id ShiftID) AnnotationKind {
	switch {
	case e.Constraints[id]:
		return AnnotationConstraint
	case e.Preferences[id]:
		return AnnotationPreference
	default:
		return AnnotationNone
	}
}

// ApplyToggle flips membership of id in the set named by kind and clears id from
// the opposing set. It returns the resulting annotation for id.
func (e *Employee) ApplyToggle(kind AnnotationKind, id ShiftID) AnnotationKind {
	if e.Constraints == nil {
		e.Constraints = make(map[ShiftID]bool)
	}
	if e.Preferences == nil {
		e.Preferences = make(map[ShiftID]bool)
	}

	switch kind {
	case AnnotationConstraint:
		if e.Constraints[id] {
			delete(e.Constraints, id)
		} else {
			e.Constraints[id] = true
		}
		delete(e.Preferences, id)
	case AnnotationPreference:
		if e.Preferences[id] {
			delete(e.Preferences, id)
		} else {
			e.Preferences[id] = true
		}
		delete(e.Constraints, id)
	}

	return e.Annotation(id)
}

// SetAnnotation overwrites the annotation for id, keeping the two sets disjoint
func (e *Employee) SetAnnotation(kind AnnotationKind, id ShiftID) {
	if e.Constraints == nil {
		e.Constraints = make(map[ShiftID]bool)
	}
	if e.Preferences == nil {
		e.Preferences = make(map[ShiftID]bool)
	}
	delete(e.Constraints, id)
	delete(e.Preferences, id)

	switch kind {
	case AnnotationConstraint:
		e.Constraints[id] = true
	case AnnotationPreference:
		e.Preferences[id] = true
	}
}

// Clone returns a deep copy of the employee
func (e Employee) Clone() Employee {
	c := e
	c.Constraints = make(map[ShiftID]bool, len(e.Constraints))
	for id, v := range e.Constraints {
		c.Constraints[id] = v
	}
	c.Preferences = make(map[ShiftID]bool, len(e.Preferences))
	for id, v := range e.Preferences {
		c.Preferences[id] = v
	}
	if e.LastShiftDate != nil {
		last := *e.LastShiftDate
		c.LastShiftDate = &last
	}
	return c
}

// Assignment is the staffing result for one slot
type Assignment struct {
	Slot    ShiftSlot
	Seniors []string
	Juniors []string
}

// EmployeeIDs returns seniors followed by juniors
func (a Assignment) EmployeeIDs() []string {
	ids := make([]string, 0, len(a.Seniors)+len(a.Juniors))
	ids = append(ids, a.Seniors...)
	return append(ids, a.Juniors...)
}

// Includes reports whether the employee is assigned to this slot in either list
func (a Assignment) Includes(employeeID string) bool {
	return slices.Contains(a.Seniors, employeeID) || slices.Contains(a.Juniors, employeeID)
}

func (a Assignment) Clone() Assignment {
	return Assignment{
		Slot:    a.Slot,
		Seniors: slices.Clone(a.Seniors),
		Juniors: slices.Clone(a.Juniors),
	}
}
