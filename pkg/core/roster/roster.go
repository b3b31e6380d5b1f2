package roster

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// ErrEmptyName is returned when adding an employee without a name
var ErrEmptyName = errors.New("employee name must not be empty")

// Roster holds the session's employees and their annotations.
// Edits and snapshots are serialised so an assignment run never sees a half-applied edit.
type Roster struct {
	mu        sync.RWMutex
	employees []model.Employee
	index     map[string]int
}

// New creates a roster seeded with copies of the given employees
func New(employees ...model.Employee) *Roster {
	r := &Roster{index: make(map[string]int)}
	for _, emp := range employees {
		r.insertLocked(emp.Clone())
	}
	return r
}

// NewEmployee validates the inputs and builds a fresh employee with a new id
func NewEmployee(name string, isSenior, isSabbathObservant bool) (model.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Employee{}, ErrEmptyName
	}
	return model.NewEmployee(uuid.New().String(), name, isSenior, isSabbathObservant), nil
}

// AddEmployee appends a new employee and returns a copy of it
func (r *Roster) AddEmployee(name string, isSenior, isSabbathObservant bool) (model.Employee, error) {
	emp, err := NewEmployee(name, isSenior, isSabbathObservant)
	if err != nil {
		return model.Employee{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(emp)

	return emp.Clone(), nil
}

func (r *Roster) insertLocked(emp model.Employee) {
	if i, ok := r.index[emp.ID]; ok {
		r.employees[i] = emp
		return
	}
	r.index[emp.ID] = len(r.employees)
	r.employees = append(r.employees, emp)
}

// ToggleConstraint flips the constraint for (employeeID, shiftID) and clears any preference.
// Returns false if the employee is unknown, in which case nothing changes.
func (r *Roster) ToggleConstraint(employeeID string, shiftID model.ShiftID) (model.AnnotationKind, bool) {
	return r.toggle(employeeID, model.AnnotationConstraint, shiftID)
}

// TogglePreference flips the preference for (employeeID, shiftID) and clears any constraint.
// Returns false if the employee is unknown, in which case nothing changes.
func (r *Roster) TogglePreference(employeeID string, shiftID model.ShiftID) (model.AnnotationKind, bool) {
	return r.toggle(employeeID, model.AnnotationPreference, shiftID)
}

func (r *Roster) toggle(employeeID string, kind model.AnnotationKind, shiftID model.ShiftID) (model.AnnotationKind, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[employeeID]
	if !ok {
		return model.AnnotationNone, false
	}
	return r.employees[i].ApplyToggle(kind, shiftID), true
}

// Get returns a copy of the employee with the given id
func (r *Roster) Get(employeeID string) (model.Employee, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[employeeID]
	if !ok {
		return model.Employee{}, false
	}
	return r.employees[i].Clone(), true
}

// Len returns the number of employees on the roster
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.employees)
}

// Snapshot returns a deep copy of every employee in insertion order
func (r *Roster) Snapshot() []model.Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]model.Employee, len(r.employees))
	for i, emp := range r.employees {
		snapshot[i] = emp.Clone()
	}
	return snapshot
}
