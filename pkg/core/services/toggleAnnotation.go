package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// ToggleAnnotationStore defines the database operations needed to toggle an annotation
type ToggleAnnotationStore interface {
	UpdateAnnotation(ctx context.Context, employeeID, shiftDate, shiftType string, update func(current string) string) (string, bool, error)
}

// ToggleResult reports the outcome of a toggle
type ToggleResult struct {
	// Applied is false when the employee does not exist and nothing changed
	Applied bool

	// Annotation is the employee's annotation on the slot after the toggle
	Annotation model.AnnotationKind
}

// ToggleAnnotation flips a constraint or preference for one employee on one slot.
// Setting one kind clears the other on the same slot. An unknown employee is a no-op.
// The read and the write happen in one store transaction.
func ToggleAnnotation(ctx context.Context, store ToggleAnnotationStore, logger *zap.Logger, employeeID string, shiftID model.ShiftID, kind model.AnnotationKind) (*ToggleResult, error) {
	if kind != model.AnnotationConstraint && kind != model.AnnotationPreference {
		return nil, fmt.Errorf("cannot toggle annotation kind %q", kind)
	}
	if !shiftID.Type.IsValid() {
		return nil, fmt.Errorf("invalid shift type %q", shiftID.Type)
	}

	var before model.AnnotationKind
	after, found, err := store.UpdateAnnotation(ctx, employeeID, shiftID.Date.String(), string(shiftID.Type), func(current string) string {
		before = model.AnnotationKind(current)

		emp := model.NewEmployee(employeeID, "", false, false)
		emp.SetAnnotation(before, shiftID)
		return string(emp.ApplyToggle(kind, shiftID))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save annotation: %w", err)
	}
	if !found {
		logger.Info("Employee not found, nothing toggled", zap.String("employee_id", employeeID))
		return &ToggleResult{Applied: false}, nil
	}

	logger.Info("Annotation toggled",
		zap.String("employee_id", employeeID),
		zap.String("shift", shiftID.String()),
		zap.String("before", string(before)),
		zap.String("after", after))

	return &ToggleResult{Applied: true, Annotation: model.AnnotationKind(after)}, nil
}
