package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/shift-rota/pkg/db"
)

// GetAnnotations retrieves every constraint and preference
func (d *DB) GetAnnotations(ctx context.Context) ([]db.Annotation, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT employee_id, shift_date, shift_type, kind
		FROM annotation
		ORDER BY employee_id, shift_date, shift_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	return collectAnnotations(rows)
}

func collectAnnotations(rows pgx.Rows) ([]db.Annotation, error) {
	defer rows.Close()

	var annotations []db.Annotation
	for rows.Next() {
		var a db.Annotation
		var shiftDate time.Time
		if err := rows.Scan(&a.EmployeeID, &shiftDate, &a.ShiftType, &a.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		a.ShiftDate = shiftDate.Format(dateLayout)
		annotations = append(annotations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotations: %w", err)
	}

	return annotations, nil
}

// UpdateAnnotation applies update to one slot's annotation. The employee row is locked for the
// whole transaction, so concurrent updates for the same employee run one after another.
func (d *DB) UpdateAnnotation(ctx context.Context, employeeID, shiftDate, shiftType string, update func(current string) string) (string, bool, error) {
	var kind string
	found := true

	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		var id string
		err := tx.QueryRow(ctx, `SELECT id FROM employee WHERE id = $1 FOR UPDATE`, employeeID).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		var current string
		err = tx.QueryRow(ctx, `
			SELECT kind FROM annotation
			WHERE employee_id = $1 AND shift_date = $2 AND shift_type = $3
		`, employeeID, shiftDate, shiftType).Scan(&current)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to query annotation: %w", err)
		}

		kind = update(current)
		return writeAnnotation(ctx, tx, db.Annotation{EmployeeID: employeeID, ShiftDate: shiftDate, ShiftType: shiftType, Kind: kind})
	})
	if err != nil {
		return "", false, err
	}

	return kind, found, nil
}

// writeAnnotation upserts the annotation, or removes it when Kind is empty
func writeAnnotation(ctx context.Context, tx pgx.Tx, annotation db.Annotation) error {
	if annotation.Kind == "" {
		_, err := tx.Exec(ctx, `
			DELETE FROM annotation
			WHERE employee_id = $1 AND shift_date = $2 AND shift_type = $3
		`, annotation.EmployeeID, annotation.ShiftDate, annotation.ShiftType)
		if err != nil {
			return fmt.Errorf("failed to delete annotation: %w", err)
		}
		return nil
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO annotation (employee_id, shift_date, shift_type, kind)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, shift_date, shift_type) DO UPDATE SET kind = EXCLUDED.kind
	`, annotation.EmployeeID, annotation.ShiftDate, annotation.ShiftType, annotation.Kind)
	if err != nil {
		return fmt.Errorf("failed to upsert annotation: %w", err)
	}
	return nil
}
