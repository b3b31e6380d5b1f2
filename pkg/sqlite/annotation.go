package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jakechorley/shift-rota/pkg/db"
)

// GetAnnotations retrieves every constraint and preference
func (d *DB) GetAnnotations(ctx context.Context) ([]db.Annotation, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT employee_id, shift_date, shift_type, kind
		FROM annotation
		ORDER BY employee_id, shift_date, shift_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	return collectAnnotations(rows)
}

func collectAnnotations(rows *sql.Rows) ([]db.Annotation, error) {
	defer rows.Close()

	var annotations []db.Annotation
	for rows.Next() {
		var a db.Annotation
		if err := rows.Scan(&a.EmployeeID, &a.ShiftDate, &a.ShiftType, &a.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		annotations = append(annotations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotations: %w", err)
	}

	return annotations, nil
}

// UpdateAnnotation applies update to one slot's annotation in a transaction. The single
// connection makes concurrent updates run one after another.
func (d *DB) UpdateAnnotation(ctx context.Context, employeeID, shiftDate, shiftType string, update func(current string) string) (string, bool, error) {
	var kind string
	found := true

	err := d.withTransaction(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM employee WHERE id = ?`, employeeID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to query employee: %w", err)
		}

		var current string
		err = tx.QueryRowContext(ctx, `
			SELECT kind FROM annotation
			WHERE employee_id = ? AND shift_date = ? AND shift_type = ?
		`, employeeID, shiftDate, shiftType).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
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
func writeAnnotation(ctx context.Context, tx *sql.Tx, annotation db.Annotation) error {
	if annotation.Kind == "" {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM annotation
			WHERE employee_id = ? AND shift_date = ? AND shift_type = ?
		`, annotation.EmployeeID, annotation.ShiftDate, annotation.ShiftType)
		if err != nil {
			return fmt.Errorf("failed to delete annotation: %w", err)
		}
		return nil
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO annotation (employee_id, shift_date, shift_type, kind)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (employee_id, shift_date, shift_type) DO UPDATE SET kind = excluded.kind
	`, annotation.EmployeeID, annotation.ShiftDate, annotation.ShiftType, annotation.Kind)
	if err != nil {
		return fmt.Errorf("failed to upsert annotation: %w", err)
	}
	return nil
}
