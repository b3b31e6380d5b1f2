package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jakechorley/shift-rota/pkg/db"
)

// GetAssignments retrieves the assignments of a schedule in slot and list order
func (d *DB) GetAssignments(ctx context.Context, scheduleID string) ([]db.Assignment, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, schedule_id, shift_date, shift_type, role, position, employee_id
		FROM assignment
		WHERE schedule_id = ?
		ORDER BY shift_date, shift_type, role DESC, position
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	for rows.Next() {
		var a db.Assignment
		if err := rows.Scan(&a.ID, &a.ScheduleID, &a.ShiftDate, &a.ShiftType, &a.Role, &a.Position, &a.EmployeeID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// ReplaceAssignments deletes the schedule's assignments and inserts the new set in one transaction
func (d *DB) ReplaceAssignments(ctx context.Context, scheduleID string, assignments []db.Assignment) error {
	return d.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM assignment WHERE schedule_id = ?`, scheduleID); err != nil {
			return fmt.Errorf("failed to clear assignments: %w", err)
		}

		for _, a := range assignments {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO assignment (id, schedule_id, shift_date, shift_type, role, position, employee_id)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, a.ID, scheduleID, a.ShiftDate, a.ShiftType, a.Role, a.Position, a.EmployeeID)
			if err != nil {
				return fmt.Errorf("failed to insert assignment: %w", err)
			}
		}
		return nil
	})
}
