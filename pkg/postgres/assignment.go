package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/shift-rota/pkg/db"
)

// GetAssignments retrieves the assignments of a schedule in slot and list order
func (d *DB) GetAssignments(ctx context.Context, scheduleID string) ([]db.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, schedule_id, shift_date, shift_type, role, position, employee_id
		FROM assignment
		WHERE schedule_id = $1
		ORDER BY shift_date, shift_type, role DESC, position
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	for rows.Next() {
		var a db.Assignment
		var shiftDate time.Time
		if err := rows.Scan(&a.ID, &a.ScheduleID, &shiftDate, &a.ShiftType, &a.Role, &a.Position, &a.EmployeeID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.ShiftDate = shiftDate.Format(dateLayout)
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// ReplaceAssignments deletes the schedule's assignments and inserts the new set in one transaction
func (d *DB) ReplaceAssignments(ctx context.Context, scheduleID string, assignments []db.Assignment) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM assignment WHERE schedule_id = $1`, scheduleID); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}

	for _, a := range assignments {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment (id, schedule_id, shift_date, shift_type, role, position, employee_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, a.ID, scheduleID, a.ShiftDate, a.ShiftType, a.Role, a.Position, a.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
