package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jakechorley/shift-rota/pkg/db"
)

// InsertEmployee inserts a new employee record
func (d *DB) InsertEmployee(ctx context.Context, employee *db.Employee) error {
	createdAt := employee.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO employee (id, name, is_senior, is_sabbath_observant, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, employee.ID, employee.Name, employee.IsSenior, employee.IsSabbathObservant, formatTimestamp(createdAt))
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// GetEmployees retrieves all employees in roster order
func (d *DB) GetEmployees(ctx context.Context) ([]db.Employee, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, name, is_senior, is_sabbath_observant, created_at
		FROM employee
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []db.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetEmployee returns the employee with the given id, or nil if there is none
func (d *DB) GetEmployee(ctx context.Context, id string) (*db.Employee, error) {
	row := d.conn.QueryRowContext(ctx, `
		SELECT id, name, is_senior, is_sabbath_observant, created_at
		FROM employee
		WHERE id = ?
	`, id)

	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (*db.Employee, error) {
	var e db.Employee
	var createdAt string
	if err := row.Scan(&e.ID, &e.Name, &e.IsSenior, &e.IsSabbathObservant, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}

	var err error
	if e.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}
