package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/shift-rota/pkg/db"
)

// InsertEmployee inserts a new employee record
func (d *DB) InsertEmployee(ctx context.Context, employee *db.Employee) error {
	createdAt := employee.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO employee (id, name, is_senior, is_sabbath_observant, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, employee.ID, employee.Name, employee.IsSenior, employee.IsSabbathObservant, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// GetEmployees retrieves all employees in roster order
func (d *DB) GetEmployees(ctx context.Context) ([]db.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, is_senior, is_sabbath_observant, created_at
		FROM employee
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []db.Employee
	for rows.Next() {
		var e db.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.IsSenior, &e.IsSabbathObservant, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetEmployee returns the employee with the given id, or nil if there is none
func (d *DB) GetEmployee(ctx context.Context, id string) (*db.Employee, error) {
	var e db.Employee
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, is_senior, is_sabbath_observant, created_at
		FROM employee
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Name, &e.IsSenior, &e.IsSabbathObservant, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}
