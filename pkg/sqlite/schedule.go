package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jakechorley/shift-rota/pkg/db"
)

const scheduleColumns = `id, start_date, end_date, start_boundary, end_boundary, created_at`

// InsertSchedule inserts a new schedule record
func (d *DB) InsertSchedule(ctx context.Context, schedule *db.Schedule) error {
	createdAt := schedule.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO schedule (id, start_date, end_date, start_boundary, end_boundary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, schedule.ID, schedule.StartDate, schedule.EndDate, schedule.StartBoundary, schedule.EndBoundary, formatTimestamp(createdAt))
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

// GetLatestSchedule returns the most recently defined schedule, or nil if there is none
func (d *DB) GetLatestSchedule(ctx context.Context) (*db.Schedule, error) {
	row := d.conn.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedule ORDER BY rowid DESC LIMIT 1`)
	return scanSchedule(row)
}

// GetSchedule returns the schedule with the given id, or nil if there is none
func (d *DB) GetSchedule(ctx context.Context, id string) (*db.Schedule, error) {
	row := d.conn.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedule WHERE id = ?`, id)
	return scanSchedule(row)
}

func scanSchedule(row *sql.Row) (*db.Schedule, error) {
	var s db.Schedule
	var createdAt string
	if err := row.Scan(&s.ID, &s.StartDate, &s.EndDate, &s.StartBoundary, &s.EndBoundary, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}

	var err error
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &s, nil
}
