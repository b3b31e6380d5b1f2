package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/shift-rota/pkg/db"
)

const scheduleColumns = `id, start_date, end_date, start_boundary, end_boundary, created_at`

// InsertSchedule inserts a new schedule record
func (d *DB) InsertSchedule(ctx context.Context, schedule *db.Schedule) error {
	createdAt := schedule.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO schedule (id, start_date, end_date, start_boundary, end_boundary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, schedule.ID, schedule.StartDate, schedule.EndDate, schedule.StartBoundary, schedule.EndBoundary, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

// GetLatestSchedule returns the most recently defined schedule, or nil if there is none
func (d *DB) GetLatestSchedule(ctx context.Context) (*db.Schedule, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedule ORDER BY seq DESC LIMIT 1`)
	return scanSchedule(row)
}

// GetSchedule returns the schedule with the given id, or nil if there is none
func (d *DB) GetSchedule(ctx context.Context, id string) (*db.Schedule, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedule WHERE id = $1`, id)
	return scanSchedule(row)
}

func scanSchedule(row pgx.Row) (*db.Schedule, error) {
	var s db.Schedule
	var start, end time.Time
	if err := row.Scan(&s.ID, &start, &end, &s.StartBoundary, &s.EndBoundary, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}
	s.StartDate = start.Format(dateLayout)
	s.EndDate = end.Format(dateLayout)
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}
