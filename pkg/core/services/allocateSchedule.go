package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/allocator"
	"github.com/jakechorley/shift-rota/pkg/db"
)

// AllocateScheduleStore defines the database operations needed to allocate a schedule
type AllocateScheduleStore interface {
	GetLatestSchedule(ctx context.Context) (*db.Schedule, error)
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetAnnotations(ctx context.Context) ([]db.Annotation, error)
	ReplaceAssignments(ctx context.Context, scheduleID string, assignments []db.Assignment) error
}

// AllocationResult represents the result of allocating the latest schedule
type AllocationResult struct {
	Schedule *db.Schedule
	Outcome  *allocator.AllocationOutcome

	// Saved is false for dry runs
	Saved bool
}

// AllocateSchedule runs the assignment engine over the latest schedule and the current
// roster. Unless dryRun is set, the schedule's stored assignments are replaced.
func AllocateSchedule(ctx context.Context, store AllocateScheduleStore, logger *zap.Logger, opts allocator.Options, dryRun bool) (*AllocationResult, error) {
	logger.Debug("Fetching latest schedule")
	schedule, err := store.GetLatestSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	if schedule == nil {
		return nil, ErrNoSchedule
	}

	slots, err := scheduleSlots(schedule)
	if err != nil {
		return nil, err
	}

	r, err := loadRoster(ctx, store)
	if err != nil {
		return nil, err
	}

	logger.Debug("Allocating schedule",
		zap.String("schedule_id", schedule.ID),
		zap.Int("slots", len(slots)),
		zap.Int("employees", r.Len()),
		zap.Bool("dry_run", dryRun))

	outcome, err := allocator.Allocate(allocator.AllocationConfig{
		Slots:     slots,
		Employees: r.Snapshot(),
		Options:   opts,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate schedule: %w", err)
	}

	for _, u := range outcome.Understaffed {
		logger.Warn("Slot understaffed",
			zap.String("slot", u.Slot.String()),
			zap.Int("missing_seniors", u.MissingSeniors),
			zap.Int("missing_juniors", u.MissingJuniors))
	}
	for _, v := range outcome.ValidationErrors {
		logger.Error("Allocation validation error",
			zap.String("slot", v.ShiftID.String()),
			zap.String("criterion", v.CriterionName),
			zap.String("description", v.Description))
	}

	result := &AllocationResult{Schedule: schedule, Outcome: outcome}

	if dryRun {
		logger.Info("Dry run, assignments not saved", zap.String("schedule_id", schedule.ID))
		return result, nil
	}

	rows := convertToDBAssignments(schedule.ID, outcome.Assignments)
	if err := store.ReplaceAssignments(ctx, schedule.ID, rows); err != nil {
		return nil, fmt.Errorf("failed to save assignments: %w", err)
	}
	result.Saved = true

	logger.Info("Assignments saved",
		zap.String("schedule_id", schedule.ID),
		zap.Int("rows", len(rows)),
		zap.Bool("fully_staffed", outcome.FullyStaffed))

	return result, nil
}
