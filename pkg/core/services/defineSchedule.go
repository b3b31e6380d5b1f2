package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/model"
	"github.com/jakechorley/shift-rota/pkg/db"
)

// DefineScheduleParams are the raw inputs for a new schedule
type DefineScheduleParams struct {
	Start         string `validate:"required,datetime=2006-01-02"`
	End           string `validate:"required,datetime=2006-01-02"`
	StartBoundary string `validate:"required,oneof=morning evening"`
	EndBoundary   string `validate:"required,oneof=morning evening"`
}

// ScheduleResult represents the result of defining a new schedule
type ScheduleResult struct {
	Schedule *db.Schedule
	Slots    []model.ShiftSlot
}

var paramsValidator = validator.New()

// DefineSchedule validates the range, generates its slots and stores the schedule.
// The new schedule supersedes any earlier one.
func DefineSchedule(ctx context.Context, store db.ScheduleStore, logger *zap.Logger, params DefineScheduleParams) (*ScheduleResult, error) {
	if err := paramsValidator.Struct(params); err != nil {
		return nil, fmt.Errorf("invalid schedule parameters: %w", err)
	}

	logger.Debug("Defining schedule",
		zap.String("start", params.Start),
		zap.String("end", params.End),
		zap.String("start_boundary", params.StartBoundary),
		zap.String("end_boundary", params.EndBoundary))

	schedule := &db.Schedule{
		ID:            uuid.New().String(),
		StartDate:     params.Start,
		EndDate:       params.End,
		StartBoundary: params.StartBoundary,
		EndBoundary:   params.EndBoundary,
		CreatedAt:     time.Now().UTC(),
	}

	slots, err := scheduleSlots(schedule)
	if err != nil {
		return nil, err
	}

	if err := store.InsertSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to insert schedule: %w", err)
	}

	logger.Info("Schedule defined",
		zap.String("schedule_id", schedule.ID),
		zap.Int("slots", len(slots)))

	return &ScheduleResult{Schedule: schedule, Slots: slots}, nil
}
