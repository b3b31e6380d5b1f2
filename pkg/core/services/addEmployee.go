package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-rota/pkg/core/model"
	"github.com/jakechorley/shift-rota/pkg/core/roster"
	"github.com/jakechorley/shift-rota/pkg/db"
)

// AddEmployee creates an employee with empty annotations and stores them
func AddEmployee(ctx context.Context, store db.EmployeeStore, logger *zap.Logger, name string, isSenior, isSabbathObservant bool) (*model.Employee, error) {
	emp, err := roster.NewEmployee(name, isSenior, isSabbathObservant)
	if err != nil {
		return nil, fmt.Errorf("invalid employee: %w", err)
	}

	record := &db.Employee{
		ID:                 emp.ID,
		Name:               emp.Name,
		IsSenior:           emp.IsSenior,
		IsSabbathObservant: emp.IsSabbathObservant,
		CreatedAt:          time.Now().UTC(),
	}
	if err := store.InsertEmployee(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to insert employee: %w", err)
	}

	logger.Info("Employee added",
		zap.String("employee_id", emp.ID),
		zap.String("name", emp.Name),
		zap.Bool("senior", emp.IsSenior),
		zap.Bool("sabbath_observant", emp.IsSabbathObservant))

	return &emp, nil
}

// ListEmployeesStore defines the database operations needed to list the roster
type ListEmployeesStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetAnnotations(ctx context.Context) ([]db.Annotation, error)
}

// ListEmployees returns the roster in insertion order, with constraints and preferences
func ListEmployees(ctx context.Context, store ListEmployeesStore, logger *zap.Logger) ([]model.Employee, error) {
	r, err := loadRoster(ctx, store)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded roster", zap.Int("employees", r.Len()))
	return r.Snapshot(), nil
}
