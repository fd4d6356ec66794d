package repository

import (
	"context"

	"fleetflow/internal/domain"
)

// FuelLogRepository defines the persistence operations for fuel logs.
// Logs are append-only; there is no update or delete.
type FuelLogRepository interface {
	Create(ctx context.Context, log *domain.FuelLog) error
	GetAll(ctx context.Context) ([]*domain.FuelLog, error)
	GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.FuelLog, error)
}

// MaintenanceLogRepository defines the persistence operations for
// maintenance logs.
type MaintenanceLogRepository interface {
	Create(ctx context.Context, log *domain.MaintenanceLog) error
	GetAll(ctx context.Context) ([]*domain.MaintenanceLog, error)
	GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.MaintenanceLog, error)
}

// ExpenseRepository defines the persistence operations for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetAll(ctx context.Context) ([]*domain.Expense, error)
	GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Expense, error)
}
