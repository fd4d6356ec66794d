package repository

import (
	"context"

	"fleetflow/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// Create persists a new vehicle.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetAll retrieves all vehicles, retired ones included.
	GetAll(ctx context.Context) ([]*domain.Vehicle, error)

	// GetActive retrieves all vehicles that are not OUT_OF_SERVICE.
	GetActive(ctx context.Context) ([]*domain.Vehicle, error)

	// GetByStatus retrieves all vehicles with the given status.
	GetByStatus(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error)

	// UpdateStatus updates the status of a vehicle.
	UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error

	// UpdateStatusAndOdometer updates the status and the live odometer of a
	// vehicle in one statement.
	UpdateStatusAndOdometer(ctx context.Context, id string, status domain.VehicleStatus, odometerKm float64) error
}
