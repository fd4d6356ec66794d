package repository

import (
	"context"

	"fleetflow/internal/domain"
)

// CargoRepository defines the persistence operations for cargo records.
type CargoRepository interface {
	// Create persists a new cargo record.
	Create(ctx context.Context, cargo *domain.Cargo) error

	// GetByID retrieves a cargo record by ID.
	GetByID(ctx context.Context, id string) (*domain.Cargo, error)

	// GetAll retrieves all cargo records, newest first.
	GetAll(ctx context.Context) ([]*domain.Cargo, error)

	// GetPending retrieves cargo not yet linked to any trip, newest first.
	GetPending(ctx context.Context) ([]*domain.Cargo, error)

	// AssignToTrip stamps the cargo with the trip it has been linked to,
	// removing it from the pending pool.
	AssignToTrip(ctx context.Context, cargoID, tripID string) error
}
