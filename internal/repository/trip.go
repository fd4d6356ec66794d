package repository

import (
	"context"
	"time"

	"fleetflow/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetAll retrieves all trips, newest first.
	GetAll(ctx context.Context) ([]*domain.Trip, error)

	// GetByStatus retrieves all trips with the given status.
	GetByStatus(ctx context.Context, status domain.TripStatus) ([]*domain.Trip, error)

	// GetCompleted retrieves all completed trips.
	GetCompleted(ctx context.Context) ([]*domain.Trip, error)

	// GetDispatchedBefore retrieves DISPATCHED trips created before the
	// cutoff, oldest first. Used for overdue detection.
	GetDispatchedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Trip, error)

	// UpdateFrom writes the trip's current fields, guarded on the trip
	// still holding the given status. Returns ErrStaleStatus when another
	// transition got there first.
	UpdateFrom(ctx context.Context, trip *domain.Trip, from domain.TripStatus) error
}
