package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, vehicle_id, driver_id, status, cargo_weight_kg, origin, destination, start_odometer_km, end_odometer_km, revenue, created_at, completed_at`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.VehicleID,
		trip.DriverID,
		trip.Status,
		trip.CargoWeightKg,
		trip.Origin,
		trip.Destination,
		nullFloat(trip.StartOdometerKm),
		nullFloat(trip.EndOdometerKm),
		nullFloat(trip.Revenue),
		trip.CreatedAt,
		nullTime(trip.CompletedAt),
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetAll retrieves all trips, newest first.
func (r *TripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC`
	return r.queryTrips(ctx, query)
}

// GetByStatus retrieves all trips with the given status.
func (r *TripRepository) GetByStatus(ctx context.Context, status domain.TripStatus) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE status = $1 ORDER BY created_at DESC`
	return r.queryTrips(ctx, query, status)
}

// GetCompleted retrieves all completed trips.
func (r *TripRepository) GetCompleted(ctx context.Context) ([]*domain.Trip, error) {
	return r.GetByStatus(ctx, domain.TripStatusCompleted)
}

// GetDispatchedBefore retrieves DISPATCHED trips created before the cutoff,
// oldest first.
func (r *TripRepository) GetDispatchedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC
	`
	return r.queryTrips(ctx, query, domain.TripStatusDispatched, cutoff)
}

// UpdateFrom writes the trip's current fields, guarded on the row still
// holding the given status. A zero-row update means a concurrent transition
// won the race and surfaces as ErrStaleStatus.
func (r *TripRepository) UpdateFrom(ctx context.Context, trip *domain.Trip, from domain.TripStatus) error {
	query := `
		UPDATE trips
		SET status = $1, start_odometer_km = $2, end_odometer_km = $3, revenue = $4, completed_at = $5
		WHERE id = $6 AND status = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.Status,
		nullFloat(trip.StartOdometerKm),
		nullFloat(trip.EndOdometerKm),
		nullFloat(trip.Revenue),
		nullTime(trip.CompletedAt),
		trip.ID,
		from,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrStaleStatus
	}

	return nil
}

func (r *TripRepository) queryTrips(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var startOdo, endOdo, revenue sql.NullFloat64
	var completedAt sql.NullTime

	err := row.Scan(
		&trip.ID,
		&trip.VehicleID,
		&trip.DriverID,
		&trip.Status,
		&trip.CargoWeightKg,
		&trip.Origin,
		&trip.Destination,
		&startOdo,
		&endOdo,
		&revenue,
		&trip.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	trip.StartOdometerKm = floatPtr(startOdo)
	trip.EndOdometerKm = floatPtr(endOdo)
	trip.Revenue = floatPtr(revenue)
	if completedAt.Valid {
		trip.CompletedAt = completedAt.Time
	}

	return &trip, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
