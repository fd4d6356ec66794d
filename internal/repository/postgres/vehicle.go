package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// NewVehicleRepositoryWithTx creates a vehicle repository using a transaction.
func NewVehicleRepositoryWithTx(tx *sql.Tx) *VehicleRepository {
	return &VehicleRepository{q: tx}
}

const vehicleColumns = `id, name, model, license_plate, vehicle_type, max_load_capacity_kg, status, odometer_km, region, acquisition_cost, created_at, updated_at`

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var region sql.NullString
	if vehicle.Region != "" {
		region = sql.NullString{String: vehicle.Region, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Name,
		vehicle.Model,
		vehicle.LicensePlate,
		vehicle.Type,
		vehicle.MaxLoadCapacityKg,
		vehicle.Status,
		vehicle.OdometerKm,
		region,
		vehicle.AcquisitionCost,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)

	return err
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	vehicle, err := scanVehicle(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

// GetAll retrieves all vehicles, retired ones included.
func (r *VehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY name`
	return r.queryVehicles(ctx, query)
}

// GetActive retrieves all vehicles that are not OUT_OF_SERVICE.
func (r *VehicleRepository) GetActive(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE status != $1 ORDER BY name`
	return r.queryVehicles(ctx, query, domain.VehicleStatusOutOfService)
}

// GetByStatus retrieves all vehicles with the given status.
func (r *VehicleRepository) GetByStatus(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE status = $1 ORDER BY name`
	return r.queryVehicles(ctx, query, status)
}

// UpdateStatus updates the status of a vehicle.
func (r *VehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	query := `UPDATE vehicles SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// UpdateStatusAndOdometer updates the status and the live odometer of a vehicle.
func (r *VehicleRepository) UpdateStatusAndOdometer(ctx context.Context, id string, status domain.VehicleStatus, odometerKm float64) error {
	query := `UPDATE vehicles SET status = $1, odometer_km = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, status, odometerKm, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

func (r *VehicleRepository) queryVehicles(ctx context.Context, query string, args ...any) ([]*domain.Vehicle, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	var region sql.NullString

	err := row.Scan(
		&vehicle.ID,
		&vehicle.Name,
		&vehicle.Model,
		&vehicle.LicensePlate,
		&vehicle.Type,
		&vehicle.MaxLoadCapacityKg,
		&vehicle.Status,
		&vehicle.OdometerKm,
		&region,
		&vehicle.AcquisitionCost,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if region.Valid {
		vehicle.Region = region.String
	}

	return &vehicle, nil
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Ensure VehicleRepository implements repository.VehicleRepository.
var _ repository.VehicleRepository = (*VehicleRepository)(nil)
