package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `id, name, license_number, license_expiry, vehicle_types, status, safety_score, created_at`

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (` + driverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.LicenseNumber,
		driver.LicenseExpiry,
		joinVehicleTypes(driver.VehicleTypes),
		driver.Status,
		driver.SafetyScore,
		driver.CreatedAt,
	)

	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return driver, nil
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY name`
	return r.queryDrivers(ctx, query)
}

// GetLicenseExpiringBetween retrieves drivers whose license expiry falls
// within [from, to], ordered soonest first.
func (r *DriverRepository) GetLicenseExpiringBetween(ctx context.Context, from, to time.Time) ([]*domain.Driver, error) {
	query := `
		SELECT ` + driverColumns + ` FROM drivers
		WHERE license_expiry >= $1 AND license_expiry <= $2
		ORDER BY license_expiry ASC
	`
	return r.queryDrivers(ctx, query, from, to)
}

// UpdateStatus updates the status of a driver.
func (r *DriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error {
	query := `UPDATE drivers SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

func (r *DriverRepository) queryDrivers(ctx context.Context, query string, args ...any) ([]*domain.Driver, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}

	return drivers, rows.Err()
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var driver domain.Driver
	var vehicleTypes string

	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.LicenseNumber,
		&driver.LicenseExpiry,
		&vehicleTypes,
		&driver.Status,
		&driver.SafetyScore,
		&driver.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	driver.VehicleTypes = splitVehicleTypes(vehicleTypes)

	return &driver, nil
}

// Authorized vehicle types persist as a comma-separated list.
func joinVehicleTypes(types []domain.VehicleType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func splitVehicleTypes(csv string) []domain.VehicleType {
	var types []domain.VehicleType
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			types = append(types, domain.VehicleType(part))
		}
	}
	return types
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
