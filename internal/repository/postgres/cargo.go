package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// CargoRepository is a PostgreSQL implementation of repository.CargoRepository.
type CargoRepository struct {
	q Querier
}

// NewCargoRepository creates a new PostgreSQL cargo repository.
func NewCargoRepository(db *sql.DB) *CargoRepository {
	return &CargoRepository{q: db}
}

// NewCargoRepositoryWithTx creates a cargo repository using a transaction.
func NewCargoRepositoryWithTx(tx *sql.Tx) *CargoRepository {
	return &CargoRepository{q: tx}
}

const cargoColumns = `id, description, weight_kg, origin, destination, assigned_trip_id, created_at`

// Create persists a new cargo record.
func (r *CargoRepository) Create(ctx context.Context, cargo *domain.Cargo) error {
	query := `
		INSERT INTO cargo (` + cargoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var assignedTripID sql.NullString
	if cargo.AssignedTripID != "" {
		assignedTripID = sql.NullString{String: cargo.AssignedTripID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		cargo.ID,
		cargo.Description,
		cargo.WeightKg,
		cargo.Origin,
		cargo.Destination,
		assignedTripID,
		cargo.CreatedAt,
	)

	return err
}

// GetByID retrieves a cargo record by ID.
func (r *CargoRepository) GetByID(ctx context.Context, id string) (*domain.Cargo, error) {
	query := `SELECT ` + cargoColumns + ` FROM cargo WHERE id = $1`

	cargo, err := scanCargo(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return cargo, nil
}

// GetAll retrieves all cargo records, newest first.
func (r *CargoRepository) GetAll(ctx context.Context) ([]*domain.Cargo, error) {
	query := `SELECT ` + cargoColumns + ` FROM cargo ORDER BY created_at DESC`
	return r.queryCargo(ctx, query)
}

// GetPending retrieves cargo not yet linked to any trip, newest first.
func (r *CargoRepository) GetPending(ctx context.Context) ([]*domain.Cargo, error) {
	query := `
		SELECT ` + cargoColumns + ` FROM cargo
		WHERE assigned_trip_id IS NULL OR assigned_trip_id = ''
		ORDER BY created_at DESC
	`
	return r.queryCargo(ctx, query)
}

// AssignToTrip stamps the cargo with the trip it has been linked to. The
// update is guarded on the cargo still being unassigned; when a concurrent
// assignment won the race, ErrStaleStatus is returned.
func (r *CargoRepository) AssignToTrip(ctx context.Context, cargoID, tripID string) error {
	query := `
		UPDATE cargo SET assigned_trip_id = $1
		WHERE id = $2 AND (assigned_trip_id IS NULL OR assigned_trip_id = '')
	`

	result, err := r.q.ExecContext(ctx, query, tripID, cargoID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrStaleStatus
	}

	return nil
}

func (r *CargoRepository) queryCargo(ctx context.Context, query string, args ...any) ([]*domain.Cargo, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Cargo
	for rows.Next() {
		cargo, err := scanCargo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, cargo)
	}

	return items, rows.Err()
}

func scanCargo(row rowScanner) (*domain.Cargo, error) {
	var cargo domain.Cargo
	var assignedTripID sql.NullString

	err := row.Scan(
		&cargo.ID,
		&cargo.Description,
		&cargo.WeightKg,
		&cargo.Origin,
		&cargo.Destination,
		&assignedTripID,
		&cargo.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTripID.Valid {
		cargo.AssignedTripID = assignedTripID.String
	}

	return &cargo, nil
}

// Ensure CargoRepository implements repository.CargoRepository.
var _ repository.CargoRepository = (*CargoRepository)(nil)
