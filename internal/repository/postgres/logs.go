package postgres

import (
	"context"
	"database/sql"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// FuelLogRepository is a PostgreSQL implementation of repository.FuelLogRepository.
type FuelLogRepository struct {
	q Querier
}

// NewFuelLogRepository creates a new PostgreSQL fuel log repository.
func NewFuelLogRepository(db *sql.DB) *FuelLogRepository {
	return &FuelLogRepository{q: db}
}

// Create persists a new fuel log. Logs are append-only.
func (r *FuelLogRepository) Create(ctx context.Context, log *domain.FuelLog) error {
	query := `
		INSERT INTO fuel_logs (id, vehicle_id, trip_id, liters, cost, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var tripID sql.NullString
	if log.TripID != "" {
		tripID = sql.NullString{String: log.TripID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query, log.ID, log.VehicleID, tripID, log.Liters, log.Cost, log.Date)
	return err
}

// GetAll retrieves all fuel logs, newest first.
func (r *FuelLogRepository) GetAll(ctx context.Context) ([]*domain.FuelLog, error) {
	query := `SELECT id, vehicle_id, trip_id, liters, cost, date FROM fuel_logs ORDER BY date DESC`
	return r.queryFuelLogs(ctx, query)
}

// GetByVehicleID retrieves the fuel logs for one vehicle, newest first.
func (r *FuelLogRepository) GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.FuelLog, error) {
	query := `SELECT id, vehicle_id, trip_id, liters, cost, date FROM fuel_logs WHERE vehicle_id = $1 ORDER BY date DESC`
	return r.queryFuelLogs(ctx, query, vehicleID)
}

func (r *FuelLogRepository) queryFuelLogs(ctx context.Context, query string, args ...any) ([]*domain.FuelLog, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.FuelLog
	for rows.Next() {
		var log domain.FuelLog
		var tripID sql.NullString

		if err := rows.Scan(&log.ID, &log.VehicleID, &tripID, &log.Liters, &log.Cost, &log.Date); err != nil {
			return nil, err
		}
		if tripID.Valid {
			log.TripID = tripID.String
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// MaintenanceLogRepository is a PostgreSQL implementation of
// repository.MaintenanceLogRepository.
type MaintenanceLogRepository struct {
	q Querier
}

// NewMaintenanceLogRepository creates a new PostgreSQL maintenance log repository.
func NewMaintenanceLogRepository(db *sql.DB) *MaintenanceLogRepository {
	return &MaintenanceLogRepository{q: db}
}

// NewMaintenanceLogRepositoryWithTx creates a maintenance log repository
// using a transaction.
func NewMaintenanceLogRepositoryWithTx(tx *sql.Tx) *MaintenanceLogRepository {
	return &MaintenanceLogRepository{q: tx}
}

// Create persists a new maintenance log. Logs are append-only.
func (r *MaintenanceLogRepository) Create(ctx context.Context, log *domain.MaintenanceLog) error {
	query := `
		INSERT INTO maintenance_logs (id, vehicle_id, description, cost, performed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query, log.ID, log.VehicleID, log.Description, nullFloat(log.Cost), log.PerformedAt)
	return err
}

// GetAll retrieves all maintenance logs, newest first.
func (r *MaintenanceLogRepository) GetAll(ctx context.Context) ([]*domain.MaintenanceLog, error) {
	query := `SELECT id, vehicle_id, description, cost, performed_at FROM maintenance_logs ORDER BY performed_at DESC`
	return r.queryMaintenanceLogs(ctx, query)
}

// GetByVehicleID retrieves the maintenance logs for one vehicle, newest first.
func (r *MaintenanceLogRepository) GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.MaintenanceLog, error) {
	query := `SELECT id, vehicle_id, description, cost, performed_at FROM maintenance_logs WHERE vehicle_id = $1 ORDER BY performed_at DESC`
	return r.queryMaintenanceLogs(ctx, query, vehicleID)
}

func (r *MaintenanceLogRepository) queryMaintenanceLogs(ctx context.Context, query string, args ...any) ([]*domain.MaintenanceLog, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.MaintenanceLog
	for rows.Next() {
		var log domain.MaintenanceLog
		var cost sql.NullFloat64

		if err := rows.Scan(&log.ID, &log.VehicleID, &log.Description, &cost, &log.PerformedAt); err != nil {
			return nil, err
		}
		log.Cost = floatPtr(cost)

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// ExpenseRepository is a PostgreSQL implementation of repository.ExpenseRepository.
type ExpenseRepository struct {
	q Querier
}

// NewExpenseRepository creates a new PostgreSQL expense repository.
func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{q: db}
}

// Create persists a new expense. Expenses are append-only.
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, vehicle_id, description, amount, date)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query, expense.ID, expense.VehicleID, expense.Description, expense.Amount, expense.Date)
	return err
}

// GetAll retrieves all expenses, newest first.
func (r *ExpenseRepository) GetAll(ctx context.Context) ([]*domain.Expense, error) {
	query := `SELECT id, vehicle_id, description, amount, date FROM expenses ORDER BY date DESC`
	return r.queryExpenses(ctx, query)
}

// GetByVehicleID retrieves the expenses for one vehicle, newest first.
func (r *ExpenseRepository) GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Expense, error) {
	query := `SELECT id, vehicle_id, description, amount, date FROM expenses WHERE vehicle_id = $1 ORDER BY date DESC`
	return r.queryExpenses(ctx, query, vehicleID)
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]*domain.Expense, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		var expense domain.Expense

		if err := rows.Scan(&expense.ID, &expense.VehicleID, &expense.Description, &expense.Amount, &expense.Date); err != nil {
			return nil, err
		}

		expenses = append(expenses, &expense)
	}

	return expenses, rows.Err()
}

// Ensure implementations satisfy the repository interfaces.
var (
	_ repository.FuelLogRepository        = (*FuelLogRepository)(nil)
	_ repository.MaintenanceLogRepository = (*MaintenanceLogRepository)(nil)
	_ repository.ExpenseRepository        = (*ExpenseRepository)(nil)
)
