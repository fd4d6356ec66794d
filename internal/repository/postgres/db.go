package postgres

import (
	"context"
	"database/sql"

	"fleetflow/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Atomic runs multi-entity writes inside a single database transaction.
type Atomic struct {
	db *sql.DB
}

// NewAtomic creates a transaction runner backed by the given database.
func NewAtomic(db *sql.DB) *Atomic {
	return &Atomic{db: db}
}

// RunInTx begins a transaction, hands transaction-scoped repositories to fn,
// and commits only if fn returns nil. Any error rolls everything back.
func (a *Atomic) RunInTx(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&txRepos{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// txRepos lazily builds repositories bound to one transaction.
type txRepos struct {
	tx *sql.Tx
}

func (r *txRepos) Trips() repository.TripRepository { return NewTripRepositoryWithTx(r.tx) }

func (r *txRepos) Vehicles() repository.VehicleRepository { return NewVehicleRepositoryWithTx(r.tx) }

func (r *txRepos) Drivers() repository.DriverRepository { return NewDriverRepositoryWithTx(r.tx) }

func (r *txRepos) Cargo() repository.CargoRepository { return NewCargoRepositoryWithTx(r.tx) }

func (r *txRepos) MaintenanceLogs() repository.MaintenanceLogRepository {
	return NewMaintenanceLogRepositoryWithTx(r.tx)
}

// Ensure Atomic implements repository.Atomic.
var _ repository.Atomic = (*Atomic)(nil)
