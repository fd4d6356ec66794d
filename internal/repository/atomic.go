package repository

import "context"

// TxRepos bundles the repositories scoped to a single transaction. Writes
// made through them commit or roll back together.
type TxRepos interface {
	Trips() TripRepository
	Vehicles() VehicleRepository
	Drivers() DriverRepository
	Cargo() CargoRepository
	MaintenanceLogs() MaintenanceLogRepository
}

// Atomic executes multi-entity writes as one all-or-nothing unit. The trip
// state machine requires this for every transition side effect: a vehicle
// must never flip to ON_TRIP while the trip write fails.
type Atomic interface {
	RunInTx(ctx context.Context, fn func(repos TxRepos) error) error
}
