package domain

import "time"

// FuelLog is an append-only refueling record for a vehicle, optionally
// tied to the trip it was fueled for.
type FuelLog struct {
	ID        string
	VehicleID string
	TripID    string // optional
	Liters    float64
	Cost      float64
	Date      time.Time
}

// MaintenanceLog is an append-only service record for a vehicle.
type MaintenanceLog struct {
	ID          string
	VehicleID   string
	Description string
	Cost        *float64 // nil when the cost has not been recorded yet
	PerformedAt time.Time
}

// Expense is an append-only miscellaneous cost record for a vehicle.
type Expense struct {
	ID          string
	VehicleID   string
	Description string
	Amount      float64
	Date        time.Time
}
