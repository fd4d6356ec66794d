package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusDraft      TripStatus = "DRAFT"
	TripStatusDispatched TripStatus = "DISPATCHED"
	TripStatusCompleted  TripStatus = "COMPLETED"
	TripStatusCancelled  TripStatus = "CANCELLED"
)

// Trip represents a dispatch assignment of one vehicle and one driver
// between an origin and a destination. Trips are never physically deleted.
type Trip struct {
	ID              string
	VehicleID       string
	DriverID        string
	Status          TripStatus
	CargoWeightKg   float64 // snapshot at creation; does not track later cargo edits
	Origin          string
	Destination     string
	StartOdometerKm *float64 // set at dispatch from the vehicle's live odometer
	EndOdometerKm   *float64 // set at completion
	Revenue         *float64
	CreatedAt       time.Time
	CompletedAt     time.Time // zero until the trip completes
}

// Terminal reports whether the trip is in a terminal state.
func (t *Trip) Terminal() bool {
	return t.Status == TripStatusCompleted || t.Status == TripStatusCancelled
}

// DistanceKm returns the odometer distance covered by the trip, or false
// when either endpoint is missing.
func (t *Trip) DistanceKm() (float64, bool) {
	if t.StartOdometerKm == nil || t.EndOdometerKm == nil {
		return 0, false
	}
	return *t.EndOdometerKm - *t.StartOdometerKm, true
}

// ValidTripStatus reports whether s is a known trip status.
func ValidTripStatus(s TripStatus) bool {
	switch s {
	case TripStatusDraft, TripStatusDispatched, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}
