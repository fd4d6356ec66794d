package domain

import "time"

// Cargo represents a load waiting for, or assigned to, a trip. A cargo
// record with no assigned trip is part of the pending pool.
type Cargo struct {
	ID             string
	Description    string
	WeightKg       float64
	Origin         string
	Destination    string
	AssignedTripID string // empty while pending; lookup only, the trip does not own the cargo
	CreatedAt      time.Time
}

// Pending reports whether the cargo has not yet been linked to a trip.
func (c *Cargo) Pending() bool {
	return c.AssignedTripID == ""
}
