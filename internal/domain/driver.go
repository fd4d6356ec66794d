package domain

import "time"

// DriverStatus represents the current status of a driver.
type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "AVAILABLE"
	DriverStatusOnDuty    DriverStatus = "ON_DUTY"
	DriverStatusOffDuty   DriverStatus = "OFF_DUTY"
	DriverStatusSuspended DriverStatus = "SUSPENDED"
)

// Driver represents a driver in the fleet.
type Driver struct {
	ID            string
	Name          string
	LicenseNumber string
	LicenseExpiry time.Time
	VehicleTypes  []VehicleType // vehicle types the driver is authorized to operate
	Status        DriverStatus
	SafetyScore   int // 0-100
	CreatedAt     time.Time
}

// AuthorizedFor reports whether the driver may operate the given vehicle type.
func (d *Driver) AuthorizedFor(t VehicleType) bool {
	for _, vt := range d.VehicleTypes {
		if vt == t {
			return true
		}
	}
	return false
}

// LicenseValid reports whether the driver's license is valid at the given time.
func (d *Driver) LicenseValid(at time.Time) bool {
	return d.LicenseExpiry.After(at)
}

// ValidDriverStatus reports whether s is a known driver status.
func ValidDriverStatus(s DriverStatus) bool {
	switch s {
	case DriverStatusAvailable, DriverStatusOnDuty, DriverStatusOffDuty, DriverStatusSuspended:
		return true
	}
	return false
}
