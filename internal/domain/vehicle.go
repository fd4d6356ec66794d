package domain

import "time"

// VehicleType classifies a vehicle for load and authorization purposes.
type VehicleType string

const (
	VehicleTypeTruck VehicleType = "TRUCK"
	VehicleTypeVan   VehicleType = "VAN"
	VehicleTypeBike  VehicleType = "BIKE"
)

// VehicleStatus represents the current operational status of a vehicle.
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "AVAILABLE"
	VehicleStatusOnTrip       VehicleStatus = "ON_TRIP"
	VehicleStatusInShop       VehicleStatus = "IN_SHOP"
	VehicleStatusOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

// Vehicle represents a fleet vehicle. Vehicles are never deleted;
// retirement is modeled as status OUT_OF_SERVICE.
type Vehicle struct {
	ID                string
	Name              string
	Model             string
	LicensePlate      string
	Type              VehicleType
	MaxLoadCapacityKg float64
	Status            VehicleStatus
	OdometerKm        float64
	Region            string
	AcquisitionCost   float64 // 0 means not recorded
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Active reports whether the vehicle counts toward the active fleet.
func (v *Vehicle) Active() bool {
	return v.Status != VehicleStatusOutOfService
}

// ValidVehicleType reports whether t is a known vehicle type.
func ValidVehicleType(t VehicleType) bool {
	switch t {
	case VehicleTypeTruck, VehicleTypeVan, VehicleTypeBike:
		return true
	}
	return false
}

// ValidVehicleStatus reports whether s is a known vehicle status.
func ValidVehicleStatus(s VehicleStatus) bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusOnTrip, VehicleStatusInShop, VehicleStatusOutOfService:
		return true
	}
	return false
}
