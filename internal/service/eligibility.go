package service

import (
	"fmt"
	"time"

	"fleetflow/internal/domain"
)

// Eligibility checks whether a vehicle/driver/cargo combination may start a
// trip. The checks are pure and run in a fixed order so the first failing
// rule is deterministic: vehicle availability, driver availability, license
// validity, vehicle-type authorization, capacity.
//
// The same checks run before trip creation and again at dispatch, where the
// availability rules guard against entities gone stale since the draft was
// created.

// CheckVehicleAvailable verifies the vehicle can be assigned a trip.
func CheckVehicleAvailable(vehicle *domain.Vehicle) error {
	if vehicle.Status != domain.VehicleStatusAvailable {
		return fmt.Errorf("%w (status %s)", ErrVehicleNotAvailable, vehicle.Status)
	}
	return nil
}

// CheckDriverAvailable verifies the driver can be assigned a trip.
func CheckDriverAvailable(driver *domain.Driver) error {
	if driver.Status != domain.DriverStatusAvailable {
		return fmt.Errorf("%w (status %s)", ErrDriverNotAvailable, driver.Status)
	}
	return nil
}

// CheckLicenseValid verifies the driver's license has not expired at the
// given time.
func CheckLicenseValid(driver *domain.Driver, now time.Time) error {
	if !driver.LicenseValid(now) {
		return fmt.Errorf("%w (expired %s)", ErrLicenseExpired, driver.LicenseExpiry.Format("2006-01-02"))
	}
	return nil
}

// CheckTypeAuthorized verifies the driver is authorized for the vehicle's type.
func CheckTypeAuthorized(driver *domain.Driver, vehicle *domain.Vehicle) error {
	if !driver.AuthorizedFor(vehicle.Type) {
		return fmt.Errorf("%w (%s)", ErrVehicleTypeNotAuthorized, vehicle.Type)
	}
	return nil
}

// CheckCapacity verifies the cargo fits the vehicle's max load.
func CheckCapacity(vehicle *domain.Vehicle, cargoWeightKg float64) error {
	if cargoWeightKg > vehicle.MaxLoadCapacityKg {
		return fmt.Errorf("%w: cargo weight (%.0f kg) exceeds vehicle max capacity (%.0f kg)",
			ErrCapacityExceeded, cargoWeightKg, vehicle.MaxLoadCapacityKg)
	}
	return nil
}

// ValidateTripEligibility runs the full rule set in order and returns the
// first failure. Used before trip creation.
func ValidateTripEligibility(vehicle *domain.Vehicle, driver *domain.Driver, cargoWeightKg float64, now time.Time) error {
	if err := CheckVehicleAvailable(vehicle); err != nil {
		return err
	}
	if err := CheckDriverAvailable(driver); err != nil {
		return err
	}
	if err := CheckLicenseValid(driver, now); err != nil {
		return err
	}
	if err := CheckTypeAuthorized(driver, vehicle); err != nil {
		return err
	}
	return CheckCapacity(vehicle, cargoWeightKg)
}

// ValidateDispatchEligibility re-runs the staleness-sensitive rules before
// dispatch. Capacity is not re-checked; the cargo-weight invariant is
// enforced once, at creation.
func ValidateDispatchEligibility(vehicle *domain.Vehicle, driver *domain.Driver, now time.Time) error {
	if err := CheckVehicleAvailable(vehicle); err != nil {
		return err
	}
	if err := CheckDriverAvailable(driver); err != nil {
		return err
	}
	if err := CheckLicenseValid(driver, now); err != nil {
		return err
	}
	return CheckTypeAuthorized(driver, vehicle)
}
