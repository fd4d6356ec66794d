package service

import "errors"

// Validation errors: the caller sent malformed or out-of-range input.
var (
	// ErrInvalidVehicleID is returned when vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidCargoWeight is returned when cargo weight is not positive.
	ErrInvalidCargoWeight = errors.New("cargo weight must be positive")

	// ErrInvalidRoute is returned when origin or destination is empty.
	ErrInvalidRoute = errors.New("origin and destination are required")

	// ErrInvalidRevenue is returned when revenue is negative.
	ErrInvalidRevenue = errors.New("revenue must not be negative")

	// ErrInvalidOdometer is returned when an odometer reading is negative.
	ErrInvalidOdometer = errors.New("odometer reading must not be negative")

	// ErrInvalidAmount is returned when a log amount or cost is out of range.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidDescription is returned when a required description is empty.
	ErrInvalidDescription = errors.New("description is required")
)

// Precondition failures: a business rule rejected the operation. The
// eligibility validator returns these in a fixed order, so the first
// failing rule is deterministic.
var (
	// ErrVehicleNotAvailable is returned when the vehicle is not AVAILABLE.
	ErrVehicleNotAvailable = errors.New("vehicle is not available")

	// ErrDriverNotAvailable is returned when the driver is not AVAILABLE.
	ErrDriverNotAvailable = errors.New("driver is not available")

	// ErrLicenseExpired is returned when the driver's license has expired.
	ErrLicenseExpired = errors.New("driver license has expired")

	// ErrVehicleTypeNotAuthorized is returned when the driver is not
	// authorized for the vehicle's type.
	ErrVehicleTypeNotAuthorized = errors.New("driver not authorized for this vehicle type")

	// ErrCapacityExceeded is returned when cargo weight exceeds the
	// vehicle's max load capacity.
	ErrCapacityExceeded = errors.New("cargo weight exceeds vehicle max capacity")

	// ErrCargoAlreadyAssigned is returned when linking cargo that has
	// already left the pending pool.
	ErrCargoAlreadyAssigned = errors.New("cargo is already assigned to a trip")
)

// Not-found errors: a referenced entity does not exist.
var (
	// ErrVehicleNotFound is returned when the referenced vehicle does not exist.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrDriverNotFound is returned when the referenced driver does not exist.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrCargoNotFound is returned when the referenced cargo does not exist.
	ErrCargoNotFound = errors.New("cargo not found")

	// ErrTripNotFound is returned when the referenced trip does not exist.
	ErrTripNotFound = errors.New("trip not found")
)

// State machine errors.
var (
	// ErrInvalidTransition is returned when the state machine rejects the
	// requested move from the trip's current state. Nothing is mutated.
	ErrInvalidTransition = errors.New("invalid trip transition")

	// ErrTransitionInProgress is returned when another transition already
	// holds the trip lock.
	ErrTransitionInProgress = errors.New("another transition is in progress for this trip")
)
