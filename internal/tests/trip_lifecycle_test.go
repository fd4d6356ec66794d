package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
	"fleetflow/internal/service"
)

// ──────────────────────────────────────────────
// TRIP LIFECYCLE
// ──────────────────────────────────────────────

type tripFixture struct {
	tripRepo    *MockTripRepository
	vehicleRepo *MockVehicleRepository
	driverRepo  *MockDriverRepository
	cargoRepo   *MockCargoRepository
	maintRepo   *MockMaintenanceLogRepository
	lockStore   *MockLockStore
	cacheStore  *MockCacheStore
	svc         *service.TripService
}

func newTripFixture() *tripFixture {
	f := &tripFixture{
		tripRepo:    NewMockTripRepository(),
		vehicleRepo: NewMockVehicleRepository(),
		driverRepo:  NewMockDriverRepository(),
		cargoRepo:   NewMockCargoRepository(),
		maintRepo:   NewMockMaintenanceLogRepository(),
		lockStore:   NewMockLockStore(),
		cacheStore:  NewMockCacheStore(),
	}
	atomic := NewMockAtomic(f.tripRepo, f.vehicleRepo, f.driverRepo, f.cargoRepo, f.maintRepo)
	f.svc = service.NewTripService(atomic, f.tripRepo, f.vehicleRepo, f.driverRepo, f.cargoRepo, f.lockStore, f.cacheStore, nil)
	return f
}

func (f *tripFixture) addVan(id string, odometerKm float64) *domain.Vehicle {
	v := &domain.Vehicle{
		ID:                id,
		Name:              "Van-" + id,
		LicensePlate:      "PLT-" + id,
		Type:              domain.VehicleTypeVan,
		MaxLoadCapacityKg: 1000,
		Status:            domain.VehicleStatusAvailable,
		OdometerKm:        odometerKm,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	f.vehicleRepo.AddVehicle(v)
	return v
}

func (f *tripFixture) addVanDriver(id string) *domain.Driver {
	d := &domain.Driver{
		ID:            id,
		Name:          "Driver " + id,
		LicenseNumber: "DL-" + id,
		LicenseExpiry: time.Now().AddDate(1, 0, 0),
		VehicleTypes:  []domain.VehicleType{domain.VehicleTypeVan},
		Status:        domain.DriverStatusAvailable,
		SafetyScore:   90,
		CreatedAt:     time.Now(),
	}
	f.driverRepo.AddDriver(d)
	return d
}

func (f *tripFixture) createDraft(t *testing.T) *domain.Trip {
	t.Helper()
	trip, err := f.svc.CreateTrip(context.Background(), service.CreateTripRequest{
		VehicleID:     "v1",
		DriverID:      "d1",
		CargoWeightKg: 500,
		Origin:        "Depot",
		Destination:   "Harbor",
	})
	require.NoError(t, err)
	return trip
}

func floatPtr(v float64) *float64 { return &v }

func TestTripCreate_StartsInDraftWithoutSideEffects(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")

	trip := f.createDraft(t)

	assert.Equal(t, domain.TripStatusDraft, trip.Status)
	assert.Nil(t, trip.StartOdometerKm)

	// A draft reserves nothing.
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleRepo.GetVehicle("v1").Status)
	assert.Equal(t, domain.DriverStatusAvailable, f.driverRepo.GetDriver("d1").Status)
}

func TestTripCreate_RejectsOverweightCargo(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000) // capacity 1000 kg
	f.addVanDriver("d1")

	_, err := f.svc.CreateTrip(context.Background(), service.CreateTripRequest{
		VehicleID:     "v1",
		DriverID:      "d1",
		CargoWeightKg: 1500,
		Origin:        "Depot",
		Destination:   "Harbor",
	})
	require.ErrorIs(t, err, service.ErrCapacityExceeded)
	assert.Contains(t, err.Error(), "1500")
	assert.Contains(t, err.Error(), "1000")
}

func TestTripCreate_RejectsExpiredLicense(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	d := f.addVanDriver("d1")
	d.LicenseExpiry = time.Now().AddDate(0, 0, -1)

	_, err := f.svc.CreateTrip(context.Background(), service.CreateTripRequest{
		VehicleID:     "v1",
		DriverID:      "d1",
		CargoWeightKg: 500,
		Origin:        "Depot",
		Destination:   "Harbor",
	})
	require.ErrorIs(t, err, service.ErrLicenseExpired)
}

func TestTripCreate_RejectsUnauthorizedVehicleType(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	v := f.addVan("v1", 1000)
	v.Type = domain.VehicleTypeTruck
	v.MaxLoadCapacityKg = 10000
	f.addVanDriver("d1") // authorized for VAN only

	_, err := f.svc.CreateTrip(context.Background(), service.CreateTripRequest{
		VehicleID:     "v1",
		DriverID:      "d1",
		CargoWeightKg: 500,
		Origin:        "Depot",
		Destination:   "Harbor",
	})
	require.ErrorIs(t, err, service.ErrVehicleTypeNotAuthorized)
}

func TestTripCreate_RejectsBusyVehicle(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	v := f.addVan("v1", 1000)
	v.Status = domain.VehicleStatusInShop
	f.addVanDriver("d1")

	_, err := f.svc.CreateTrip(context.Background(), service.CreateTripRequest{
		VehicleID:     "v1",
		DriverID:      "d1",
		CargoWeightKg: 500,
		Origin:        "Depot",
		Destination:   "Harbor",
	})
	require.ErrorIs(t, err, service.ErrVehicleNotAvailable)
}

func TestTripCreate_LinksPendingCargo(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	f.cargoRepo.AddCargo(&domain.Cargo{
		ID:          "c1",
		Description: "Crates",
		WeightKg:    500,
		Origin:      "Depot",
		Destination: "Harbor",
		CreatedAt:   time.Now(),
	})

	trip, err := f.svc.CreateTrip(context.Background(), service.CreateTripRequest{
		VehicleID:     "v1",
		DriverID:      "d1",
		CargoWeightKg: 500,
		Origin:        "Depot",
		Destination:   "Harbor",
		CargoID:       "c1",
	})
	require.NoError(t, err)

	assert.Equal(t, trip.ID, f.cargoRepo.GetCargo("c1").AssignedTripID)
}

func TestTripCreate_RejectsAssignedCargo(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	f.cargoRepo.AddCargo(&domain.Cargo{
		ID:             "c1",
		WeightKg:       500,
		AssignedTripID: "other-trip",
		CreatedAt:      time.Now(),
	})

	_, err := f.svc.CreateTrip(context.Background(), service.CreateTripRequest{
		VehicleID:     "v1",
		DriverID:      "d1",
		CargoWeightKg: 500,
		Origin:        "Depot",
		Destination:   "Harbor",
		CargoID:       "c1",
	})
	require.ErrorIs(t, err, service.ErrCargoAlreadyAssigned)
}

func TestTripCreate_CargoClaimedByConcurrentCreate(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	f.cargoRepo.AddCargo(&domain.Cargo{
		ID:          "c1",
		Description: "Crates",
		WeightKg:    500,
		CreatedAt:   time.Now(),
	})

	// The pending check passes, then the guarded update loses the race to
	// another create claiming the same cargo.
	f.cargoRepo.AssignError = repository.ErrStaleStatus

	_, err := f.svc.CreateTrip(context.Background(), service.CreateTripRequest{
		VehicleID:     "v1",
		DriverID:      "d1",
		CargoWeightKg: 500,
		Origin:        "Depot",
		Destination:   "Harbor",
		CargoID:       "c1",
	})
	require.ErrorIs(t, err, service.ErrCargoAlreadyAssigned)
}

func TestTripDispatch_ReservesPairAndSnapshotsOdometer(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	updated, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusDispatched,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TripStatusDispatched, updated.Status)
	require.NotNil(t, updated.StartOdometerKm)
	assert.Equal(t, 1000.0, *updated.StartOdometerKm)

	assert.Equal(t, domain.VehicleStatusOnTrip, f.vehicleRepo.GetVehicle("v1").Status)
	assert.Equal(t, domain.DriverStatusOnDuty, f.driverRepo.GetDriver("d1").Status)
}

func TestTripDispatch_RechecksEligibilityOnStaleDraft(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	d := f.addVanDriver("d1")
	trip := f.createDraft(t)

	// Driver suspended after the draft was created.
	d.Status = domain.DriverStatusSuspended

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusDispatched,
	})
	require.ErrorIs(t, err, service.ErrDriverNotAvailable)

	// Nothing moved.
	assert.Equal(t, domain.TripStatusDraft, f.tripRepo.GetTrip(trip.ID).Status)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleRepo.GetVehicle("v1").Status)
}

func TestTripComplete_RollsOdometerForward(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusDispatched,
	})
	require.NoError(t, err)

	completed, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:        trip.ID,
		NextStatus:    domain.TripStatusCompleted,
		EndOdometerKm: floatPtr(1200),
		Revenue:       floatPtr(850),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TripStatusCompleted, completed.Status)
	require.NotNil(t, completed.EndOdometerKm)
	assert.Equal(t, 1200.0, *completed.EndOdometerKm)
	require.NotNil(t, completed.Revenue)
	assert.Equal(t, 850.0, *completed.Revenue)
	assert.False(t, completed.CompletedAt.IsZero())

	distance, ok := completed.DistanceKm()
	require.True(t, ok)
	assert.Equal(t, 200.0, distance)

	// Vehicle odometer follows the reported reading; the pair is released.
	assert.Equal(t, 1200.0, f.vehicleRepo.GetVehicle("v1").OdometerKm)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleRepo.GetVehicle("v1").Status)
	assert.Equal(t, domain.DriverStatusAvailable, f.driverRepo.GetDriver("d1").Status)
}

func TestTripComplete_DefaultsEndOdometerToVehicleReading(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusDispatched,
	})
	require.NoError(t, err)

	completed, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusCompleted,
	})
	require.NoError(t, err)

	require.NotNil(t, completed.EndOdometerKm)
	assert.Equal(t, 1000.0, *completed.EndOdometerKm)
	assert.Equal(t, 1000.0, f.vehicleRepo.GetVehicle("v1").OdometerKm)
}

func TestTripComplete_AcceptsEndOdometerBelowSnapshot(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusDispatched,
	})
	require.NoError(t, err)

	// A reading below the dispatch snapshot is taken at face value.
	completed, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:        trip.ID,
		NextStatus:    domain.TripStatusCompleted,
		EndOdometerKm: floatPtr(900),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TripStatusCompleted, completed.Status)
	require.NotNil(t, completed.EndOdometerKm)
	assert.Equal(t, 900.0, *completed.EndOdometerKm)

	assert.Equal(t, 900.0, f.vehicleRepo.GetVehicle("v1").OdometerKm)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleRepo.GetVehicle("v1").Status)
	assert.Equal(t, domain.DriverStatusAvailable, f.driverRepo.GetDriver("d1").Status)
}

func TestTripCancel_FromDraftLeavesPairUntouched(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	cancelled, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusCancelled,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TripStatusCancelled, cancelled.Status)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleRepo.GetVehicle("v1").Status)
	assert.Equal(t, domain.DriverStatusAvailable, f.driverRepo.GetDriver("d1").Status)
	// No reservation existed, so no status writes happened at all.
	assert.Equal(t, int32(0), f.vehicleRepo.UpdateStatusCallCount)
}

func TestTripCancel_FromDispatchedReleasesPair(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusDispatched,
	})
	require.NoError(t, err)

	cancelled, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusCancelled,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TripStatusCancelled, cancelled.Status)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleRepo.GetVehicle("v1").Status)
	assert.Equal(t, domain.DriverStatusAvailable, f.driverRepo.GetDriver("d1").Status)
	// The dispatch snapshot survives cancellation.
	assert.NotNil(t, f.tripRepo.GetTrip(trip.ID).StartOdometerKm)
}

func TestTripTransition_TerminalStatesRejectEverything(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusCancelled,
	})
	require.NoError(t, err)

	for _, next := range []domain.TripStatus{
		domain.TripStatusDispatched,
		domain.TripStatusCompleted,
		domain.TripStatusCancelled,
	} {
		_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
			TripID:     trip.ID,
			NextStatus: next,
		})
		assert.ErrorIs(t, err, service.ErrInvalidTransition, "transition to %s", next)
	}
}

func TestTripTransition_CompletedIsTerminal(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusDispatched,
	})
	require.NoError(t, err)
	_, err = f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:        trip.ID,
		NextStatus:    domain.TripStatusCompleted,
		EndOdometerKm: floatPtr(1200),
	})
	require.NoError(t, err)

	for _, next := range []domain.TripStatus{
		domain.TripStatusDispatched,
		domain.TripStatusCompleted,
		domain.TripStatusCancelled,
	} {
		_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
			TripID:     trip.ID,
			NextStatus: next,
		})
		assert.ErrorIs(t, err, service.ErrInvalidTransition, "transition to %s", next)
	}

	// Rejected transitions leave the completed state fully intact.
	stored := f.tripRepo.GetTrip(trip.ID)
	assert.Equal(t, domain.TripStatusCompleted, stored.Status)
	require.NotNil(t, stored.EndOdometerKm)
	assert.Equal(t, 1200.0, *stored.EndOdometerKm)
	assert.Equal(t, 1200.0, f.vehicleRepo.GetVehicle("v1").OdometerKm)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleRepo.GetVehicle("v1").Status)
	assert.Equal(t, domain.DriverStatusAvailable, f.driverRepo.GetDriver("d1").Status)
}

func TestTripTransition_RejectsSkippingDispatch(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusCompleted,
	})
	require.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestTripTransition_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatus("PAUSED"),
	})
	require.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestTripTransition_LockContention(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	f.lockStore.HoldLock(trip.ID)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusDispatched,
	})
	require.ErrorIs(t, err, service.ErrTransitionInProgress)
}

func TestTripTransition_InvalidatesReportCache(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	created := f.cacheStore.InvalidateCallCount
	require.Equal(t, int32(1), created)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusDispatched,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.cacheStore.InvalidateCallCount)
}

func TestTripDispatch_CancelRoundTripRestoresStatuses(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.addVan("v1", 1000)
	f.addVanDriver("d1")
	trip := f.createDraft(t)

	_, err := f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusDispatched,
	})
	require.NoError(t, err)
	_, err = f.svc.TransitionTrip(context.Background(), service.TransitionTripRequest{
		TripID:     trip.ID,
		NextStatus: domain.TripStatusCancelled,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleRepo.GetVehicle("v1").Status)
	assert.Equal(t, domain.DriverStatusAvailable, f.driverRepo.GetDriver("d1").Status)
	// Odometer is untouched by a cancelled trip.
	assert.Equal(t, 1000.0, f.vehicleRepo.GetVehicle("v1").OdometerKm)
}
