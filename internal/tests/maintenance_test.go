package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetflow/internal/domain"
	"fleetflow/internal/service"
)

// ──────────────────────────────────────────────
// MAINTENANCE LOGGING
// ──────────────────────────────────────────────

type maintenanceFixture struct {
	vehicleRepo *MockVehicleRepository
	maintRepo   *MockMaintenanceLogRepository
	cacheStore  *MockCacheStore
	svc         *service.MaintenanceService
}

func newMaintenanceFixture() *maintenanceFixture {
	f := &maintenanceFixture{
		vehicleRepo: NewMockVehicleRepository(),
		maintRepo:   NewMockMaintenanceLogRepository(),
		cacheStore:  NewMockCacheStore(),
	}
	atomic := NewMockAtomic(NewMockTripRepository(), f.vehicleRepo, NewMockDriverRepository(), NewMockCargoRepository(), f.maintRepo)
	f.svc = service.NewMaintenanceService(atomic, f.vehicleRepo, f.maintRepo, f.cacheStore, nil)
	return f
}

func TestMaintenance_LogMovesVehicleToShop(t *testing.T) {
	t.Parallel()

	f := newMaintenanceFixture()
	f.vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:        "v1",
		Name:      "Van-05",
		Status:    domain.VehicleStatusAvailable,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})

	cost := 450.0
	log, err := f.svc.LogMaintenance(context.Background(), service.LogMaintenanceRequest{
		VehicleID:   "v1",
		Description: "Brake pads",
		Cost:        &cost,
	})
	require.NoError(t, err)

	assert.Equal(t, "v1", log.VehicleID)
	require.NotNil(t, log.Cost)
	assert.Equal(t, 450.0, *log.Cost)
	assert.Equal(t, domain.VehicleStatusInShop, f.vehicleRepo.GetVehicle("v1").Status)
	assert.Equal(t, int32(1), f.cacheStore.InvalidateCallCount)
}

func TestMaintenance_CostIsOptional(t *testing.T) {
	t.Parallel()

	f := newMaintenanceFixture()
	f.vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:     "v1",
		Status: domain.VehicleStatusAvailable,
	})

	log, err := f.svc.LogMaintenance(context.Background(), service.LogMaintenanceRequest{
		VehicleID:   "v1",
		Description: "Inspection",
	})
	require.NoError(t, err)
	assert.Nil(t, log.Cost)
}

func TestMaintenance_UnknownVehicleRejected(t *testing.T) {
	t.Parallel()

	f := newMaintenanceFixture()

	_, err := f.svc.LogMaintenance(context.Background(), service.LogMaintenanceRequest{
		VehicleID:   "ghost",
		Description: "Inspection",
	})
	require.ErrorIs(t, err, service.ErrVehicleNotFound)
}

func TestMaintenance_LogFailureLeavesVehicleUntouched(t *testing.T) {
	t.Parallel()

	f := newMaintenanceFixture()
	f.vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:     "v1",
		Status: domain.VehicleStatusAvailable,
	})
	f.maintRepo.CreateError = errors.New("disk full")

	_, err := f.svc.LogMaintenance(context.Background(), service.LogMaintenanceRequest{
		VehicleID:   "v1",
		Description: "Brake pads",
	})
	require.Error(t, err)

	// The transaction never reached the status flip.
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicleRepo.GetVehicle("v1").Status)
}

func TestMaintenance_EmptyDescriptionRejected(t *testing.T) {
	t.Parallel()

	f := newMaintenanceFixture()
	f.vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:     "v1",
		Status: domain.VehicleStatusAvailable,
	})

	_, err := f.svc.LogMaintenance(context.Background(), service.LogMaintenanceRequest{
		VehicleID: "v1",
	})
	require.ErrorIs(t, err, service.ErrInvalidDescription)
}
