package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is an in-memory implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32
	UpdateOdometerCount   int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
}

// GetVehicle returns a vehicle for test assertions.
func (m *MockVehicleRepository) GetVehicle(id string) *domain.Vehicle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vehicles[id]
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		copy := *v
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockVehicleRepository) GetActive(ctx context.Context) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		if v.Active() {
			copy := *v
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockVehicleRepository) GetByStatus(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0)
	for _, v := range m.vehicles {
		if v.Status == status {
			copy := *v
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockVehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return repository.ErrNotFound
	}
	vehicle.Status = status
	vehicle.UpdatedAt = time.Now()
	return nil
}

func (m *MockVehicleRepository) UpdateStatusAndOdometer(ctx context.Context, id string, status domain.VehicleStatus, odometerKm float64) error {
	atomic.AddInt32(&m.UpdateOdometerCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return repository.ErrNotFound
	}
	vehicle.Status = status
	vehicle.OdometerKm = odometerKm
	vehicle.UpdatedAt = time.Now()
	return nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is an in-memory implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	UpdateStatusCallCount int32

	// Error injection
	UpdateStatusError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

// GetDriver returns a driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockDriverRepository) GetLicenseExpiringBetween(ctx context.Context, from, to time.Time) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0)
	for _, d := range m.drivers {
		if !d.LicenseExpiry.Before(from) && !d.LicenseExpiry.After(to) {
			copy := *d
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LicenseExpiry.Before(result[j].LicenseExpiry) })
	return result, nil
}

func (m *MockDriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Status = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is an in-memory implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount     int32
	UpdateFromCallCount int32

	// Error injection
	CreateError     error
	UpdateFromError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

// GetTrip returns a trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		copy := *t
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockTripRepository) GetByStatus(ctx context.Context, status domain.TripStatus) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0)
	for _, t := range m.trips {
		if t.Status == status {
			copy := *t
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockTripRepository) GetCompleted(ctx context.Context) ([]*domain.Trip, error) {
	return m.GetByStatus(ctx, domain.TripStatusCompleted)
}

func (m *MockTripRepository) GetDispatchedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0)
	for _, t := range m.trips {
		if t.Status == domain.TripStatusDispatched && t.CreatedAt.Before(cutoff) {
			copy := *t
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *MockTripRepository) UpdateFrom(ctx context.Context, trip *domain.Trip, from domain.TripStatus) error {
	atomic.AddInt32(&m.UpdateFromCallCount, 1)
	if m.UpdateFromError != nil {
		return m.UpdateFromError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.trips[trip.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != from {
		return repository.ErrStaleStatus
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

// ──────────────────────────────────────────────
// MOCK CARGO REPOSITORY
// ──────────────────────────────────────────────

// MockCargoRepository is an in-memory implementation of CargoRepository.
type MockCargoRepository struct {
	mu    sync.RWMutex
	cargo map[string]*domain.Cargo

	// Counters for verification
	AssignCallCount int32

	// Error injection
	AssignError error
}

// NewMockCargoRepository creates a new mock cargo repository.
func NewMockCargoRepository() *MockCargoRepository {
	return &MockCargoRepository{
		cargo: make(map[string]*domain.Cargo),
	}
}

// AddCargo adds a cargo record to the mock repository.
func (m *MockCargoRepository) AddCargo(cargo *domain.Cargo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cargo[cargo.ID] = cargo
}

// GetCargo returns a cargo record for test assertions.
func (m *MockCargoRepository) GetCargo(id string) *domain.Cargo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cargo[id]
}

func (m *MockCargoRepository) Create(ctx context.Context, cargo *domain.Cargo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cargo[cargo.ID] = cargo
	return nil
}

func (m *MockCargoRepository) GetByID(ctx context.Context, id string) (*domain.Cargo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cargo, ok := m.cargo[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *cargo
	return &copy, nil
}

func (m *MockCargoRepository) GetAll(ctx context.Context) ([]*domain.Cargo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Cargo, 0, len(m.cargo))
	for _, cg := range m.cargo {
		copy := *cg
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockCargoRepository) GetPending(ctx context.Context) ([]*domain.Cargo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Cargo, 0)
	for _, cg := range m.cargo {
		if cg.Pending() {
			copy := *cg
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockCargoRepository) AssignToTrip(ctx context.Context, cargoID, tripID string) error {
	atomic.AddInt32(&m.AssignCallCount, 1)
	if m.AssignError != nil {
		return m.AssignError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cargo, ok := m.cargo[cargoID]
	if !ok {
		return repository.ErrNotFound
	}
	if cargo.AssignedTripID != "" {
		return repository.ErrStaleStatus
	}
	cargo.AssignedTripID = tripID
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOG REPOSITORIES
// ──────────────────────────────────────────────

// MockFuelLogRepository is an in-memory implementation of FuelLogRepository.
type MockFuelLogRepository struct {
	mu   sync.RWMutex
	logs []*domain.FuelLog
}

// NewMockFuelLogRepository creates a new mock fuel log repository.
func NewMockFuelLogRepository() *MockFuelLogRepository {
	return &MockFuelLogRepository{}
}

// AddLog adds a fuel log to the mock repository.
func (m *MockFuelLogRepository) AddLog(log *domain.FuelLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
}

func (m *MockFuelLogRepository) Create(ctx context.Context, log *domain.FuelLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockFuelLogRepository) GetAll(ctx context.Context) ([]*domain.FuelLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.FuelLog, 0, len(m.logs))
	for _, l := range m.logs {
		copy := *l
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockFuelLogRepository) GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.FuelLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.FuelLog, 0)
	for _, l := range m.logs {
		if l.VehicleID == vehicleID {
			copy := *l
			result = append(result, &copy)
		}
	}
	return result, nil
}

// MockMaintenanceLogRepository is an in-memory implementation of
// MaintenanceLogRepository.
type MockMaintenanceLogRepository struct {
	mu   sync.RWMutex
	logs []*domain.MaintenanceLog

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockMaintenanceLogRepository creates a new mock maintenance log repository.
func NewMockMaintenanceLogRepository() *MockMaintenanceLogRepository {
	return &MockMaintenanceLogRepository{}
}

// AddLog adds a maintenance log to the mock repository.
func (m *MockMaintenanceLogRepository) AddLog(log *domain.MaintenanceLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
}

func (m *MockMaintenanceLogRepository) Create(ctx context.Context, log *domain.MaintenanceLog) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockMaintenanceLogRepository) GetAll(ctx context.Context) ([]*domain.MaintenanceLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.MaintenanceLog, 0, len(m.logs))
	for _, l := range m.logs {
		copy := *l
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockMaintenanceLogRepository) GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.MaintenanceLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.MaintenanceLog, 0)
	for _, l := range m.logs {
		if l.VehicleID == vehicleID {
			copy := *l
			result = append(result, &copy)
		}
	}
	return result, nil
}

// MockExpenseRepository is an in-memory implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses []*domain.Expense
}

// NewMockExpenseRepository creates a new mock expense repository.
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{}
}

// AddExpense adds an expense to the mock repository.
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses = append(m.expenses, expense)
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses = append(m.expenses, expense)
	return nil
}

func (m *MockExpenseRepository) GetAll(ctx context.Context) ([]*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Expense, 0, len(m.expenses))
	for _, e := range m.expenses {
		copy := *e
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockExpenseRepository) GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Expense, 0)
	for _, e := range m.expenses {
		if e.VehicleID == vehicleID {
			copy := *e
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK ATOMIC
// ──────────────────────────────────────────────

// MockAtomic runs the transaction function directly against the mock
// repositories. There is no rollback; tests inject errors on the inner
// repositories to exercise failure paths.
type MockAtomic struct {
	TripRepo    *MockTripRepository
	VehicleRepo *MockVehicleRepository
	DriverRepo  *MockDriverRepository
	CargoRepo   *MockCargoRepository
	MaintRepo   *MockMaintenanceLogRepository

	// Counters for verification
	RunCallCount int32

	// Error injection
	RunError error
}

// NewMockAtomic creates a MockAtomic over the given mock repositories.
func NewMockAtomic(
	tripRepo *MockTripRepository,
	vehicleRepo *MockVehicleRepository,
	driverRepo *MockDriverRepository,
	cargoRepo *MockCargoRepository,
	maintRepo *MockMaintenanceLogRepository,
) *MockAtomic {
	return &MockAtomic{
		TripRepo:    tripRepo,
		VehicleRepo: vehicleRepo,
		DriverRepo:  driverRepo,
		CargoRepo:   cargoRepo,
		MaintRepo:   maintRepo,
	}
}

func (m *MockAtomic) RunInTx(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	atomic.AddInt32(&m.RunCallCount, 1)
	if m.RunError != nil {
		return m.RunError
	}
	return fn(m)
}

func (m *MockAtomic) Trips() repository.TripRepository       { return m.TripRepo }
func (m *MockAtomic) Vehicles() repository.VehicleRepository { return m.VehicleRepo }
func (m *MockAtomic) Drivers() repository.DriverRepository   { return m.DriverRepo }
func (m *MockAtomic) Cargo() repository.CargoRepository      { return m.CargoRepo }

func (m *MockAtomic) MaintenanceLogs() repository.MaintenanceLogRepository { return m.MaintRepo }

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[tripID] {
		return false, nil
	}
	m.locks[tripID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseTripLock(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, tripID)
	return nil
}

// HoldLock marks a trip lock as already held, as if another request owns it.
func (m *MockLockStore) HoldLock(tripID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[tripID] = true
}

// MockCacheStore is an in-memory implementation of CacheStoreInterface. It
// records calls but never serves a cached report, so service tests always
// exercise the compute path.
type MockCacheStore struct {
	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{}
}

func (m *MockCacheStore) GetReport(ctx context.Context, key string, dest any) (bool, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	return false, nil
}

func (m *MockCacheStore) SetReport(ctx context.Context, key string, report any) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	return nil
}

func (m *MockCacheStore) InvalidateReports(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	return nil
}
