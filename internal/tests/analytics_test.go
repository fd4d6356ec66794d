package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetflow/internal/domain"
	"fleetflow/internal/service"
)

// ──────────────────────────────────────────────
// COST / ROI AGGREGATION
// ──────────────────────────────────────────────

type analyticsFixture struct {
	vehicleRepo *MockVehicleRepository
	tripRepo    *MockTripRepository
	fuelRepo    *MockFuelLogRepository
	maintRepo   *MockMaintenanceLogRepository
	expenseRepo *MockExpenseRepository
	cargoRepo   *MockCargoRepository
	svc         *service.AnalyticsService
}

func newAnalyticsFixture() *analyticsFixture {
	f := &analyticsFixture{
		vehicleRepo: NewMockVehicleRepository(),
		tripRepo:    NewMockTripRepository(),
		fuelRepo:    NewMockFuelLogRepository(),
		maintRepo:   NewMockMaintenanceLogRepository(),
		expenseRepo: NewMockExpenseRepository(),
		cargoRepo:   NewMockCargoRepository(),
	}
	f.svc = service.NewAnalyticsService(f.vehicleRepo, f.tripRepo, f.fuelRepo, f.maintRepo, f.expenseRepo, f.cargoRepo, nil, nil)
	return f
}

func (f *analyticsFixture) addVehicle(id string, acquisitionCost float64) *domain.Vehicle {
	v := &domain.Vehicle{
		ID:                id,
		Name:              "Vehicle-" + id,
		LicensePlate:      "PLT-" + id,
		Type:              domain.VehicleTypeVan,
		MaxLoadCapacityKg: 1000,
		Status:            domain.VehicleStatusAvailable,
		AcquisitionCost:   acquisitionCost,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	f.vehicleRepo.AddVehicle(v)
	return v
}

func (f *analyticsFixture) addCompletedTrip(vehicleID string, startKm, endKm, revenue float64, completedAt time.Time) {
	f.tripRepo.AddTrip(&domain.Trip{
		ID:              "trip-" + vehicleID + completedAt.Format("20060102150405"),
		VehicleID:       vehicleID,
		DriverID:        "d1",
		Status:          domain.TripStatusCompleted,
		CargoWeightKg:   100,
		Origin:          "A",
		Destination:     "B",
		StartOdometerKm: floatPtr(startKm),
		EndOdometerKm:   floatPtr(endKm),
		Revenue:         floatPtr(revenue),
		CreatedAt:       completedAt.Add(-2 * time.Hour),
		CompletedAt:     completedAt,
	})
}

func TestAnalytics_PerVehicleRollup(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()
	f.addVehicle("v1", 10000)
	at := time.Now().AddDate(0, 0, -10)

	f.addCompletedTrip("v1", 1000, 1500, 2000, at)
	f.fuelRepo.AddLog(&domain.FuelLog{ID: "f1", VehicleID: "v1", Liters: 50, Cost: 500, Date: at})
	f.maintRepo.AddLog(&domain.MaintenanceLog{ID: "m1", VehicleID: "v1", Description: "Brakes", Cost: floatPtr(300), PerformedAt: at})
	f.expenseRepo.AddExpense(&domain.Expense{ID: "e1", VehicleID: "v1", Description: "Tolls", Amount: 200, Date: at})

	report, err := f.svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, report.VehicleMetrics, 1)

	m := report.VehicleMetrics[0]
	assert.Equal(t, "v1", m.VehicleID)
	assert.Equal(t, 500.0, m.TotalFuelCost)
	assert.Equal(t, 50.0, m.TotalFuelLiters)
	assert.Equal(t, 300.0, m.TotalMaintenanceCost)
	assert.Equal(t, 200.0, m.TotalOtherExpense)
	assert.Equal(t, 1000.0, m.TotalOperationalCost)
	assert.Equal(t, 2000.0, m.Revenue)

	// 500 km on 50 L.
	require.NotNil(t, m.FuelEfficiencyKmPerL)
	assert.Equal(t, 10.0, *m.FuelEfficiencyKmPerL)

	// (2000 - 1000) / 10000 * 100.
	require.NotNil(t, m.RoiPercent)
	assert.Equal(t, 10.0, *m.RoiPercent)
}

func TestAnalytics_NoFuelMeansNilEfficiency(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()
	f.addVehicle("v1", 5000)

	report, err := f.svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, report.VehicleMetrics, 1)

	m := report.VehicleMetrics[0]
	assert.Nil(t, m.FuelEfficiencyKmPerL)
	// Zero activity against a recorded acquisition cost is a real 0%, not
	// missing data.
	require.NotNil(t, m.RoiPercent)
	assert.Equal(t, 0.0, *m.RoiPercent)
}

func TestAnalytics_NoAcquisitionCostMeansNilROI(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()
	f.addVehicle("v1", 0)
	f.addCompletedTrip("v1", 0, 100, 500, time.Now().AddDate(0, 0, -3))

	report, err := f.svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, report.VehicleMetrics, 1)
	assert.Nil(t, report.VehicleMetrics[0].RoiPercent)
}

func TestAnalytics_RetiredVehiclesExcluded(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()
	f.addVehicle("v1", 10000)
	retired := f.addVehicle("v2", 8000)
	retired.Status = domain.VehicleStatusOutOfService

	report, err := f.svc.Report(context.Background())
	require.NoError(t, err)

	require.Len(t, report.VehicleMetrics, 1)
	assert.Equal(t, "v1", report.VehicleMetrics[0].VehicleID)
	assert.Equal(t, 1, report.Summary.TotalFleet)
}

func TestAnalytics_MonthlyBuckets(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()
	f.addVehicle("v1", 10000)

	may := time.Date(2026, time.May, 14, 12, 0, 0, 0, time.UTC)
	june := time.Date(2026, time.June, 2, 9, 0, 0, 0, time.UTC)

	f.addCompletedTrip("v1", 1000, 1400, 1200, may)
	f.fuelRepo.AddLog(&domain.FuelLog{ID: "f1", VehicleID: "v1", Liters: 40, Cost: 400, Date: may})
	f.expenseRepo.AddExpense(&domain.Expense{ID: "e1", VehicleID: "v1", Description: "Parking", Amount: 100, Date: june})

	report, err := f.svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, report.MonthlyFinancials, 2)

	mayEntry := report.MonthlyFinancials[0]
	assert.Equal(t, "2026-05", mayEntry.MonthKey)
	assert.Equal(t, "May 2026", mayEntry.MonthLabel)
	assert.Equal(t, 1200.0, mayEntry.Revenue)
	assert.Equal(t, 400.0, mayEntry.FuelCost)
	assert.Equal(t, 800.0, mayEntry.NetProfit)
	// 400 km on 40 L.
	require.NotNil(t, mayEntry.FuelEfficiencyKmPerL)
	assert.Equal(t, 10.0, *mayEntry.FuelEfficiencyKmPerL)

	juneEntry := report.MonthlyFinancials[1]
	assert.Equal(t, "2026-06", juneEntry.MonthKey)
	assert.Equal(t, 100.0, juneEntry.OtherExpense)
	assert.Equal(t, -100.0, juneEntry.NetProfit)
	// No fuel burned in June.
	assert.Nil(t, juneEntry.FuelEfficiencyKmPerL)
}

func TestAnalytics_UtilizationRate(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()
	f.addVehicle("v1", 10000)
	f.addVehicle("v2", 10000)

	// v1 completed a trip inside the trailing 30 days, v2 did not.
	f.addCompletedTrip("v1", 0, 100, 500, time.Now().AddDate(0, 0, -5))
	f.addCompletedTrip("v2", 0, 100, 500, time.Now().AddDate(0, 0, -45))

	report, err := f.svc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50.0, report.Summary.UtilizationRatePercent)
}

func TestAnalytics_EmptyFleet(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()

	report, err := f.svc.Report(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.VehicleMetrics)
	assert.Empty(t, report.MonthlyFinancials)
	assert.Equal(t, 0, report.Summary.TotalFleet)
	assert.Equal(t, 0.0, report.Summary.UtilizationRatePercent)
	assert.Nil(t, report.Summary.FleetRoiPercent)
}

func TestAnalytics_FleetSummaryROI(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()
	f.addVehicle("v1", 10000)
	f.addVehicle("v2", 5000)
	at := time.Now().AddDate(0, 0, -3)

	f.addCompletedTrip("v1", 1000, 1500, 2000, at)
	f.fuelRepo.AddLog(&domain.FuelLog{ID: "f1", VehicleID: "v1", Liters: 50, Cost: 500, Date: at})
	f.maintRepo.AddLog(&domain.MaintenanceLog{ID: "m1", VehicleID: "v1", Description: "Brakes", Cost: floatPtr(300), PerformedAt: at})
	f.expenseRepo.AddExpense(&domain.Expense{ID: "e1", VehicleID: "v1", Description: "Tolls", Amount: 200, Date: at})

	report, err := f.svc.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.TotalFleet)
	assert.Equal(t, 1, report.Summary.TotalTripsCompleted)
	assert.Equal(t, 500.0, report.Summary.TotalFuelCost)

	// (2000 - 1000) / 15000 * 100 = 6.666..., rounded to one decimal.
	require.NotNil(t, report.Summary.FleetRoiPercent)
	assert.Equal(t, 6.7, *report.Summary.FleetRoiPercent)
}

func TestAnalytics_TopCostlyVehiclesOrder(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()
	f.addVehicle("v1", 10000)
	f.addVehicle("v2", 10000)
	at := time.Now().AddDate(0, 0, -3)

	f.expenseRepo.AddExpense(&domain.Expense{ID: "e1", VehicleID: "v1", Description: "Minor", Amount: 100, Date: at})
	f.expenseRepo.AddExpense(&domain.Expense{ID: "e2", VehicleID: "v2", Description: "Major", Amount: 900, Date: at})

	report, err := f.svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, report.TopCostlyVehicles, 2)

	assert.Equal(t, "Vehicle-v2", report.TopCostlyVehicles[0].Vehicle)
	assert.Equal(t, 900.0, report.TopCostlyVehicles[0].TotalOperationalCost)
	assert.Equal(t, "Vehicle-v1", report.TopCostlyVehicles[1].Vehicle)
}

func TestAnalytics_MaintenanceWithoutCostCountsZero(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()
	f.addVehicle("v1", 10000)
	f.maintRepo.AddLog(&domain.MaintenanceLog{ID: "m1", VehicleID: "v1", Description: "Inspection", PerformedAt: time.Now()})

	report, err := f.svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, report.VehicleMetrics, 1)
	assert.Equal(t, 0.0, report.VehicleMetrics[0].TotalMaintenanceCost)
}

// ──────────────────────────────────────────────
// DASHBOARD
// ──────────────────────────────────────────────

func TestDashboard_StatusCountsAndPendingCargo(t *testing.T) {
	t.Parallel()

	f := newAnalyticsFixture()
	f.addVehicle("v1", 10000)
	inShop := f.addVehicle("v2", 8000)
	inShop.Status = domain.VehicleStatusInShop

	f.cargoRepo.AddCargo(&domain.Cargo{
		ID:          "c1",
		Description: "Crates",
		WeightKg:    400,
		Origin:      "Depot",
		Destination: "Harbor",
		CreatedAt:   time.Now(),
	})

	dashboard, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, dashboard.KPIs.TotalFleet)
	assert.Equal(t, 1, dashboard.KPIs.Available)
	assert.Equal(t, 1, dashboard.KPIs.MaintenanceAlerts)
	assert.Equal(t, 1, dashboard.KPIs.PendingCargo)
	require.Len(t, dashboard.PendingCargo, 1)
	assert.Equal(t, "c1", dashboard.PendingCargo[0].ID)
}
