package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"fleetflow/internal/domain"
	"fleetflow/internal/redis"
	"fleetflow/internal/repository"
)

const (
	utilizationWindow = 30 * 24 * time.Hour
	trendMonths       = 6
	topCostlyCount    = 5
)

// VehicleMetric is the per-vehicle financial/efficiency rollup. Monetary
// values are rounded to two decimals and ratios to one decimal at this
// boundary; a nil ratio means insufficient data, never zero.
type VehicleMetric struct {
	VehicleID            string   `json:"vehicle_id"`
	Name                 string   `json:"name"`
	LicensePlate         string   `json:"license_plate"`
	FuelEfficiencyKmPerL *float64 `json:"fuel_efficiency_km_per_l"`
	TotalFuelCost        float64  `json:"total_fuel_cost"`
	TotalFuelLiters      float64  `json:"total_fuel_liters"`
	TotalMaintenanceCost float64  `json:"total_maintenance_cost"`
	TotalOtherExpense    float64  `json:"total_other_expense"`
	TotalOperationalCost float64  `json:"total_operational_cost"`
	Revenue              float64  `json:"revenue"`
	AcquisitionCost      float64  `json:"acquisition_cost"`
	RoiPercent           *float64 `json:"roi_percent"`
}

// MonthlyFinancial is one month's financial rollup across the fleet.
// Months with no contributing records produce no entry.
type MonthlyFinancial struct {
	MonthKey             string   `json:"month_key"` // YYYY-MM
	MonthLabel           string   `json:"month_label"`
	Revenue              float64  `json:"revenue"`
	FuelCost             float64  `json:"fuel_cost"`
	MaintenanceCost      float64  `json:"maintenance_cost"`
	OtherExpense         float64  `json:"other_expense"`
	TotalOperationalCost float64  `json:"total_operational_cost"`
	NetProfit            float64  `json:"net_profit"`
	FuelEfficiencyKmPerL *float64 `json:"fuel_efficiency_km_per_l"`
}

// TrendPoint is one month of fleet-wide fuel efficiency.
type TrendPoint struct {
	Month                string   `json:"month"`
	FuelEfficiencyKmPerL *float64 `json:"fuel_efficiency_km_per_l"`
}

// CostlyVehiclePoint names a vehicle and its total operational cost.
type CostlyVehiclePoint struct {
	Vehicle              string  `json:"vehicle"`
	TotalOperationalCost float64 `json:"total_operational_cost"`
}

// AnalyticsSummary carries the fleet-wide headline numbers.
type AnalyticsSummary struct {
	TotalFleet             int      `json:"total_fleet"`
	TotalTripsCompleted    int      `json:"total_trips_completed"`
	TotalFuelCost          float64  `json:"total_fuel_cost"`
	FleetRoiPercent        *float64 `json:"fleet_roi_percent"`
	UtilizationRatePercent float64  `json:"utilization_rate_percent"`
}

// AnalyticsReport is the full aggregation output.
type AnalyticsReport struct {
	VehicleMetrics      []VehicleMetric      `json:"vehicle_metrics"`
	MonthlyFinancials   []MonthlyFinancial   `json:"monthly_financials"`
	FuelEfficiencyTrend []TrendPoint         `json:"fuel_efficiency_trend"`
	TopCostlyVehicles   []CostlyVehiclePoint `json:"top_costly_vehicles"`
	Summary             AnalyticsSummary     `json:"summary"`
}

// AnalyticsService turns fuel, maintenance, expense, and completed-trip
// records into per-vehicle and per-month financial summaries. It never
// fails on missing data: absent values contribute zero, undefined ratios
// come back nil.
type AnalyticsService struct {
	vehicleRepo repository.VehicleRepository
	tripRepo    repository.TripRepository
	fuelRepo    repository.FuelLogRepository
	maintRepo   repository.MaintenanceLogRepository
	expenseRepo repository.ExpenseRepository
	cargoRepo   repository.CargoRepository
	cacheStore  redis.CacheStoreInterface
	log         *logrus.Logger
	now         func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. cacheStore may be nil.
func NewAnalyticsService(
	vehicleRepo repository.VehicleRepository,
	tripRepo repository.TripRepository,
	fuelRepo repository.FuelLogRepository,
	maintRepo repository.MaintenanceLogRepository,
	expenseRepo repository.ExpenseRepository,
	cargoRepo repository.CargoRepository,
	cacheStore redis.CacheStoreInterface,
	log *logrus.Logger,
) *AnalyticsService {
	if log == nil {
		log = logrus.New()
	}
	return &AnalyticsService{
		vehicleRepo: vehicleRepo,
		tripRepo:    tripRepo,
		fuelRepo:    fuelRepo,
		maintRepo:   maintRepo,
		expenseRepo: expenseRepo,
		cargoRepo:   cargoRepo,
		cacheStore:  cacheStore,
		log:         log,
		now:         time.Now,
	}
}

// vehicleTotals accumulates unrounded sums for one vehicle.
type vehicleTotals struct {
	fuelLiters      float64
	fuelCost        float64
	distanceKm      float64
	maintenanceCost float64
	otherExpense    float64
	revenue         float64
}

func (t vehicleTotals) operationalCost() float64 {
	return t.fuelCost + t.maintenanceCost + t.otherExpense
}

// rawROI returns the unrounded ROI percentage, or false when acquisition
// cost is not recorded.
func rawROI(revenue, operationalCost, acquisitionCost float64) (float64, bool) {
	if acquisitionCost <= 0 {
		return 0, false
	}
	return (revenue - operationalCost) / acquisitionCost * 100, true
}

// Report computes the full analytics report, serving a cached copy when one
// is fresh.
func (s *AnalyticsService) Report(ctx context.Context) (*AnalyticsReport, error) {
	if s.cacheStore != nil {
		var cached AnalyticsReport
		hit, err := s.cacheStore.GetReport(ctx, redis.ReportKeyAnalytics, &cached)
		if err != nil {
			s.log.WithError(err).Warn("analytics cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	report, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		if err := s.cacheStore.SetReport(ctx, redis.ReportKeyAnalytics, report); err != nil {
			s.log.WithError(err).Warn("analytics cache write failed")
		}
	}

	return report, nil
}

// VehicleMetrics computes only the per-vehicle rollups.
func (s *AnalyticsService) VehicleMetrics(ctx context.Context) ([]VehicleMetric, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	return report.VehicleMetrics, nil
}

// MonthlyFinancials computes only the monthly rollups.
func (s *AnalyticsService) MonthlyFinancials(ctx context.Context) ([]MonthlyFinancial, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	return report.MonthlyFinancials, nil
}

func (s *AnalyticsService) compute(ctx context.Context) (*AnalyticsReport, error) {
	vehicles, err := s.vehicleRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	completedTrips, err := s.tripRepo.GetCompleted(ctx)
	if err != nil {
		return nil, err
	}
	fuelLogs, err := s.fuelRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	maintenanceLogs, err := s.maintRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := accumulateVehicleTotals(completedTrips, fuelLogs, maintenanceLogs, expenses)

	metrics := make([]VehicleMetric, 0, len(vehicles))
	var fleetRevenue, fleetCost, fleetAcquisition, fleetFuelCost float64
	for _, v := range vehicles {
		t := totals[v.ID]
		cost := t.operationalCost()

		fleetRevenue += t.revenue
		fleetCost += cost
		fleetAcquisition += v.AcquisitionCost
		fleetFuelCost += t.fuelCost

		metric := VehicleMetric{
			VehicleID:            v.ID,
			Name:                 v.Name,
			LicensePlate:         v.LicensePlate,
			TotalFuelCost:        round2(t.fuelCost),
			TotalFuelLiters:      round2(t.fuelLiters),
			TotalMaintenanceCost: round2(t.maintenanceCost),
			TotalOtherExpense:    round2(t.otherExpense),
			TotalOperationalCost: round2(cost),
			Revenue:              round2(t.revenue),
			AcquisitionCost:      round2(v.AcquisitionCost),
		}
		if t.fuelLiters > 0 {
			metric.FuelEfficiencyKmPerL = roundPtr1(t.distanceKm / t.fuelLiters)
		}
		if roi, ok := rawROI(t.revenue, cost, v.AcquisitionCost); ok {
			metric.RoiPercent = roundPtr1(roi)
		}
		metrics = append(metrics, metric)
	}

	monthly := s.monthlyFinancials(completedTrips, fuelLogs, maintenanceLogs, expenses)

	summary := AnalyticsSummary{
		TotalFleet:             len(vehicles),
		TotalTripsCompleted:    len(completedTrips),
		TotalFuelCost:          round2(fleetFuelCost),
		UtilizationRatePercent: s.utilizationRate(vehicles, completedTrips),
	}
	if roi, ok := rawROI(fleetRevenue, fleetCost, fleetAcquisition); ok {
		summary.FleetRoiPercent = roundPtr1(roi)
	}

	return &AnalyticsReport{
		VehicleMetrics:      metrics,
		MonthlyFinancials:   monthly,
		FuelEfficiencyTrend: efficiencyTrend(monthly),
		TopCostlyVehicles:   topCostlyVehicles(metrics),
		Summary:             summary,
	}, nil
}

func accumulateVehicleTotals(
	completedTrips []*domain.Trip,
	fuelLogs []*domain.FuelLog,
	maintenanceLogs []*domain.MaintenanceLog,
	expenses []*domain.Expense,
) map[string]vehicleTotals {
	totals := make(map[string]vehicleTotals)

	for _, trip := range completedTrips {
		t := totals[trip.VehicleID]
		if km, ok := trip.DistanceKm(); ok {
			t.distanceKm += km
		}
		if trip.Revenue != nil {
			t.revenue += *trip.Revenue
		}
		totals[trip.VehicleID] = t
	}
	for _, log := range fuelLogs {
		t := totals[log.VehicleID]
		t.fuelLiters += log.Liters
		t.fuelCost += log.Cost
		totals[log.VehicleID] = t
	}
	for _, log := range maintenanceLogs {
		t := totals[log.VehicleID]
		if log.Cost != nil {
			t.maintenanceCost += *log.Cost
		}
		totals[log.VehicleID] = t
	}
	for _, expense := range expenses {
		t := totals[expense.VehicleID]
		t.otherExpense += expense.Amount
		totals[expense.VehicleID] = t
	}

	return totals
}

// monthBucket accumulates unrounded sums for one YYYY-MM key.
type monthBucket struct {
	revenue         float64
	fuelCost        float64
	fuelLiters      float64
	maintenanceCost float64
	otherExpense    float64
	tripKm          float64
}

func (s *AnalyticsService) monthlyFinancials(
	completedTrips []*domain.Trip,
	fuelLogs []*domain.FuelLog,
	maintenanceLogs []*domain.MaintenanceLog,
	expenses []*domain.Expense,
) []MonthlyFinancial {
	buckets := make(map[string]*monthBucket)
	bucket := func(t time.Time) *monthBucket {
		key := t.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &monthBucket{}
			buckets[key] = b
		}
		return b
	}

	for _, log := range fuelLogs {
		b := bucket(log.Date)
		b.fuelCost += log.Cost
		b.fuelLiters += log.Liters
	}
	for _, log := range maintenanceLogs {
		b := bucket(log.PerformedAt)
		if log.Cost != nil {
			b.maintenanceCost += *log.Cost
		}
	}
	for _, expense := range expenses {
		bucket(expense.Date).otherExpense += expense.Amount
	}
	for _, trip := range completedTrips {
		at := trip.CompletedAt
		if at.IsZero() {
			at = trip.CreatedAt
		}
		b := bucket(at)
		if trip.Revenue != nil {
			b.revenue += *trip.Revenue
		}
		if km, ok := trip.DistanceKm(); ok {
			b.tripKm += km
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	monthly := make([]MonthlyFinancial, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		cost := b.fuelCost + b.maintenanceCost + b.otherExpense

		entry := MonthlyFinancial{
			MonthKey:             key,
			MonthLabel:           monthLabel(key),
			Revenue:              round2(b.revenue),
			FuelCost:             round2(b.fuelCost),
			MaintenanceCost:      round2(b.maintenanceCost),
			OtherExpense:         round2(b.otherExpense),
			TotalOperationalCost: round2(cost),
			NetProfit:            round2(b.revenue - cost),
		}
		if b.fuelLiters > 0 {
			entry.FuelEfficiencyKmPerL = roundPtr1(b.tripKm / b.fuelLiters)
		}
		monthly = append(monthly, entry)
	}

	return monthly
}

// utilizationRate is the share of active vehicles that completed at least
// one trip in the trailing 30 days. An empty fleet is 0% by convention,
// never "no data".
func (s *AnalyticsService) utilizationRate(active []*domain.Vehicle, completedTrips []*domain.Trip) float64 {
	if len(active) == 0 {
		return 0
	}

	activeIDs := make(map[string]bool, len(active))
	for _, v := range active {
		activeIDs[v.ID] = true
	}

	cutoff := s.now().Add(-utilizationWindow)
	utilized := make(map[string]bool)
	for _, trip := range completedTrips {
		if trip.CompletedAt.After(cutoff) && activeIDs[trip.VehicleID] {
			utilized[trip.VehicleID] = true
		}
	}

	return round1(float64(len(utilized)) / float64(len(active)) * 100)
}

func efficiencyTrend(monthly []MonthlyFinancial) []TrendPoint {
	start := 0
	if len(monthly) > trendMonths {
		start = len(monthly) - trendMonths
	}

	trend := make([]TrendPoint, 0, len(monthly)-start)
	for _, m := range monthly[start:] {
		trend = append(trend, TrendPoint{
			Month:                m.MonthLabel,
			FuelEfficiencyKmPerL: m.FuelEfficiencyKmPerL,
		})
	}
	return trend
}

func topCostlyVehicles(metrics []VehicleMetric) []CostlyVehiclePoint {
	sorted := make([]VehicleMetric, len(metrics))
	copy(sorted, metrics)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TotalOperationalCost > sorted[j].TotalOperationalCost
	})

	if len(sorted) > topCostlyCount {
		sorted = sorted[:topCostlyCount]
	}

	points := make([]CostlyVehiclePoint, 0, len(sorted))
	for _, m := range sorted {
		points = append(points, CostlyVehiclePoint{
			Vehicle:              m.Name,
			TotalOperationalCost: m.TotalOperationalCost,
		})
	}
	return points
}

func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundPtr1(v float64) *float64 {
	r := round1(v)
	return &r
}
