package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"fleetflow/internal/domain"
	"fleetflow/internal/redis"
	"fleetflow/internal/repository"
)

const (
	tripOverdueAfter    = 24 * time.Hour
	licenseExpiryWindow = 7 * 24 * time.Hour
)

// AlertLevel orders alerts by severity.
type AlertLevel string

const (
	AlertLevelCritical AlertLevel = "critical"
	AlertLevelWarning  AlertLevel = "warning"
)

// Alert is a derived operational signal. Alerts are computed on demand from
// current state, never persisted.
type Alert struct {
	ID        string     `json:"id"`
	Level     AlertLevel `json:"level"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}

// AlertSummary counts the alerts by level. Always derived from the list
// itself so the counts cannot drift from it.
type AlertSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
}

// AlertReport is the alert list with its summary.
type AlertReport struct {
	Alerts  []Alert      `json:"alerts"`
	Summary AlertSummary `json:"summary"`
}

// AlertService derives operational alerts: overdue dispatches, expiring
// licenses, active maintenance, and negative ROI. Missing data degrades to
// no alert, never to an error.
type AlertService struct {
	tripRepo    repository.TripRepository
	vehicleRepo repository.VehicleRepository
	driverRepo  repository.DriverRepository
	fuelRepo    repository.FuelLogRepository
	maintRepo   repository.MaintenanceLogRepository
	expenseRepo repository.ExpenseRepository
	cacheStore  redis.CacheStoreInterface
	log         *logrus.Logger
	now         func() time.Time
}

// NewAlertService creates a new AlertService. cacheStore may be nil.
func NewAlertService(
	tripRepo repository.TripRepository,
	vehicleRepo repository.VehicleRepository,
	driverRepo repository.DriverRepository,
	fuelRepo repository.FuelLogRepository,
	maintRepo repository.MaintenanceLogRepository,
	expenseRepo repository.ExpenseRepository,
	cacheStore redis.CacheStoreInterface,
	log *logrus.Logger,
) *AlertService {
	if log == nil {
		log = logrus.New()
	}
	return &AlertService{
		tripRepo:    tripRepo,
		vehicleRepo: vehicleRepo,
		driverRepo:  driverRepo,
		fuelRepo:    fuelRepo,
		maintRepo:   maintRepo,
		expenseRepo: expenseRepo,
		cacheStore:  cacheStore,
		log:         log,
		now:         time.Now,
	}
}

// Report computes the current alerts, sorted critical-before-warning and
// most recent first within a level.
func (s *AlertService) Report(ctx context.Context) (*AlertReport, error) {
	if s.cacheStore != nil {
		var cached AlertReport
		hit, err := s.cacheStore.GetReport(ctx, redis.ReportKeyAlerts, &cached)
		if err != nil {
			s.log.WithError(err).Warn("alert cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	now := s.now()

	vehicles, err := s.vehicleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	vehicleByID := make(map[string]*domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		vehicleByID[v.ID] = v
	}

	alerts := make([]Alert, 0)

	overdue, err := s.overdueTrips(ctx, now, vehicleByID)
	if err != nil {
		return nil, err
	}
	alerts = append(alerts, overdue...)

	expiring, err := s.expiringLicenses(ctx, now)
	if err != nil {
		return nil, err
	}
	alerts = append(alerts, expiring...)

	for _, v := range vehicles {
		if v.Status != domain.VehicleStatusInShop {
			continue
		}
		alerts = append(alerts, Alert{
			ID:        "maintenance-active-" + v.ID,
			Level:     AlertLevelWarning,
			Title:     "Maintenance request active",
			Message:   fmt.Sprintf("%s (%s) is currently in shop.", v.Name, v.LicensePlate),
			CreatedAt: v.UpdatedAt,
		})
	}

	negativeROI, err := s.negativeROIVehicles(ctx, now, vehicles)
	if err != nil {
		return nil, err
	}
	alerts = append(alerts, negativeROI...)

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Level != alerts[j].Level {
			return alerts[i].Level == AlertLevelCritical
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})

	summary := AlertSummary{Total: len(alerts)}
	for _, a := range alerts {
		switch a.Level {
		case AlertLevelCritical:
			summary.Critical++
		case AlertLevelWarning:
			summary.Warning++
		}
	}

	report := &AlertReport{Alerts: alerts, Summary: summary}

	if s.cacheStore != nil {
		if err := s.cacheStore.SetReport(ctx, redis.ReportKeyAlerts, report); err != nil {
			s.log.WithError(err).Warn("alert cache write failed")
		}
	}

	return report, nil
}

func (s *AlertService) overdueTrips(ctx context.Context, now time.Time, vehicleByID map[string]*domain.Vehicle) ([]Alert, error) {
	cutoff := now.Add(-tripOverdueAfter)
	trips, err := s.tripRepo.GetDispatchedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, len(trips))
	for _, trip := range trips {
		message := "Dispatched vehicle is overdue."
		if v, ok := vehicleByID[trip.VehicleID]; ok {
			message = fmt.Sprintf("%s (%s) dispatch is overdue.", v.Name, v.LicensePlate)
		}
		alerts = append(alerts, Alert{
			ID:        "trip-overdue-" + trip.ID,
			Level:     AlertLevelCritical,
			Title:     "Vehicle overdue on trip",
			Message:   message,
			CreatedAt: trip.CreatedAt,
		})
	}
	return alerts, nil
}

func (s *AlertService) expiringLicenses(ctx context.Context, now time.Time) ([]Alert, error) {
	drivers, err := s.driverRepo.GetLicenseExpiringBetween(ctx, now, now.Add(licenseExpiryWindow))
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, len(drivers))
	for _, driver := range drivers {
		daysLeft := int(math.Ceil(driver.LicenseExpiry.Sub(now).Hours() / 24))
		if daysLeft < 0 {
			daysLeft = 0
		}
		alerts = append(alerts, Alert{
			ID:        "license-expiry-" + driver.ID,
			Level:     AlertLevelWarning,
			Title:     "License expiring soon",
			Message:   fmt.Sprintf("%s license expires in %d day(s).", driver.Name, daysLeft),
			CreatedAt: driver.LicenseExpiry,
		})
	}
	return alerts, nil
}

// negativeROIVehicles recomputes ROI from the unrounded sums, independent of
// the display-rounded analytics value, so a vehicle hovering just below zero
// is not masked by rounding.
func (s *AlertService) negativeROIVehicles(ctx context.Context, now time.Time, vehicles []*domain.Vehicle) ([]Alert, error) {
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
	completedTrips, err := s.tripRepo.GetCompleted(ctx)
	if err != nil {
		return nil, err
	}

	totals := accumulateVehicleTotals(completedTrips, fuelLogs, maintenanceLogs, expenses)

	alerts := make([]Alert, 0)
	for _, v := range vehicles {
		t := totals[v.ID]
		roi, ok := rawROI(t.revenue, t.operationalCost(), v.AcquisitionCost)
		if !ok || roi >= 0 {
			continue
		}
		alerts = append(alerts, Alert{
			ID:        "negative-roi-" + v.ID,
			Level:     AlertLevelCritical,
			Title:     "Negative ROI detected",
			Message:   fmt.Sprintf("%s (%s) has negative ROI (%.1f%%).", v.Name, v.LicensePlate, roi),
			CreatedAt: now,
		})
	}
	return alerts, nil
}
