package service

import (
	"context"
	"time"

	"fleetflow/internal/domain"
	"fleetflow/internal/redis"
)

// DashboardKPIs are the headline fleet-status numbers.
type DashboardKPIs struct {
	TotalFleet             int     `json:"total_fleet"`
	Available              int     `json:"available"`
	ActiveFleetOnTrip      int     `json:"active_fleet_on_trip"`
	MaintenanceAlerts      int     `json:"maintenance_alerts"`
	PendingCargo           int     `json:"pending_cargo"`
	UtilizationRatePercent float64 `json:"utilization_rate_percent"`
}

// PendingCargoItem is one cargo record still waiting for a trip.
type PendingCargoItem struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	WeightKg    float64   `json:"weight_kg"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	CreatedAt   time.Time `json:"created_at"`
}

// Dashboard is the operational snapshot for the landing view.
type Dashboard struct {
	KPIs         DashboardKPIs      `json:"kpis"`
	PendingCargo []PendingCargoItem `json:"pending_cargo"`
}

// Dashboard assembles the fleet-status snapshot, serving a cached copy when
// one is fresh.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	if s.cacheStore != nil {
		var cached Dashboard
		hit, err := s.cacheStore.GetReport(ctx, redis.ReportKeyDashboard, &cached)
		if err != nil {
			s.log.WithError(err).Warn("dashboard cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	vehicles, err := s.vehicleRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.cargoRepo.GetPending(ctx)
	if err != nil {
		return nil, err
	}
	completedTrips, err := s.tripRepo.GetCompleted(ctx)
	if err != nil {
		return nil, err
	}

	kpis := DashboardKPIs{
		TotalFleet:             len(vehicles),
		PendingCargo:           len(pending),
		UtilizationRatePercent: s.utilizationRate(vehicles, completedTrips),
	}
	for _, v := range vehicles {
		switch v.Status {
		case domain.VehicleStatusAvailable:
			kpis.Available++
		case domain.VehicleStatusOnTrip:
			kpis.ActiveFleetOnTrip++
		case domain.VehicleStatusInShop:
			kpis.MaintenanceAlerts++
		}
	}

	items := make([]PendingCargoItem, 0, len(pending))
	for _, c := range pending {
		items = append(items, PendingCargoItem{
			ID:          c.ID,
			Description: c.Description,
			WeightKg:    c.WeightKg,
			Origin:      c.Origin,
			Destination: c.Destination,
			CreatedAt:   c.CreatedAt,
		})
	}

	dashboard := &Dashboard{KPIs: kpis, PendingCargo: items}

	if s.cacheStore != nil {
		if err := s.cacheStore.SetReport(ctx, redis.ReportKeyDashboard, dashboard); err != nil {
			s.log.WithError(err).Warn("dashboard cache write failed")
		}
	}

	return dashboard, nil
}
