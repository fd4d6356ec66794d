package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fleetflow/internal/domain"
	"fleetflow/internal/redis"
	"fleetflow/internal/repository"
)

// MaintenanceService records maintenance work. Opening a maintenance log
// pulls the vehicle out of rotation: the log insert and the status flip to
// IN_SHOP commit together.
type MaintenanceService struct {
	atomic      repository.Atomic
	vehicleRepo repository.VehicleRepository
	maintRepo   repository.MaintenanceLogRepository
	cacheStore  redis.CacheStoreInterface
	log         *logrus.Logger
}

// NewMaintenanceService creates a new MaintenanceService.
func NewMaintenanceService(
	atomic repository.Atomic,
	vehicleRepo repository.VehicleRepository,
	maintRepo repository.MaintenanceLogRepository,
	cacheStore redis.CacheStoreInterface,
	log *logrus.Logger,
) *MaintenanceService {
	if log == nil {
		log = logrus.New()
	}
	return &MaintenanceService{
		atomic:      atomic,
		vehicleRepo: vehicleRepo,
		maintRepo:   maintRepo,
		cacheStore:  cacheStore,
		log:         log,
	}
}

// LogMaintenanceRequest contains the parameters for opening a maintenance log.
type LogMaintenanceRequest struct {
	VehicleID   string
	Description string
	Cost        *float64
	RequestedBy domain.Principal
}

// LogMaintenance appends a maintenance record and moves the vehicle to
// IN_SHOP in one transaction.
func (s *MaintenanceService) LogMaintenance(ctx context.Context, req LogMaintenanceRequest) (*domain.MaintenanceLog, error) {
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if req.Description == "" {
		return nil, ErrInvalidDescription
	}
	if req.Cost != nil && *req.Cost < 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.vehicleRepo.GetByID(ctx, req.VehicleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	log := &domain.MaintenanceLog{
		ID:          uuid.New().String(),
		VehicleID:   req.VehicleID,
		Description: req.Description,
		Cost:        req.Cost,
		PerformedAt: time.Now(),
	}

	err := s.atomic.RunInTx(ctx, func(repos repository.TxRepos) error {
		if err := repos.MaintenanceLogs().Create(ctx, log); err != nil {
			return err
		}
		return repos.Vehicles().UpdateStatus(ctx, req.VehicleID, domain.VehicleStatusInShop)
	})
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		if err := s.cacheStore.InvalidateReports(ctx); err != nil {
			s.log.WithError(err).Warn("report cache invalidation failed")
		}
	}

	s.log.WithFields(logrus.Fields{
		"vehicle_id": req.VehicleID,
		"user_id":    req.RequestedBy.UserID,
	}).Info("maintenance logged, vehicle in shop")

	return log, nil
}
