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

const transitionLockTTL = 10 * time.Second

// TripService owns the trip lifecycle: DRAFT -> DISPATCHED -> COMPLETED or
// CANCELLED. Every transition applies its vehicle/driver/trip writes as one
// transaction; the trip-status write is additionally guarded on the expected
// current status so two racing transitions cannot both commit.
type TripService struct {
	atomic      repository.Atomic
	tripRepo    repository.TripRepository
	vehicleRepo repository.VehicleRepository
	driverRepo  repository.DriverRepository
	cargoRepo   repository.CargoRepository
	lockStore   redis.LockStoreInterface
	cacheStore  redis.CacheStoreInterface
	log         *logrus.Logger
	now         func() time.Time
}

// NewTripService creates a new TripService. lockStore and cacheStore may be
// nil; the service then relies on the status guard alone.
func NewTripService(
	atomic repository.Atomic,
	tripRepo repository.TripRepository,
	vehicleRepo repository.VehicleRepository,
	driverRepo repository.DriverRepository,
	cargoRepo repository.CargoRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	log *logrus.Logger,
) *TripService {
	if log == nil {
		log = logrus.New()
	}
	return &TripService{
		atomic:      atomic,
		tripRepo:    tripRepo,
		vehicleRepo: vehicleRepo,
		driverRepo:  driverRepo,
		cargoRepo:   cargoRepo,
		lockStore:   lockStore,
		cacheStore:  cacheStore,
		log:         log,
		now:         time.Now,
	}
}

// CreateTripRequest contains the parameters for creating a draft trip.
type CreateTripRequest struct {
	VehicleID     string
	DriverID      string
	CargoWeightKg float64
	Origin        string
	Destination   string
	CargoID       string // optional: pending cargo to link to the trip
	RequestedBy   domain.Principal
}

// CreateTrip validates eligibility and persists a new trip in DRAFT state.
// A draft reserves nothing: vehicle and driver status are untouched. When a
// cargo ID is given, the cargo is stamped with the trip in the same
// transaction so it leaves the pending pool atomically.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if req.CargoWeightKg <= 0 {
		return nil, ErrInvalidCargoWeight
	}
	if req.Origin == "" || req.Destination == "" {
		return nil, ErrInvalidRoute
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	driver, err := s.driverRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}

	if err := ValidateTripEligibility(vehicle, driver, req.CargoWeightKg, s.now()); err != nil {
		return nil, err
	}

	if req.CargoID != "" {
		cargo, err := s.cargoRepo.GetByID(ctx, req.CargoID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrCargoNotFound
			}
			return nil, err
		}
		if !cargo.Pending() {
			return nil, ErrCargoAlreadyAssigned
		}
	}

	trip := &domain.Trip{
		ID:            uuid.New().String(),
		VehicleID:     req.VehicleID,
		DriverID:      req.DriverID,
		Status:        domain.TripStatusDraft,
		CargoWeightKg: req.CargoWeightKg,
		Origin:        req.Origin,
		Destination:   req.Destination,
		CreatedAt:     s.now(),
	}

	err = s.atomic.RunInTx(ctx, func(repos repository.TxRepos) error {
		if err := repos.Trips().Create(ctx, trip); err != nil {
			return err
		}
		if req.CargoID != "" {
			return repos.Cargo().AssignToTrip(ctx, req.CargoID, trip.ID)
		}
		return nil
	})
	if err != nil {
		// The pending check above ran outside the transaction; the guarded
		// update catches a concurrent create claiming the same cargo.
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrCargoAlreadyAssigned
		}
		return nil, err
	}

	s.invalidateReports(ctx)

	s.log.WithFields(logrus.Fields{
		"trip_id":    trip.ID,
		"vehicle_id": trip.VehicleID,
		"driver_id":  trip.DriverID,
		"user_id":    req.RequestedBy.UserID,
	}).Info("trip created")

	return trip, nil
}

// TransitionTripRequest contains the parameters for moving a trip to its
// next status.
type TransitionTripRequest struct {
	TripID        string
	NextStatus    domain.TripStatus
	EndOdometerKm *float64 // completion only; vehicle odometer stays put when omitted
	Revenue       *float64 // completion only
	RequestedBy   domain.Principal
}

// TransitionTrip moves a trip through the state machine, applying the
// vehicle/driver side effects of each transition atomically.
func (s *TripService) TransitionTrip(ctx context.Context, req TransitionTripRequest) (*domain.Trip, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.EndOdometerKm != nil && *req.EndOdometerKm < 0 {
		return nil, ErrInvalidOdometer
	}
	if req.Revenue != nil && *req.Revenue < 0 {
		return nil, ErrInvalidRevenue
	}

	// Serialize racing transitions on the same trip. The status guard in
	// UpdateFrom still protects correctness if the lock store is absent.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireTripLock(ctx, req.TripID, transitionLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrTransitionInProgress
		}
		defer func() {
			_ = s.lockStore.ReleaseTripLock(ctx, req.TripID)
		}()
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	switch req.NextStatus {
	case domain.TripStatusDispatched:
		err = s.dispatch(ctx, trip)
	case domain.TripStatusCompleted:
		err = s.complete(ctx, trip, req.EndOdometerKm, req.Revenue)
	case domain.TripStatusCancelled:
		err = s.cancel(ctx, trip)
	default:
		// DRAFT is never a transition target, and unknown names are
		// rejected the same way.
		err = ErrInvalidTransition
	}
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	s.invalidateReports(ctx)

	s.log.WithFields(logrus.Fields{
		"trip_id": trip.ID,
		"status":  trip.Status,
		"user_id": req.RequestedBy.UserID,
	}).Info("trip transitioned")

	return trip, nil
}

// dispatch reserves the vehicle/driver pair and snapshots the vehicle's
// live odometer into the trip.
func (s *TripService) dispatch(ctx context.Context, trip *domain.Trip) error {
	if trip.Status != domain.TripStatusDraft {
		return ErrInvalidTransition
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, trip.VehicleID)
	if err != nil {
		return err
	}
	driver, err := s.driverRepo.GetByID(ctx, trip.DriverID)
	if err != nil {
		return err
	}

	// The draft may be stale: re-check everything but capacity.
	if err := ValidateDispatchEligibility(vehicle, driver, s.now()); err != nil {
		return err
	}

	startOdometer := vehicle.OdometerKm
	trip.Status = domain.TripStatusDispatched
	trip.StartOdometerKm = &startOdometer

	return s.atomic.RunInTx(ctx, func(repos repository.TxRepos) error {
		if err := repos.Vehicles().UpdateStatus(ctx, trip.VehicleID, domain.VehicleStatusOnTrip); err != nil {
			return err
		}
		if err := repos.Drivers().UpdateStatus(ctx, trip.DriverID, domain.DriverStatusOnDuty); err != nil {
			return err
		}
		return repos.Trips().UpdateFrom(ctx, trip, domain.TripStatusDraft)
	})
}

// complete releases the vehicle/driver pair and rolls the vehicle's
// odometer forward to the reported end reading.
func (s *TripService) complete(ctx context.Context, trip *domain.Trip, endOdometerKm, revenue *float64) error {
	if trip.Status != domain.TripStatusDispatched {
		return ErrInvalidTransition
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, trip.VehicleID)
	if err != nil {
		return err
	}

	endKm := vehicle.OdometerKm
	if endOdometerKm != nil {
		endKm = *endOdometerKm
	}

	// A reading below the dispatch snapshot is a data-entry problem, not
	// grounds for rejection.
	if trip.StartOdometerKm != nil && endKm < *trip.StartOdometerKm {
		s.log.WithFields(logrus.Fields{
			"trip_id":  trip.ID,
			"start_km": *trip.StartOdometerKm,
			"end_km":   endKm,
		}).Warn("end odometer below dispatch snapshot")
	}

	trip.Status = domain.TripStatusCompleted
	trip.EndOdometerKm = &endKm
	trip.CompletedAt = s.now()
	if revenue != nil {
		trip.Revenue = revenue
	}

	return s.atomic.RunInTx(ctx, func(repos repository.TxRepos) error {
		if err := repos.Vehicles().UpdateStatusAndOdometer(ctx, trip.VehicleID, domain.VehicleStatusAvailable, endKm); err != nil {
			return err
		}
		if err := repos.Drivers().UpdateStatus(ctx, trip.DriverID, domain.DriverStatusAvailable); err != nil {
			return err
		}
		return repos.Trips().UpdateFrom(ctx, trip, domain.TripStatusDispatched)
	})
}

// cancel marks the trip CANCELLED; a dispatched trip first gets its
// reservation side effects undone in the same transaction.
func (s *TripService) cancel(ctx context.Context, trip *domain.Trip) error {
	from := trip.Status
	if from != domain.TripStatusDraft && from != domain.TripStatusDispatched {
		return ErrInvalidTransition
	}

	trip.Status = domain.TripStatusCancelled

	return s.atomic.RunInTx(ctx, func(repos repository.TxRepos) error {
		if from == domain.TripStatusDispatched {
			if err := repos.Vehicles().UpdateStatus(ctx, trip.VehicleID, domain.VehicleStatusAvailable); err != nil {
				return err
			}
			if err := repos.Drivers().UpdateStatus(ctx, trip.DriverID, domain.DriverStatusAvailable); err != nil {
				return err
			}
		}
		return repos.Trips().UpdateFrom(ctx, trip, from)
	})
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

// GetAllTrips retrieves all trips.
func (s *TripService) GetAllTrips(ctx context.Context) ([]*domain.Trip, error) {
	return s.tripRepo.GetAll(ctx)
}

func (s *TripService) invalidateReports(ctx context.Context) {
	if s.cacheStore == nil {
		return
	}
	if err := s.cacheStore.InvalidateReports(ctx); err != nil {
		s.log.WithError(err).Warn("report cache invalidation failed")
	}
}
