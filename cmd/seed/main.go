// Command seed creates the database schema and loads a small demo fleet.
// It is safe to run repeatedly; tables are created only when missing and
// demo rows are skipped when already present.
package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fleetflow/internal/app"
	"fleetflow/internal/config"
	"fleetflow/internal/domain"
	"fleetflow/internal/repository/postgres"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS vehicles (
		id                   TEXT PRIMARY KEY,
		name                 TEXT NOT NULL,
		model                TEXT NOT NULL DEFAULT '',
		license_plate        TEXT NOT NULL,
		vehicle_type         TEXT NOT NULL,
		max_load_capacity_kg DOUBLE PRECISION NOT NULL,
		status               TEXT NOT NULL,
		odometer_km          DOUBLE PRECISION NOT NULL DEFAULT 0,
		region               TEXT,
		acquisition_cost     DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at           TIMESTAMPTZ NOT NULL,
		updated_at           TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		license_number TEXT NOT NULL,
		license_expiry TIMESTAMPTZ NOT NULL,
		vehicle_types  TEXT NOT NULL,
		status         TEXT NOT NULL,
		safety_score   INTEGER NOT NULL DEFAULT 100,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trips (
		id                TEXT PRIMARY KEY,
		vehicle_id        TEXT NOT NULL REFERENCES vehicles(id),
		driver_id         TEXT NOT NULL REFERENCES drivers(id),
		status            TEXT NOT NULL,
		cargo_weight_kg   DOUBLE PRECISION NOT NULL,
		origin            TEXT NOT NULL,
		destination       TEXT NOT NULL,
		start_odometer_km DOUBLE PRECISION,
		end_odometer_km   DOUBLE PRECISION,
		revenue           DOUBLE PRECISION,
		created_at        TIMESTAMPTZ NOT NULL,
		completed_at      TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS cargo (
		id               TEXT PRIMARY KEY,
		description      TEXT NOT NULL,
		weight_kg        DOUBLE PRECISION NOT NULL,
		origin           TEXT NOT NULL,
		destination      TEXT NOT NULL,
		assigned_trip_id TEXT,
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fuel_logs (
		id         TEXT PRIMARY KEY,
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id),
		trip_id    TEXT,
		liters     DOUBLE PRECISION NOT NULL,
		cost       DOUBLE PRECISION NOT NULL,
		date       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS maintenance_logs (
		id           TEXT PRIMARY KEY,
		vehicle_id   TEXT NOT NULL REFERENCES vehicles(id),
		description  TEXT NOT NULL,
		cost         DOUBLE PRECISION,
		performed_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id          TEXT PRIMARY KEY,
		vehicle_id  TEXT NOT NULL REFERENCES vehicles(id),
		description TEXT NOT NULL,
		amount      DOUBLE PRECISION NOT NULL,
		date        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_status ON trips(status)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_vehicle ON trips(vehicle_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fuel_logs_vehicle ON fuel_logs(vehicle_id)`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_logs_vehicle ON maintenance_logs(vehicle_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_vehicle ON expenses(vehicle_id)`,
}

func main() {
	log := logrus.New()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := app.NewDatabase(ctx, cfg.Database, nil)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.WithError(err).Fatal("failed to apply schema")
		}
	}
	log.Info("schema applied")

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&count); err != nil {
		log.WithError(err).Fatal("failed to check for existing data")
	}
	if count > 0 {
		log.WithField("vehicles", count).Info("demo data already present, skipping")
		return
	}

	if err := seedDemoData(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to seed demo data")
	}
	log.Info("demo fleet seeded")
}

func seedDemoData(ctx context.Context, db *sql.DB) error {
	now := time.Now()
	vehicleRepo := postgres.NewVehicleRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	cargoRepo := postgres.NewCargoRepository(db)

	vehicles := []*domain.Vehicle{
		{
			ID:                uuid.New().String(),
			Name:              "Van-05",
			Model:             "Ford Transit",
			LicensePlate:      "FLT-105",
			Type:              domain.VehicleTypeVan,
			MaxLoadCapacityKg: 1200,
			Status:            domain.VehicleStatusAvailable,
			OdometerKm:        45210,
			Region:            "north",
			AcquisitionCost:   38000,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.New().String(),
			Name:              "Truck-12",
			Model:             "Volvo FH16",
			LicensePlate:      "FLT-212",
			Type:              domain.VehicleTypeTruck,
			MaxLoadCapacityKg: 18000,
			Status:            domain.VehicleStatusAvailable,
			OdometerKm:        128450,
			Region:            "north",
			AcquisitionCost:   145000,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.New().String(),
			Name:              "Bike-01",
			Model:             "Honda CB500",
			LicensePlate:      "FLT-301",
			Type:              domain.VehicleTypeBike,
			MaxLoadCapacityKg: 30,
			Status:            domain.VehicleStatusAvailable,
			OdometerKm:        8920,
			Region:            "central",
			AcquisitionCost:   7500,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}
	for _, v := range vehicles {
		if err := vehicleRepo.Create(ctx, v); err != nil {
			return err
		}
	}

	drivers := []*domain.Driver{
		{
			ID:            uuid.New().String(),
			Name:          "Alex Chen",
			LicenseNumber: "DL-88231",
			LicenseExpiry: now.AddDate(2, 0, 0),
			VehicleTypes:  []domain.VehicleType{domain.VehicleTypeTruck, domain.VehicleTypeVan},
			Status:        domain.DriverStatusAvailable,
			SafetyScore:   92,
			CreatedAt:     now,
		},
		{
			ID:            uuid.New().String(),
			Name:          "Sam Rivera",
			LicenseNumber: "DL-55102",
			LicenseExpiry: now.AddDate(0, 6, 0),
			VehicleTypes:  []domain.VehicleType{domain.VehicleTypeVan, domain.VehicleTypeBike},
			Status:        domain.DriverStatusAvailable,
			SafetyScore:   88,
			CreatedAt:     now,
		},
		{
			ID:            uuid.New().String(),
			Name:          "Jordan Lee",
			LicenseNumber: "DL-70944",
			LicenseExpiry: now.AddDate(0, 0, 5),
			VehicleTypes:  []domain.VehicleType{domain.VehicleTypeBike},
			Status:        domain.DriverStatusAvailable,
			SafetyScore:   97,
			CreatedAt:     now,
		},
	}
	for _, d := range drivers {
		if err := driverRepo.Create(ctx, d); err != nil {
			return err
		}
	}

	cargoItems := []*domain.Cargo{
		{
			ID:          uuid.New().String(),
			Description: "Pallet of electronics",
			WeightKg:    850,
			Origin:      "Warehouse A",
			Destination: "Retail Hub North",
			CreatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Description: "Urgent documents",
			WeightKg:    2,
			Origin:      "Head Office",
			Destination: "Branch 7",
			CreatedAt:   now,
		},
	}
	for _, cg := range cargoItems {
		if err := cargoRepo.Create(ctx, cg); err != nil {
			return err
		}
	}

	return nil
}
