package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"fleetflow/internal/handler"
	"fleetflow/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler      *handler.TripHandler
	VehicleHandler   *handler.VehicleHandler
	DriverHandler    *handler.DriverHandler
	CargoHandler     *handler.CargoHandler
	LogHandler       *handler.LogHandler
	AnalyticsHandler *handler.AnalyticsHandler
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes. Every request must identify its principal.
	v1 := router.Group("/v1")
	v1.Use(middleware.RequirePrincipal())
	{
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/transition", deps.TripHandler.TransitionTrip)
			trips.POST("/:id/dispatch", deps.TripHandler.DispatchTrip)
			trips.POST("/:id/complete", deps.TripHandler.CompleteTrip)
			trips.POST("/:id/cancel", deps.TripHandler.CancelTrip)
		}

		vehicles := v1.Group("/vehicles")
		{
			vehicles.POST("", deps.VehicleHandler.Register)
			vehicles.GET("", deps.VehicleHandler.GetAll)
			vehicles.GET("/:id", deps.VehicleHandler.GetVehicle)
			vehicles.PATCH("/:id/status", deps.VehicleHandler.UpdateStatus)
		}

		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.DriverHandler.Enroll)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.PATCH("/:id/status", deps.DriverHandler.UpdateStatus)
		}

		cargo := v1.Group("/cargo")
		{
			cargo.POST("", deps.CargoHandler.Create)
			cargo.GET("", deps.CargoHandler.GetAll)
			cargo.GET("/:id", deps.CargoHandler.GetCargo)
		}

		fuelLogs := v1.Group("/fuel-logs")
		{
			fuelLogs.POST("", deps.LogHandler.CreateFuelLog)
			fuelLogs.GET("", deps.LogHandler.GetFuelLogs)
		}

		maintenanceLogs := v1.Group("/maintenance-logs")
		{
			maintenanceLogs.POST("", deps.LogHandler.CreateMaintenanceLog)
			maintenanceLogs.GET("", deps.LogHandler.GetMaintenanceLogs)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.POST("", deps.LogHandler.CreateExpense)
			expenses.GET("", deps.LogHandler.GetExpenses)
		}

		v1.GET("/analytics", deps.AnalyticsHandler.GetAnalytics)
		v1.GET("/alerts", deps.AnalyticsHandler.GetAlerts)
		v1.GET("/dashboard", deps.AnalyticsHandler.GetDashboard)
	}

	return router
}
