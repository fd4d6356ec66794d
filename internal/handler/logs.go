package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleetflow/internal/domain"
	"fleetflow/internal/middleware"
	"fleetflow/internal/redis"
	"fleetflow/internal/repository"
	"fleetflow/internal/service"
)

// LogHandler handles HTTP requests for the append-only cost ledgers:
// fuel logs, maintenance logs and miscellaneous expenses.
type LogHandler struct {
	fuelRepo    repository.FuelLogRepository
	maintRepo   repository.MaintenanceLogRepository
	expenseRepo repository.ExpenseRepository
	vehicleRepo repository.VehicleRepository
	maintSvc    *service.MaintenanceService
	cacheStore  redis.CacheStoreInterface
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(
	fuelRepo repository.FuelLogRepository,
	maintRepo repository.MaintenanceLogRepository,
	expenseRepo repository.ExpenseRepository,
	vehicleRepo repository.VehicleRepository,
	maintSvc *service.MaintenanceService,
	cacheStore redis.CacheStoreInterface,
) *LogHandler {
	return &LogHandler{
		fuelRepo:    fuelRepo,
		maintRepo:   maintRepo,
		expenseRepo: expenseRepo,
		vehicleRepo: vehicleRepo,
		maintSvc:    maintSvc,
		cacheStore:  cacheStore,
	}
}

func (h *LogHandler) vehicleExists(c *gin.Context, id string) bool {
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "vehicle id is required"})
		return false
	}
	if _, err := h.vehicleRepo.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "vehicle not found"})
		} else {
			respondError(c, err)
		}
		return false
	}
	return true
}

func (h *LogHandler) invalidateReports(c *gin.Context) {
	if h.cacheStore != nil {
		_ = h.cacheStore.InvalidateReports(c.Request.Context())
	}
}

// CreateFuelLogRequest is the HTTP request body for recording a refuel.
type CreateFuelLogRequest struct {
	VehicleID string  `json:"vehicle_id"`
	TripID    string  `json:"trip_id,omitempty"`
	Liters    float64 `json:"liters"`
	Cost      float64 `json:"cost"`
}

// FuelLogResponse is the HTTP response for fuel log operations.
type FuelLogResponse struct {
	ID        string  `json:"id"`
	VehicleID string  `json:"vehicle_id"`
	TripID    string  `json:"trip_id,omitempty"`
	Liters    float64 `json:"liters"`
	Cost      float64 `json:"cost"`
	Date      string  `json:"date"`
}

func fuelLogResponse(l *domain.FuelLog) FuelLogResponse {
	return FuelLogResponse{
		ID:        l.ID,
		VehicleID: l.VehicleID,
		TripID:    l.TripID,
		Liters:    l.Liters,
		Cost:      l.Cost,
		Date:      l.Date.UTC().Format(time.RFC3339),
	}
}

// CreateFuelLog handles POST /v1/fuel-logs
func (h *LogHandler) CreateFuelLog(c *gin.Context) {
	var req CreateFuelLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Liters <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "liters must be positive"})
		return
	}
	if req.Cost < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cost must not be negative"})
		return
	}
	if !h.vehicleExists(c, req.VehicleID) {
		return
	}

	log := &domain.FuelLog{
		ID:        uuid.New().String(),
		VehicleID: req.VehicleID,
		TripID:    req.TripID,
		Liters:    req.Liters,
		Cost:      req.Cost,
		Date:      time.Now(),
	}
	if err := h.fuelRepo.Create(c.Request.Context(), log); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	respondJSON(c, http.StatusCreated, fuelLogResponse(log))
}

// GetFuelLogs handles GET /v1/fuel-logs, optionally filtered by vehicle_id.
func (h *LogHandler) GetFuelLogs(c *gin.Context) {
	var logs []*domain.FuelLog
	var err error

	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		logs, err = h.fuelRepo.GetByVehicleID(c.Request.Context(), vehicleID)
	} else {
		logs, err = h.fuelRepo.GetAll(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]FuelLogResponse, 0, len(logs))
	for _, l := range logs {
		response = append(response, fuelLogResponse(l))
	}
	respondJSON(c, http.StatusOK, response)
}

// CreateMaintenanceLogRequest is the HTTP request body for logging
// maintenance work.
type CreateMaintenanceLogRequest struct {
	VehicleID   string   `json:"vehicle_id"`
	Description string   `json:"description"`
	Cost        *float64 `json:"cost,omitempty"`
}

// MaintenanceLogResponse is the HTTP response for maintenance log operations.
type MaintenanceLogResponse struct {
	ID          string   `json:"id"`
	VehicleID   string   `json:"vehicle_id"`
	Description string   `json:"description"`
	Cost        *float64 `json:"cost,omitempty"`
	PerformedAt string   `json:"performed_at"`
}

func maintenanceLogResponse(l *domain.MaintenanceLog) MaintenanceLogResponse {
	return MaintenanceLogResponse{
		ID:          l.ID,
		VehicleID:   l.VehicleID,
		Description: l.Description,
		Cost:        l.Cost,
		PerformedAt: l.PerformedAt.UTC().Format(time.RFC3339),
	}
}

// CreateMaintenanceLog handles POST /v1/maintenance-logs. The log insert
// and the vehicle's move to IN_SHOP commit together.
func (h *LogHandler) CreateMaintenanceLog(c *gin.Context) {
	var req CreateMaintenanceLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	log, err := h.maintSvc.LogMaintenance(c.Request.Context(), service.LogMaintenanceRequest{
		VehicleID:   req.VehicleID,
		Description: req.Description,
		Cost:        req.Cost,
		RequestedBy: middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, maintenanceLogResponse(log))
}

// GetMaintenanceLogs handles GET /v1/maintenance-logs, optionally filtered
// by vehicle_id.
func (h *LogHandler) GetMaintenanceLogs(c *gin.Context) {
	var logs []*domain.MaintenanceLog
	var err error

	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		logs, err = h.maintRepo.GetByVehicleID(c.Request.Context(), vehicleID)
	} else {
		logs, err = h.maintRepo.GetAll(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MaintenanceLogResponse, 0, len(logs))
	for _, l := range logs {
		response = append(response, maintenanceLogResponse(l))
	}
	respondJSON(c, http.StatusOK, response)
}

// CreateExpenseRequest is the HTTP request body for recording an expense.
type CreateExpenseRequest struct {
	VehicleID   string  `json:"vehicle_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// ExpenseResponse is the HTTP response for expense operations.
type ExpenseResponse struct {
	ID          string  `json:"id"`
	VehicleID   string  `json:"vehicle_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

func expenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		VehicleID:   e.VehicleID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date.UTC().Format(time.RFC3339),
	}
}

// CreateExpense handles POST /v1/expenses
func (h *LogHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Description == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "description is required"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be positive"})
		return
	}
	if !h.vehicleExists(c, req.VehicleID) {
		return
	}

	expense := &domain.Expense{
		ID:          uuid.New().String(),
		VehicleID:   req.VehicleID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        time.Now(),
	}
	if err := h.expenseRepo.Create(c.Request.Context(), expense); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	respondJSON(c, http.StatusCreated, expenseResponse(expense))
}

// GetExpenses handles GET /v1/expenses, optionally filtered by vehicle_id.
func (h *LogHandler) GetExpenses(c *gin.Context) {
	var expenses []*domain.Expense
	var err error

	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		expenses, err = h.expenseRepo.GetByVehicleID(c.Request.Context(), vehicleID)
	} else {
		expenses, err = h.expenseRepo.GetAll(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		response = append(response, expenseResponse(e))
	}
	respondJSON(c, http.StatusOK, response)
}
