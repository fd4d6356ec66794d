package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// VehicleHandler handles HTTP requests for the vehicle registry.
type VehicleHandler struct {
	vehicleRepo repository.VehicleRepository
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleRepo repository.VehicleRepository) *VehicleHandler {
	return &VehicleHandler{vehicleRepo: vehicleRepo}
}

// RegisterVehicleRequest is the HTTP request body for registering a vehicle.
type RegisterVehicleRequest struct {
	Name              string  `json:"name"`
	Model             string  `json:"model"`
	LicensePlate      string  `json:"license_plate"`
	VehicleType       string  `json:"vehicle_type"`
	MaxLoadCapacityKg float64 `json:"max_load_capacity_kg"`
	OdometerKm        float64 `json:"odometer_km"`
	Region            string  `json:"region,omitempty"`
	AcquisitionCost   float64 `json:"acquisition_cost,omitempty"`
}

// VehicleResponse is the HTTP response for vehicle operations.
type VehicleResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Model             string  `json:"model"`
	LicensePlate      string  `json:"license_plate"`
	VehicleType       string  `json:"vehicle_type"`
	MaxLoadCapacityKg float64 `json:"max_load_capacity_kg"`
	Status            string  `json:"status"`
	OdometerKm        float64 `json:"odometer_km"`
	Region            string  `json:"region,omitempty"`
	AcquisitionCost   float64 `json:"acquisition_cost,omitempty"`
}

func vehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                v.ID,
		Name:              v.Name,
		Model:             v.Model,
		LicensePlate:      v.LicensePlate,
		VehicleType:       string(v.Type),
		MaxLoadCapacityKg: v.MaxLoadCapacityKg,
		Status:            string(v.Status),
		OdometerKm:        v.OdometerKm,
		Region:            v.Region,
		AcquisitionCost:   v.AcquisitionCost,
	}
}

// Register handles POST /v1/vehicles
func (h *VehicleHandler) Register(c *gin.Context) {
	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.LicensePlate == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and license plate are required"})
		return
	}
	if !domain.ValidVehicleType(domain.VehicleType(req.VehicleType)) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown vehicle type"})
		return
	}
	if req.MaxLoadCapacityKg <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "max load capacity must be positive"})
		return
	}
	if req.AcquisitionCost < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "acquisition cost must not be negative"})
		return
	}

	now := time.Now()
	vehicle := &domain.Vehicle{
		ID:                uuid.New().String(),
		Name:              req.Name,
		Model:             req.Model,
		LicensePlate:      req.LicensePlate,
		Type:              domain.VehicleType(req.VehicleType),
		MaxLoadCapacityKg: req.MaxLoadCapacityKg,
		Status:            domain.VehicleStatusAvailable,
		OdometerKm:        req.OdometerKm,
		Region:            req.Region,
		AcquisitionCost:   req.AcquisitionCost,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := h.vehicleRepo.Create(c.Request.Context(), vehicle); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, vehicleResponse(vehicle))
}

// GetAll handles GET /v1/vehicles
func (h *VehicleHandler) GetAll(c *gin.Context) {
	var vehicles []*domain.Vehicle
	var err error

	if c.Query("active") == "true" {
		vehicles, err = h.vehicleRepo.GetActive(c.Request.Context())
	} else {
		vehicles, err = h.vehicleRepo.GetAll(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		response = append(response, vehicleResponse(v))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetVehicle handles GET /v1/vehicles/:id
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicleRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, vehicleResponse(vehicle))
}

// UpdateStatusRequest is the HTTP request body for vehicle status edits.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/vehicles/:id/status. Retirement is a
// status edit to OUT_OF_SERVICE; vehicles are never deleted.
func (h *VehicleHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status := domain.VehicleStatus(req.Status)
	if !domain.ValidVehicleStatus(status) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown vehicle status"})
		return
	}

	if err := h.vehicleRepo.UpdateStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		respondError(c, err)
		return
	}

	vehicle, err := h.vehicleRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, vehicleResponse(vehicle))
}
