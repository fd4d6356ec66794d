package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/domain"
	"fleetflow/internal/middleware"
	"fleetflow/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for creating a trip.
type CreateTripRequest struct {
	VehicleID     string  `json:"vehicle_id"`
	DriverID      string  `json:"driver_id"`
	CargoWeightKg float64 `json:"cargo_weight_kg"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	CargoID       string  `json:"cargo_id,omitempty"`
}

// TransitionTripRequest is the HTTP request body for trip transitions.
type TransitionTripRequest struct {
	Status        string   `json:"status"`
	EndOdometerKm *float64 `json:"end_odometer_km,omitempty"`
	Revenue       *float64 `json:"revenue,omitempty"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID              string   `json:"id"`
	VehicleID       string   `json:"vehicle_id"`
	DriverID        string   `json:"driver_id"`
	Status          string   `json:"status"`
	CargoWeightKg   float64  `json:"cargo_weight_kg"`
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	StartOdometerKm *float64 `json:"start_odometer_km,omitempty"`
	EndOdometerKm   *float64 `json:"end_odometer_km,omitempty"`
	Revenue         *float64 `json:"revenue,omitempty"`
	CreatedAt       string   `json:"created_at"`
	CompletedAt     string   `json:"completed_at,omitempty"`
}

func tripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:              trip.ID,
		VehicleID:       trip.VehicleID,
		DriverID:        trip.DriverID,
		Status:          string(trip.Status),
		CargoWeightKg:   trip.CargoWeightKg,
		Origin:          trip.Origin,
		Destination:     trip.Destination,
		StartOdometerKm: trip.StartOdometerKm,
		EndOdometerKm:   trip.EndOdometerKm,
		Revenue:         trip.Revenue,
		CreatedAt:       trip.CreatedAt.Format(time.RFC3339),
	}
	if !trip.CompletedAt.IsZero() {
		resp.CompletedAt = trip.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		VehicleID:     req.VehicleID,
		DriverID:      req.DriverID,
		CargoWeightKg: req.CargoWeightKg,
		Origin:        req.Origin,
		Destination:   req.Destination,
		CargoID:       req.CargoID,
		RequestedBy:   middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, tripResponse(trip))
}

// TransitionTrip handles POST /v1/trips/:id/transition
func (h *TripHandler) TransitionTrip(c *gin.Context) {
	var req TransitionTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.transition(c, domain.TripStatus(req.Status), req.EndOdometerKm, req.Revenue)
}

// DispatchTrip handles POST /v1/trips/:id/dispatch
func (h *TripHandler) DispatchTrip(c *gin.Context) {
	h.transition(c, domain.TripStatusDispatched, nil, nil)
}

// CompleteTripRequest is the HTTP request body for completing a trip.
type CompleteTripRequest struct {
	EndOdometerKm *float64 `json:"end_odometer_km,omitempty"`
	Revenue       *float64 `json:"revenue,omitempty"`
}

// CompleteTrip handles POST /v1/trips/:id/complete
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	var req CompleteTripRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	h.transition(c, domain.TripStatusCompleted, req.EndOdometerKm, req.Revenue)
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	h.transition(c, domain.TripStatusCancelled, nil, nil)
}

func (h *TripHandler) transition(c *gin.Context, next domain.TripStatus, endOdometerKm, revenue *float64) {
	trip, err := h.tripService.TransitionTrip(c.Request.Context(), service.TransitionTripRequest{
		TripID:        c.Param("id"),
		NextStatus:    next,
		EndOdometerKm: endOdometerKm,
		Revenue:       revenue,
		RequestedBy:   middleware.PrincipalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	trips, err := h.tripService.GetAllTrips(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, tripResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}
