package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// CargoHandler handles HTTP requests for the cargo pool.
type CargoHandler struct {
	cargoRepo repository.CargoRepository
}

// NewCargoHandler creates a new CargoHandler.
func NewCargoHandler(cargoRepo repository.CargoRepository) *CargoHandler {
	return &CargoHandler{cargoRepo: cargoRepo}
}

// CreateCargoRequest is the HTTP request body for adding cargo to the pool.
type CreateCargoRequest struct {
	Description string  `json:"description"`
	WeightKg    float64 `json:"weight_kg"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
}

// CargoResponse is the HTTP response for cargo operations.
type CargoResponse struct {
	ID             string  `json:"id"`
	Description    string  `json:"description"`
	WeightKg       float64 `json:"weight_kg"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	AssignedTripID string  `json:"assigned_trip_id,omitempty"`
	Pending        bool    `json:"pending"`
}

func cargoResponse(cg *domain.Cargo) CargoResponse {
	return CargoResponse{
		ID:             cg.ID,
		Description:    cg.Description,
		WeightKg:       cg.WeightKg,
		Origin:         cg.Origin,
		Destination:    cg.Destination,
		AssignedTripID: cg.AssignedTripID,
		Pending:        cg.Pending(),
	}
}

// Create handles POST /v1/cargo
func (h *CargoHandler) Create(c *gin.Context) {
	var req CreateCargoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Description == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "description is required"})
		return
	}
	if req.WeightKg <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "weight must be positive"})
		return
	}
	if req.Origin == "" || req.Destination == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "origin and destination are required"})
		return
	}

	cargo := &domain.Cargo{
		ID:          uuid.New().String(),
		Description: req.Description,
		WeightKg:    req.WeightKg,
		Origin:      req.Origin,
		Destination: req.Destination,
		CreatedAt:   time.Now(),
	}

	if err := h.cargoRepo.Create(c.Request.Context(), cargo); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, cargoResponse(cargo))
}

// GetAll handles GET /v1/cargo. With ?pending=true only the unassigned
// pool is returned.
func (h *CargoHandler) GetAll(c *gin.Context) {
	var items []*domain.Cargo
	var err error

	if c.Query("pending") == "true" {
		items, err = h.cargoRepo.GetPending(c.Request.Context())
	} else {
		items, err = h.cargoRepo.GetAll(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CargoResponse, 0, len(items))
	for _, cg := range items {
		response = append(response, cargoResponse(cg))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetCargo handles GET /v1/cargo/:id
func (h *CargoHandler) GetCargo(c *gin.Context) {
	cargo, err := h.cargoRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, cargoResponse(cargo))
}
