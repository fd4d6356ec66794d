package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleetflow/internal/domain"
	"fleetflow/internal/repository"
)

// DriverHandler handles HTTP requests for the driver roster.
type DriverHandler struct {
	driverRepo repository.DriverRepository
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverRepo repository.DriverRepository) *DriverHandler {
	return &DriverHandler{driverRepo: driverRepo}
}

// EnrollDriverRequest is the HTTP request body for enrolling a driver.
type EnrollDriverRequest struct {
	Name          string   `json:"name"`
	LicenseNumber string   `json:"license_number"`
	LicenseExpiry string   `json:"license_expiry"` // RFC 3339 or YYYY-MM-DD
	VehicleTypes  []string `json:"vehicle_types"`
	SafetyScore   *int     `json:"safety_score,omitempty"`
}

// DriverResponse is the HTTP response for driver operations.
type DriverResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	LicenseNumber string   `json:"license_number"`
	LicenseExpiry string   `json:"license_expiry"`
	VehicleTypes  []string `json:"vehicle_types"`
	Status        string   `json:"status"`
	SafetyScore   int      `json:"safety_score"`
}

func driverResponse(d *domain.Driver) DriverResponse {
	types := make([]string, 0, len(d.VehicleTypes))
	for _, vt := range d.VehicleTypes {
		types = append(types, string(vt))
	}
	return DriverResponse{
		ID:            d.ID,
		Name:          d.Name,
		LicenseNumber: d.LicenseNumber,
		LicenseExpiry: d.LicenseExpiry.UTC().Format(time.RFC3339),
		VehicleTypes:  types,
		Status:        string(d.Status),
		SafetyScore:   d.SafetyScore,
	}
}

func parseExpiry(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Enroll handles POST /v1/drivers
func (h *DriverHandler) Enroll(c *gin.Context) {
	var req EnrollDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.LicenseNumber == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and license number are required"})
		return
	}
	expiry, ok := parseExpiry(req.LicenseExpiry)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid license expiry date"})
		return
	}
	if len(req.VehicleTypes) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "at least one vehicle type is required"})
		return
	}
	types := make([]domain.VehicleType, 0, len(req.VehicleTypes))
	for _, t := range req.VehicleTypes {
		vt := domain.VehicleType(t)
		if !domain.ValidVehicleType(vt) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown vehicle type"})
			return
		}
		types = append(types, vt)
	}
	score := 100
	if req.SafetyScore != nil {
		if *req.SafetyScore < 0 || *req.SafetyScore > 100 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "safety score must be between 0 and 100"})
			return
		}
		score = *req.SafetyScore
	}

	driver := &domain.Driver{
		ID:            uuid.New().String(),
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		LicenseExpiry: expiry,
		VehicleTypes:  types,
		Status:        domain.DriverStatusAvailable,
		SafetyScore:   score,
		CreatedAt:     time.Now(),
	}

	if err := h.driverRepo.Create(c.Request.Context(), driver); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, driverResponse(driver))
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, driverResponse(d))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetDriver handles GET /v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, driverResponse(driver))
}

// UpdateStatus handles PATCH /v1/drivers/:id/status. Suspension and
// off-duty rotation are manual status edits.
func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status := domain.DriverStatus(req.Status)
	if !domain.ValidDriverStatus(status) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown driver status"})
		return
	}

	if err := h.driverRepo.UpdateStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		respondError(c, err)
		return
	}

	driver, err := h.driverRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, driverResponse(driver))
}
