package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/repository"
	"fleetflow/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrVehicleNotFound),
		errors.Is(err, service.ErrDriverNotFound),
		errors.Is(err, service.ErrCargoNotFound),
		errors.Is(err, service.ErrTripNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidCargoWeight),
		errors.Is(err, service.ErrInvalidRoute),
		errors.Is(err, service.ErrInvalidRevenue),
		errors.Is(err, service.ErrInvalidOdometer),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidDescription):
		return http.StatusBadRequest

	// Precondition failures - the failing rule is surfaced verbatim
	case errors.Is(err, service.ErrVehicleNotAvailable),
		errors.Is(err, service.ErrDriverNotAvailable),
		errors.Is(err, service.ErrLicenseExpired),
		errors.Is(err, service.ErrVehicleTypeNotAuthorized),
		errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrCargoAlreadyAssigned):
		return http.StatusBadRequest

	// State machine conflicts
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrTransitionInProgress):
		return http.StatusConflict

	// Default to internal server error (store failures included)
	default:
		return http.StatusInternalServerError
	}
}
