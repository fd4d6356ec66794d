package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/service"
)

// AnalyticsHandler handles HTTP requests for the reporting endpoints.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	alertService     *service.AlertService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService, alertService *service.AlertService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		alertService:     alertService,
	}
}

// GetAnalytics handles GET /v1/analytics
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	report, err := h.analyticsService.Report(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, report)
}

// GetAlerts handles GET /v1/alerts
func (h *AnalyticsHandler) GetAlerts(c *gin.Context) {
	report, err := h.alertService.Report(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, report)
}

// GetDashboard handles GET /v1/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, dashboard)
}
