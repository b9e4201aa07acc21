package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/sprayshop/backend/internal/application/report"
)

// DashboardHandler exposes the shop overview endpoint
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Snapshot)
}

// Snapshot handles GET /dashboard
func (h *DashboardHandler) Snapshot(c *gin.Context) {
	snapshot, err := h.dashboardService.Snapshot(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, snapshot)
}
