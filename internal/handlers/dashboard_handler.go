package handlers

import (
	"net/http"

	"buspulse/internal/repository"
	"buspulse/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard service.DashboardService
	stops     repository.StopRepository
}

func NewDashboardHandler(dashboard service.DashboardService, stops repository.StopRepository) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, stops: stops}
}

// GetDashboard возвращает карточки по машинам и ряды для графиков,
// опционально в разрезе остановки (?stop_id=)
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	data, err := h.dashboard.Overview(ctx, c.Query("stop_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to build dashboard",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// ListStops - список остановок для селектора на дашборде
func (h *DashboardHandler) ListStops(c *gin.Context) {
	ctx := c.Request.Context()

	stops, err := h.stops.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to list stops",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stops":   stops,
		"count":   len(stops),
	})
}
