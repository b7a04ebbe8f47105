package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("dashboard stats failed")
		respondError(c, http.StatusInternalServerError, "Error fetching dashboard statistics")
		return
	}

	recent := make([]ProductResponse, len(stats.RecentProducts))
	for i := range stats.RecentProducts {
		recent[i] = productToResponse(&stats.RecentProducts[i])
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data: gin.H{
			"brandCount":     stats.BrandCount,
			"productCount":   stats.ProductCount,
			"recentProducts": recent,
		},
	})
}
