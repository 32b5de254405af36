package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakshiot4/UrbanWatch-plus/internal/service"
)

// TrackingHandler serves the public, unauthenticated tracking endpoints.
// Responses never leak citizen identity or internal record IDs.
type TrackingHandler struct {
	tracking *service.TrackingService
}

// NewTrackingHandler creates the handler.
func NewTrackingHandler(tracking *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking}
}

// Track handles GET /track/:token.
func (h *TrackingHandler) Track(c *gin.Context) {
	view, err := h.tracking.TrackByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// HomeStats handles GET /stats/home.
func (h *TrackingHandler) HomeStats(c *gin.Context) {
	stats, err := h.tracking.HomeStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
