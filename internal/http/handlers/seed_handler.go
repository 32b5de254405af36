package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakshiot4/UrbanWatch-plus/internal/dto"
	"github.com/sakshiot4/UrbanWatch-plus/internal/service"
)

// SeedHandler fills the database with demo accounts and complaints. Wired
// only in development.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler creates the handler.
func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// Seed handles POST /seed.
func (h *SeedHandler) Seed(c *gin.Context) {
	if err := h.seed.SeedDemoData(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "demo data created",
		Data:    gin.H{"password": "Demo1234"},
	})
}
