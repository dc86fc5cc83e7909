package handlers

import (
	"net/http"
	"time"

	"math-operations-api/internal/config"

	"github.com/gin-gonic/gin"
)

// HealthCheckResponse is the body of the health endpoints
type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// Health handles GET /health and GET /api/v1/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthCheckResponse{
		Status:    "healthy",
		Version:   ServiceVersion,
		Timestamp: time.Now().UTC(),
	})
}

// Root handles GET /
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        ServiceName,
		"version":     ServiceVersion,
		"description": ServiceDescription,
		"health":      config.APIPrefix + "/health",
	})
}
