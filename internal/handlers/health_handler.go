package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler exposes the liveness endpoint.
type HealthHandler struct {
	startTime time.Time
	version   string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{startTime: time.Now(), version: version}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}
