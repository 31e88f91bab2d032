// Package handlers implements the gin HTTP handlers of the HTM core API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/htm-project/htm-core/internal/domain/htm"
	"github.com/htm-project/htm-core/internal/ports"
)

// ModelHandler exposes model lifecycle and compute operations over HTTP.
type ModelHandler struct {
	service ports.ModelService
}

// NewModelHandler creates a model handler over the given service.
func NewModelHandler(service ports.ModelService) *ModelHandler {
	return &ModelHandler{service: service}
}

// CreateModel handles POST /models.
func (h *ModelHandler) CreateModel(c *gin.Context) {
	var config htm.ModelConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed model configuration: " + err.Error()})
		return
	}
	info, err := h.service.CreateModel(&config)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// ListModels handles GET /models.
func (h *ModelHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.service.ListModels()})
}

// GetModel handles GET /models/:id.
func (h *ModelHandler) GetModel(c *gin.Context) {
	info, err := h.service.GetModel(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// DeleteModel handles DELETE /models/:id.
func (h *ModelHandler) DeleteModel(c *gin.Context) {
	if err := h.service.DeleteModel(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Compute handles POST /models/:id/compute.
func (h *ModelHandler) Compute(c *gin.Context) {
	var request htm.ComputeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed compute request: " + err.Error()})
		return
	}
	response, err := h.service.Compute(c.Param("id"), &request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Reset handles POST /models/:id/reset.
func (h *ModelHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Metrics handles GET /models/:id/metrics.
func (h *ModelHandler) Metrics(c *gin.Context) {
	metrics, err := h.service.Metrics(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// respondError maps domain error types to HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if domainErr, ok := err.(*htm.Error); ok {
		switch domainErr.Type {
		case htm.ErrorNotFound:
			status = http.StatusNotFound
		case htm.ErrorInvalidConfig, htm.ErrorInvalidInhibition, htm.ErrorInvalidInput:
			status = http.StatusBadRequest
		}
		c.JSON(status, domainErr)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
